package mapping

import (
	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
	"github.com/Maikoeliud/micro-savings-backend/internal/models"
)

// ToModelUser converts a domain user to its persistence representation.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:    d.UserID,
		Name:      d.Name,
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// ToDomainUser converts a user row to the domain representation.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:    m.UserID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
