package services

import (
	portsrepo "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/repositories"
	portssvc "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/services"
)

// NewServiceContainer wires repositories into the full set of service facades.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		User:   NewUserService(repos.User),
		Ledger: NewLedgerService(repos.Account, repos.Ledger),
		Audit:  NewAuditService(repos.Audit),
	}
}
