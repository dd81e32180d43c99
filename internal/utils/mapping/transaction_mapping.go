package mapping

import (
	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
	"github.com/Maikoeliud/micro-savings-backend/internal/models"
)

// ToModelTransaction converts a domain transaction to its persistence representation.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:        d.TransactionID,
		Seq:                  d.Seq,
		Type:                 models.TransactionType(d.Type),
		Amount:               d.Amount,
		SourceAccountID:      d.SourceAccountID,
		DestinationAccountID: d.DestinationAccountID,
		Status:               string(d.Status),
		CreatedAt:            d.CreatedAt,
	}
}

// ToDomainTransaction converts a transaction row to the domain representation.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:        m.TransactionID,
		Seq:                  m.Seq,
		Type:                 domain.TransactionType(m.Type),
		Amount:               m.Amount,
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		Status:               domain.TransactionStatus(m.Status),
		CreatedAt:            m.CreatedAt,
	}
}

// ToDomainTransactionSlice converts a slice of transaction rows.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
