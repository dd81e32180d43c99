package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
	portsrepo "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/repositories"
	portssvc "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/services"
	"github.com/Maikoeliud/micro-savings-backend/internal/middleware"
)

// auditService recomputes ledger totals and reports divergence. It never
// mutates state; an unbalanced ledger is an alarm, not something to correct.
type auditService struct {
	auditRepo portsrepo.AuditRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRepository) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

// Ensure auditService implements the portssvc.AuditSvcFacade interface
var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// CheckConsistency verifies the conservation identity:
// sum(balances) == sum(successful deposits) - sum(successful withdrawals).
// Transfers net to zero across accounts and do not enter the identity.
func (s *auditService) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	totalBalance, err := s.auditRepo.TotalBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum account balances: %w", err)
	}
	totalDeposits, err := s.auditRepo.TotalAmountByType(ctx, domain.Deposit)
	if err != nil {
		return nil, fmt.Errorf("failed to sum deposits: %w", err)
	}
	totalWithdrawals, err := s.auditRepo.TotalAmountByType(ctx, domain.Withdrawal)
	if err != nil {
		return nil, fmt.Errorf("failed to sum withdrawals: %w", err)
	}
	negativeAccounts, err := s.auditRepo.NegativeBalanceAccountIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for negative balances: %w", err)
	}

	expected := totalDeposits.Sub(totalWithdrawals)
	drift := totalBalance.Sub(expected)

	report := &domain.ConsistencyReport{
		TotalBalance:     totalBalance,
		TotalDeposits:    totalDeposits,
		TotalWithdrawals: totalWithdrawals,
		ExpectedBalance:  expected,
		Drift:            drift,
		NegativeAccounts: negativeAccounts,
		Balanced:         drift.IsZero() && len(negativeAccounts) == 0,
		CheckedAt:        time.Now().UTC(),
	}

	if !report.Balanced {
		logger.Error("Ledger consistency check failed",
			slog.String("drift", drift.String()),
			slog.Int("negative_accounts", len(negativeAccounts)),
		)
	} else {
		logger.Info("Ledger consistency check passed", slog.String("total_balance", totalBalance.StringFixed(2)))
	}

	return report, nil
}
