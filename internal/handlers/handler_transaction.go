package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Maikoeliud/micro-savings-backend/internal/apperrors"
	portssvc "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/services"
	"github.com/Maikoeliud/micro-savings-backend/internal/dto"
	"github.com/Maikoeliud/micro-savings-backend/internal/middleware"
	"github.com/Maikoeliud/micro-savings-backend/internal/utils/accounting"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// transactionHandler handles HTTP requests for money-movement operations.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ls portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{
		ledgerService: ls,
	}
}

// registerTransactionRoutes registers all money-movement routes.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ledgerService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/deposit", h.deposit)
		transactions.POST("/withdraw", h.withdraw)
		transactions.POST("/transfer", h.transfer)
	}
}

// bindingErrorMessage turns gin binding failures into a readable message,
// listing the offending fields when the failure is a validation error.
func bindingErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]string, len(validationErrs))
		for i, fe := range validationErrs {
			fields[i] = fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag())
		}
		return "Invalid request: " + strings.Join(fields, ", ")
	}
	return "Invalid request format: " + err.Error()
}

// respondOperationError maps service errors from money-movement operations to
// HTTP statuses. Rejections persist nothing, so the idempotency key stays
// reusable and 4xx responses are safe to retry after correcting the request.
func respondOperationError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrSelfTransfer),
		errors.Is(err, apperrors.ErrInsufficientFunds):
		logger.Warn("Operation rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Operation target not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, apperrors.ErrLockTimeout):
		logger.Warn("Operation timed out waiting for account locks", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": "Operation timed out waiting for contended accounts, please retry"})
	default:
		logger.Error("Operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}

// respondCommitted writes the committed record: 201 for a fresh commit, 200
// for a replay of a previously committed record.
func respondCommitted(c *gin.Context, txn dto.TransactionResponse, replayed bool) {
	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	c.JSON(status, txn)
}

// deposit credits a user's account.
func (h *transactionHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for deposit request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	amount, err := accounting.ParseAmount(req.Amount)
	if err != nil {
		logger.Warn("Deposit amount rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger = logger.With(slog.String("transaction_id", req.TransactionID))
	logger.Info("Received deposit request", slog.String("user_id", req.UserID))

	txn, replayed, err := h.ledgerService.Deposit(c.Request.Context(), req.UserID, amount, req.TransactionID)
	if err != nil {
		respondOperationError(c, logger, err)
		return
	}

	respondCommitted(c, dto.ToTransactionResponse(txn, replayed), replayed)
}

// withdraw debits a user's account.
func (h *transactionHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for withdraw request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	amount, err := accounting.ParseAmount(req.Amount)
	if err != nil {
		logger.Warn("Withdrawal amount rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger = logger.With(slog.String("transaction_id", req.TransactionID))
	logger.Info("Received withdraw request", slog.String("user_id", req.UserID))

	txn, replayed, err := h.ledgerService.Withdraw(c.Request.Context(), req.UserID, amount, req.TransactionID)
	if err != nil {
		respondOperationError(c, logger, err)
		return
	}

	respondCommitted(c, dto.ToTransactionResponse(txn, replayed), replayed)
}

// transfer moves money between two users' accounts atomically.
func (h *transactionHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transfer request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	amount, err := accounting.ParseAmount(req.Amount)
	if err != nil {
		logger.Warn("Transfer amount rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger = logger.With(slog.String("transaction_id", req.TransactionID))
	logger.Info("Received transfer request",
		slog.String("from_user_id", req.FromUserID),
		slog.String("to_user_id", req.ToUserID),
	)

	txn, replayed, err := h.ledgerService.Transfer(c.Request.Context(), req.FromUserID, req.ToUserID, amount, req.TransactionID)
	if err != nil {
		respondOperationError(c, logger, err)
		return
	}

	respondCommitted(c, dto.ToTransactionResponse(txn, replayed), replayed)
}
