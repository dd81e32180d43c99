package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/services"
	"github.com/Maikoeliud/micro-savings-backend/internal/dto"
	"github.com/Maikoeliud/micro-savings-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// auditHandler handles HTTP requests for ledger consistency checks.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

// registerAuditRoutes registers the audit routes.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := &auditHandler{auditService: auditService}

	audit := rg.Group("/audit")
	{
		audit.GET("/consistency", h.checkConsistency)
	}
}

// checkConsistency runs the global ledger consistency check and returns the report.
func (h *auditHandler) checkConsistency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.auditService.CheckConsistency(c.Request.Context())
	if err != nil {
		logger.Error("Consistency check failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run consistency check"})
		return
	}

	c.JSON(http.StatusOK, dto.ToConsistencyReportResponse(report))
}
