package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-sensei/internal/models"
	appErrors "github.com/noah-isme/schedule-sensei/pkg/errors"
	"github.com/noah-isme/schedule-sensei/pkg/response"
)

type auditLister interface {
	RecentByTestCase(ctx context.Context, testCase, limit int) ([]models.SolveRecord, error)
}

// AuditHandler exposes the solve audit trail for diagnostics.
type AuditHandler struct {
	repo auditLister
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(repo auditLister) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// Recent godoc
// @Summary List recent solve runs for a test case
// @Tags Diagnostics
// @Produce json
// @Param testCase path int true "Test case id"
// @Param limit query int false "Row limit"
// @Success 200 {object} response.Envelope
// @Router /solve-audit/{testCase} [get]
func (h *AuditHandler) Recent(c *gin.Context) {
	testCase, err := strconv.Atoi(c.Param("testCase"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "test case id must be an integer"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	rows, err := h.repo.RecentByTestCase(c.Request.Context(), testCase, limit)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list solve audit entries"))
		return
	}
	response.JSON(c, http.StatusOK, rows)
}
