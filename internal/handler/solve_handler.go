package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sensei/internal/dto"
	"github.com/noah-isme/schedule-sensei/internal/service"
	appErrors "github.com/noah-isme/schedule-sensei/pkg/errors"
)

type solveOrchestrator interface {
	SolveTestCase(ctx context.Context, id int) (*service.SolveOutcome, error)
}

type testCaseLister interface {
	Summaries() []dto.TestCaseSummary
}

type downstreamPoster interface {
	Post(ctx context.Context, payload interface{}) error
}

// SolveHandler exposes the legacy facade: it selects a catalog bundle
// by test case id, runs a solve, and posts the decoded schedule to the
// downstream calendar app. Response shapes match the original contract.
type SolveHandler struct {
	solver     solveOrchestrator
	cases      testCaseLister
	downstream downstreamPoster
	logger     *zap.Logger
}

// NewSolveHandler constructs the handler. downstream may be nil when no
// calendar frontend is configured.
func NewSolveHandler(solver solveOrchestrator, cases testCaseLister, downstream downstreamPoster, logger *zap.Logger) *SolveHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolveHandler{solver: solver, cases: cases, downstream: downstream, logger: logger}
}

// ParseTest godoc
// @Summary Solve a registered test case
// @Description Runs the SAT scheduling pipeline for the selected catalog bundle and posts the decoded timetable downstream.
// @Tags Solver
// @Accept json
// @Produce json
// @Param payload body dto.ParseTestRequest true "Test case selector"
// @Success 200 {object} dto.ParseTestResponse
// @Router /parse-test [post]
func (h *SolveHandler) ParseTest(c *gin.Context) {
	var req dto.ParseTestRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TestCase == nil {
		c.JSON(http.StatusBadRequest, dto.ParseTestResponse{Status: "error", Message: "test_number not provided"})
		return
	}

	id := *req.TestCase
	outcome, err := h.solver.SolveTestCase(c.Request.Context(), id)
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrNotFound.Code {
			c.JSON(http.StatusOK, dto.ParseTestResponse{Status: "failure", Message: appErr.Message})
			return
		}
		h.logger.Error("solve failed", zap.Int("test_case", id), zap.Error(err))
		c.JSON(http.StatusOK, dto.ParseTestResponse{Status: "failure", Message: "An error occured while executing the sat solver"})
		return
	}

	if h.downstream != nil {
		if err := h.downstream.Post(c.Request.Context(), outcome.Views); err != nil {
			h.logger.Warn("failed to post timetable downstream", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, dto.ParseTestResponse{
		Status:  "success",
		Message: fmt.Sprintf("Test number: %d parsed", id),
	})
}

// TestCases godoc
// @Summary List registered test cases
// @Tags Solver
// @Produce json
// @Success 200 {array} dto.TestCaseSummary
// @Router /test-cases [get]
func (h *SolveHandler) TestCases(c *gin.Context) {
	c.JSON(http.StatusOK, h.cases.Summaries())
}
