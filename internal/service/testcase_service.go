package service

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sensei/internal/dto"
	"github.com/noah-isme/schedule-sensei/internal/models"
	appErrors "github.com/noah-isme/schedule-sensei/pkg/errors"
)

// TestCaseService loads and serves the test-case registry
// (tests.config.json), which names the catalog bundle behind each id.
type TestCaseService struct {
	cases  map[int]models.TestCase
	order  []int
	logger *zap.Logger
}

// NewTestCaseService reads the registry file.
func NewTestCaseService(path string, logger *zap.Logger) (*TestCaseService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIngestion.Code, appErrors.ErrIngestion.Status, "failed to read test case registry")
	}
	var cases []models.TestCase
	if err := json.Unmarshal(raw, &cases); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIngestion.Code, appErrors.ErrIngestion.Status, "malformed test case registry")
	}

	svc := &TestCaseService{cases: map[int]models.TestCase{}, logger: logger}
	for _, tc := range cases {
		if _, exists := svc.cases[tc.ID]; exists {
			logger.Warn("duplicate test case id", zap.Int("id", tc.ID))
			continue
		}
		svc.cases[tc.ID] = tc
		svc.order = append(svc.order, tc.ID)
	}
	sort.Ints(svc.order)
	return svc, nil
}

// List returns all registered test cases ordered by id.
func (s *TestCaseService) List() []models.TestCase {
	out := make([]models.TestCase, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.cases[id])
	}
	return out
}

// Get resolves a test case id.
func (s *TestCaseService) Get(id int) (models.TestCase, bool) {
	tc, ok := s.cases[id]
	return tc, ok
}

// Summaries projects the registry into the listing contract.
func (s *TestCaseService) Summaries() []dto.TestCaseSummary {
	out := make([]dto.TestCaseSummary, 0, len(s.order))
	for _, id := range s.order {
		tc := s.cases[id]
		out = append(out, dto.TestCaseSummary{ID: strconv.Itoa(tc.ID), Name: tc.Test})
	}
	return out
}
