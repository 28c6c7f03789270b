package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sensei/internal/catalog"
	"github.com/noah-isme/schedule-sensei/internal/models"
	"github.com/noah-isme/schedule-sensei/internal/sat"
	"github.com/noah-isme/schedule-sensei/internal/solver"
	"github.com/noah-isme/schedule-sensei/internal/timetable"
	appErrors "github.com/noah-isme/schedule-sensei/pkg/errors"
)

const (
	// Solve outcomes as recorded by metrics and the audit trail.
	OutcomeSat   = "sat"
	OutcomeUnsat = "unsat"
	OutcomeError = "error"
)

type auditRecorder interface {
	Record(ctx context.Context, rec models.SolveRecord) error
}

// SolveOutcome is the result of one solve run: the theory handle for
// diagnostics and, on SAT, the decoded schedule with its calendar view.
type SolveOutcome struct {
	SolveID     string
	TestCase    int
	Satisfiable bool
	Schedule    sat.Schedule
	Views       []timetable.StudentView
	Handle      *solver.Handle
	Catalog     *catalog.Catalog
	Duration    time.Duration
}

// SolveServiceConfig governs bundle resolution.
type SolveServiceConfig struct {
	DataDir string
}

// SolveService runs the full pipeline: ingest the catalog bundle,
// encode the theory, dispatch to the SAT backend and decode the model.
// One solve is an atomic synchronous sequence; every run owns a fresh
// registry and theory.
type SolveService struct {
	cases    *TestCaseService
	loader   *catalog.Loader
	metrics  *MetricsService
	cache    *CacheService
	audit    auditRecorder
	validate *validator.Validate
	logger   *zap.Logger
	dataDir  string
}

// NewSolveService wires solver dependencies. The audit recorder may be
// nil when the audit trail is disabled.
func NewSolveService(
	cases *TestCaseService,
	loader *catalog.Loader,
	metrics *MetricsService,
	cache *CacheService,
	audit auditRecorder,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg SolveServiceConfig,
) *SolveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loader == nil {
		loader = catalog.NewLoader(validate, logger)
	}
	return &SolveService{
		cases:    cases,
		loader:   loader,
		metrics:  metrics,
		cache:    cache,
		audit:    audit,
		validate: validate,
		logger:   logger,
		dataDir:  cfg.DataDir,
	}
}

// SolveTestCase resolves a registered test case to its catalog bundle
// and solves it.
func (s *SolveService) SolveTestCase(ctx context.Context, id int) (*SolveOutcome, error) {
	tc, ok := s.cases.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Test number: %d does not exists", id))
	}
	location := tc.Location
	if s.dataDir != "" && !filepath.IsAbs(location) {
		location = filepath.Join(s.dataDir, location)
	}
	cat, err := s.loader.Load(location)
	if err != nil {
		return nil, err
	}
	return s.SolveCatalog(ctx, id, cat)
}

// SolveCatalog encodes and solves an already-ingested catalog.
func (s *SolveService) SolveCatalog(ctx context.Context, testCase int, cat *catalog.Catalog) (*SolveOutcome, error) {
	start := time.Now()

	encoder := sat.NewEncoder(cat, s.logger)
	encoder.Encode()
	theory := encoder.Theory()

	if theory.NumVars() == 0 {
		s.observe(ctx, testCase, cat, theory.NumVars(), len(theory.Clauses()), OutcomeError, time.Since(start))
		return nil, appErrors.Clone(appErrors.ErrCompile,
			"theory is empty: does the student wish to take any courses?")
	}

	handle := solver.NewHandle(theory.Clauses(), theory.NumVars())
	model, satisfiable := handle.Solve()

	outcome := &SolveOutcome{
		SolveID:     uuid.NewString(),
		TestCase:    testCase,
		Satisfiable: satisfiable,
		Handle:      handle,
		Catalog:     cat,
	}
	if satisfiable {
		outcome.Schedule = sat.Decode(model, encoder.Registry(), cat)
		outcome.Views = timetable.Build(outcome.Schedule, cat, time.Now())
	}
	outcome.Duration = time.Since(start)

	label := OutcomeUnsat
	if satisfiable {
		label = OutcomeSat
	}
	s.observe(ctx, testCase, cat, theory.NumVars(), len(theory.Clauses()), label, outcome.Duration)

	s.logger.Info("solve finished",
		zap.String("solve_id", outcome.SolveID),
		zap.Int("test_case", testCase),
		zap.Bool("satisfiable", satisfiable),
		zap.Int("variables", theory.NumVars()),
		zap.Int("clauses", len(theory.Clauses())),
		zap.Duration("duration", outcome.Duration))

	return outcome, nil
}

// CountSolutions returns the model count of a solved theory, consulting
// the diagnostic cache when enabled.
func (s *SolveService) CountSolutions(ctx context.Context, outcome *SolveOutcome) int {
	key := fmt.Sprintf("solvecount:%d:%d:%d", outcome.TestCase, outcome.Handle.NumVars(), outcome.Handle.NumClauses())
	var cached int
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached
	}
	count := outcome.Handle.CountSolutions()
	_ = s.cache.Set(ctx, key, count, 0)
	return count
}

func (s *SolveService) observe(ctx context.Context, testCase int, cat *catalog.Catalog, variables, clauses int, outcome string, duration time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveSolve(outcome, duration, variables, clauses)
	}
	if s.audit != nil {
		rec := models.SolveRecord{
			ID:           uuid.NewString(),
			TestCase:     testCase,
			StudentCount: len(cat.Students),
			Variables:    variables,
			Clauses:      clauses,
			Outcome:      outcome,
			DurationMS:   duration.Milliseconds(),
		}
		if err := s.audit.Record(ctx, rec); err != nil {
			s.logger.Warn("failed to record solve audit entry", zap.Error(err))
		}
	}
}
