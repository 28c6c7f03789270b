// Command console runs the scheduler interactively: it lists the
// registered test cases, prompts for an id, solves it and prints the
// resulting course selection to the terminal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sensei/internal/models"
	"github.com/noah-isme/schedule-sensei/internal/service"
	"github.com/noah-isme/schedule-sensei/internal/timetable"
	"github.com/noah-isme/schedule-sensei/pkg/config"
	"github.com/noah-isme/schedule-sensei/pkg/export"
	"github.com/noah-isme/schedule-sensei/pkg/logger"
)

const (
	colorHeader = "\033[95m"
	colorBlue   = "\033[94m"
	colorGreen  = "\033[92m"
	colorWarn   = "\033[93m"
	colorFail   = "\033[91m"
	colorEnd    = "\033[0m"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.Log.Format = "console"

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	caseSvc, err := service.NewTestCaseService(cfg.Catalog.TestsConfigPath, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to load test case registry", "error", err)
	}

	solveSvc := service.NewSolveService(
		caseSvc,
		nil,
		nil,
		nil,
		nil,
		validator.New(),
		logr,
		service.SolveServiceConfig{DataDir: cfg.Catalog.DataDir},
	)

	var pdfDir string
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		if args[i] == "-pdf" && i+1 < len(args) {
			pdfDir = args[i+1]
			i++
		}
	}

	fmt.Printf("%sWelcome to the Schedule Sensei!%s\n", colorGreen, colorEnd)
	reader := bufio.NewReader(os.Stdin)
	for {
		id, exit := promptTestCase(reader, caseSvc)
		if exit {
			return
		}

		outcome, err := solveSvc.SolveTestCase(context.Background(), id)
		if err != nil {
			fmt.Printf("%s%v%s\n\n", colorFail, err, colorEnd)
			os.Exit(1)
		}

		fmt.Printf("\nSatisfiable: %t\n", outcome.Satisfiable)
		fmt.Printf("# Solutions: %d\n", solveSvc.CountSolutions(context.Background(), outcome))

		if !outcome.Satisfiable {
			fmt.Printf("%sNo Solutions%s\n\n", colorFail, colorEnd)
			continue
		}

		if cfg.Solver.ShowPropositions {
			logr.Debug("model decoded", zap.Int("students", len(outcome.Schedule)))
		}

		fmt.Println("   Solution:")
		fmt.Println()
		printSelection(outcome)
		fmt.Println()

		if pdfDir != "" {
			writePDF(pdfDir, id, outcome, logr)
		}
	}
}

func promptTestCase(reader *bufio.Reader, cases *service.TestCaseService) (int, bool) {
	for _, tc := range cases.List() {
		fmt.Printf("%sId: %s%d  %sName:%s %s %sDescription:%s %s\n",
			colorGreen, colorBlue, tc.ID, colorHeader, colorEnd, tc.Test, colorHeader, colorEnd, tc.Description)
	}
	prompt := fmt.Sprintf("%sPlease enter a test case id from the above list %sor e to exit:%s ", colorWarn, colorFail, colorEnd)
	for {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, true
		}
		line = strings.TrimSpace(line)
		if strings.EqualFold(line, "e") {
			return 0, true
		}
		id, err := strconv.Atoi(line)
		if err == nil {
			if _, ok := cases.Get(id); ok {
				fmt.Printf("%sExecuting test case: %d%s\n", colorGreen, id, colorEnd)
				return id, false
			}
		}
		prompt = fmt.Sprintf("%sInvalid input %q. Please enter a valid test case id or 'e' to exit: %s", colorFail, line, colorEnd)
	}
}

func printSelection(outcome *service.SolveOutcome) {
	names := make([]string, 0, len(outcome.Schedule))
	for name := range outcome.Schedule {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		terms := outcome.Schedule[name]
		fmt.Printf("%s%s:%s Has been enrolled in %sFall:%s%v%s, %sWinter:%s%v%s, %sSummer:%s%v%s\n",
			colorHeader, name, colorEnd,
			colorHeader, colorBlue, terms[models.TermFall], colorEnd,
			colorHeader, colorBlue, terms[models.TermWinter], colorEnd,
			colorHeader, colorBlue, terms[models.TermSummer], colorEnd)
	}
}

func writePDF(dir string, id int, outcome *service.SolveOutcome, logr *zap.Logger) {
	data := timetable.Dataset(outcome.Views)
	payload, err := export.NewPDFExporter().Render(data, fmt.Sprintf("Test case %d", id))
	if err != nil {
		logr.Warn("failed to render timetable pdf", zap.Error(err))
		return
	}
	path := fmt.Sprintf("%s/timetable-%d.pdf", strings.TrimRight(dir, "/"), id)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		logr.Warn("failed to write timetable pdf", zap.Error(err))
		return
	}
	fmt.Printf("%sTimetable written to %s%s\n", colorGreen, path, colorEnd)
}
