package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/KigoJomo/privacy-peek/internal/common"
	"github.com/KigoJomo/privacy-peek/internal/model"
)

// newQuietLogger keeps pipeline chatter off the terminal while the
// progress spinner is drawing.
func newQuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <site>",
		Short: "Analyze a website's privacy practices",
		Long: `Run a one-shot analysis for a website. The site can be given as a
name, a domain, or a full URL. Recent results are served from the
local cache; otherwise the full pipeline runs against the configured
LLM provider.`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	siteInput := strings.TrimSpace(args[0])
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	eng, cleanup, err := buildEngine(store, newQuietLogger())
	if err != nil {
		return err
	}
	defer cleanup()

	job, err := store.CreateJob(ctx, siteInput)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]Analyzing %s...[reset]", siteInput)),
	)

	type result struct {
		analysis *model.SiteAnalysis
		err      error
	}
	done := make(chan result, 1)
	go func() {
		analysis, runErr := eng.Run(ctx, job.ID, siteInput)
		done <- result{analysis: analysis, err: runErr}
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var res result
	for waiting := true; waiting; {
		select {
		case res = <-done:
			waiting = false
		case <-ctx.Done():
			res = result{err: ctx.Err()}
			waiting = false
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	if res.err != nil {
		return common.NewUserError("analysis failed", res.err)
	}

	printAnalysis(res.analysis)
	return nil
}

func printAnalysis(analysis *model.SiteAnalysis) {
	fmt.Printf("%s (%s)\n", analysis.SiteName, analysis.NormalizedBaseURL)
	fmt.Printf("Overall score: %.2f / 100\n", analysis.OverallScore)
	if analysis.Reasoning != "" {
		fmt.Printf("%s\n", analysis.Reasoning)
	}
	fmt.Println()
	for _, cs := range analysis.CategoryScores {
		fmt.Printf("  %-35s %4.1f / 10\n", cs.CategoryName, cs.Score)
		if cs.Reasoning != "" {
			fmt.Printf("      %s\n", cs.Reasoning)
		}
	}
	fmt.Println()
	fmt.Printf("Policy documents: %s\n", strings.Join(analysis.PolicyDocumentURLs, ", "))
	fmt.Printf("Last analyzed: %s\n", analysis.LastAnalyzed.Format("2006-01-02 15:04 MST"))
}
