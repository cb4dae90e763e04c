package main

import (
	"context"
	"fmt"

	"github.com/jonathan/ats-tailor/internal/observability"
	"github.com/jonathan/ats-tailor/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	reviewResumeFile string
	reviewJobFile    string
	reviewOutputFile string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Assess and tailor a resume in one run",
	Long:  "Runs the ATS assessment and the job adaptation concurrently against the same provider configuration.",
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().StringVarP(&reviewResumeFile, "resume", "r", "", "Path to plain-text resume (- for stdin)")
	reviewCmd.Flags().StringVar(&reviewJobFile, "job", "", "Path to plain-text job description")
	reviewCmd.Flags().StringVarP(&reviewOutputFile, "out", "o", "", "Path to output LaTeX file (optional)")
	_ = reviewCmd.MarkFlagRequired("resume")
	_ = reviewCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(reviewCmd)
}

// reviewResult is the combined output of the review command.
type reviewResult struct {
	Assessment *types.ATSAssessment    `json:"assessment"`
	Adaptation *types.AdaptationResult `json:"adaptation"`
}

func runReview(cmd *cobra.Command, _ []string) error {
	if reviewResumeFile == "-" && reviewJobFile == "-" {
		return fmt.Errorf("--resume and --job cannot both read stdin")
	}

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	resumeText, err := a.readText(cmd, reviewResumeFile)
	if err != nil {
		return err
	}
	jobDescription, err := a.readText(cmd, reviewJobFile)
	if err != nil {
		return err
	}

	result, err := review(cmd.Context(), a, resumeText, jobDescription)
	if err != nil {
		return err
	}

	logDocumentProblems(a.logger, result.Adaptation.RenderedDocument)

	if reviewOutputFile != "" {
		if err := writeDocument(reviewOutputFile, result.Adaptation.RenderedDocument); err != nil {
			return err
		}
		a.logger.Info("wrote rendered document", zap.String("path", reviewOutputFile))
	}

	if a.cfg.JSON {
		return printJSON(cmd.OutOrStdout(), result)
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintAssessment(result.Assessment)
	printer.PrintAdaptation(result.Adaptation)
	return nil
}

// review runs both operations concurrently over one config snapshot. The
// first failure cancels the other call.
func review(ctx context.Context, a *app, resumeText, jobDescription string) (*reviewResult, error) {
	cfg, ok := a.service.Config()
	if !ok {
		// surfaces the facade's configuration error
		_, err := a.service.AssessFormat(ctx, resumeText)
		return nil, err
	}

	var result reviewResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		assessment, err := a.service.AssessFormatWith(gctx, cfg, resumeText)
		if err != nil {
			return fmt.Errorf("assessment failed: %w", err)
		}
		result.Assessment = assessment
		return nil
	})
	g.Go(func() error {
		adaptation, err := a.service.AdaptToJobWith(gctx, cfg, resumeText, jobDescription)
		if err != nil {
			return fmt.Errorf("adaptation failed: %w", err)
		}
		result.Adaptation = adaptation
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}
