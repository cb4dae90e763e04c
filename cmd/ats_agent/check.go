package main

import (
	"fmt"

	"github.com/jonathan/ats-tailor/internal/types"
	"github.com/jonathan/ats-tailor/internal/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	checkInputFile string
	checkMaxChars  int
	checkForbidden []string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a LaTeX resume for compile and ATS problems",
	Long:  "Checks a LaTeX resume for a missing document skeleton, unbalanced braces, ATS-unfriendly layout, long lines and forbidden phrases. Exits non-zero when an error-level problem is found.",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkInputFile, "in", "i", "", "Path to LaTeX file")
	checkCmd.Flags().IntVar(&checkMaxChars, "max-chars", validation.DefaultMaxCharsPerLine, "Maximum characters per line")
	checkCmd.Flags().StringSliceVar(&checkForbidden, "forbid", nil, "Phrases that must not appear (repeatable)")
	_ = checkCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	violations, err := validation.CheckFile(checkInputFile, validation.Options{
		MaxCharsPerLine:  checkMaxChars,
		ForbiddenPhrases: checkForbidden,
	})
	if err != nil {
		return err
	}

	if a.cfg.JSON {
		if err := printJSON(cmd.OutOrStdout(), violations); err != nil {
			return err
		}
	} else {
		printViolations(cmd, violations)
	}

	if violations.HasErrors() {
		return fmt.Errorf("%s has %d error(s)", checkInputFile, violations.Count(types.SeverityError))
	}
	return nil
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func printViolations(cmd *cobra.Command, violations *types.Violations) {
	out := cmd.OutOrStdout()
	if len(violations.Violations) == 0 {
		fmt.Fprintln(out, "✓ No problems found")
		return
	}
	for _, v := range violations.Violations {
		fmt.Fprintf(out, "%-7s %-20s %s\n", v.Severity, v.Type, v.Details)
	}
	fmt.Fprintf(out, "%d error(s), %d warning(s)\n",
		violations.Count(types.SeverityError), violations.Count(types.SeverityWarning))
}

// logDocumentProblems logs problems in a rendered document without failing.
func logDocumentProblems(logger *zap.Logger, doc string) {
	violations := validation.CheckDocument(doc, validation.Options{})
	for _, v := range violations.Violations {
		logger.Warn("rendered document problem",
			zap.String("type", v.Type),
			zap.String("severity", v.Severity),
			zap.String("details", v.Details),
		)
	}
}
