package main

import (
	"github.com/jonathan/ats-tailor/internal/observability"
	"github.com/spf13/cobra"
)

var assessResumeFile string

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Assess a resume for ATS compatibility",
	Long:  "Sends the resume text to the configured provider and prints a compliance verdict, a 0-100 score, issues and suggestions.",
	RunE:  runAssess,
}

func init() {
	assessCmd.Flags().StringVarP(&assessResumeFile, "resume", "r", "", "Path to plain-text resume (- for stdin)")
	_ = assessCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, _ []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	resumeText, err := a.readText(cmd, assessResumeFile)
	if err != nil {
		return err
	}

	result, err := a.service.AssessFormat(cmd.Context(), resumeText)
	if err != nil {
		return err
	}

	if a.cfg.JSON {
		return printJSON(cmd.OutOrStdout(), result)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintAssessment(result)
	return nil
}
