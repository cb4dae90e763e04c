package main

import (
	"fmt"

	"github.com/jonathan/ats-tailor/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	adaptResumeFile string
	adaptJobFile    string
	adaptOutputFile string
)

var adaptCmd = &cobra.Command{
	Use:   "adapt",
	Short: "Tailor a resume to a job description",
	Long:  "Rewrites the resume for the job description with the configured provider and writes the rendered LaTeX document.",
	RunE:  runAdapt,
}

func init() {
	adaptCmd.Flags().StringVarP(&adaptResumeFile, "resume", "r", "", "Path to plain-text resume (- for stdin)")
	adaptCmd.Flags().StringVar(&adaptJobFile, "job", "", "Path to plain-text job description")
	adaptCmd.Flags().StringVarP(&adaptOutputFile, "out", "o", "resume.tex", "Path to output LaTeX file (empty to skip)")
	_ = adaptCmd.MarkFlagRequired("resume")
	_ = adaptCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(adaptCmd)
}

func runAdapt(cmd *cobra.Command, _ []string) error {
	if adaptResumeFile == "-" && adaptJobFile == "-" {
		return fmt.Errorf("--resume and --job cannot both read stdin")
	}

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	resumeText, err := a.readText(cmd, adaptResumeFile)
	if err != nil {
		return err
	}
	jobDescription, err := a.readText(cmd, adaptJobFile)
	if err != nil {
		return err
	}

	result, err := a.service.AdaptToJob(cmd.Context(), resumeText, jobDescription)
	if err != nil {
		return err
	}

	logDocumentProblems(a.logger, result.RenderedDocument)

	if adaptOutputFile != "" {
		if err := writeDocument(adaptOutputFile, result.RenderedDocument); err != nil {
			return err
		}
		a.logger.Info("wrote rendered document", zap.String("path", adaptOutputFile))
	}

	if a.cfg.JSON {
		return printJSON(cmd.OutOrStdout(), result)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintAdaptation(result)
	return nil
}
