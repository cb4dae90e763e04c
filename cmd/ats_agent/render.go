package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	renderInputFile  string
	renderOutputFile string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render plain text into a LaTeX resume",
	Long:  "Renders plain text with the ATS template (or --template) without calling a provider. Writes to stdout unless --out is given.",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderInputFile, "in", "i", "", "Path to plain-text input (- for stdin)")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Path to output LaTeX file")
	_ = renderCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	text, err := a.readText(cmd, renderInputFile)
	if err != nil {
		return err
	}

	doc, err := a.renderer.Render(text)
	if err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}

	if renderOutputFile == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), doc)
		return err
	}
	return writeDocument(renderOutputFile, doc)
}
