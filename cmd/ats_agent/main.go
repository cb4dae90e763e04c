// Package main provides the ats_agent CLI for ATS assessment and job tailoring.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/ats-tailor/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           "ats_agent",
		Short:         "ATS resume assessment and job tailoring",
		Long:          "ats_agent checks a plain-text resume for ATS compatibility and rewrites it for a job description, rendering the result as a LaTeX document.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	flags.BoolP("debug", "d", false, "verbose/debug output")
	flags.BoolP("json", "j", false, "JSON logs and JSON results on stdout")
	flags.StringP("provider", "p", "", "provider: openai, anthropic or gemini")
	flags.StringP("model", "m", "", "model override (defaults per provider)")
	flags.String("api-key", "", "provider API key (defaults to the provider's env var)")
	flags.Int("retries", 0, "retry attempts for rate limits and server errors")
	flags.StringP("template", "t", "", "LaTeX template for rendered documents")
}

// newViper returns a fresh viper instance with the CLI flags bound, so
// every run starts from defaults, the environment and its own flags.
func newViper() (*viper.Viper, error) {
	v := config.NewViper()
	for _, key := range []string{"debug", "json", "provider", "model", "api-key", "retries", "template"} {
		if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			return nil, fmt.Errorf("binding --%s: %w", key, err)
		}
	}
	if err := v.BindPFlag("server.port", serveCmd.Flags().Lookup("port")); err != nil {
		return nil, fmt.Errorf("binding --port: %w", err)
	}
	return v, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
