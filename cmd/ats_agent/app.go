package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/ats-tailor/internal/ats"
	"github.com/jonathan/ats-tailor/internal/config"
	"github.com/jonathan/ats-tailor/internal/ingestion"
	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/jonathan/ats-tailor/internal/observability"
	"github.com/jonathan/ats-tailor/internal/parsing"
	"github.com/jonathan/ats-tailor/internal/rendering"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the wiring shared by the commands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	renderer *rendering.Renderer
	service  *ats.Service
}

// newApp loads configuration and builds the service. When requireProvider
// is false a missing provider only logs a warning and the service starts
// unconfigured.
func newApp(requireProvider bool) (*app, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.JSON, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	renderer, err := rendering.NewRenderer(cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	opts := cfg.TransportOptions()
	opts.Logger = logger
	var sender llm.Sender = llm.NewTransport(opts)
	if cfg.Retries > 0 {
		sender = llm.NewRetrySender(sender, cfg.Retries, cfg.RetryDelay, logger)
	}

	svc := ats.NewService(sender,
		ats.WithLogger(logger),
		ats.WithNormalizer(parsing.NewNormalizer(logger, renderer)),
	)

	providerCfg, err := cfg.ProviderConfig()
	switch {
	case err == nil:
		svc.SetConfig(providerCfg)
	case requireProvider:
		return nil, err
	default:
		logger.Warn("no default provider configured", zap.Error(err))
	}

	return &app{cfg: cfg, logger: logger, renderer: renderer, service: svc}, nil
}

// readText ingests a file, or stdin when path is "-", and returns the
// cleaned text.
func (a *app) readText(cmd *cobra.Command, path string) (string, error) {
	doc, err := ingestion.Ingest(path, cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	a.logger.Debug("input loaded",
		zap.String("source", doc.Metadata.Source),
		zap.String("hash", doc.Metadata.Hash),
		zap.Int("chars", doc.Metadata.Chars),
		zap.Int("lines", doc.Metadata.Lines),
	)
	return doc.Text, nil
}

// writeDocument writes a rendered document, creating parent directories.
func writeDocument(path, doc string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
