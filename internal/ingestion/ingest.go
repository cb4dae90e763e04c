// Package ingestion reads résumé and job description text from files or
// standard input and normalizes it before it reaches the provider.
package ingestion

import (
	"fmt"
	"io"
	"os"
)

// StdinSource is the path that selects standard input.
const StdinSource = "-"

// maxInputBytes bounds a single input; résumés and job posts are far smaller.
const maxInputBytes = 1 << 20

// Document is cleaned input text with its metadata.
type Document struct {
	Text     string
	Metadata *Metadata
}

// Ingest reads path, or stdin when path is "-", and cleans the text.
func Ingest(path string, stdin io.Reader) (*Document, error) {
	if path == StdinSource {
		return IngestReader(stdin, "stdin")
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: file not found", path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	return IngestReader(f, path)
}

// IngestReader cleans everything read from r, labelling it with source.
func IngestReader(r io.Reader, source string) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	if len(data) > maxInputBytes {
		return nil, fmt.Errorf("failed to read %s: input exceeds %d bytes", source, maxInputBytes)
	}

	text := CleanText(string(data))
	return &Document{Text: text, Metadata: NewMetadata(text, source)}, nil
}
