package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"
)

// Metadata describes one ingested input.
type Metadata struct {
	Source    string `json:"source"`    // file path or "stdin"
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest of the cleaned text
	Chars     int    `json:"chars"`
	Lines     int    `json:"lines"`
}

// NewMetadata creates metadata for cleaned content read from source.
func NewMetadata(content, source string) *Metadata {
	lines := 0
	if content != "" {
		lines = strings.Count(content, "\n") + 1
	}
	return &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
		Chars:     utf8.RuneCountInString(content),
		Lines:     lines,
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
