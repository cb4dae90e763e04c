// Package validation checks rendered LaTeX resumes for problems that break
// compilation or ATS parsing.
package validation

import (
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/ats-tailor/internal/types"
)

// DefaultMaxCharsPerLine is the content width above which a line is reported.
const DefaultMaxCharsPerLine = 100

// Options configures a document check.
type Options struct {
	MaxCharsPerLine  int      // zero selects DefaultMaxCharsPerLine
	ForbiddenPhrases []string // case-insensitive, matched against unescaped text
}

// CheckDocument runs every check against doc. The result is never nil.
func CheckDocument(doc string, opts Options) *types.Violations {
	maxChars := opts.MaxCharsPerLine
	if maxChars <= 0 {
		maxChars = DefaultMaxCharsPerLine
	}

	lines := strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n")

	var all []types.Violation
	all = append(all, CheckStructure(lines)...)
	all = append(all, CheckATSConstructs(lines)...)
	all = append(all, CheckLineLengths(lines, maxChars)...)
	all = append(all, CheckForbiddenPhrases(lines, opts.ForbiddenPhrases)...)

	if all == nil {
		all = []types.Violation{}
	}
	return &types.Violations{Violations: all}
}

// CheckFile reads a LaTeX file and checks it.
func CheckFile(texPath string, opts Options) (*types.Violations, error) {
	content, err := os.ReadFile(texPath)
	if err != nil {
		return nil, &FileReadError{
			Message: fmt.Sprintf("failed to read LaTeX file: %s", texPath),
			Cause:   err,
		}
	}
	return CheckDocument(string(content), opts), nil
}

// stripComment removes a trailing LaTeX comment, honoring escaped percent signs.
func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++ // skip the escaped character
		case '%':
			return line[:i]
		}
	}
	return line
}

// intPtr returns a pointer to an integer
func intPtr(i int) *int {
	return &i
}
