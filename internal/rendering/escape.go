package rendering

import "strings"

// latexEscapes maps each character that is special in LaTeX body text to
// the sequence that typesets it literally. The word-like replacements end
// in {} so a following letter or space is not swallowed into the control
// word (\textasciitilde{}x, not \textasciitildex).
var latexEscapes = map[rune]string{
	'\\': `\textbackslash{}`,
	'{':  `\{`,
	'}':  `\}`,
	'#':  `\#`,
	'$':  `\$`,
	'%':  `\%`,
	'&':  `\&`,
	'^':  `\textasciicircum{}`,
	'_':  `\_`,
	'~':  `\textasciitilde{}`,
}

// EscapeLaTeX makes text safe to place in a LaTeX document body.
//
// The input is walked once, rune by rune, so the backslash and braces a
// replacement introduces are never escaped again by a later rule.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(text) + len(text)/4)
	for _, r := range text {
		if seq, ok := latexEscapes[r]; ok {
			sb.WriteString(seq)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
