package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViolations_Count(t *testing.T) {
	v := &Violations{Violations: []Violation{
		{Type: "line_too_long", Severity: SeverityWarning},
		{Type: "ats_unfriendly", Severity: SeverityWarning},
		{Type: "unbalanced_braces", Severity: SeverityError},
	}}

	assert.Equal(t, 2, v.Count(SeverityWarning))
	assert.Equal(t, 1, v.Count(SeverityError))
	assert.True(t, v.HasErrors())
}

func TestViolations_Empty(t *testing.T) {
	var v *Violations
	assert.False(t, v.HasErrors())
	assert.False(t, (&Violations{}).HasErrors())
}

func TestViolation_OptionalFieldsOmitted(t *testing.T) {
	data, err := json.Marshal(Violation{Type: "missing_section", Severity: SeverityError, Details: "no body"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "line_number")
	assert.NotContains(t, string(data), "char_count")
}
