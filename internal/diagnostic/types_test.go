package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	var d Diagnostics

	assert.False(t, d.HasErrors())
	assert.NoError(t, d.Err())

	d.AddWarning("unused", "entry is never read", "mapping", "id")
	assert.False(t, d.HasErrors())
	assert.NoError(t, d.Err())
	assert.Equal(t, []string{"[mapping] id: [unused] entry is never read"}, d.WarningMessages())

	d.AddError("duplicate_target", "target declared twice", "mapping", "id")
	d.AddErrorf("not_a_function", "aggregations", "total", "expected a function, got %T", 3)

	require.True(t, d.HasErrors())
	assert.Equal(t, []string{
		"[mapping] id: [duplicate_target] target declared twice",
		"[aggregations] total: [not_a_function] expected a function, got int",
	}, d.Messages())
	assert.EqualError(t, d.Err(),
		"[mapping] id: [duplicate_target] target declared twice; "+
			"[aggregations] total: [not_a_function] expected a function, got int")
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(42).String())
}
