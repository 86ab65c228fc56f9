package observ

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("parse")
	tm.End(idx, "a.tir")
	err := tm.Measure("pass:validate", func() error { return errors.New("boom") })
	require.Error(t, err)

	r := tm.Report()
	require.Len(t, r.Phases, 2)
	assert.Equal(t, "parse", r.Phases[0].Name)
	assert.Equal(t, "a.tir", r.Phases[0].Note)
	assert.Equal(t, "failed", r.Phases[1].Note)
	assert.Contains(t, tm.Summary(), "pass:validate")
	assert.Contains(t, tm.Summary(), "total")
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	assert.Equal(t, -1, tm.Begin("x"))
	tm.End(0, "")
	assert.NoError(t, tm.Measure("x", func() error { return nil }))
	assert.Empty(t, tm.Report().Phases)
}
