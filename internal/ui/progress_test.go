package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tir/internal/pipeline"
)

func TestProgressTracksEvents(t *testing.T) {
	events := make(chan pipeline.Event)
	model := NewProgressModel("tir opt", []string{"a.tir", "b.tir"}, events)
	m, ok := model.(*progressModel)
	require.True(t, ok)

	m.Update(eventMsg{File: "a.tir", Stage: pipeline.StagePass, Pass: "validate", Status: pipeline.StatusWorking})
	m.Update(eventMsg{File: "b.tir", Stage: pipeline.StageParse, Status: pipeline.StatusError})
	m.Update(eventMsg{File: "ghost", Stage: pipeline.StageParse, Status: pipeline.StatusDone})

	assert.Equal(t, "pass validate", m.rows[0].status)
	assert.Equal(t, "error", m.rows[1].status)
	assert.InDelta(t, 0.75, m.fraction(), 1e-9)

	view := m.View()
	assert.Contains(t, view, "tir opt")
	assert.Contains(t, view, "pass validate")
	assert.Contains(t, view, "b.tir")

	_, cmd := m.Update(doneMsg{})
	assert.NotNil(t, cmd)
	assert.True(t, m.done)
	assert.Contains(t, m.View(), "done: tir opt")
}

func TestProgressEmpty(t *testing.T) {
	m := NewProgressModel("x", nil, nil)
	assert.Empty(t, m.View())
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "validating", statusLabel(pipeline.Event{Stage: pipeline.StageValidate, Status: pipeline.StatusWorking}))
	assert.Equal(t, "running passes", statusLabel(pipeline.Event{Stage: pipeline.StagePass, Status: pipeline.StatusWorking}))
	assert.Equal(t, "queued", statusLabel(pipeline.Event{Status: pipeline.StatusQueued}))
	assert.Empty(t, statusLabel(pipeline.Event{Status: "odd"}))
	assert.Equal(t, "pass strip-names 2/3", statusLabel(pipeline.Event{
		Stage: pipeline.StagePass, Pass: "strip-names", PassIndex: 1, PassTotal: 3, Status: pipeline.StatusWorking,
	}))
}

func TestProgressAdvancesThroughPasses(t *testing.T) {
	m, ok := NewProgressModel("t", []string{"a.tir"}, nil).(*progressModel)
	require.True(t, ok)
	m.Update(eventMsg{File: "a.tir", Stage: pipeline.StagePass, Pass: "p", PassIndex: 2, PassTotal: 4, Status: pipeline.StatusWorking})
	assert.InDelta(t, 0.7, m.fraction(), 1e-9)
	m.Update(eventMsg{File: "a.tir", Stage: pipeline.StageEmit, Status: pipeline.StatusWorking})
	assert.InDelta(t, 0.9, m.fraction(), 1e-9)
	m.Update(eventMsg{File: "a.tir", Stage: pipeline.StageEmit, Status: pipeline.StatusDone})
	assert.InDelta(t, 1.0, m.fraction(), 1e-9)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	// Wide runes count as two cells.
	assert.Equal(t, "日本...", truncate("日本語のパス", 7))
}
