package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScore(t *testing.T) {
	v, err := ParseScore("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = ParseScore(" 7.5 ")
	require.NoError(t, err)
	assert.Equal(t, 7.5, *v)

	for _, bad := range []string{"abc", "-1", "10.5", "NaN", "Inf"} {
		_, err := ParseScore(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseCount(t *testing.T) {
	n, err := ParseCount("")
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = ParseCount("4")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	_, err = ParseCount("-2")
	assert.Error(t, err)
}

func TestMeanScore(t *testing.T) {
	assert.Nil(t, MeanScore(nil, nil))
	eight, six, five := 8.0, 6.0, 5.0
	assert.Equal(t, 6.3, *MeanScore(&eight, nil, &six, &five))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, SplitList(" a, b c ;d,, "))
	assert.Nil(t, SplitList(" , "))
}

func TestFormNavigationAndSubmit(t *testing.T) {
	f := NewForm(
		Field{Label: "Score", Validate: ValidateScore},
		Field{Label: "Notes"},
	)
	f.Focus()
	assert.Equal(t, 0, f.Index())

	submitted, _ := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, submitted)
	assert.Equal(t, 1, f.Index())

	f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 0, f.Index())
	f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 1, f.Index())

	f.SetValue(0, "12")
	submitted, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, submitted)
	assert.Equal(t, 0, f.Index())
	assert.Contains(t, f.View(), "Score: must be between 0 and 10")

	f.SetValue(0, "9")
	submitted, _ = f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, submitted)
	assert.Equal(t, "9", f.Value(0))
	assert.Empty(t, f.Err())
}
