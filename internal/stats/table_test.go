package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	cols := []column{{Title: "Topic"}, {Title: "Sessions", Right: true}, {Title: "Score", Right: true}}
	rows := [][]string{
		{"Pitch", "12", "7.5"},
		{"Remote work", "3", "10.0"},
	}

	lines := formatTable(cols, rows)
	require.Len(t, lines, 3)
	assert.Equal(t, "Topic       Sessions Score", lines[0])
	assert.Equal(t, "Pitch             12   7.5", lines[1])
	assert.Equal(t, "Remote work        3  10.0", lines[2])
}

func TestFormatTableTruncatesWideCells(t *testing.T) {
	cols := []column{{Title: "Title", Max: 8}, {Title: "When"}}
	rows := [][]string{
		{"Social media and society", "today"},
		{"演讲演讲演讲", "1d ago"},
		{"Short"},
	}

	lines := formatTable(cols, rows)
	require.Len(t, lines, 4)
	assert.Equal(t, "Title    When", lines[0])
	assert.Equal(t, "Social … today", lines[1])
	assert.Equal(t, "演讲演…  1d ago", lines[2])
	assert.Equal(t, "Short", lines[3])
}

func TestFormatTableNoColumns(t *testing.T) {
	assert.Nil(t, formatTable(nil, [][]string{{"x"}}))
}

func TestDisplayWidthCountsWideRunes(t *testing.T) {
	assert.Equal(t, 4, displayWidth("演讲"))
	assert.Equal(t, 3, displayWidth("abc"))
}
