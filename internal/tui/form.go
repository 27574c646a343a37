package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Field describes one input of a Form.
type Field struct {
	Label       string
	Placeholder string
	Validate    func(string) error
}

// Form is a vertical list of text inputs submitted with enter on the last
// field or ctrl+s from any field.
type Form struct {
	fields []Field
	inputs []textinput.Model
	index  int
	err    string
}

// NewForm builds a form with the first field focused.
func NewForm(fields ...Field) *Form {
	f := &Form{fields: fields, inputs: make([]textinput.Model, len(fields))}
	labelWidth := 0
	for _, field := range fields {
		labelWidth = max(labelWidth, lipgloss.Width(field.Label))
	}
	for i, field := range fields {
		input := textinput.New()
		input.Prompt = field.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(field.Label)) + ": "
		input.Placeholder = field.Placeholder
		input.CharLimit = 0
		input.Cursor.SetMode(cursor.CursorBlink)
		f.inputs[i] = input
	}
	return f
}

// Focus focuses the current field.
func (f *Form) Focus() tea.Cmd {
	return f.setIndex(f.index)
}

// Index is the focused field.
func (f *Form) Index() int { return f.index }

// Value returns the trimmed value of field i.
func (f *Form) Value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return strings.TrimSpace(f.inputs[i].Value())
}

// SetValue replaces the value of field i.
func (f *Form) SetValue(i int, v string) {
	if i >= 0 && i < len(f.inputs) {
		f.inputs[i].SetValue(v)
	}
}

// SetError shows msg under the form until the next edit.
func (f *Form) SetError(msg string) { f.err = msg }

// Err is the message currently shown.
func (f *Form) Err() string { return f.err }

// Update handles a key. submitted is true once every field validated and the
// user asked to submit.
func (f *Form) Update(msg tea.KeyMsg) (submitted bool, cmd tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		return false, f.setIndex(f.index + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return false, f.setIndex(f.index - 1)
	case tea.KeyCtrlS:
		return f.submit()
	case tea.KeyEnter:
		if f.index == len(f.inputs)-1 {
			return f.submit()
		}
		return false, f.setIndex(f.index + 1)
	}
	f.err = ""
	f.inputs[f.index], cmd = f.inputs[f.index].Update(msg)
	return false, cmd
}

func (f *Form) submit() (bool, tea.Cmd) {
	for i, field := range f.fields {
		if field.Validate == nil {
			continue
		}
		if err := field.Validate(f.Value(i)); err != nil {
			f.err = fmt.Sprintf("%s: %v", field.Label, err)
			return false, f.setIndex(i)
		}
	}
	f.err = ""
	return true, nil
}

func (f *Form) setIndex(idx int) tea.Cmd {
	count := len(f.inputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	f.index = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.index {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

// View renders the inputs and any error.
func (f *Form) View() string {
	lines := make([]string, 0, len(f.inputs)+1)
	for _, input := range f.inputs {
		lines = append(lines, input.View())
	}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}

// ValidateScore accepts an empty value or a number in [0, 10].
func ValidateScore(s string) error {
	_, err := ParseScore(s)
	return err
}

// ValidateCount accepts an empty value or a non-negative integer.
func ValidateCount(s string) error {
	_, err := ParseCount(s)
	return err
}

// ParseScore parses a 0-10 score. Empty input means no score.
func ParseScore(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("not a number")
	}
	if v < 0 || v > 10 {
		return nil, fmt.Errorf("must be between 0 and 10")
	}
	return &v, nil
}

// ParseCount parses a non-negative integer. Empty input is 0.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return n, nil
}

// MeanScore averages the non-nil scores rounded to one decimal, or nil when
// none are set.
func MeanScore(scores ...*float64) *float64 {
	var sum float64
	n := 0
	for _, s := range scores {
		if s != nil {
			sum += *s
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := math.Round(sum/float64(n)*10) / 10
	return &mean
}

// SplitList splits a comma or semicolon separated list, dropping blanks.
func SplitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
