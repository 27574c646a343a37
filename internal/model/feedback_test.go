package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackValidate(t *testing.T) {
	require.NoError(t, NewPracticeFeedback(PracticeFeedback{Strengths: []string{"clear"}}).Validate())
	require.NoError(t, NewDebateFeedback(DebateFeedback{UserPoints: 3}).Validate())

	var nilFeedback *Feedback
	require.NoError(t, nilFeedback.Validate())

	mismatched := &Feedback{Kind: FeedbackPractice, Debate: &DebateFeedback{}}
	assert.ErrorIs(t, mismatched.Validate(), ErrInvalidFeedback)

	unknown := &Feedback{Kind: "poetry"}
	assert.ErrorIs(t, unknown.Validate(), ErrInvalidFeedback)

	negative := NewDebateFeedback(DebateFeedback{UserPoints: -1})
	assert.ErrorIs(t, negative.Validate(), ErrInvalidFeedback)
}

func TestFeedbackEncodeDecode(t *testing.T) {
	in := NewDebateFeedback(DebateFeedback{Summary: "close round", UserPoints: 4, OpponentPts: 3})
	raw, err := EncodeFeedback(in)
	require.NoError(t, err)
	assert.Contains(t, raw, `"kind":"debate"`)

	out, err := DecodeFeedback(raw)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, out)

	empty, err := DecodeFeedback("")
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = DecodeFeedback(`{"kind":"debate"}`)
	assert.ErrorIs(t, err, ErrInvalidFeedback)

	_, err = DecodeFeedback(`not json`)
	assert.ErrorIs(t, err, ErrInvalidFeedback)
}

func TestDecodePreferencesKeepsDefaults(t *testing.T) {
	prefs, err := DecodePreferences(`{"theme":"dark"}`)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, prefs.Theme)
	assert.Equal(t, "en", prefs.Language)
	assert.True(t, prefs.PracticeReminders)

	_, err = DecodePreferences(`{"theme":"neon"}`)
	assert.ErrorIs(t, err, ErrInvalidPreferences)

	_, err = EncodePreferences(Preferences{Theme: ThemeLight})
	assert.ErrorIs(t, err, ErrInvalidPreferences)
}
