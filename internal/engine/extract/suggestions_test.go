package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractsWellFormedBlock(t *testing.T) {
	raw := "Pick one.\n[SUGGESTIONS]\nYes, I do\nNot yet\n[/SUGGESTIONS]"

	clean, suggestions := ExtractSuggestions(raw)
	assert.Equal(t, "Pick one.", clean)
	assert.Equal(t, []string{"Yes, I do", "Not yet"}, suggestions)
}

func TestExtractionIsIdempotent(t *testing.T) {
	raw := "Pick one.\n[SUGGESTIONS]\nYes\nNo\n[/SUGGESTIONS]"

	clean, _ := ExtractSuggestions(raw)
	again, suggestions := ExtractSuggestions(clean)
	assert.Equal(t, clean, again)
	assert.NotContains(t, again, "[SUGGESTIONS]")
	assert.NotContains(t, strings.Join(suggestions, ""), "[")
}

func TestCapsAtFourSuggestions(t *testing.T) {
	raw := "Choose:\n[SUGGESTIONS]\nOne\nTwo\nThree\nFour\nFive\nSix\n[/SUGGESTIONS]"

	_, suggestions := ExtractSuggestions(raw)
	assert.Equal(t, []string{"One", "Two", "Three", "Four"}, suggestions)
}

func TestSkipsOverlongAndBlankLines(t *testing.T) {
	long := strings.Repeat("x", 120)
	raw := "Choose:\n[SUGGESTIONS]\n\n" + long + "\nShort\n[/SUGGESTIONS]"

	_, suggestions := ExtractSuggestions(raw)
	assert.Equal(t, []string{"Short"}, suggestions)
}

func TestMalformedBlockIsStripped(t *testing.T) {
	raw := "Here you go.\n[SUGGESTIONS]\nYes\nNo"

	clean, _ := ExtractSuggestions(raw)
	assert.Equal(t, "Here you go.", clean)
	assert.NotContains(t, clean, "[SUGGESTIONS]")
}

func TestFallbackForDurationQuestion(t *testing.T) {
	clean, suggestions := ExtractSuggestions("How long has this been going on?")

	assert.Equal(t, "How long has this been going on?", clean)
	require.Len(t, suggestions, 2)
	assert.Equal(t, []string{"A few weeks", "Several months"}, suggestions)
}

func TestFallbackForTreatmentQuestion(t *testing.T) {
	_, suggestions := ExtractSuggestions("Have you tried any treatment so far?")
	assert.Equal(t, []string{"Physical therapy", "Over-the-counter medication"}, suggestions)
}

func TestFallbackForDenialQuestion(t *testing.T) {
	_, suggestions := ExtractSuggestions("Do you have the denial letter from your insurer?")
	assert.Equal(t, []string{"I have the denial letter", "I don't have it handy"}, suggestions)
}

func TestGenericQuestionGetsGenericPair(t *testing.T) {
	_, suggestions := ExtractSuggestions("Would you like me to check that?")
	require.Len(t, suggestions, 2)
}

func TestDeclarativeTextGetsGenericPair(t *testing.T) {
	_, suggestions := ExtractSuggestions("I can look into imaging options for you next.")
	assert.Equal(t, []string{"Yes", "Not yet"}, suggestions)
}

func TestEmptyReplyYieldsNoSuggestions(t *testing.T) {
	_, suggestions := ExtractSuggestions("")
	assert.Empty(t, suggestions)
}

func TestFallbackNeverExceedsTwo(t *testing.T) {
	_, suggestions := ExtractSuggestions("Where does it hurt, and how long has it been going on?")
	assert.LessOrEqual(t, len(suggestions), 2)
}

func TestAuthoredBlockWinsOverFallback(t *testing.T) {
	raw := "How long has it been?\n[SUGGESTIONS]\nAbout a month\nOver a year\n[/SUGGESTIONS]"

	_, suggestions := ExtractSuggestions(raw)
	assert.Equal(t, []string{"About a month", "Over a year"}, suggestions)
}
