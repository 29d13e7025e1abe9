package text

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainOptions() FrequencyOptions {
	opts := DefaultFrequencyOptions()
	opts.Collocations = false
	return opts
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts FrequencyOptions
		want []string
	}{
		{"simple", "red red blue", plainOptions(), []string{"red", "red", "blue"}},
		{"possessive", "Bob's cat's toy", plainOptions(), []string{"Bob", "cat", "toy"}},
		{"numbers dropped", "route 66 and 7th", plainOptions(), []string{"route", "and", "7th"}},
		{"numbers kept", "route 66", FrequencyOptions{IncludeNumbers: true}, []string{"route", "66"}},
		{"punctuation", "hello, world! don't-stop", plainOptions(), []string{"hello", "world", "don't", "stop"}},
		{"unicode", "café naïve", plainOptions(), []string{"café", "naïve"}},
		{"min length", "a an ant", FrequencyOptions{MinWordLength: 3}, []string{"ant"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text, tt.opts))
		})
	}
}

func TestFrequencies_Basic(t *testing.T) {
	got := Frequencies("red red blue green", Default(), DefaultFrequencyOptions())

	assert.Equal(t, []Frequency{
		{Word: "red", Count: 2},
		{Word: "blue", Count: 1},
		{Word: "green", Count: 1},
	}, got)
}

func TestFrequencies_RemovesStopwords(t *testing.T) {
	got := Frequencies("The cloud and THE sky", Default(), plainOptions())

	assert.Equal(t, []Frequency{
		{Word: "cloud", Count: 1},
		{Word: "sky", Count: 1},
	}, got)

	got = Frequencies("The cloud and THE sky", Default().With("Sky"), plainOptions())
	assert.Equal(t, []Frequency{{Word: "cloud", Count: 1}}, got)
}

func TestFrequencies_FusesCaseAndPlurals(t *testing.T) {
	got := Frequencies("Cat cat cats CATS dog glass glasses", Default(), plainOptions())

	require.NotEmpty(t, got)
	assert.Equal(t, Frequency{Word: "cat", Count: 4}, got[0])
	assert.Contains(t, got, Frequency{Word: "dog", Count: 1})
	// "glasses" has no "glasse" singular and "glass" ends in "ss"
	assert.Contains(t, got, Frequency{Word: "glass", Count: 1})
	assert.Contains(t, got, Frequency{Word: "glasses", Count: 1})
}

func TestFrequencies_PluralsWithoutNormalization(t *testing.T) {
	opts := plainOptions()
	opts.NormalizePlurals = false

	got := Frequencies("cat cats cats", Default(), opts)
	assert.Equal(t, []Frequency{{Word: "cats", Count: 2}, {Word: "cat", Count: 1}}, got)
}

func TestFrequencies_MostCommonCaseWins(t *testing.T) {
	got := Frequencies("Go go Go GO", Default(), plainOptions())
	assert.Equal(t, []Frequency{{Word: "Go", Count: 4}}, got)
}

func TestFrequencies_Collocations(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "new york filler%c ", 'a'+i)
	}

	got := Frequencies(b.String(), Default(), DefaultFrequencyOptions())

	require.Len(t, got, 21)
	assert.Equal(t, Frequency{Word: "new york", Count: 20}, got[0])
	for _, f := range got[1:] {
		assert.Equal(t, 1, f.Count)
		assert.True(t, strings.HasPrefix(f.Word, "filler"), "unexpected word %q", f.Word)
	}

	plain := Frequencies(b.String(), Default(), plainOptions())
	assert.Equal(t, Frequency{Word: "new", Count: 20}, plain[0])
	assert.Equal(t, Frequency{Word: "york", Count: 20}, plain[1])
}

func TestFrequencies_BigramsSkipStopwords(t *testing.T) {
	text := strings.Repeat("thank you ", 30)

	got := Frequencies(text, Default(), DefaultFrequencyOptions())
	assert.Equal(t, []Frequency{{Word: "thank", Count: 30}}, got)
}

func TestFrequencies_Empty(t *testing.T) {
	assert.Empty(t, Frequencies("", Default(), DefaultFrequencyOptions()))
	assert.Empty(t, Frequencies("the and of", Default(), DefaultFrequencyOptions()))
}

func TestCollocationScore(t *testing.T) {
	assert.Equal(t, 0.0, collocationScore(3, 10, 2, 10), "a word spanning the whole text never scores")
	assert.InDelta(t, 76.38, collocationScore(20, 20, 20, 60), 0.05)
	assert.Less(t, collocationScore(1, 20, 1, 60), 30.0)
}
