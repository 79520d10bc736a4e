package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAccessKey(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		wantKey  string
		wantRest []string
	}{
		{
			name:     "key label stripped",
			labels:   []string{"key-abc", "what", "is", "life"},
			wantKey:  "abc",
			wantRest: []string{"what", "is", "life"},
		},
		{
			name:     "no key label",
			labels:   []string{"what", "is", "life"},
			wantKey:  "",
			wantRest: []string{"what", "is", "life"},
		},
		{
			name:     "prefix requires the hyphen",
			labels:   []string{"keyword-x", "a"},
			wantKey:  "",
			wantRest: []string{"keyword-x", "a"},
		},
		{
			name:     "key label only",
			labels:   []string{"key-abc"},
			wantKey:  "abc",
			wantRest: []string{},
		},
		{
			name:     "key prefix is case sensitive",
			labels:   []string{"KEY-abc"},
			wantKey:  "",
			wantRest: []string{"KEY-abc"},
		},
		{
			name:     "key label not first is ignored",
			labels:   []string{"what", "key-abc"},
			wantKey:  "",
			wantRest: []string{"what", "key-abc"},
		},
		{
			name:     "empty token",
			labels:   []string{"key-"},
			wantKey:  "",
			wantRest: []string{},
		},
		{
			name:     "nil labels",
			labels:   nil,
			wantKey:  "",
			wantRest: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, rest := SplitAccessKey(tt.labels)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestDecodePrompt_JoinsLabelsWithSpaces(t *testing.T) {
	prompt, err := DecodePrompt([]string{"what", "is", "life"})
	assert.NoError(t, err)
	assert.Equal(t, "what is life", prompt)
}

func TestDecodePrompt_PreservesCase(t *testing.T) {
	prompt, err := DecodePrompt([]string{"What", "IS", "LiFe"})
	assert.NoError(t, err)
	assert.Equal(t, "What IS LiFe", prompt)
}

func TestDecodePrompt_UnderscoresAndPercentEscapes(t *testing.T) {
	prompt, err := DecodePrompt([]string{"a_b", "c%20d"})
	assert.NoError(t, err)
	assert.Equal(t, "a b c d", prompt)
}

func TestDecodePrompt_MalformedPercentPassesThrough(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"100%", "100%"},
		{"a%2", "a%2"},
		{"a%zz", "a%zz"},
		{"%", "%"},
		{"50%25", "50%"},
	}
	for _, tt := range tests {
		prompt, err := DecodePrompt([]string{tt.label})
		assert.NoError(t, err)
		assert.Equal(t, tt.want, prompt)
	}
}

func TestDecodePrompt_Base64SingleLabel(t *testing.T) {
	// base64url("hello world") with padding stripped
	prompt, err := DecodePrompt([]string{"b64-aGVsbG8gd29ybGQ"})
	assert.NoError(t, err)
	assert.Equal(t, "hello world", prompt)
}

func TestDecodePrompt_Base64RePadding(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"b64-aGk", "hi"},        // one pad char restored
		{"b64-aA", "h"},          // two pad chars restored
		{"b64-aGVsbG8_", "hello?"}, // already a multiple of four
	}
	for _, tt := range tests {
		prompt, err := DecodePrompt([]string{tt.label})
		assert.NoError(t, err)
		assert.Equal(t, tt.want, prompt)
	}
}

func TestDecodePrompt_MalformedBase64(t *testing.T) {
	_, err := DecodePrompt([]string{"b64-!!!not-base64!!!"})
	assert.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestDecodePrompt_Base64OnlyAppliesToSingleLabel(t *testing.T) {
	// With more than one label remaining, the b64- prefix is literal text.
	prompt, err := DecodePrompt([]string{"b64-aGk", "there"})
	assert.NoError(t, err)
	assert.Equal(t, "b64-aGk there", prompt)
}

func TestDecodePrompt_EmptyLabels(t *testing.T) {
	prompt, err := DecodePrompt(nil)
	assert.NoError(t, err)
	assert.Equal(t, "", prompt)
}
