package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_ShortTextSingleChunk(t *testing.T) {
	chunks := ChunkText("OK", 255)
	assert.Equal(t, []string{"OK"}, chunks)
}

func TestChunkText_WrapsOnWordBoundaries(t *testing.T) {
	chunks := ChunkText("ab cd ef", 5)
	assert.Equal(t, []string{"ab cd", "ef"}, chunks)

	chunks = ChunkText("ab cd", 4)
	assert.Equal(t, []string{"ab", "cd"}, chunks)
}

func TestChunkText_EveryChunkWithinLimit(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet consectetur ", 50)
	for _, limit := range []int{1, 5, 50, 200, 255} {
		for i, chunk := range ChunkText(text, limit) {
			assert.LessOrEqual(t, len(chunk), limit, "limit %d chunk %d", limit, i)
		}
	}
}

func TestChunkText_RoundTrip(t *testing.T) {
	texts := []string{
		"what is life",
		"a b c d e f g",
		strings.Repeat("word ", 100),
		"Answer: 42. Ask again later.",
	}
	for _, text := range texts {
		for _, limit := range []int{7, 50, 255} {
			chunks := ChunkText(text, limit)
			got := strings.Join(chunks, " ")
			want := strings.Join(strings.Fields(text), " ")
			assert.Equal(t, want, got, "limit %d", limit)
		}
	}
}

func TestChunkText_Deterministic(t *testing.T) {
	text := strings.Repeat("deterministic chunking ", 30)
	first := ChunkText(text, 64)
	second := ChunkText(text, 64)
	assert.Equal(t, first, second)
}

func TestChunkText_HardSplitsOversizedWords(t *testing.T) {
	word := strings.Repeat("a", 600)
	chunks := ChunkText(word, 255)
	require.Len(t, chunks, 3)
	assert.Equal(t, 255, len(chunks[0]))
	assert.Equal(t, 255, len(chunks[1]))
	assert.Equal(t, 90, len(chunks[2]))
	assert.Equal(t, word, strings.Join(chunks, ""))
}

func TestChunkText_HardSplitRemainderJoinsNextWord(t *testing.T) {
	chunks := ChunkText(strings.Repeat("a", 12)+" bb", 5)
	assert.Equal(t, []string{"aaaaa", "aaaaa", "aa bb"}, chunks)
}

func TestChunkText_ByteAwareWithMultibyteText(t *testing.T) {
	// é and ö are two bytes each in UTF-8.
	chunks := ChunkText("héllo wörld", 6)
	assert.Equal(t, []string{"héllo", "wörld"}, chunks)

	// Hard-splitting counts bytes, not runes.
	long := strings.Repeat("é", 100) // 200 bytes
	for _, chunk := range ChunkText(long, 33) {
		assert.LessOrEqual(t, len(chunk), 33)
	}
}

func TestChunkText_EmptyInputYieldsOneEmptyChunk(t *testing.T) {
	assert.Equal(t, []string{""}, ChunkText("", 255))
	assert.Equal(t, []string{""}, ChunkText("   \t\n", 255))
}

func TestChunkText_LimitClampedToOne(t *testing.T) {
	chunks := ChunkText("abc", 0)
	assert.Equal(t, []string{"a", "b", "c"}, chunks)
}
