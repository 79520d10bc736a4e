package resolver

import "strings"

// DefaultChunkBytes caps each TXT string well under the 255-byte protocol
// limit so a typical 800-character answer fits a ~512-byte UDP reply in
// four chunks.
const DefaultChunkBytes = 200

// ChunkText splits text into an ordered sequence of strings, each at most
// limit bytes, wrapping on word boundaries where possible. A single word
// longer than limit is hard-split at the byte boundary so no input can
// stall the chunker. The function is deterministic: equal input always
// yields an identical sequence. Limits below one are treated as one.
func ChunkText(text string, limit int) []string {
	if limit < 1 {
		limit = 1
	}
	words := strings.Fields(text)
	var chunks []string
	var cur string
	for _, word := range words {
		if len(word) > limit {
			if cur != "" {
				chunks = append(chunks, cur)
				cur = ""
			}
			for len(word) > limit {
				chunks = append(chunks, word[:limit])
				word = word[limit:]
			}
			cur = word
			continue
		}
		join := len(word)
		if cur != "" {
			join++ // separating space
		}
		if len(cur)+join > limit {
			chunks = append(chunks, cur)
			cur = word
		} else {
			if cur != "" {
				cur += " "
			}
			cur += word
		}
	}
	if cur != "" {
		chunks = append(chunks, cur)
	}
	// A TXT RDATA must carry at least one string, even for an empty answer.
	if len(chunks) == 0 {
		chunks = []string{""}
	}
	return chunks
}
