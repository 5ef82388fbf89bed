package kg

import "strings"

// DefaultChunkSize is the target chunk length in characters.
const DefaultChunkSize = 4000

// splitText splits text into chunks of roughly size characters, breaking
// on whitespace so words stay intact. A single word longer than size
// becomes its own chunk.
func splitText(text string, size int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= size {
		return []string{text}
	}

	words := strings.Fields(text)
	var chunks []string
	var sb strings.Builder
	for _, word := range words {
		if sb.Len() > 0 && sb.Len()+1+len(word) > size {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(word)
	}
	if sb.Len() > 0 {
		chunks = append(chunks, sb.String())
	}
	return chunks
}
