package report

import "strings"

// MaxChunkSize stays under the chat API's 4096-character message cap with
// headroom for Markdown expansion.
const MaxChunkSize = 4000

// ChunkMessage splits a message into chunks of at most MaxChunkSize
// characters, cutting only on line boundaries so no entry is ever split
// mid-line. A single line longer than the cap is hard-cut as a last
// resort.
func ChunkMessage(text string) []string {
	return chunkLines(strings.Split(text, "\n"), MaxChunkSize)
}

func chunkLines(lines []string, limit int) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, line := range lines {
		for len(line) > limit {
			flush()
			chunks = append(chunks, line[:limit])
			line = line[limit:]
		}

		extra := len(line)
		if current.Len() > 0 {
			extra++ // joining newline
		}
		if current.Len()+extra > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if chunks == nil {
		return []string{""}
	}
	return chunks
}
