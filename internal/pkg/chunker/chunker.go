package chunker

// DefaultSize is the window length used for uploaded documents.
const DefaultSize = 500

// Split slices text into contiguous rune windows of size characters.
// Windows do not overlap and the final window may be shorter. Concatenating
// the result reproduces the input exactly; empty input yields no chunks.
func Split(text string, size int) []string {
	if size <= 0 {
		size = DefaultSize
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
