package extract

import (
	"os"
	"strings"
)

// extractText reads the file verbatim, dropping undecodable bytes instead of
// failing.
func extractText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(b), ""), nil
}
