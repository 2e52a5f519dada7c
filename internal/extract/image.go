package extract

import (
	"github.com/otiai10/gosseract/v2"
)

// extractImage runs OCR over the image and returns the raw recognized text.
func extractImage(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImage(path); err != nil {
		return "", err
	}
	return client.Text()
}
