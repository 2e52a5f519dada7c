package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// OOXML containers are plain zip archives; the text lives in well-known XML
// parts. Walking the XML token stream avoids pulling a full document model in
// just to read character data.

// extractDocx concatenates paragraph texts of word/document.xml with single
// spaces.
func extractDocx(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer archive.Close()

	part := findPart(archive, "word/document.xml")
	if part == nil {
		return "", fmt.Errorf("docx has no word/document.xml")
	}

	rc, err := part.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	paragraphs, err := collectGroupedText(rc, "p", "t")
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, " "), nil
}

// extractPptx concatenates the text of every shape across all slides, in
// slide order, with single spaces.
func extractPptx(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer archive.Close()

	slides := slideParts(archive)
	var shapes []string
	for _, slide := range slides {
		rc, err := slide.Open()
		if err != nil {
			return "", err
		}
		slideShapes, err := collectGroupedText(rc, "sp", "t")
		rc.Close()
		if err != nil {
			return "", err
		}
		shapes = append(shapes, slideShapes...)
	}
	return strings.Join(shapes, " "), nil
}

func findPart(archive *zip.ReadCloser, name string) *zip.File {
	for _, f := range archive.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// slideParts returns ppt/slides/slideN.xml entries ordered by N.
func slideParts(archive *zip.ReadCloser) []*zip.File {
	var slides []*zip.File
	for _, f := range archive.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f)
		}
	}
	sort.Slice(slides, func(i, j int) bool {
		return slideNumber(slides[i].Name) < slideNumber(slides[j].Name)
	})
	return slides
}

func slideNumber(name string) int {
	digits := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// collectGroupedText walks an OOXML token stream and gathers the character
// data of every <textElem> element, grouped by enclosing <groupElem>. Groups
// without any text are skipped.
func collectGroupedText(r io.Reader, groupElem, textElem string) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var groups []string
	var current strings.Builder
	depth := 0
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case groupElem:
				depth++
			case textElem:
				if depth > 0 {
					inText = true
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case groupElem:
				if depth > 0 {
					depth--
					if depth == 0 {
						if text := strings.TrimSpace(current.String()); text != "" {
							groups = append(groups, text)
						}
						current.Reset()
					}
				}
			case textElem:
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return groups, nil
}
