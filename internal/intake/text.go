package intake

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain text files. Form feeds are treated as page
// breaks; each page's lines are folded into blank-line-separated
// paragraphs.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*ParsedDocument, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var pages []string
	for _, page := range strings.Split(string(raw), "\f") {
		pages = append(pages, normalizeParagraphs(page))
	}

	if len(pages) == 1 {
		return singlePage(pages[0]), nil
	}
	return &ParsedDocument{
		Text:  strings.Join(pages, "\n\n"),
		Pages: pages,
	}, nil
}

// normalizeParagraphs joins consecutive non-blank lines into paragraphs
// separated by blank lines.
func normalizeParagraphs(text string) string {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	return strings.Join(paragraphs, "\n\n")
}
