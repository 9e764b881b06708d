// Package jobtext prepares job descriptions and resumes for prompting and
// keyword comparison.
package jobtext

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	blockOpen = regexp.MustCompile(`(?i)<\s*(p|div|li|ul|ol|h[1-6]|section|article|table|tr|td)\b[^>]*>`)
	lineBreak = regexp.MustCompile(`(?i)<\s*br\s*/?\s*>`)
	document  = regexp.MustCompile(`(?i)<!doctype\s+html|<\s*(html|body)\b[^>]*>`)
)

// contentSelectors locate the description body on pasted job board markup.
var contentSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
}

// LooksLikeHTML reports whether s is HTML markup rather than prose that
// mentions tags: it needs a document root, a block element with its closing
// tag, or at least two line breaks. Inline tags alone never count.
func LooksLikeHTML(s string) bool {
	if document.MatchString(s) || len(lineBreak.FindAllStringIndex(s, 2)) == 2 {
		return true
	}
	lower := strings.ToLower(s)
	for _, m := range blockOpen.FindAllStringSubmatch(s, -1) {
		if strings.Contains(lower, "</"+strings.ToLower(m[1])) {
			return true
		}
	}
	return false
}

// HTMLToText converts an HTML job description to plain text, keeping one
// line per block element and prefixing list items with "- ".
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, nav, footer, header").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})
	doc.Find("p, li, div, h1, h2, h3, h4, h5, h6, tr, section").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	return cleanWhitespace(content.Text()), nil
}

// Normalize returns s as plain text: markup is converted when present,
// otherwise s is returned trimmed. Conversion failures keep the original.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if !LooksLikeHTML(s) {
		return s
	}
	text, err := HTMLToText(s)
	if err != nil || text == "" {
		return s
	}
	return text
}

func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
