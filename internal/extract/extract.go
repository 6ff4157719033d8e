// Package extract converts crawled HTML into document text for curation.
//
// By default the main article is isolated with go-readability so that
// navigation, sidebars, and footers do not leak into the corpus. A CSS
// selector can target specific elements instead, and IncludeAll converts
// the whole page. Output is either plain text (default) or Markdown.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Format selects the textual form of extracted content.
type Format int

const (
	// PlainText strips all markup (default)
	PlainText Format = iota
	// Markdown keeps document structure as Markdown
	Markdown
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PlainText:
		return "text"
	case Markdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// Options control extraction.
type Options struct {
	Selector   string   // optional CSS selector; overrides IncludeAll
	IncludeAll bool     // skip readability and convert the whole page
	BaseURL    *url.URL // optional page URL for resolving relative links
	Format     Format
}

var (
	blankRuns  = regexp.MustCompile(`\n{3,}`)
	spaceRuns  = regexp.MustCompile(`[ \t]+`)
	htmlSuffix = map[string]bool{".html": true, ".htm": true, ".xhtml": true}
)

// IsHTML reports whether a source looks like HTML, judging first by file
// extension and then by sniffing the leading bytes.
func IsHTML(name string, head []byte) bool {
	if htmlSuffix[strings.ToLower(filepath.Ext(name))] {
		return true
	}
	if len(head) == 0 {
		return false
	}
	return strings.HasPrefix(http.DetectContentType(head), "text/html")
}

// ToText extracts document text from HTML content.
func ToText(content io.Reader, opts Options) (string, error) {
	switch {
	case opts.Selector != "":
		return extractWithSelector(content, opts.Selector, opts.Format)
	case opts.IncludeAll:
		return convertAllHTML(content, opts.Format)
	default:
		return extractMainContent(content, opts.BaseURL, opts.Format)
	}
}

// ToMarkdown is shorthand for ToText with Markdown output.
func ToMarkdown(content io.Reader, selector string, includeAll bool, baseURL *url.URL) (string, error) {
	return ToText(content, Options{Selector: selector, IncludeAll: includeAll, BaseURL: baseURL, Format: Markdown})
}

// extractMainContent isolates the main article with go-readability
func extractMainContent(content io.Reader, baseURL *url.URL, format Format) (string, error) {
	if baseURL == nil {
		baseURL = &url.URL{}
	}

	article, err := readability.FromReader(content, baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract main content: %w", err)
	}

	if format == Markdown {
		return convertToMarkdown(article.Content)
	}
	return tidyText(article.TextContent), nil
}

// extractWithSelector keeps only elements matching a CSS selector
func extractWithSelector(content io.Reader, selector string, format Format) (string, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("no elements found matching selector: %s", selector)
	}

	if format == PlainText {
		var parts []string
		selection.Each(func(_ int, s *goquery.Selection) {
			if text := tidyText(s.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		return strings.Join(parts, "\n\n"), nil
	}

	var htmlParts []string
	selection.Each(func(_ int, s *goquery.Selection) {
		html, err := s.Html()
		if err == nil {
			tagName := goquery.NodeName(s)
			htmlParts = append(htmlParts, fmt.Sprintf("<%s>%s</%s>", tagName, html, tagName))
		}
	})
	if len(htmlParts) == 0 {
		return "", fmt.Errorf("failed to extract HTML from selection")
	}
	return convertToMarkdown(strings.Join(htmlParts, "\n"))
}

// convertAllHTML converts the whole page without readability filtering
func convertAllHTML(content io.Reader, format Format) (string, error) {
	htmlBytes, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read HTML content: %w", err)
	}

	if format == Markdown {
		return convertToMarkdown(string(htmlBytes))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()
	return tidyText(doc.Find("body").Text()), nil
}

// convertToMarkdown converts an HTML string to clean Markdown
func convertToMarkdown(htmlString string) (string, error) {
	converter := md.NewConverter("", true, nil)

	converter.Use(md.Plugin(func(c *md.Converter) []md.Rule {
		return []md.Rule{
			{
				Filter: []string{"*"},
				Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
					cleaned := strings.TrimSpace(content)
					result := strings.ReplaceAll(cleaned, "\n\n\n", "\n\n")
					return &result
				},
			},
		}
	}))

	markdown, err := converter.ConvertString(htmlString)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	return blankRuns.ReplaceAllString(strings.TrimSpace(markdown), "\n\n"), nil
}

// tidyText trims each line, squeezes runs of spaces, and limits blank
// lines to one between paragraphs
func tidyText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	joined := strings.Join(lines, "\n")
	return strings.TrimSpace(blankRuns.ReplaceAllString(joined, "\n\n"))
}
