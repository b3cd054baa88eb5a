package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"wiki-quiz/internal/domain"
)

const (
	summaryChunks = 3
	contentChunks = 40
	maxSections   = 12

	// Sentence fragments shorter than this are markup noise, not prose.
	minChunkLength = 60
)

// Boilerplate sections that never belong in the section list.
var excludedSections = map[string]bool{
	"See also":        true,
	"References":      true,
	"External links":  true,
	"Notes":           true,
	"Further reading": true,
	"Bibliography":    true,
	"Citations":       true,
}

var (
	citationRe   = regexp.MustCompile(`\[\d+\]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Extractor turns raw Wikipedia HTML into a cleaned Article. The selection
// rules (firstHeading, mw-parser-output, mw-headline, the exclusion set and
// the truncation counts) are the behavioral contract; goquery is just the
// mechanism.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements domain.ArticleExtractor. Any parse failure is wrapped
// as a scrape failure; no partial result is returned.
func (e *Extractor) Extract(url, rawHTML string) (*domain.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, domain.NewScrapeFailedError(err)
	}

	title := extractTitle(doc)
	sections := extractSections(doc)

	cleaned, err := extractText(doc)
	if err != nil {
		return nil, domain.NewScrapeFailedError(err)
	}

	chunks := splitSentences(cleaned, minChunkLength)
	if len(chunks) == 0 {
		return nil, domain.NewScrapeFailedError(fmt.Errorf("no readable content found in %s", url))
	}

	summary := strings.Join(firstN(chunks, summaryChunks), " ")
	if summary != "" && !strings.HasSuffix(summary, ".") {
		summary += "."
	}
	content := strings.Join(firstN(chunks, contentChunks), " ")

	return &domain.Article{
		URL:      url,
		Title:    title,
		Summary:  summary,
		Content:  content,
		Sections: sections,
		RawHTML:  rawHTML,
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	if heading := doc.Find("#firstHeading").First(); heading.Length() > 0 {
		if t := strings.TrimSpace(heading.Text()); t != "" {
			return t
		}
	}
	if pageTitle := doc.Find("title").First(); pageTitle.Length() > 0 {
		t := strings.TrimSpace(pageTitle.Text())
		t = strings.TrimSuffix(t, " - Wikipedia")
		if t != "" {
			return t
		}
	}
	return "Unknown Title"
}

func extractSections(doc *goquery.Document) []string {
	sections := []string{}
	doc.Find(".mw-headline").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name := strings.TrimSpace(s.Text())
		if name == "" || excludedSections[name] {
			return true
		}
		sections = append(sections, name)
		return len(sections) < maxSections
	})
	return sections
}

// extractText isolates the main content region and strips everything that is
// not prose: tables, citation superscripts, styles, scripts, the table of
// contents and navigation boxes.
func extractText(doc *goquery.Document) (string, error) {
	container := doc.Find(".mw-parser-output").First()
	if container.Length() == 0 {
		// Lower-quality fallback: the whole document.
		container = doc.Selection
	}

	container.Find("table, sup, style, script, #toc, .toc, .navbox, .infobox, .sidebar, .reflist").Remove()

	text := container.Text()
	text = citationRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), nil
}

// splitSentences cuts text on sentence-terminator-plus-space boundaries and
// discards fragments below minLen.
func splitSentences(text string, minLen int) []string {
	var chunks []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			if i+1 < len(runes) && runes[i+1] != ' ' {
				continue
			}
			chunk := strings.TrimSpace(string(runes[start : i+1]))
			if len(chunk) >= minLen {
				chunks = append(chunks, chunk)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); len(tail) >= minLen {
		chunks = append(chunks, tail)
	}
	return chunks
}

func firstN(chunks []string, n int) []string {
	if len(chunks) < n {
		return chunks
	}
	return chunks[:n]
}
