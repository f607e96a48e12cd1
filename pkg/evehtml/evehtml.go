// Package evehtml converts the HTML dialect EVE Online uses in mail bodies.
package evehtml

import (
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var (
	bodyPolicy        = bluemonday.StrictPolicy()
	reHorizontalRuler = regexp.MustCompile(`(--+)`)
)

// showinfo type ids that have a public zKillboard page
var showInfoPages = map[string]string{
	"1376":  "character",
	"2":     "corporation",
	"16159": "alliance",
	"5":     "system",
}

// ToPlain strips all markup. Line breaks are kept.
func ToPlain(text string) string {
	t := strings.ReplaceAll(text, "<br>", "\n")
	return html.UnescapeString(bodyPolicy.Sanitize(t))
}

// ToMarkdown converts a mail body to markdown. In-game links are rewritten to
// zKillboard where one exists and blanked otherwise.
func ToMarkdown(text string) string {
	t := strings.ReplaceAll(text, "<loc>", "")
	t = strings.ReplaceAll(t, "</loc>", "")
	t = reHorizontalRuler.ReplaceAllString(t, `<br><hr><br>`)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(t))
	if err != nil {
		slog.Warn("Failed to parse mail body", "error", err)
		return ToPlain(text)
	}
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			s.SetAttr("href", rewriteLink(href))
		}
	})
	return strings.TrimSpace(md.NewConverter("", true, nil).Convert(doc.Selection))
}

func rewriteLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return "#"
	}
	switch u.Scheme {
	case "showinfo":
		typeID, id, ok := strings.Cut(u.Opaque, "//")
		if page, known := showInfoPages[typeID]; ok && known {
			return fmt.Sprintf("https://zkillboard.com/%s/%s/", page, id)
		}
		return "#"
	case "killreport", "fitting":
		return "#"
	}
	return href
}
