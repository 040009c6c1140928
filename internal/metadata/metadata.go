// Package metadata builds crawler-facing metadata blocks and patches
// them into origin HTML documents.
package metadata

import (
	"fmt"
	"strings"

	"github.com/kevinosmingomezbarahona-star/Automated-Personalized-IG-Websites/internal/prospect"
)

// MetaSet is the escaped, presentation-ready metadata for one page.
type MetaSet struct {
	Title       string
	Description string
	ImageURL    string
	PageURL     string
}

// attrEscaper replaces the characters that would break out of an HTML
// attribute value. Single pass, so entities it introduces are never
// re-escaped.
var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeAttr escapes a string for use in HTML attribute values and text.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// Build composes the display strings for a resolved record. Every field
// of the returned set is already escaped.
func Build(rec prospect.Record, brand, pageURL string) MetaSet {
	return MetaSet{
		Title:       EscapeAttr(fmt.Sprintf("%s x %s | Private Demo", rec.FullName, brand)),
		Description: EscapeAttr(rec.BusinessSummary),
		ImageURL:    EscapeAttr(rec.ImageURL),
		PageURL:     EscapeAttr(pageURL),
	}
}

// Render produces the metadata block inserted before </head>. Image
// tags are omitted entirely when no image URL resolved.
func Render(set MetaSet) string {
	var b strings.Builder
	b.WriteString("\n  <!-- og-proxy: dynamic metadata -->")
	b.WriteString("\n  <title>" + set.Title + "</title>")
	b.WriteString("\n  <meta name=\"description\" content=\"" + set.Description + "\" />")
	b.WriteString("\n  <meta property=\"og:type\" content=\"website\" />")
	b.WriteString("\n  <meta property=\"og:url\" content=\"" + set.PageURL + "\" />")
	b.WriteString("\n  <meta property=\"og:title\" content=\"" + set.Title + "\" />")
	b.WriteString("\n  <meta property=\"og:description\" content=\"" + set.Description + "\" />")
	if set.ImageURL != "" {
		b.WriteString("\n  <meta property=\"og:image\" content=\"" + set.ImageURL + "\" />")
	}
	b.WriteString("\n  <meta name=\"twitter:card\" content=\"summary_large_image\" />")
	b.WriteString("\n  <meta name=\"twitter:url\" content=\"" + set.PageURL + "\" />")
	b.WriteString("\n  <meta name=\"twitter:title\" content=\"" + set.Title + "\" />")
	b.WriteString("\n  <meta name=\"twitter:description\" content=\"" + set.Description + "\" />")
	if set.ImageURL != "" {
		b.WriteString("\n  <meta name=\"twitter:image\" content=\"" + set.ImageURL + "\" />")
	}
	b.WriteString("\n  <!-- /og-proxy -->")
	return b.String()
}

// Patch strips the placeholder tags from doc and splices the rendered
// block in before the first </head>. The second return reports whether
// the block was actually inserted; a document without a </head> anchor
// comes back stripped but uninjected.
func Patch(doc string, set MetaSet) (string, bool) {
	stripped := Strip(doc)
	if !strings.Contains(stripped, "</head>") {
		return stripped, false
	}
	return strings.Replace(stripped, "</head>", Render(set)+"\n</head>", 1), true
}
