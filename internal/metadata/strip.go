package metadata

import "regexp"

// Placeholder patterns planted by the SPA shell's index.html. Matching
// tolerates arbitrary attributes around the identifying one and both
// self-closed and plain closings; anything else is left alone rather
// than risking damage to the document.
var placeholderTags = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<title>[^<]*</title>`),
	regexp.MustCompile(`(?i)<meta\s[^>]*property="og:[^"]*"[^>]*/?>`),
	regexp.MustCompile(`(?i)<meta\s[^>]*name="twitter:[^"]*"[^>]*/?>`),
	regexp.MustCompile(`(?i)<meta\s[^>]*name="description"[^>]*/?>`),
}

// Strip removes the placeholder title, description, og:* and twitter:*
// tags from an origin document. It never fails; unrecognized shapes
// are skipped silently.
func Strip(doc string) string {
	for _, re := range placeholderTags {
		doc = re.ReplaceAllString(doc, "")
	}
	return doc
}
