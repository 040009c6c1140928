// Package botdetect classifies inbound requests as preview crawlers or
// human browsers based on request headers.
package botdetect

import (
	"net/http"
	"strings"
)

// Verdict is the two-valued outcome of a classification.
type Verdict string

// Possible verdicts.
const (
	VerdictBot   Verdict = "bot"
	VerdictHuman Verdict = "human"
)

// DefaultCategoryHeader is the agent-category header set by the hosting
// edge platform for known crawlers.
const DefaultCategoryHeader = "netlify-agent-category"

// Classification carries the verdict plus the evidence that produced it.
type Classification struct {
	Verdict  Verdict
	Evidence string
}

// IsBot reports whether the classification is a bot verdict.
func (c Classification) IsBot() bool {
	return c.Verdict == VerdictBot
}

// Categories the platform header may carry for automated fetchers.
var botCategories = []string{"social", "crawler"}

// Known preview/indexer signatures matched against the User-Agent.
var botUserAgents = []string{
	"facebookexternalhit",
	"facebookscraper",
	"twitterbot",
	"linkedinbot",
	"whatsapp",
	"slackbot",
	"telegrambot",
	"discordbot",
	"applebot",
	"googlebot",
	"bingbot",
	"ia_archiver",
}

// Classifier decides whether a request comes from an automated
// content-preview fetcher. It is stateless and safe for concurrent use.
type Classifier struct {
	categoryHeader string
}

// New builds a Classifier reading the given agent-category header name.
// An empty name falls back to DefaultCategoryHeader.
func New(categoryHeader string) *Classifier {
	if categoryHeader == "" {
		categoryHeader = DefaultCategoryHeader
	}
	return &Classifier{categoryHeader: categoryHeader}
}

// Classify inspects the request headers and returns a verdict. The
// platform category header wins over the User-Agent fallback; absent
// headers are treated as empty strings and never cause an error.
func (c *Classifier) Classify(h http.Header) Classification {
	category := strings.ToLower(h.Get(c.categoryHeader))
	for _, cat := range botCategories {
		if strings.Contains(category, cat) {
			return Classification{Verdict: VerdictBot, Evidence: "category:" + cat}
		}
	}

	ua := strings.ToLower(h.Get("User-Agent"))
	for _, pattern := range botUserAgents {
		if strings.Contains(ua, pattern) {
			return Classification{Verdict: VerdictBot, Evidence: "user-agent:" + pattern}
		}
	}

	return Classification{Verdict: VerdictHuman}
}
