// Package prospect resolves per-slug prospect records from the backing
// store, degrading to brand defaults on every failure path.
package prospect

import (
	"context"
	"strings"
)

// Record is the resolved, presentation-ready prospect data. It is
// always fully populated: fields the store could not supply carry the
// brand defaults.
type Record struct {
	Slug            string
	FullName        string
	BusinessSummary string
	ImageURL        string
}

// Row is one raw record as returned by the store. All fields optional.
type Row struct {
	FullName          string `json:"full_name"`
	BusinessSummary   string `json:"business_summary"`
	ProfilePicURL     string `json:"profile_pic_url"`
	SiteScreenshotURL string `json:"site_screenshot_url"`
}

// Resolver looks up the prospect for a slug. Implementations never
// return an error: any lookup failure yields the defaults record.
type Resolver interface {
	Resolve(ctx context.Context, slug string) Record
}

// DefaultRecord builds the fallback record used whenever resolution
// yields nothing. The reference deployment brands itself "CelestIA".
func DefaultRecord(brand string) Record {
	return Record{
		FullName:        brand + " Demo",
		BusinessSummary: "Your private AI-powered demo experience, built by " + brand + ".",
		ImageURL:        "",
	}
}

// Merge applies a store row on top of the defaults, field by field.
// Whitespace-only text fields are treated as absent. The image follows
// the screenshot-then-profile-picture waterfall.
func Merge(defaults Record, slug string, row Row) Record {
	rec := defaults
	rec.Slug = slug
	if v := strings.TrimSpace(row.FullName); v != "" {
		rec.FullName = v
	}
	if v := strings.TrimSpace(row.BusinessSummary); v != "" {
		rec.BusinessSummary = v
	}
	if img := cleanURL(row.SiteScreenshotURL); img != "" {
		rec.ImageURL = img
	} else if img := cleanURL(row.ProfilePicURL); img != "" {
		rec.ImageURL = img
	}
	return rec
}

// cleanURL strips the leading run of '=' characters some store exports
// prepend to URL cells, then trims whitespace.
func cleanURL(u string) string {
	return strings.TrimSpace(strings.TrimLeft(u, "="))
}

// Disabled is the no-credentials deployment mode: every lookup returns
// the defaults without any I/O.
type Disabled struct {
	defaults Record
}

// NewDisabled builds the no-op resolver.
func NewDisabled(defaults Record) *Disabled {
	return &Disabled{defaults: defaults}
}

// Resolve returns the defaults for any slug.
func (d *Disabled) Resolve(_ context.Context, slug string) Record {
	rec := d.defaults
	rec.Slug = slug
	return rec
}
