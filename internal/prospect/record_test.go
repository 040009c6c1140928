package prospect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRecord(t *testing.T) {
	t.Parallel()

	rec := DefaultRecord("CelestIA")
	require.Equal(t, "CelestIA Demo", rec.FullName)
	require.Equal(t, "Your private AI-powered demo experience, built by CelestIA.", rec.BusinessSummary)
	require.Empty(t, rec.ImageURL)
}

func TestMergeOverridesNonEmptyFields(t *testing.T) {
	t.Parallel()

	defaults := DefaultRecord("CelestIA")
	rec := Merge(defaults, "acme", Row{
		FullName:          "Acme Corp",
		BusinessSummary:   "  We build things.  ",
		SiteScreenshotURL: "==https://img/shot.png",
	})

	require.Equal(t, "acme", rec.Slug)
	require.Equal(t, "Acme Corp", rec.FullName)
	require.Equal(t, "We build things.", rec.BusinessSummary)
	require.Equal(t, "https://img/shot.png", rec.ImageURL)
}

func TestMergeKeepsDefaultsForBlankFields(t *testing.T) {
	t.Parallel()

	defaults := DefaultRecord("CelestIA")
	rec := Merge(defaults, "acme", Row{
		FullName:        "   ",
		BusinessSummary: "",
	})

	require.Equal(t, defaults.FullName, rec.FullName)
	require.Equal(t, defaults.BusinessSummary, rec.BusinessSummary)
	require.Empty(t, rec.ImageURL)
}

func TestMergeImageWaterfall(t *testing.T) {
	t.Parallel()

	defaults := DefaultRecord("CelestIA")

	rec := Merge(defaults, "a", Row{
		ProfilePicURL:     "https://img/pic.png",
		SiteScreenshotURL: "https://img/shot.png",
	})
	require.Equal(t, "https://img/shot.png", rec.ImageURL)

	rec = Merge(defaults, "a", Row{ProfilePicURL: "=https://img/pic.png"})
	require.Equal(t, "https://img/pic.png", rec.ImageURL)

	rec = Merge(defaults, "a", Row{SiteScreenshotURL: "==="})
	require.Empty(t, rec.ImageURL)
}

func TestCleanURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"==https://x", "https://x"},
		{"=https://x ", "https://x"},
		{"https://x", "https://x"},
		{"   ", ""},
		{"", ""},
		{"====", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, cleanURL(tc.in), "cleanURL(%q)", tc.in)
	}
}

func TestDisabledResolverReturnsDefaults(t *testing.T) {
	t.Parallel()

	defaults := DefaultRecord("CelestIA")
	r := NewDisabled(defaults)

	rec := r.Resolve(context.Background(), "acme")
	require.Equal(t, "acme", rec.Slug)
	require.Equal(t, defaults.FullName, rec.FullName)
	require.Equal(t, defaults.BusinessSummary, rec.BusinessSummary)
}
