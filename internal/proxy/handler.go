package proxy

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kevinosmingomezbarahona-star/Automated-Personalized-IG-Websites/internal/metadata"
	"github.com/kevinosmingomezbarahona-star/Automated-Personalized-IG-Websites/internal/metrics"
	"github.com/kevinosmingomezbarahona-star/Automated-Personalized-IG-Websites/internal/prospect"
)

// handleProspect runs the classify → resolve → inject pipeline for one
// request on the prospect route prefix. Humans and empty slugs bypass
// the pipeline entirely and hit the origin untouched.
func (s *Server) handleProspect(w http.ResponseWriter, r *http.Request) {
	prefix := s.cfg.Proxy.RoutePrefix
	if !strings.HasPrefix(r.URL.Path, prefix) {
		s.passthrough.ServeHTTP(w, r)
		return
	}

	class := s.classifier.Classify(r.Header)
	metrics.ObserveClassification(string(class.Verdict))
	if !class.IsBot() {
		s.passthrough.ServeHTTP(w, r)
		return
	}

	slug := ExtractSlug(r.URL.Path, prefix)
	if slug == "" {
		s.passthrough.ServeHTTP(w, r)
		return
	}

	s.logger.Debug("intercepting crawler request",
		zap.String("slug", slug),
		zap.String("evidence", class.Evidence),
	)

	// The store lookup and the origin fetch have no data dependency;
	// run them concurrently. The resolver absorbs its own failures.
	ctx := r.Context()
	recCh := make(chan prospect.Record, 1)
	go func() {
		recCh <- s.resolver.Resolve(ctx, slug)
	}()

	origin, err := s.origin.Fetch(ctx, r.URL.RequestURI())
	if err != nil {
		s.logger.Error("origin fetch failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}
	rec := <-recCh

	set := metadata.Build(rec, s.cfg.Proxy.Brand, requestURL(r))
	patched, injected := metadata.Patch(string(origin.Body), set)
	if injected {
		metrics.ObserveInjection("injected")
	} else {
		metrics.ObserveInjection("no_anchor")
		s.logger.Warn("origin document has no </head> anchor", zap.String("slug", slug))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if secs := s.cfg.Proxy.CacheSeconds; secs > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, s-maxage=%d", secs, secs))
	}
	w.WriteHeader(origin.StatusCode)
	if _, err := io.WriteString(w, patched); err != nil {
		s.logger.Error("write patched document failed", zap.Error(err))
	}
}

// ExtractSlug strips the route prefix from a path and returns the next
// path segment. An empty result means the pipeline does not apply.
func ExtractSlug(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// requestURL reconstructs the public URL of the inbound request for the
// canonical og:url/twitter:url tags.
func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
