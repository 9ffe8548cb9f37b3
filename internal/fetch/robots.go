package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// checkRobots returns ErrDisallowedByRobots when the site's robots.txt
// forbids u for our user agent. A missing or unreachable robots.txt allows.
func (f *Fetcher) checkRobots(ctx context.Context, client *http.Client, u *url.URL) error {
	robotsURL := url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create robots request: %w", err)
	}
	f.setHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		f.logger.Debug("robots.txt unavailable", "url", robotsURL.String(), "error", err)
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		f.logger.Debug("robots.txt unparseable", "url", robotsURL.String(), "error", err)
		return nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if !data.FindGroup(f.userAgent).Test(path) {
		return fmt.Errorf("%w: %s", ErrDisallowedByRobots, u)
	}
	return nil
}
