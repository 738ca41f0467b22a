// Package feedclient resolves firmware builds against an ipsw.me-style
// JSON feed. Field locations are configurable JSONPath expressions so a
// feed change does not need a rebuild.
package feedclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/goccy/go-json"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
	"github.com/getsentry/apple-system-symbols-upload/internal/ports"
)

const maxFeedBodyBytes = 4 * 1024 * 1024 // 4MB

type Client struct {
	http  *http.Client
	feeds map[domain.SourceType]domain.FeedConfig
	log   *slog.Logger
}

func New(httpClient *http.Client, feeds map[domain.SourceType]domain.FeedConfig, log *slog.Logger) *Client {
	return &Client{http: httpClient, feeds: feeds, log: log}
}

var _ ports.FirmwareFeed = (*Client)(nil)

func (c *Client) Lookup(ctx context.Context, device domain.Device, osName, version string, source domain.SourceType) (domain.Firmware, error) {
	feed, ok := c.feeds[source]
	if !ok {
		return domain.Firmware{}, &domain.OpError{
			Op:   "feed.lookup",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("no feed configured for source %q: %w", source, domain.ErrInvalidConfig),
		}
	}

	url := expandURL(feed.URL, device.Identifier, version)
	if c.log != nil {
		c.log.Debug("feed.query", "url", url, "device", device.Identifier)
	}

	doc, err := c.fetchDoc(ctx, url)
	if err != nil {
		return domain.Firmware{}, err
	}

	if arr, ok := doc.([]any); ok && len(arr) == 0 {
		return domain.Firmware{}, &domain.OpError{
			Op:   "feed.lookup",
			Kind: domain.KindNotFound,
			Path: url,
			Err:  fmt.Errorf("no firmware for %s %s: %w", device.Identifier, version, domain.ErrNotFound),
		}
	}

	osVersion, err := selectString(doc, feed.VersionPath)
	if err != nil {
		return domain.Firmware{}, feedFieldError(url, "version", err)
	}
	build, err := selectString(doc, feed.BuildPath)
	if err != nil {
		return domain.Firmware{}, feedFieldError(url, "build", err)
	}
	archiveURL, err := selectString(doc, feed.URLPath)
	if err != nil {
		return domain.Firmware{}, feedFieldError(url, "url", err)
	}

	return domain.Firmware{
		OSName:    osName,
		OSVersion: osVersion,
		Build:     build,
		URL:       archiveURL,
		Arch:      device.Architecture,
		Source:    source,
	}, nil
}

func (c *Client) fetchDoc(ctx context.Context, url string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.OpError{Op: "feed.request", Kind: domain.KindInvalidConfig, Path: url, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.OpError{Op: "feed.request", Kind: domain.KindNetwork, Path: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.OpError{
			Op:   "feed.request",
			Kind: domain.KindNetwork,
			Path: url,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodyBytes))
	if err != nil {
		return nil, &domain.OpError{Op: "feed.request", Kind: domain.KindNetwork, Path: url, Err: err}
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &domain.OpError{Op: "feed.decode", Kind: domain.KindNetwork, Path: url, Err: err}
	}
	return doc, nil
}

func expandURL(tmpl, device, version string) string {
	out := strings.ReplaceAll(tmpl, "{device}", device)
	return strings.ReplaceAll(out, "{version}", version)
}

// selectString evaluates a JSONPath expression and converts the result
// to a plain string.
func selectString(doc any, expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", fmt.Errorf("empty jsonpath expression")
	}

	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return "", fmt.Errorf("jsonpath %s: %w", expr, err)
	}

	// jsonpath may hand back a one-element slice for filter expressions.
	if arr, ok := val.([]any); ok {
		if len(arr) == 0 {
			return "", fmt.Errorf("jsonpath %s: no value", expr)
		}
		val = arr[0]
	}

	switch v := val.(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("jsonpath %s: empty value", expr)
		}
		return v, nil
	case float64, bool, int, int64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("jsonpath %s: unsupported value %T", expr, val)
	}
}

func feedFieldError(url, field string, err error) error {
	return &domain.OpError{
		Op:   "feed.select",
		Kind: domain.KindNetwork,
		Path: url,
		Err:  fmt.Errorf("field %s: %w", field, err),
	}
}
