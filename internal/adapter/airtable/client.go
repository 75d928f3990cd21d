package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/vrn-registry/internal/domain"
)

// Source modes.
const (
	ModePublic = "public"
	ModeAPI    = "api"
)

// maxErrorDetails caps how much of an upstream error body is surfaced.
const maxErrorDetails = 512

// Client implements domain.ProviderSource and domain.RawSource against either
// a public shared view or the token-gated REST API.
type Client struct {
	settings   Settings
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a record store client. The mode is fixed by settings.
func NewClient(settings Settings, logger *slog.Logger) *Client {
	return &Client{
		settings: settings,
		httpClient: &http.Client{
			Timeout: settings.Timeout,
		},
		logger: logger,
	}
}

// Mode reports which endpoint the client reads from.
func (c *Client) Mode() string {
	return c.settings.Mode()
}

// FetchRecords fetches and decodes the provider records.
func (c *Client) FetchRecords(ctx context.Context) (domain.RecordSet, error) {
	body, err := c.FetchRaw(ctx)
	if err != nil {
		return domain.RecordSet{}, err
	}

	set, err := domain.DecodeRecordSet(body)
	if err != nil {
		return domain.RecordSet{}, &domain.FetchError{Details: "invalid JSON response", Err: err}
	}
	return set, nil
}

// FetchRaw returns the upstream JSON body unchanged. Non-2xx responses,
// transport failures, and bodies that are not JSON become *domain.FetchError;
// incomplete API credentials become *domain.ConfigurationError before any
// request is made.
func (c *Client) FetchRaw(ctx context.Context) ([]byte, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if c.settings.Mode() == ModeAPI {
		req.Header.Set("Authorization", "Bearer "+c.settings.Token)
	}

	c.logger.Debug("fetching provider records", "mode", c.Mode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &domain.FetchError{Status: resp.StatusCode, Details: truncate(string(body), maxErrorDetails)}
	}
	if !json.Valid(body) {
		return nil, &domain.FetchError{Details: "invalid JSON response"}
	}
	return body, nil
}

func (c *Client) endpoint() (string, error) {
	s := c.settings
	if s.Mode() == ModePublic {
		return s.PublicViewURL, nil
	}
	if missing := s.Missing(); len(missing) > 0 {
		return "", &domain.ConfigurationError{Missing: missing}
	}

	u := fmt.Sprintf("%s/v0/%s/%s",
		strings.TrimRight(s.APIBaseURL, "/"),
		url.PathEscape(s.BaseID),
		url.PathEscape(s.Table),
	)
	if s.View != "" {
		u += "?" + url.Values{"view": {s.View}}.Encode()
	}
	return u, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
