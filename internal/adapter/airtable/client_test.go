package airtable

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/couchcryptid/vrn-registry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken         = "pat.test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
	testRecordsBody   = `{"records":[{"id":"rec1","fields":{"Provider Name":"Acme","Regions Served":["Southeast"]}},{"id":"rec2","fields":{"Provider Type":"Roofing"}}]}`
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func publicClient(url string) *Client {
	return NewClient(Settings{PublicViewURL: url, Timeout: 5 * time.Second}, discardLogger())
}

func apiClient(baseURL string) *Client {
	return NewClient(Settings{
		APIBaseURL: baseURL,
		Token:      testToken,
		BaseID:     "appBase",
		Table:      "Verified Providers",
		View:       "Grid view",
		Timeout:    5 * time.Second,
	}, discardLogger())
}

func TestClient_PublicView_FetchRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(testRecordsBody))
	}))
	defer srv.Close()

	c := publicClient(srv.URL + "/shrView?format=json")
	assert.Equal(t, ModePublic, c.Mode())

	set, err := c.FetchRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, set.Records, 2)
	assert.Equal(t, "rec1", set.Records[0].ID)

	providers := domain.NormalizeRecordSet(set)
	require.Len(t, providers, 1)
	assert.Equal(t, "Acme", providers[0].Name)
}

func TestClient_API_SendsBearerAndPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/appBase/Verified Providers", r.URL.Path)
		assert.Equal(t, "Grid view", r.URL.Query().Get("view"))
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(testRecordsBody))
	}))
	defer srv.Close()

	c := apiClient(srv.URL + "/")
	assert.Equal(t, ModeAPI, c.Mode())

	set, err := c.FetchRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, set.Records, 2)
}

func TestClient_API_MissingCredentials(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(Settings{APIBaseURL: srv.URL, Token: testToken}, discardLogger())
	_, err := c.FetchRaw(context.Background())

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"AIRTABLE_BASE_ID", "AIRTABLE_TABLE"}, cfgErr.Missing)
	assert.NotContains(t, err.Error(), testToken)
	assert.False(t, called, "no request should be made")
}

func TestClient_FetchRaw_PassesBodyThrough(t *testing.T) {
	body := `{"records":[],"offset":"itrX","extra":{"kept":true}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	raw, err := publicClient(srv.URL).FetchRaw(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, body, string(raw))
}

func TestClient_FetchRaw_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"type":"INVALID_PERMISSIONS"}}` + strings.Repeat("x", 1000)))
	}))
	defer srv.Close()

	_, err := publicClient(srv.URL).FetchRaw(context.Background())

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusForbidden, fetchErr.Status)
	assert.Contains(t, fetchErr.Details, "INVALID_PERMISSIONS")
	assert.Len(t, fetchErr.Details, maxErrorDetails)
	assert.Contains(t, err.Error(), "403")
}

func TestClient_FetchRaw_UpstreamErrorKeepsUTF8(t *testing.T) {
	// The two-byte "é" straddles the byte limit.
	body := strings.Repeat("x", maxErrorDetails-1) + "é" + strings.Repeat("y", 100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	_, err := publicClient(srv.URL).FetchRaw(context.Background())

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, utf8.ValidString(fetchErr.Details))
	assert.Equal(t, strings.Repeat("x", maxErrorDetails-1), fetchErr.Details)
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 5, "abc"},
		{"ascii cut", "abcdef", 4, "abcd"},
		{"boundary before rune", "ab日本", 5, "ab日"},
		{"inside rune", "ab日本", 4, "ab"},
		{"first rune too wide", "日本", 2, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncate(tc.in, tc.n)
			assert.Equal(t, tc.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestClient_FetchRaw_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>sign in</html>"))
	}))
	defer srv.Close()

	_, err := publicClient(srv.URL).FetchRecords(context.Background())

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.Status)
	assert.Equal(t, "invalid JSON response", fetchErr.Details)
}

func TestClient_FetchRecords_UnexpectedShapeIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"rows":[1,2,3]}`))
	}))
	defer srv.Close()

	set, err := publicClient(srv.URL).FetchRecords(context.Background())
	require.NoError(t, err)
	assert.Empty(t, set.Records)
}

func TestClient_FetchRaw_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Settings{PublicViewURL: srv.URL, Timeout: 50 * time.Millisecond}, discardLogger())
	_, err := c.FetchRaw(context.Background())

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.Status)
	assert.Error(t, fetchErr.Unwrap())
}

func TestSettings_Mode(t *testing.T) {
	assert.Equal(t, ModePublic, Settings{PublicViewURL: "x"}.Mode())
	assert.Equal(t, ModeAPI, Settings{Table: "t"}.Mode())
	assert.Empty(t, Settings{Token: "t", BaseID: "b", Table: "x"}.Missing())
}
