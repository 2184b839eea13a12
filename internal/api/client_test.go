package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requestNamePattern matches YYYYMMDDHHMMSS_<3-digit-millis> with an optional
// collision suffix.
var requestNamePattern = regexp.MustCompile(`^\d{14}_\d{3}(-[0-9a-f]{8})?$`)

func TestNewClient_RequestTypeAllowList(t *testing.T) {
	t.Parallel()

	t.Run("area is allowed", func(t *testing.T) {
		t.Parallel()
		client, err := NewClient(Options{BaseURL: "https://api.cloudrf.com/", RequestType: "area", APIKey: "k", StrictSSL: true})
		require.NoError(t, err)
		client.Close()
	})

	t.Run("elevation fails before any network call", func(t *testing.T) {
		t.Parallel()
		// The base URL is unresolvable on purpose: the allow-list check must
		// reject the type without ever dialing.
		_, err := NewClient(Options{BaseURL: "https://does-not-resolve.invalid/", RequestType: "elevation", APIKey: "k", StrictSSL: true})
		require.ErrorIs(t, err, ErrUnsupportedRequestType)
	})
}

func TestSend(t *testing.T) {
	t.Parallel()

	t.Run("posts the body with the key header to the joined endpoint", func(t *testing.T) {
		t.Parallel()

		var gotPath, gotKey, gotContentType string
		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.Header.Get("key")
			gotContentType = r.Header.Get("Content-Type")
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Write([]byte(`{"kmz":"https://example.com/out.kmz"}`))
		}))
		defer server.Close()

		client, err := NewClient(Options{BaseURL: server.URL + "/", RequestType: "area", APIKey: "12345-token", StrictSSL: true})
		require.NoError(t, err)
		defer client.Close()

		outcome, err := client.Send(context.Background(), map[string]any{"site": "Demo"})

		require.NoError(t, err)
		assert.Equal(t, "/area", gotPath, "trailing slash of the base URL must be stripped")
		assert.Equal(t, "12345-token", gotKey)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, map[string]any{"site": "Demo"}, gotBody)
		assert.Equal(t, 200, outcome.StatusCode)
		assert.JSONEq(t, `{"kmz":"https://example.com/out.kmz"}`, outcome.Body)
		assert.Regexp(t, requestNamePattern, outcome.Name)
	})

	t.Run("non-200 responses surface status and raw body", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Your key is invalid"))
		}))
		defer server.Close()

		client, err := NewClient(Options{BaseURL: server.URL, RequestType: "area", APIKey: "bad", StrictSSL: true})
		require.NoError(t, err)
		defer client.Close()

		outcome, err := client.Send(context.Background(), map[string]any{})
		require.NoError(t, err, "a received response is not a transport error")

		checkErr := Check(outcome)
		require.Error(t, checkErr)
		assert.Equal(t, "Your key is invalid", checkErr.(*HTTPError).Body)
	})

	t.Run("request names are unique under rapid dispatch", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		client, err := NewClient(Options{BaseURL: server.URL, RequestType: "area", APIKey: "k", StrictSSL: true})
		require.NoError(t, err)
		defer client.Close()

		seen := map[string]bool{}
		for i := 0; i < 10; i++ {
			outcome, err := client.Send(context.Background(), map[string]any{})
			require.NoError(t, err)
			assert.Regexp(t, requestNamePattern, outcome.Name)
			assert.False(t, seen[outcome.Name], "request name %s repeated", outcome.Name)
			seen[outcome.Name] = true
		}
	})
}

func TestSend_TLS(t *testing.T) {
	t.Parallel()

	t.Run("strict verification rejects a self-signed certificate", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		client, err := NewClient(Options{BaseURL: server.URL, RequestType: "area", APIKey: "k", StrictSSL: true})
		require.NoError(t, err)
		defer client.Close()

		_, err = client.Send(context.Background(), map[string]any{})

		require.ErrorIs(t, err, ErrTLS)
		assert.Contains(t, err.Error(), "--no-strict-ssl", "the error must point at the escape hatch")
	})

	t.Run("disabled verification accepts a self-signed certificate", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}))
		defer server.Close()

		client, err := NewClient(Options{BaseURL: server.URL, RequestType: "area", APIKey: "k", StrictSSL: false})
		require.NoError(t, err)
		defer client.Close()

		outcome, err := client.Send(context.Background(), map[string]any{})

		require.NoError(t, err)
		assert.Equal(t, 200, outcome.StatusCode)
	})

	t.Run("unreachable host is a transport error", func(t *testing.T) {
		t.Parallel()
		client, err := NewClient(Options{BaseURL: "http://127.0.0.1:1", RequestType: "area", APIKey: "k", StrictSSL: true})
		require.NoError(t, err)
		defer client.Close()

		_, err = client.Send(context.Background(), map[string]any{})

		require.ErrorIs(t, err, ErrTransport)
	})
}

func TestSaveRawResponse(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outcome := &Outcome{Name: "20240101120000_123", StatusCode: 200, Body: `{"ok":true}`}

	path, err := SaveRawResponse(context.Background(), dir, outcome)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20240101120000_123", "response.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}
