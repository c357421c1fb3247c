package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/testutil"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/upstream"
	"github.com/GSaiKiran15/Case-Wage-Pro/model"
)

func newTestClient(host string) *Client {
	return New(Config{APIKey: "pc-key", IndexName: "occupations", IndexHost: host}, upstream.NewClient(serviceName, upstream.Options{}))
}

func hitsResponse(t *testing.T, hits []model.CandidateHit) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{"result": map[string]any{"hits": hits}, "usage": map[string]int{"read_units": 1}})
	require.NoError(t, err)
	return data
}

func TestRetrieve_RequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/records/namespaces/__default__/search", r.URL.Path)
		assert.Equal(t, "pc-key", r.Header.Get("Api-Key"))
		assert.Equal(t, DefaultAPIVersion, r.Header.Get("X-Pinecone-API-Version"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		query := body["query"].(map[string]any)
		assert.Equal(t, float64(5), query["top_k"])
		assert.Equal(t, testutil.SampleDescription, query["inputs"].(map[string]any)["text"])
		assert.Equal(t, []any{"value", "title", "description"}, body["fields"])

		_, _ = w.Write(hitsResponse(t, testutil.SampleHits()))
	}))
	defer server.Close()

	hits, err := newTestClient(server.URL).Retrieve(context.Background(), testutil.SampleDescription, 5)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleHits(), hits)
}

func TestRetrieve_TruncatesToTopK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(hitsResponse(t, testutil.SampleHits()))
	}))
	defer server.Close()

	hits, err := newTestClient(server.URL).Retrieve(context.Background(), "backend engineer", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "15-1252.00", hits[0].ID)
	assert.Equal(t, "15-1253.00", hits[1].ID)
}

func TestRetrieve_KeepsIndexOrder(t *testing.T) {
	reversed := []model.CandidateHit{testutil.WebDeveloperHit, testutil.QAHit, testutil.SoftwareDeveloperHit}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(hitsResponse(t, reversed))
	}))
	defer server.Close()

	hits, err := newTestClient(server.URL).Retrieve(context.Background(), "backend engineer", 5)
	require.NoError(t, err)
	assert.Equal(t, reversed, hits)
}

func TestRetrieve_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"hits":[]}}`))
	}))
	defer server.Close()

	hits, err := newTestClient(server.URL).Retrieve(context.Background(), "backend engineer", 5)
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestRetrieve_Configuration(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		setting string
	}{
		{"missing key", Config{IndexName: "occupations", IndexHost: "example.pinecone.io"}, "PINECONE_API_KEY"},
		{"missing index", Config{APIKey: "k", IndexHost: "example.pinecone.io"}, "PINECONE_INDEX"},
		{"missing host", Config{APIKey: "k", IndexName: "occupations"}, "PINECONE_HOST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Configuration is reported before input validation.
			_, err := New(tt.cfg, nil).Retrieve(context.Background(), "", 0)
			var cfgErr *internalErrors.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.setting, cfgErr.Setting)
		})
	}
}

func TestRetrieve_InvalidInput(t *testing.T) {
	client := newTestClient("example.pinecone.io")

	_, err := client.Retrieve(context.Background(), "   \n", 5)
	assert.True(t, errors.Is(err, internalErrors.ErrInvalidInput))

	_, err = client.Retrieve(context.Background(), "backend engineer", 0)
	assert.True(t, errors.Is(err, internalErrors.ErrInvalidInput))
}

func TestRetrieve_Upstream(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, internalErrors.ErrUpstreamUnavailable},
		{"rate limited", http.StatusTooManyRequests, `{}`, internalErrors.ErrUpstreamUnavailable},
		{"unauthorized", http.StatusUnauthorized, `{}`, internalErrors.ErrUpstreamUnavailable},
		{"not json", http.StatusOK, `<html>oops</html>`, internalErrors.ErrMalformedUpstreamResponse},
		{"no result", http.StatusOK, `{"matches":[]}`, internalErrors.ErrMalformedUpstreamResponse},
		{"hit without id", http.StatusOK, `{"result":{"hits":[{"_score":0.5,"fields":{}}]}}`, internalErrors.ErrMalformedUpstreamResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Retrieve(context.Background(), "backend engineer", 5)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestSearchURL(t *testing.T) {
	c := New(Config{IndexHost: "occupations-abc.svc.pinecone.io/", Namespace: "soc"}, nil)
	u, err := c.searchURL()
	require.NoError(t, err)
	assert.Equal(t, "https://occupations-abc.svc.pinecone.io/records/namespaces/soc/search", u)
}
