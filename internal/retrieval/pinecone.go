// Package retrieval queries the occupation vector index for the
// occupations most similar to a job description.
package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/logger"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/upstream"
	"github.com/GSaiKiran15/Case-Wage-Pro/model"
	"github.com/GSaiKiran15/Case-Wage-Pro/services"
)

const serviceName = "pinecone"

// DefaultAPIVersion is the records API version the request shape targets.
const DefaultAPIVersion = "2025-01"

// Config identifies the index. APIKey, IndexName and IndexHost are required.
type Config struct {
	APIKey     string
	IndexName  string
	IndexHost  string
	Namespace  string
	APIVersion string
}

// Client is a Retriever over a Pinecone integrated-embedding index.
type Client struct {
	cfg  Config
	http *upstream.Client
}

var _ services.Retriever = (*Client)(nil)

// New creates a retrieval client. Credentials are checked on each call so a
// misconfigured process still serves the wage endpoints.
func New(cfg Config, httpClient *upstream.Client) *Client {
	if cfg.Namespace == "" {
		cfg.Namespace = "__default__"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if httpClient == nil {
		httpClient = upstream.NewClient(serviceName, upstream.Options{})
	}
	return &Client{cfg: cfg, http: httpClient}
}

type searchRequest struct {
	Query  searchQuery `json:"query"`
	Fields []string    `json:"fields"`
}

type searchQuery struct {
	Inputs searchInputs `json:"inputs"`
	TopK   int          `json:"top_k"`
}

type searchInputs struct {
	Text string `json:"text"`
}

type searchResponse struct {
	Result *struct {
		Hits []model.CandidateHit `json:"hits"`
	} `json:"result"`
}

// Retrieve returns at most topK hits in the order the index reports them.
func (c *Client) Retrieve(ctx context.Context, description model.JobDescription, topK int) ([]model.CandidateHit, error) {
	if err := c.checkConfig(); err != nil {
		return nil, err
	}
	if description.IsBlank() {
		return nil, internalErrors.NewValidationError("jobDescription", "must not be empty")
	}
	if topK < 1 {
		return nil, internalErrors.NewValidationError("topK", "must be at least 1")
	}

	endpoint, err := c.searchURL()
	if err != nil {
		return nil, internalErrors.NewConfigurationError("PINECONE_HOST", err.Error())
	}

	body := searchRequest{
		Query: searchQuery{
			Inputs: searchInputs{Text: string(description)},
			TopK:   topK,
		},
		Fields: []string{"value", "title", "description"},
	}
	headers := map[string]string{
		"Api-Key":                c.cfg.APIKey,
		"X-Pinecone-API-Version": c.cfg.APIVersion,
	}

	data, err := c.http.PostJSON(ctx, endpoint, headers, body)
	if err != nil {
		return nil, err
	}
	logger.Debug("retrieval response", "index", c.cfg.IndexName, "namespace", c.cfg.Namespace, "raw", string(data))

	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, internalErrors.NewMalformedResponseError(serviceName, fmt.Sprintf("decode search response: %v", err), string(data))
	}
	if resp.Result == nil {
		return nil, internalErrors.NewMalformedResponseError(serviceName, "missing key 'result'", string(data))
	}

	hits := resp.Result.Hits
	if hits == nil {
		hits = []model.CandidateHit{}
	}
	if len(hits) > topK {
		hits = hits[:topK]
	}
	for _, hit := range hits {
		if hit.ID == "" {
			return nil, internalErrors.NewMalformedResponseError(serviceName, "hit without '_id'", string(data))
		}
		if hit.Score < 0 || hit.Score > 1 {
			logger.Warn("retrieval score outside [0,1]", "id", hit.ID, "score", hit.Score)
		}
	}
	return hits, nil
}

func (c *Client) checkConfig() error {
	switch {
	case strings.TrimSpace(c.cfg.APIKey) == "":
		return internalErrors.NewConfigurationError("PINECONE_API_KEY", "is not set")
	case strings.TrimSpace(c.cfg.IndexName) == "":
		return internalErrors.NewConfigurationError("PINECONE_INDEX", "is not set")
	case strings.TrimSpace(c.cfg.IndexHost) == "":
		return internalErrors.NewConfigurationError("PINECONE_HOST", "is not set")
	}
	return nil
}

func (c *Client) searchURL() (string, error) {
	host := strings.TrimRight(strings.TrimSpace(c.cfg.IndexHost), "/")
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	base, err := url.Parse(host)
	if err != nil || base.Host == "" {
		return "", fmt.Errorf("invalid index host '%s'", c.cfg.IndexHost)
	}
	return base.JoinPath("records", "namespaces", c.cfg.Namespace, "search").String(), nil
}
