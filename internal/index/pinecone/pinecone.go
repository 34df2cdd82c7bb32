// Package pinecone is a minimal REST client against a Pinecone index host.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docrag/internal/index"
)

type Config struct {
	APIKey    string
	IndexHost string // e.g. https://my-index-abc123.svc.us-east-1.pinecone.io
	Timeout   time.Duration
}

type Client struct {
	apiKey string
	host   string
	client *http.Client
}

var _ index.Provider = (*Client)(nil)

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey: cfg.APIKey,
		host:   strings.TrimRight(cfg.IndexHost, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Upsert(ctx context.Context, rec index.Record) error {
	body := map[string]any{
		"vectors": []map[string]any{{
			"id":       rec.ID,
			"values":   rec.Vector,
			"metadata": rec.Metadata,
		}},
	}
	return c.postJSON(ctx, "/vectors/upsert", body, nil)
}

func (c *Client) Query(ctx context.Context, vector []float32, topK int) ([]index.Match, error) {
	body := map[string]any{
		"vector":          vector,
		"topK":            topK,
		"includeMetadata": true,
	}
	var resp struct {
		Matches []struct {
			ID       string         `json:"id"`
			Score    float64        `json:"score"`
			Metadata index.Metadata `json:"metadata"`
		} `json:"matches"`
	}
	if err := c.postJSON(ctx, "/query", body, &resp); err != nil {
		return nil, err
	}
	matches := make([]index.Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, index.Match{ID: m.ID, Score: m.Score, Metadata: m.Metadata})
	}
	return matches, nil
}

// ListIDs pages through the id listing endpoint until the pagination token
// runs out.
func (c *Client) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	var ids []string
	token := ""
	for {
		endpoint := c.host + "/vectors/list?prefix=" + url.QueryEscape(prefix)
		if token != "" {
			endpoint += "&paginationToken=" + url.QueryEscape(token)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build pinecone list request failed: %w", err)
		}
		c.setHeaders(req)

		var resp struct {
			Vectors []struct {
				ID string `json:"id"`
			} `json:"vectors"`
			Pagination struct {
				Next string `json:"next"`
			} `json:"pagination"`
		}
		if err := c.do(req, &resp); err != nil {
			return nil, err
		}
		for _, v := range resp.Vectors {
			ids = append(ids, v.ID)
		}
		if resp.Pagination.Next == "" {
			return ids, nil
		}
		token = resp.Pagination.Next
	}
}

func (c *Client) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return c.postJSON(ctx, "/vectors/delete", map[string]any{"ids": ids}, nil)
}

func (c *Client) Stats(ctx context.Context) (index.Stats, error) {
	var resp struct {
		TotalVectorCount int `json:"totalVectorCount"`
		Dimension        int `json:"dimension"`
	}
	if err := c.postJSON(ctx, "/describe_index_stats", map[string]any{}, &resp); err != nil {
		return index.Stats{}, err
	}
	return index.Stats{VectorCount: resp.TotalVectorCount, Dimension: resp.Dimension}, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal pinecone request failed: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build pinecone request failed: %w", err)
	}
	c.setHeaders(req)
	return c.do(req, out)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("pinecone request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read pinecone response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("pinecone %s %s status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse pinecone json failed: %w", err)
	}
	return nil
}
