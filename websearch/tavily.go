// Copyright 2025 Minbar AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultBaseURL    = "https://api.tavily.com"
	defaultDepth      = "advanced"
	defaultMaxResults = 5
	defaultTimeout    = 10 * time.Second
)

// TavilyClient implements Client against the Tavily search API.
type TavilyClient struct {
	apiKey     string
	baseURL    string
	depth      string
	maxResults int
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Client = (*TavilyClient)(nil)

// TavilyOption configures a TavilyClient.
type TavilyOption func(*TavilyClient)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(url string) TavilyOption {
	return func(c *TavilyClient) {
		c.baseURL = url
	}
}

// WithMaxResults sets the number of hits requested per search.
// Default is 5.
func WithMaxResults(n int) TavilyOption {
	return func(c *TavilyClient) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithSearchDepth sets the Tavily search depth ("basic" or "advanced").
// Default is "advanced".
func WithSearchDepth(depth string) TavilyOption {
	return func(c *TavilyClient) {
		if depth != "" {
			c.depth = depth
		}
	}
}

// WithTimeout bounds a single search call. Default is 10s.
func WithTimeout(timeout time.Duration) TavilyOption {
	return func(c *TavilyClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewTavilyClient creates a Tavily search client. An empty API key is
// allowed: the client then answers every search with an empty result, so
// the query pipeline keeps working without web supplementation.
func NewTavilyClient(apiKey string, opts ...TavilyOption) *TavilyClient {
	c := &TavilyClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		depth:      defaultDepth,
		maxResults: defaultMaxResults,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default().With("component", "tavily-search"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if apiKey == "" {
		c.logger.Warn("no Tavily API key configured, web search disabled")
	}
	return c
}

type tavilyRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search performs a web search. Every failure mode yields an empty result.
func (c *TavilyClient) Search(ctx context.Context, query string) []Result {
	if c.apiKey == "" {
		return nil
	}

	payload, err := json.Marshal(tavilyRequest{
		Query:       query,
		SearchDepth: c.depth,
		MaxResults:  c.maxResults,
	})
	if err != nil {
		c.logger.Error("failed to encode search request", "err", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		c.logger.Error("failed to build search request", "err", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("web search failed", "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("web search returned non-OK status", "status", resp.StatusCode)
		return nil
	}

	var decoded tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.Warn("failed to decode search response", "err", err)
		return nil
	}

	results := make([]Result, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, Result{
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Content,
		})
	}

	c.logger.Debug("web search completed", "query", query, "hits", len(results))
	return results
}

// FormatContext renders web results the way the prompt assembler expects:
// one block per hit naming its source URL.
func FormatContext(results []Result) string {
	var buf bytes.Buffer
	for i, r := range results {
		if i > 0 {
			buf.WriteString("\n\n")
		}
		fmt.Fprintf(&buf, "Source: %s\nContent: %s", r.URL, r.Content)
	}
	return buf.String()
}
