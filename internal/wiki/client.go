// Package wiki answers "who is" and "what is" questions from the Wikipedia
// REST summary endpoint.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://en.wikipedia.org/api/rest_v1"

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// SetBaseURL points the client at a different API host. Used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

// Summary looks the query up and composes the spoken reply. Failures map to
// sayable messages.
func (c *Client) Summary(ctx context.Context, query string) (bool, string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return false, "Tell me what to look up, like 'who is Ada Lovelace'."
	}

	title := url.PathEscape(strings.ReplaceAll(query, " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/page/summary/"+title, nil)
	if err != nil {
		return false, "Sorry, I couldn't reach Wikipedia right now."
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("wikipedia request failed", "query", query, "error", err)
		return false, "Sorry, I couldn't reach Wikipedia right now."
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return false, fmt.Sprintf("I couldn't find anything about %s.", query)
	}
	if resp.StatusCode >= 300 {
		c.logger.Warn("wikipedia request failed", "query", query, "status", resp.StatusCode)
		return false, "Sorry, I couldn't reach Wikipedia right now."
	}

	var out struct {
		Type    string `json:"type"`
		Extract string `json:"extract"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return false, "Sorry, I couldn't reach Wikipedia right now."
	}
	if out.Type == "disambiguation" {
		return false, fmt.Sprintf("%s could mean several things. Try being more specific.", query)
	}
	if out.Extract == "" {
		return false, fmt.Sprintf("I couldn't find anything about %s.", query)
	}
	return true, firstSentences(out.Extract, 2)
}

// firstSentences keeps summaries short enough to speak aloud.
func firstSentences(text string, n int) string {
	count := 0
	for i, r := range text {
		if r != '.' {
			continue
		}
		// Skip dots inside abbreviations and decimals.
		if i+1 < len(text) && text[i+1] != ' ' && text[i+1] != '\n' {
			continue
		}
		count++
		if count == n {
			return text[:i+1]
		}
	}
	return text
}
