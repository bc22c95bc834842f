// internal/wiki/client.go
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

// Client talks to a MediaWiki action API endpoint (api.php).
type Client struct {
	APIURL     string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a new MediaWiki client
func NewClient(apiURL, userAgent string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		APIURL:    apiURL,
		UserAgent: userAgent,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError is the error object MediaWiki returns with a 200 status.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mediawiki error %s: %s", e.Code, e.Info)
}

// SearchHit is a single full-text search result
type SearchHit struct {
	Title   string `json:"title"`
	PageID  int    `json:"pageid"`
	Snippet string `json:"snippet"`
}

// Page is the plain-text intro of an article
type Page struct {
	Title          string
	URL            string
	Extract        string
	Missing        bool
	Disambiguation bool
}

// Search runs list=search and returns at most limit hits.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	params := url.Values{}
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", fmt.Sprintf("%d", limit))
	params.Set("srprop", "snippet")

	var resp struct {
		Query struct {
			Search []SearchHit `json:"search"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	hits := resp.Query.Search
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Page fetches the plain-text intro extract for one title, following redirects.
func (c *Client) Page(ctx context.Context, title string) (*Page, error) {
	params := url.Values{}
	params.Set("prop", "extracts|pageprops|info")
	params.Set("titles", title)
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("ppprop", "disambiguation")
	params.Set("inprop", "url")
	params.Set("redirects", "1")

	var resp struct {
		Query struct {
			Pages []struct {
				Title     string            `json:"title"`
				Missing   bool              `json:"missing"`
				Invalid   bool              `json:"invalid"`
				Extract   string            `json:"extract"`
				FullURL   string            `json:"fullurl"`
				PageProps map[string]string `json:"pageprops"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Query.Pages) == 0 {
		return &Page{Title: title, Missing: true}, nil
	}

	p := resp.Query.Pages[0]
	_, disambig := p.PageProps["disambiguation"]
	return &Page{
		Title:          p.Title,
		URL:            p.FullURL,
		Extract:        strings.TrimSpace(p.Extract),
		Missing:        p.Missing || p.Invalid,
		Disambiguation: disambig,
	}, nil
}

// Article downloads the rendered article and reduces it to readable text.
func (c *Client) Article(ctx context.Context, pageURL string) (string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("article request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("article returned status %d", resp.StatusCode)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, 4<<20), parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract article: %w", err)
	}
	return strings.TrimSpace(article.TextContent), nil
}

// get performs an action=query GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, params url.Values, out interface{}) error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid API URL: %w", err)
	}

	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wikipedia returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
