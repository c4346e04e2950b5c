package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/internal/core/ports"
)

// DefaultBaseURL is the API root used when none is configured
const DefaultBaseURL = "http://127.0.0.1:8001/api"

// ErrUnexpectedStatus is returned for non-2xx responses
var ErrUnexpectedStatus = errors.New("unexpected status")

type httpClient struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a remote feed client for baseURL.
// A nil client gets a 10 second timeout.
func NewClient(client *http.Client, baseURL string) ports.FeedClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &httpClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ListPublished fetches {base}/posts/?status=published.
// The API may answer with a bare list or a paginated {"results": [...]} object.
func (c *httpClient) ListPublished(ctx context.Context) ([]domain.FeedPost, error) {
	endpoint := c.baseURL + "/posts/?status=published"

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetching posts: %w", err)
	}

	posts, err := decodePostList(body)
	if err != nil {
		return nil, fmt.Errorf("decoding posts: %w", err)
	}
	return posts, nil
}

// GetPost fetches {base}/posts/{id}/
func (c *httpClient) GetPost(ctx context.Context, id string) (*domain.FeedPost, error) {
	endpoint := fmt.Sprintf("%s/posts/%s/", c.baseURL, url.PathEscape(id))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetching post %s: %w", id, err)
	}

	var post domain.FeedPost
	if err := json.Unmarshal(body, &post); err != nil {
		return nil, fmt.Errorf("decoding post %s: %w", id, err)
	}
	return &post, nil
}

func (c *httpClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrPostNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return buf.Bytes(), nil
}

func decodePostList(body []byte) ([]domain.FeedPost, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var posts []domain.FeedPost
		if err := json.Unmarshal(trimmed, &posts); err != nil {
			return nil, err
		}
		return posts, nil
	}

	var page struct {
		Results []domain.FeedPost `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}
