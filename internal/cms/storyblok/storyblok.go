// Package storyblok is a read-only client for the Storyblok content
// delivery API.
package storyblok

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("story not found")
	ErrNotConfigured = errors.New("storyblok access token is not configured")
)

type Story struct {
	ID          int64           `json:"id"`
	UUID        string          `json:"uuid"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	FullSlug    string          `json:"full_slug"`
	CreatedAt   string          `json:"created_at"`
	PublishedAt string          `json:"published_at,omitempty"`
	TagList     []string        `json:"tag_list"`
	IsStartpage bool            `json:"is_startpage"`
	Content     json.RawMessage `json:"content"`
}

// Query narrows a stories listing. Zero values are left out of the request.
type Query struct {
	StartsWith string
	WithTag    string
	SortBy     string
	Search     string
	Page       int
	PerPage    int
}

type Client struct {
	baseURL string
	token   string
	version string
	http    *http.Client
}

func New(baseURL, token, version string, timeout time.Duration) *Client {
	if version == "" {
		version = "published"
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		version: version,
		http:    &http.Client{Timeout: timeout},
	}
}

// StoryBySlug fetches one story. A missing story yields ErrNotFound.
func (c *Client) StoryBySlug(ctx context.Context, slug string) (*Story, error) {
	const op = "cms.storyblok.StoryBySlug"

	slug = strings.Trim(slug, "/")
	if slug == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var body struct {
		Story *Story `json:"story"`
	}

	if err := c.get(ctx, "/stories/"+escapeSlug(slug), url.Values{}, &body); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if body.Story == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return body.Story, nil
}

func (c *Client) Stories(ctx context.Context, q Query) ([]Story, error) {
	const op = "cms.storyblok.Stories"

	params := url.Values{}
	if q.StartsWith != "" {
		params.Set("starts_with", q.StartsWith)
	}
	if q.WithTag != "" {
		params.Set("with_tag", q.WithTag)
	}
	if q.SortBy != "" {
		params.Set("sort_by", q.SortBy)
	}
	if q.Search != "" {
		params.Set("search_term", q.Search)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(q.PerPage))
	}

	var body struct {
		Stories []Story `json:"stories"`
	}

	if err := c.get(ctx, "/stories", params, &body); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if body.Stories == nil {
		body.Stories = []Story{}
	}

	return body.Stories, nil
}

func (c *Client) StoriesByTag(ctx context.Context, tag string) ([]Story, error) {
	return c.Stories(ctx, Query{WithTag: tag})
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.token == "" {
		return ErrNotConfigured
	}

	params.Set("token", c.token)
	params.Set("version", c.version)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	return nil
}

func escapeSlug(slug string) string {
	parts := strings.Split(slug, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
