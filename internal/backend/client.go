// Package backend talks to the remote video search and listing API.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pders01/mpsh/internal/config"
	"github.com/pders01/mpsh/internal/debuglog"
)

// pageSize is the largest page the API hands out.
const pageSize = 50

type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	region    string
	maxTotal  int
	client    *http.Client
}

func NewClient(cfg config.BackendConfig) *Client {
	maxTotal := cfg.MaxTotal
	if maxTotal <= 0 {
		maxTotal = 500
	}
	return &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		region:    cfg.Region,
		maxTotal:  maxTotal,
		client: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}
}

// MaxTotal is the cap applied to every declared result count.
func (c *Client) MaxTotal() int { return c.maxTotal }

// listResponse is the envelope shared by every list endpoint. Items stay
// raw so each one can be decoded on its own.
type listResponse struct {
	Items         []json.RawMessage `json:"items"`
	NextPageToken string            `json:"nextPageToken"`
	PageInfo      struct {
		TotalResults int `json:"totalResults"`
	} `json:"pageInfo"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*listResponse, error) {
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	debuglog.Debugf("backend GET %s %s", endpoint, redact(params))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	if resp.StatusCode >= 400 {
		fe := &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		var ae apiError
		if json.Unmarshal(body, &ae) == nil {
			fe.Message = ae.Error.Message
		}
		debuglog.Warnf("backend %s failed: %v", endpoint, fe)
		return nil, fe
	}

	var lr listResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", endpoint, ErrMalformed, err)
	}
	return &lr, nil
}

func (c *Client) capTotal(n int) int {
	if n > c.maxTotal {
		return c.maxTotal
	}
	return n
}

func redact(params url.Values) string {
	cp := url.Values{}
	for k, v := range params {
		if k == "key" {
			cp.Set(k, "***")
			continue
		}
		cp[k] = v
	}
	return cp.Encode()
}
