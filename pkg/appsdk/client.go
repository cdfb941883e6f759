package appsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Client is a browser-like HTTP client for the web surface: it keeps a
// cookie jar and does not follow redirects, so tests can assert on them.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a fresh cookie jar.
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// Page represents a fetched page or form response.
type Page struct {
	Status   int
	Location string // Location header for redirects, empty otherwise
	Body     string
}

// Get fetches a path.
func (c *Client) Get(ctx context.Context, path string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return Page{}, err
	}
	return c.do(req)
}

// PostForm submits an x-www-form-urlencoded form.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return Page{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// SignUp submits the sign-up form.
func (c *Client) SignUp(ctx context.Context, email, password, fullName, orgName string) (Page, error) {
	return c.PostForm(ctx, "/auth/signup", url.Values{
		"email":             {email},
		"password":          {password},
		"full_name":         {fullName},
		"organization_name": {orgName},
	})
}

// SignIn submits the sign-in form.
func (c *Client) SignIn(ctx context.Context, email, password string) (Page, error) {
	return c.PostForm(ctx, "/auth/signin", url.Values{
		"email":    {email},
		"password": {password},
	})
}

// SignOut submits the sign-out form.
func (c *Client) SignOut(ctx context.Context) (Page, error) {
	return c.PostForm(ctx, "/auth/signout", url.Values{})
}

// Diagnostics fetches the diagnostics endpoint.
func (c *Client) Diagnostics(ctx context.Context) (*DiagnosticsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/diagnostics", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out DiagnosticsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode diagnostics response: %w", err)
	}
	return &out, nil
}

// Readyz fetches the readiness endpoint.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/readyz", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	return &out, nil
}

func (c *Client) do(req *http.Request) (Page, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Status:   resp.StatusCode,
		Location: resp.Header.Get("Location"),
		Body:     string(body),
	}, nil
}
