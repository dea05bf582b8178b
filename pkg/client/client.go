package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// ErrNotLoggedIn is returned by calls that need a session when none is stored
// or the stored one has expired.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx response. Message is the server's message verbatim.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Client calls the directory HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   *SessionStore
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSessionStore persists sessions issued by Login.
func WithSessionStore(s *SessionStore) Option {
	return func(c *Client) { c.sessions = s }
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:5000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sessions returns the configured session store, or nil.
func (c *Client) Sessions() *SessionStore {
	return c.sessions
}

// ListServices fetches every directory entry.
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	var out []Service
	if err := c.do(ctx, http.MethodGet, "/servicedetails", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchServices validates form and searches by postal code and category.
func (c *Client) SearchServices(ctx context.Context, form SearchForm) ([]Service, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	category, _ := NormalizeCategory(form.Category)

	var out searchResponse
	req := searchRequest{Pincode: strings.TrimSpace(form.Pincode), SelectedService: category}
	if err := c.do(ctx, http.MethodPost, "/getservice", req, "", &out); err != nil {
		return nil, err
	}
	if out.FilteredServices == nil {
		out.FilteredServices = []Service{}
	}
	return out.FilteredServices, nil
}

// AddService validates form, attaches its images and submits the listing
// with the stored access token, if any.
func (c *Client) AddService(ctx context.Context, form SubmissionForm) (*Service, string, error) {
	if err := form.Validate(); err != nil {
		return nil, "", err
	}

	images := make([]string, 0, len(form.ImagePaths))
	for _, p := range form.ImagePaths {
		dataURL, err := EncodeImageFile(p)
		if err != nil {
			return nil, "", err
		}
		images = append(images, dataURL)
	}

	category, _ := NormalizeCategory(form.Category)
	req := addServiceRequest{
		ServiceName:   strings.TrimSpace(form.ServiceName),
		Pincode:       strings.TrimSpace(form.Pincode),
		ServiceType:   category,
		Address:       strings.TrimSpace(form.Address),
		OpenTime:      strings.TrimSpace(form.OpenTime),
		CloseTime:     strings.TrimSpace(form.CloseTime),
		GmapLink:      strings.TrimSpace(form.GmapLink),
		Images:        images,
		PrayerTimings: form.PrayerTimings,
	}

	var out addServiceResponse
	if err := c.do(ctx, http.MethodPost, "/addservice", req, c.accessToken(), &out); err != nil {
		return nil, "", err
	}
	return &out.Service, out.Message, nil
}

// Register validates form and creates an account. It returns the server's
// confirmation message.
func (c *Client) Register(ctx context.Context, form RegisterForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	req := registerRequest{
		Name:         strings.TrimSpace(form.Name),
		MobileNumber: strings.TrimSpace(form.Mobile),
		Email:        strings.TrimSpace(form.Email),
		Password:     form.Password,
	}
	var out messageResponse
	if err := c.do(ctx, http.MethodPost, "/register", req, "", &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Login validates form, signs in and stores the issued session.
func (c *Client) Login(ctx context.Context, form LoginForm) (*Session, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var out loginResponse
	req := loginRequest{Email: strings.TrimSpace(form.Email), Password: form.Password}
	if err := c.do(ctx, http.MethodPost, "/login", req, "", &out); err != nil {
		return nil, err
	}

	session := Session{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    out.ExpiresAt,
		Email:        out.User.Email,
		Name:         out.User.Name,
	}
	if c.sessions != nil {
		if err := c.sessions.SaveLogin(session); err != nil {
			return nil, err
		}
		current, err := c.sessions.Load()
		if err == nil {
			session = current
		}
	}
	return &session, nil
}

// Refresh exchanges the stored refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context) error {
	session, err := c.storedSession()
	if err != nil {
		return err
	}
	if session.RefreshToken == "" {
		return ErrNotLoggedIn
	}

	var out refreshResponse
	if err := c.do(ctx, http.MethodPost, "/refresh", refreshRequest{RefreshToken: session.RefreshToken}, "", &out); err != nil {
		return err
	}
	session.AccessToken = out.AccessToken
	session.ExpiresAt = out.ExpiresAt
	return c.sessions.SaveLogin(session)
}

// Logout revokes the refresh token and clears the stored session. The local
// session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	session, err := c.storedSession()
	if err != nil {
		return err
	}

	var callErr error
	if session.RefreshToken != "" {
		callErr = c.do(ctx, http.MethodPost, "/logout", refreshRequest{RefreshToken: session.RefreshToken}, "", nil)
	}
	if err := c.sessions.ClearLogin(); err != nil {
		return err
	}
	return callErr
}

func (c *Client) storedSession() (Session, error) {
	if c.sessions == nil {
		return Session{}, ErrNotLoggedIn
	}
	return c.sessions.Load()
}

// accessToken returns the stored token when the session is still valid.
func (c *Client) accessToken() string {
	if c.sessions == nil {
		return ""
	}
	session, err := c.sessions.Load()
	if err != nil || !session.LoggedIn(c.now()) {
		return ""
	}
	return session.AccessToken
}

func (c *Client) do(ctx context.Context, method, path string, in any, bearer string, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var er errorResponse
		if b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20)); json.Unmarshal(b, &er) == nil {
			apiErr.Message = er.Message
			apiErr.Code = er.Code
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
