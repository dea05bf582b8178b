package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const openCageURL = "https://api.opencagedata.com/geocode/v1/json"

// ErrNoPostalCode is returned when the coordinates resolve to no postal code.
var ErrNoPostalCode = errors.New("no postal code for location")

// PostalCodeLocator reverse geocodes coordinates through the OpenCage API.
type PostalCodeLocator struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewPostalCodeLocator creates a locator. endpoint may be empty for the
// public OpenCage API.
func NewPostalCodeLocator(apiKey, endpoint string) *PostalCodeLocator {
	if endpoint == "" {
		endpoint = openCageURL
	}
	return &PostalCodeLocator{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type openCageResponse struct {
	Results []struct {
		Components struct {
			Postcode string `json:"postcode"`
		} `json:"components"`
	} `json:"results"`
}

// PostalCode returns the postal code of the first result for lat, lng.
func (l *PostalCodeLocator) PostalCode(ctx context.Context, lat, lng float64) (string, error) {
	q := url.Values{}
	// OpenCage reads reverse queries as "lat,lng".
	q.Set("q", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("key", l.apiKey)
	q.Set("no_annotations", "1")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoding API error: %d", resp.StatusCode)
	}

	var body openCageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(body.Results) == 0 || body.Results[0].Components.Postcode == "" {
		return "", ErrNoPostalCode
	}
	return body.Results[0].Components.Postcode, nil
}
