// Package strava is a minimal client for the pieces of the Strava v3 API
// this system touches: the OAuth token endpoint and activity read/update.
// Every call is attempted exactly once; failures surface to the caller.
package strava

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	httputil "github.com/stridecoach/server/pkg/infrastructure/http"
)

const DefaultBaseURL = "https://www.strava.com"

// Athlete is the identity object returned on the initial code exchange.
type Athlete struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Profile   string `json:"profile"`
}

// TokenResponse is the token endpoint response for both grant types.
// The athlete object is only present on the authorization-code exchange.
type TokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresAt    int64    `json:"expires_at"`
	Athlete      *Athlete `json:"athlete,omitempty"`
}

// Activity is the subset of the activity detail we consume.
// AverageHeartRate is a pointer so an absent field is distinguishable from 0.
type Activity struct {
	ID               int64    `json:"id"`
	Type             string   `json:"type"`
	Name             string   `json:"name"`
	Distance         float64  `json:"distance"`    // meters
	MovingTime       int64    `json:"moving_time"` // seconds
	AverageHeartRate *float64 `json:"average_heartrate,omitempty"`
	Description      string   `json:"description"`
	StartDateLocal   string   `json:"start_date_local"`
}

// Client calls the Strava API. BaseURL and HTTPClient are injectable for
// tests; zero values use production defaults.
type Client struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	HTTPClient   *http.Client
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// ExchangeCode trades an authorization code for a token pair. The response
// includes the athlete identity.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	data := url.Values{}
	data.Set("client_id", c.ClientID)
	data.Set("client_secret", c.ClientSecret)
	data.Set("code", code)
	data.Set("grant_type", "authorization_code")
	return c.token(ctx, data)
}

// Refresh trades a refresh token for a fresh token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	data := url.Values{}
	data.Set("client_id", c.ClientID)
	data.Set("client_secret", c.ClientSecret)
	data.Set("refresh_token", refreshToken)
	data.Set("grant_type", "refresh_token")
	return c.token(ctx, data)
}

func (c *Client) token(ctx context.Context, data url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+"/api/v3/oauth/token", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.ParseErrorResponse(resp); err != nil {
		return nil, err
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	return &token, nil
}

// GetActivity fetches the activity detail by id using bearer auth.
func (c *Client) GetActivity(ctx context.Context, accessToken string, activityID int64) (*Activity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.activityURL(activityID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("activity fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.ParseErrorResponse(resp); err != nil {
		return nil, err
	}

	var activity Activity
	if err := json.NewDecoder(resp.Body).Decode(&activity); err != nil {
		return nil, fmt.Errorf("failed to decode activity: %w", err)
	}
	return &activity, nil
}

// UpdateActivity replaces the activity description.
func (c *Client) UpdateActivity(ctx context.Context, accessToken string, activityID int64, description string) error {
	body, err := json.Marshal(map[string]string{"description": description})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.activityURL(activityID), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("activity update failed: %w", err)
	}
	defer resp.Body.Close()

	return httputil.ParseErrorResponse(resp)
}

func (c *Client) activityURL(activityID int64) string {
	return fmt.Sprintf("%s/api/v3/activities/%d", c.baseURL(), activityID)
}
