package oauthcallback

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stridecoach/server/pkg/bootstrap"
	"github.com/stridecoach/server/pkg/framework"
	"github.com/stridecoach/server/pkg/integrations/strava"
	"github.com/stridecoach/server/pkg/testing/mocks"
	"github.com/stridecoach/server/pkg/types"
)

func testConfig() *bootstrap.Config {
	return &bootstrap.Config{
		ProjectID:          "test-project",
		StravaClientID:     "12345",
		StravaClientSecret: "secret",
		AthleteCollection:  "athletes",
		WorkoutCollection:  "workouts",
	}
}

func testService(db *mocks.MockDatabase, cfg *bootstrap.Config) *bootstrap.Service {
	return &bootstrap.Service{
		DB:     db,
		Store:  &mocks.MockBlobStore{},
		Pub:    &mocks.MockPublisher{},
		Config: cfg,
	}
}

func serve(svc *bootstrap.Service, client *strava.Client, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	framework.WrapHTTP("oauth-callback", svc, callbackHandler(client))(rr, req)
	return rr
}

func stravaStub(t *testing.T, handler http.HandlerFunc) *strava.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &strava.Client{
		ClientID:     "12345",
		ClientSecret: "secret",
		BaseURL:      server.URL,
		HTTPClient:   server.Client(),
	}
}

func TestCallbackSuccess(t *testing.T) {
	exchangeCalls := 0
	client := stravaStub(t, func(w http.ResponseWriter, r *http.Request) {
		exchangeCalls++
		r.ParseForm()
		if r.PostFormValue("code") != "good-code" {
			t.Errorf("code = %q", r.PostFormValue("code"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "acc-1",
			"refresh_token": "ref-1",
			"expires_at":    1700000000,
			"athlete": map[string]interface{}{
				"id":        42,
				"firstname": "Jo",
				"lastname":  "Runner",
				"profile":   "https://example.com/jo.jpg",
			},
		})
	})

	var saved *types.AthleteCredential
	db := &mocks.MockDatabase{
		SetAthleteFunc: func(ctx context.Context, cred *types.AthleteCredential) error {
			saved = cred
			return nil
		},
	}

	rr := serve(testService(db, testConfig()), client, "/callback?code=good-code")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Authorization Successful") {
		t.Errorf("expected success page, got %q", rr.Body.String())
	}
	if exchangeCalls != 1 {
		t.Errorf("exchange calls = %d", exchangeCalls)
	}

	// Exactly one record, fields copied verbatim from the token response.
	if saved == nil {
		t.Fatal("expected credential to be saved")
	}
	if saved.AthleteID != 42 || saved.AccessToken != "acc-1" || saved.RefreshToken != "ref-1" || saved.ExpiresAt != 1700000000 {
		t.Errorf("unexpected credential: %+v", saved)
	}
	if saved.FirstName != "Jo" || saved.LastName != "Runner" || saved.ProfilePicture != "https://example.com/jo.jpg" {
		t.Errorf("unexpected identity fields: %+v", saved)
	}
	if saved.LastUpdated == 0 {
		t.Error("expected last_updated to be set")
	}
}

func TestCallbackMissingCode(t *testing.T) {
	db := &mocks.MockDatabase{
		SetAthleteFunc: func(ctx context.Context, cred *types.AthleteCredential) error {
			t.Error("unexpected credential write")
			return nil
		},
	}

	rr := serve(testService(db, testConfig()), strava.NewClient("12345", "secret"), "/callback")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestCallbackUserDenied(t *testing.T) {
	rr := serve(testService(&mocks.MockDatabase{}, testConfig()), strava.NewClient("12345", "secret"), "/callback?error=access_denied")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestCallbackExchangeFails(t *testing.T) {
	client := stravaStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rr := serve(testService(&mocks.MockDatabase{}, testConfig()), client, "/callback?code=good-code")

	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestCallbackPersistenceFails(t *testing.T) {
	client := stravaStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "acc-1",
			"refresh_token": "ref-1",
			"expires_at":    1700000000,
			"athlete":       map[string]interface{}{"id": 42},
		})
	})

	db := &mocks.MockDatabase{
		SetAthleteFunc: func(ctx context.Context, cred *types.AthleteCredential) error {
			return fmt.Errorf("firestore unavailable")
		},
	}

	rr := serve(testService(db, testConfig()), client, "/callback?code=good-code")

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestCallbackMissingConfig(t *testing.T) {
	cfg := testConfig()
	cfg.StravaClientSecret = ""

	rr := serve(testService(&mocks.MockDatabase{}, cfg), strava.NewClient("12345", ""), "/callback?code=good-code")

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rr.Code)
	}
	var body framework.ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &body)
	if body.Code != framework.CodeConfigError {
		t.Errorf("code = %q", body.Code)
	}
}
