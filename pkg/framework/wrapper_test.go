package framework

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stridecoach/server/pkg/bootstrap"
	"github.com/stridecoach/server/pkg/testing/mocks"
	"github.com/stridecoach/server/pkg/types"
)

func testService(db *mocks.MockDatabase) *bootstrap.Service {
	return &bootstrap.Service{
		DB:     db,
		Store:  &mocks.MockBlobStore{},
		Pub:    &mocks.MockPublisher{},
		Config: &bootstrap.Config{ProjectID: "test-project"},
	}
}

func TestWrapHTTPSuccess(t *testing.T) {
	var started, updates []map[string]interface{}
	db := &mocks.MockDatabase{
		SetExecutionFunc: func(ctx context.Context, record *types.ExecutionRecord) error {
			if record.Status != types.StatusStarted || record.Service != "test-fn" {
				t.Errorf("unexpected start record: %+v", record)
			}
			started = append(started, map[string]interface{}{"id": record.ExecutionID})
			return nil
		},
		UpdateExecutionFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
			updates = append(updates, data)
			return nil
		},
	}

	handler := func(ctx context.Context, r *http.Request, fwCtx *FrameworkContext) (*Response, error) {
		if fwCtx.ExecutionID == "" {
			t.Error("expected execution id")
		}
		return &Response{JSON: map[string]string{"hello": "world"}}, nil
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	WrapHTTP("test-fn", testService(db), handler)(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body map[string]string
	json.Unmarshal(rr.Body.Bytes(), &body)
	if body["hello"] != "world" {
		t.Errorf("body = %v", body)
	}

	if len(started) != 1 || len(updates) != 1 {
		t.Fatalf("execution rows: %d starts, %d updates", len(started), len(updates))
	}
	if updates[0]["status"] != types.StatusSuccess {
		t.Errorf("final status = %v", updates[0]["status"])
	}
}

func TestWrapHTTPTaxonomyError(t *testing.T) {
	var failureLogged bool
	db := &mocks.MockDatabase{
		UpdateExecutionFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
			if data["status"] == types.StatusFailed {
				failureLogged = true
			}
			return nil
		},
	}

	handler := func(ctx context.Context, r *http.Request, fwCtx *FrameworkContext) (*Response, error) {
		return nil, NewError(CodeFetchFailed, "Could not fetch activity from Strava", fmt.Errorf("status 503"))
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	WrapHTTP("test-fn", testService(db), handler)(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d", rr.Code)
	}
	var body ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &body)
	if body.Code != CodeFetchFailed {
		t.Errorf("code = %q", body.Code)
	}
	if body.Error != "Could not fetch activity from Strava" {
		t.Errorf("message = %q", body.Error)
	}
	if !failureLogged {
		t.Error("expected failure execution row")
	}
}

func TestWrapHTTPUnknownError(t *testing.T) {
	handler := func(ctx context.Context, r *http.Request, fwCtx *FrameworkContext) (*Response, error) {
		return nil, fmt.Errorf("something unexpected")
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	WrapHTTP("test-fn", testService(&mocks.MockDatabase{}), handler)(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rr.Code)
	}
	// Cause is logged, never written to the response.
	var body ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &body)
	if body.Error != "Internal server error" {
		t.Errorf("message = %q", body.Error)
	}
}

func TestWrapHTTPBookkeepingFailureDoesNotFailRequest(t *testing.T) {
	db := &mocks.MockDatabase{
		SetExecutionFunc: func(ctx context.Context, record *types.ExecutionRecord) error {
			return fmt.Errorf("firestore unavailable")
		},
		UpdateExecutionFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
			return fmt.Errorf("firestore unavailable")
		},
	}

	handler := func(ctx context.Context, r *http.Request, fwCtx *FrameworkContext) (*Response, error) {
		return &Response{HTML: "<h1>ok</h1>"}, nil
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	WrapHTTP("test-fn", testService(db), handler)(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		code string
		want int
	}{
		{CodeConfigError, http.StatusInternalServerError},
		{CodeBadRequest, http.StatusBadRequest},
		{CodeUpstreamError, http.StatusBadGateway},
		{CodeMissingUser, http.StatusInternalServerError},
		{CodeRefreshFailed, http.StatusInternalServerError},
		{CodeFetchFailed, http.StatusBadGateway},
		{CodeSummarizationFailed, http.StatusInternalServerError},
		{CodePersistenceError, http.StatusInternalServerError},
		{CodePublishFailed, http.StatusBadGateway},
	}
	for _, c := range cases {
		if got := StatusFor(NewError(c.code, "msg", nil)); got != c.want {
			t.Errorf("StatusFor(%s) = %d, want %d", c.code, got, c.want)
		}
	}

	if got := StatusFor(fmt.Errorf("plain")); got != http.StatusInternalServerError {
		t.Errorf("StatusFor(plain) = %d", got)
	}
}
