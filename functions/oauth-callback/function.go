package oauthcallback

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/stridecoach/server/pkg/bootstrap"
	"github.com/stridecoach/server/pkg/framework"
	"github.com/stridecoach/server/pkg/integrations/strava"
	"github.com/stridecoach/server/pkg/types"
)

var (
	svc     *bootstrap.Service
	svcOnce sync.Once
	svcErr  error
)

func init() {
	functions.HTTP("StravaOAuthCallback", StravaOAuthCallback)
}

func initService(ctx context.Context) (*bootstrap.Service, error) {
	if svc != nil {
		return svc, nil
	}
	svcOnce.Do(func() {
		baseSvc, err := bootstrap.NewService(ctx)
		if err != nil {
			slog.Error("Failed to initialize service", "error", err)
			svcErr = err
			return
		}
		svc = baseSvc
	})
	return svc, svcErr
}

// successHTML is shown in the athlete's browser after authorization.
const successHTML = `<html>
	<head><title>Success</title><style>body{font-family:sans-serif;text-align:center;padding-top:50px;}</style></head>
	<body>
		<h1>Authorization Successful!</h1>
		<p>You can now close this window. Your new activities will be analyzed automatically.</p>
	</body>
</html>`

// StravaOAuthCallback is the HTTP entry point for the OAuth redirect
func StravaOAuthCallback(w http.ResponseWriter, r *http.Request) {
	svc, err := initService(r.Context())
	if err != nil {
		slog.Error("Service init failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(framework.ErrorResponse{Error: "Internal server error"})
		return
	}
	framework.WrapHTTP("oauth-callback", svc, callbackHandler(nil))(w, r)
}

// callbackHandler contains the business logic.
// stravaClient can be injected for testing; if nil, the production client is
// built from configuration.
func callbackHandler(stravaClient *strava.Client) framework.HandlerFunc {
	return func(ctx context.Context, r *http.Request, fwCtx *framework.FrameworkContext) (*framework.Response, error) {
		cfg := fwCtx.Service.Config
		if err := cfg.Validate(); err != nil {
			return nil, framework.NewError(framework.CodeConfigError, "Server configuration error", err)
		}

		client := stravaClient
		if client == nil {
			client = strava.NewClient(cfg.StravaClientID, cfg.StravaClientSecret)
		}

		query := r.URL.Query()

		// Strava redirects with error=access_denied when the athlete
		// declines the authorization screen.
		if denied := query.Get("error"); denied != "" {
			return nil, framework.NewError(framework.CodeBadRequest, "Authorization was denied", fmt.Errorf("strava returned error=%s", denied))
		}

		code := query.Get("code")
		if code == "" {
			return nil, framework.NewError(framework.CodeBadRequest, "Authorization code is missing", nil)
		}

		token, err := client.ExchangeCode(ctx, code)
		if err != nil {
			return nil, framework.NewError(framework.CodeUpstreamError, "Failed to communicate with Strava", err)
		}
		if token.Athlete == nil {
			return nil, framework.NewError(framework.CodeUpstreamError, "Token response is missing athlete identity", nil)
		}

		// Full overwrite: at most one record per athlete, last write wins.
		cred := &types.AthleteCredential{
			AthleteID:      token.Athlete.ID,
			AccessToken:    token.AccessToken,
			RefreshToken:   token.RefreshToken,
			ExpiresAt:      token.ExpiresAt,
			FirstName:      token.Athlete.FirstName,
			LastName:       token.Athlete.LastName,
			ProfilePicture: token.Athlete.Profile,
			LastUpdated:    time.Now().Unix(),
		}

		if err := fwCtx.Service.DB.SetAthlete(ctx, cred); err != nil {
			// The exchange succeeded but the token cannot be saved; the
			// athlete must re-authorize.
			fwCtx.Logger.Error("Failed to save credentials after token exchange, token is lost",
				"athlete_id", token.Athlete.ID, "error", err)
			return nil, framework.NewError(framework.CodePersistenceError, "Failed to save user data", err)
		}

		fwCtx.Logger.Info("Saved credentials", "athlete_id", token.Athlete.ID)

		return &framework.Response{StatusCode: http.StatusOK, HTML: successHTML}, nil
	}
}
