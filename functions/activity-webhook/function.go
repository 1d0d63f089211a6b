package activitywebhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	shared "github.com/stridecoach/server/pkg"
	"github.com/stridecoach/server/pkg/bootstrap"
	"github.com/stridecoach/server/pkg/framework"
	infrapubsub "github.com/stridecoach/server/pkg/infrastructure/pubsub"
	infrastorage "github.com/stridecoach/server/pkg/infrastructure/storage"
	"github.com/stridecoach/server/pkg/insights"
	"github.com/stridecoach/server/pkg/integrations/strava"
	"github.com/stridecoach/server/pkg/types"
)

var (
	svc     *bootstrap.Service
	svcOnce sync.Once
	svcErr  error
)

func init() {
	functions.HTTP("StravaActivityWebhook", StravaActivityWebhook)
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

// insightsHeader prefixes the generated summary when appended to the
// activity's existing description.
const insightsHeader = "\U0001F916 AI-Powered Insights:"

// StravaActivityWebhook is the HTTP entry point for Strava push notifications.
// GET requests are the one-time subscription validation handshake; POST
// requests carry activity events.
func StravaActivityWebhook(w http.ResponseWriter, r *http.Request) {
	svc, err := initService(r.Context())
	if err != nil {
		slog.Error("Service init failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(framework.ErrorResponse{Error: "Internal server error"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		handleSubscriptionValidation(w, r, svc.Config)
	case http.MethodPost:
		framework.WrapHTTP("activity-webhook", svc, webhookHandler(nil, nil))(w, r)
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(framework.ErrorResponse{Error: "Method not allowed"})
	}
}

// handleSubscriptionValidation echoes hub.challenge for Strava's subscription
// handshake. No execution row is written for these pings.
func handleSubscriptionValidation(w http.ResponseWriter, r *http.Request, cfg *bootstrap.Config) {
	query := r.URL.Query()
	w.Header().Set("Content-Type", "application/json")

	// An unset verify token must never validate, or any subscribe ping
	// would match empty against empty.
	if cfg.StravaVerifyToken == "" {
		slog.Warn("Webhook validation rejected, no verify token configured")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(framework.ErrorResponse{Error: "Verification failed"})
		return
	}

	if query.Get("hub.mode") != "subscribe" || query.Get("hub.verify_token") != cfg.StravaVerifyToken {
		slog.Warn("Webhook validation rejected", "mode", query.Get("hub.mode"))
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(framework.ErrorResponse{Error: "Verification failed"})
		return
	}

	slog.Info("Webhook validation succeeded")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"hub.challenge": query.Get("hub.challenge")})
}

// webhookHandler contains the processing pipeline. Each external call is
// attempted exactly once; the first failure aborts the rest of the pipeline,
// except the workout write which is best-effort.
// stravaClient and summarizer can be injected for testing.
func webhookHandler(stravaClient *strava.Client, summarizer insights.Summarizer) framework.HandlerFunc {
	return func(ctx context.Context, r *http.Request, fwCtx *framework.FrameworkContext) (*framework.Response, error) {
		cfg := fwCtx.Service.Config
		if err := cfg.Validate(); err != nil {
			return nil, framework.NewError(framework.CodeConfigError, "Server configuration error", err)
		}

		client := stravaClient
		if client == nil {
			client = strava.NewClient(cfg.StravaClientID, cfg.StravaClientSecret)
		}
		gen := summarizer
		if gen == nil {
			gen = insights.NewGeminiSummarizer(cfg.GeminiAPIKey)
		}

		// 1. Parse & filter
		var event types.WebhookEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			return nil, framework.NewError(framework.CodeBadRequest, "Malformed event payload", err)
		}

		if event.AspectType != types.AspectCreate {
			fwCtx.Logger.Info("Ignoring non-create event", "aspect_type", event.AspectType)
			return &framework.Response{
				StatusCode: http.StatusOK,
				JSON:       map[string]string{"message": "Event ignored (not a create event)."},
			}, nil
		}

		logger := fwCtx.Logger.With("athlete_id", event.OwnerID, "activity_id", event.ObjectID)
		logger.Info("Processing activity creation")

		// 2. Credential lookup. No auto-provisioning: an unknown athlete is
		// a terminal error.
		cred, err := fwCtx.Service.DB.GetAthlete(ctx, event.OwnerID)
		if err != nil {
			return nil, framework.NewError(framework.CodeMissingUser, "Could not retrieve user data", err)
		}

		// 3. Token freshness. The access token used downstream is always the
		// freshest one obtained here.
		accessToken := cred.AccessToken
		if cred.Expired(time.Now()) {
			logger.Info("Token expired, refreshing")
			token, err := client.Refresh(ctx, cred.RefreshToken)
			if err != nil {
				return nil, framework.NewError(framework.CodeRefreshFailed, "Failed to refresh Strava token", err)
			}
			if err := fwCtx.Service.DB.UpdateAthleteTokens(ctx, event.OwnerID, token.AccessToken, token.RefreshToken, token.ExpiresAt); err != nil {
				return nil, framework.NewError(framework.CodeRefreshFailed, "Failed to persist refreshed token", err)
			}
			accessToken = token.AccessToken
			logger.Info("Token refreshed and updated")
		}

		// 4. Fetch activity
		activity, err := client.GetActivity(ctx, accessToken, event.ObjectID)
		if err != nil {
			return nil, framework.NewError(framework.CodeFetchFailed, "Could not fetch activity from Strava", err)
		}

		// 5. Derived metrics
		metrics := insights.DeriveMetrics(activity)

		// Archive the raw payload; never terminal.
		archiveActivity(ctx, fwCtx, activity, event)

		// 6. Summarize. The activity is never annotated without a summary.
		summary, err := gen.Summarize(ctx, metrics)
		if err != nil {
			return nil, framework.NewError(framework.CodeSummarizationFailed, "Failed to get insights from AI model", err)
		}

		// 7. Persist workout. Best-effort: publishing the summary to the
		// athlete is prioritized over internal record-keeping.
		record := &types.WorkoutRecord{
			ActivityID:    event.ObjectID,
			AthleteID:     event.OwnerID,
			Type:          metrics.Type,
			DistanceKm:    types.Round2(metrics.DistanceKm),
			MovingTimeMin: types.Round1(metrics.MovingTimeMin),
			AvgPaceMinKm:  types.Round2(metrics.AvgPaceMinKm),
			AvgHeartRate:  metrics.AvgHeartRate,
			Insights:      summary,
			ActivityDate:  activity.StartDateLocal,
			EventTime:     time.Now().Unix(),
		}
		if err := fwCtx.Service.DB.SetWorkout(ctx, record); err != nil {
			logger.Error("Failed to save workout record, continuing", "error", err)
		}

		// 8. Publish update back to Strava, preserving the prior description.
		newDescription := fmt.Sprintf("%s\n\n%s\n%s", activity.Description, insightsHeader, summary)
		if err := client.UpdateActivity(ctx, accessToken, event.ObjectID, newDescription); err != nil {
			return nil, framework.NewError(framework.CodePublishFailed, "Could not update Strava activity", err)
		}

		publishProcessedEvent(ctx, fwCtx, record)

		logger.Info("Activity annotated with insights")
		return &framework.Response{
			StatusCode: http.StatusOK,
			JSON: map[string]interface{}{
				"message":     fmt.Sprintf("Successfully processed activity %d", event.ObjectID),
				"activity_id": event.ObjectID,
			},
		}, nil
	}
}

// archiveActivity writes the raw activity JSON to the artifact bucket.
// Best-effort: failures are logged and the pipeline continues.
func archiveActivity(ctx context.Context, fwCtx *framework.FrameworkContext, activity *strava.Activity, event types.WebhookEvent) {
	bucket := fwCtx.Service.Config.GCSArtifactBucket
	if bucket == "" {
		return
	}

	raw, err := json.Marshal(activity)
	if err != nil {
		fwCtx.Logger.Warn("Failed to marshal activity for archival", "error", err)
		return
	}

	object := infrastorage.ActivityObjectName(event.OwnerID, event.ObjectID)
	if err := fwCtx.Service.Store.Write(ctx, bucket, object, raw); err != nil {
		fwCtx.Logger.Warn("Failed to archive raw activity", "bucket", bucket, "object", object, "error", err)
	}
}

// publishProcessedEvent emits a workout.processed CloudEvent for downstream
// consumers. Best-effort: failures are logged, never surfaced.
func publishProcessedEvent(ctx context.Context, fwCtx *framework.FrameworkContext, record *types.WorkoutRecord) {
	e, err := infrapubsub.NewCloudEvent("/activity-webhook", infrapubsub.EventTypeWorkoutProcessed, record)
	if err != nil {
		fwCtx.Logger.Warn("Failed to build workout.processed event", "error", err)
		return
	}

	if _, err := fwCtx.Service.Pub.PublishCloudEvent(ctx, shared.TopicWorkoutProcessed, e); err != nil {
		fwCtx.Logger.Warn("Failed to publish workout.processed event", "error", err)
	}
}
