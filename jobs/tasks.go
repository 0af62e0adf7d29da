package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/forkful-app/forkful/internal/auth"
	"github.com/forkful-app/forkful/internal/observability"
	"github.com/forkful-app/forkful/internal/ratings"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRatingRecount refreshes the denormalized rating aggregate of one recipe.
	TaskRatingRecount = "ratings:recount"
	// TaskSessionAuditPurge removes expired session audit rows.
	TaskSessionAuditPurge = "sessions:purge"
)

// RatingRecountPayload identifies the recipe to recount.
type RatingRecountPayload struct {
	RecipeID string `json:"recipe_id"`
}

// NewRatingRecountTask constructs an Asynq task.
func NewRatingRecountTask(recipeID string) (*asynq.Task, error) {
	data, err := json.Marshal(RatingRecountPayload{RecipeID: recipeID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRatingRecount, data), nil
}

// NewSessionAuditPurgeTask constructs an Asynq task.
func NewSessionAuditPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskSessionAuditPurge, nil)
}

// RatingRecountJob refreshes rating aggregates.
type RatingRecountJob struct {
	repo    ratings.RepositoryPort
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewRatingRecountJob constructs the job.
func NewRatingRecountJob(repo ratings.RepositoryPort, logger *slog.Logger, metrics *observability.Metrics) *RatingRecountJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &RatingRecountJob{repo: repo, logger: logger, metrics: metrics}
}

// Handle processes TaskRatingRecount tasks.
func (j *RatingRecountJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload RatingRecountPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.RecipeID == "" {
		return asynq.SkipRetry
	}
	if err := j.repo.Recount(ctx, payload.RecipeID); err != nil {
		j.metrics.ObserveJob(TaskRatingRecount, "error")
		return err
	}
	j.metrics.ObserveJob(TaskRatingRecount, "ok")
	return nil
}

// SessionPurgeJob deletes expired session audit rows.
type SessionPurgeJob struct {
	repo    auth.Repository
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSessionPurgeJob constructs the job.
func NewSessionPurgeJob(repo auth.Repository, logger *slog.Logger, metrics *observability.Metrics) *SessionPurgeJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionPurgeJob{repo: repo, logger: logger, metrics: metrics}
}

// Handle processes TaskSessionAuditPurge tasks.
func (j *SessionPurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	removed, err := j.repo.DeleteExpiredSessions(ctx, time.Now().UTC())
	if err != nil {
		j.metrics.ObserveJob(TaskSessionAuditPurge, "error")
		return err
	}
	if removed > 0 {
		j.logger.Info("purged expired sessions", slog.Int64("count", removed))
	}
	j.metrics.ObserveJob(TaskSessionAuditPurge, "ok")
	return nil
}
