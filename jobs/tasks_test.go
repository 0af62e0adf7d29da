package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful-app/forkful/internal/ratings"
	"github.com/forkful-app/forkful/jobs"
)

type recountRecorder struct {
	ratings.RepositoryPort
	recounts []string
	fail     bool
}

func (r *recountRecorder) Recount(ctx context.Context, recipeID string) error {
	if r.fail {
		return errors.New("db down")
	}
	r.recounts = append(r.recounts, recipeID)
	return nil
}

type sessionRecorder struct {
	purged  int
	removed int64
	fail    bool
}

func (s *sessionRecorder) CreateSession(ctx context.Context, id, userID string, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (s *sessionRecorder) DeleteSession(ctx context.Context, id string) error {
	return nil
}

func (s *sessionRecorder) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	if s.fail {
		return 0, errors.New("db down")
	}
	s.purged++
	return s.removed, nil
}

func TestRatingRecountTaskRoundTrip(t *testing.T) {
	task, err := jobs.NewRatingRecountTask("recipe-1")
	require.NoError(t, err)
	assert.Equal(t, jobs.TaskRatingRecount, task.Type())

	repo := &recountRecorder{}
	job := jobs.NewRatingRecountJob(repo, nil, nil)

	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, []string{"recipe-1"}, repo.recounts)
}

func TestRatingRecountSkipsBadPayload(t *testing.T) {
	repo := &recountRecorder{}
	job := jobs.NewRatingRecountJob(repo, nil, nil)
	ctx := context.Background()

	err := job.Handle(ctx, asynq.NewTask(jobs.TaskRatingRecount, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = job.Handle(ctx, asynq.NewTask(jobs.TaskRatingRecount, []byte(`{"recipe_id":""}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	assert.Empty(t, repo.recounts)
}

func TestRatingRecountPropagatesRepoError(t *testing.T) {
	repo := &recountRecorder{fail: true}
	job := jobs.NewRatingRecountJob(repo, nil, nil)

	task, err := jobs.NewRatingRecountTask("recipe-1")
	require.NoError(t, err)

	err = job.Handle(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestSessionPurge(t *testing.T) {
	repo := &sessionRecorder{removed: 7}
	job := jobs.NewSessionPurgeJob(repo, nil, nil)

	require.NoError(t, job.Handle(context.Background(), jobs.NewSessionAuditPurgeTask()))
	assert.Equal(t, 1, repo.purged)
}

func TestSessionPurgePropagatesRepoError(t *testing.T) {
	repo := &sessionRecorder{fail: true}
	job := jobs.NewSessionPurgeJob(repo, nil, nil)

	err := job.Handle(context.Background(), jobs.NewSessionAuditPurgeTask())
	assert.Error(t, err)
}
