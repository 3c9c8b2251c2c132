package domain

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	created []Activity
	err     error
}

func (r *stubRepo) CreateActivity(_ context.Context, activity Activity) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, activity)
	return nil
}

func (r *stubRepo) GetActivity(context.Context, string) (*Activity, error) {
	return nil, nil
}

func (r *stubRepo) ListActivitiesByUser(context.Context, string) ([]Activity, error) {
	return nil, nil
}

type stubRecommendations struct{}

func (stubRecommendations) ListRecommendationsByActivity(context.Context, string) ([]Recommendation, error) {
	return nil, nil
}

func (stubRecommendations) ListRecommendationsByUser(context.Context, string) ([]Recommendation, error) {
	return nil, nil
}

type stubValidator struct {
	valid bool
	err   error
	calls int
}

func (v *stubValidator) ValidateUser(context.Context, string) (bool, error) {
	v.calls++
	return v.valid, v.err
}

type stubPublisher struct {
	published []Activity
	err       error
}

func (p *stubPublisher) PublishActivityCreated(_ context.Context, activity Activity) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, activity)
	return nil
}

type testWriter struct {
	t *testing.T
}

func (tw testWriter) Write(p []byte) (int, error) {
	tw.t.Log(string(p))
	return len(p), nil
}

func validInput() TrackActivityInput {
	return TrackActivityInput{
		UserID:         "user-1",
		ActivityType:   "RUNNING",
		DurationMin:    30,
		CaloriesBurned: 250,
		StartedAt:      time.Date(2026, time.February, 10, 7, 30, 0, 0, time.UTC),
		Metrics:        map[string]interface{}{"distance": "5km"},
	}
}

func newTestService(t *testing.T, repo *stubRepo, validator *stubValidator, publisher *stubPublisher, opts ...Option) *Service {
	t.Helper()
	opts = append(opts, WithLogger(log.New(testWriter{t}, "", 0)))
	return NewService(repo, stubRecommendations{}, validator, publisher, opts...)
}

func TestTrackActivityPersistsAndPublishesOnce(t *testing.T) {
	repo := &stubRepo{}
	validator := &stubValidator{valid: true}
	publisher := &stubPublisher{}
	service := newTestService(t, repo, validator, publisher)

	activity, err := service.TrackActivity(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, activity)
	require.NotEmpty(t, activity.ID)
	require.Equal(t, "user-1", activity.UserID)
	require.Equal(t, ActivityRunning, activity.Type)

	require.Len(t, repo.created, 1)
	require.Len(t, publisher.published, 1)

	published := publisher.published[0]
	require.Equal(t, activity.ID, published.ID)
	require.Equal(t, "user-1", published.UserID)
	require.Equal(t, ActivityRunning, published.Type)
}

func TestTrackActivityInvalidUserPersistsNothing(t *testing.T) {
	repo := &stubRepo{}
	validator := &stubValidator{valid: false}
	publisher := &stubPublisher{}
	service := newTestService(t, repo, validator, publisher)

	_, err := service.TrackActivity(context.Background(), validInput())
	require.ErrorIs(t, err, ErrInvalidUser)
	require.Empty(t, repo.created)
	require.Empty(t, publisher.published)
}

func TestTrackActivityValidatorErrorPropagates(t *testing.T) {
	repo := &stubRepo{}
	validator := &stubValidator{err: errors.New("user service unreachable")}
	publisher := &stubPublisher{}
	service := newTestService(t, repo, validator, publisher)

	_, err := service.TrackActivity(context.Background(), validInput())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidUser)
	require.Empty(t, repo.created)
}

func TestTrackActivityRejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*TrackActivityInput)
	}{
		{name: "empty user", mutate: func(in *TrackActivityInput) { in.UserID = " " }},
		{name: "unknown type", mutate: func(in *TrackActivityInput) { in.ActivityType = "SWIMMING" }},
		{name: "negative duration", mutate: func(in *TrackActivityInput) { in.DurationMin = -1 }},
		{name: "negative calories", mutate: func(in *TrackActivityInput) { in.CaloriesBurned = -5 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubRepo{}
			validator := &stubValidator{valid: true}
			publisher := &stubPublisher{}
			service := newTestService(t, repo, validator, publisher)

			input := validInput()
			tc.mutate(&input)

			_, err := service.TrackActivity(context.Background(), input)
			require.Error(t, err)
			require.Zero(t, validator.calls)
			require.Empty(t, repo.created)
		})
	}
}

func TestTrackActivityPublishFailureLogPolicy(t *testing.T) {
	repo := &stubRepo{}
	validator := &stubValidator{valid: true}
	publisher := &stubPublisher{err: errors.New("broker unreachable")}
	service := newTestService(t, repo, validator, publisher)

	activity, err := service.TrackActivity(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, activity)
	require.Len(t, repo.created, 1)
}

func TestTrackActivityPublishFailureFailPolicy(t *testing.T) {
	repo := &stubRepo{}
	validator := &stubValidator{valid: true}
	publisher := &stubPublisher{err: errors.New("broker unreachable")}
	service := newTestService(t, repo, validator, publisher,
		WithPublishFailurePolicy(PublishPolicyFail))

	_, err := service.TrackActivity(context.Background(), validInput())
	require.ErrorIs(t, err, ErrPublishFailure)
	// The activity was persisted before the publish was attempted.
	require.Len(t, repo.created, 1)
}
