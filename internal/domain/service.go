// Package domain defines the business logic for activity ingestion and reads.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/fitcoach/internal/observability"
)

var (
	// ErrInvalidUser is returned when the user validation service rejects the submitter.
	ErrInvalidUser = errors.New("user failed validation")
	// ErrActivityNotFound is returned when an activity cannot be located.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrPublishFailure wraps event bus errors when the fail policy is active.
	ErrPublishFailure = errors.New("activity event publish failed")
)

// PublishFailurePolicy names what TrackActivity does when the event bus
// rejects a publish. The activity is already persisted at that point under
// either policy.
type PublishFailurePolicy string

const (
	// PublishPolicyLog logs the failure and reports success to the caller.
	// An activity persisted under this policy may never receive a
	// recommendation.
	PublishPolicyLog PublishFailurePolicy = "log"
	// PublishPolicyFail surfaces the failure as ErrPublishFailure.
	PublishPolicyFail PublishFailurePolicy = "fail"
)

// ActivityRepository captures persistence operations for activities.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity Activity) error
	GetActivity(ctx context.Context, activityID string) (*Activity, error)
	ListActivitiesByUser(ctx context.Context, userID string) ([]Activity, error)
}

// RecommendationReader exposes the read side of stored recommendations.
type RecommendationReader interface {
	ListRecommendationsByActivity(ctx context.Context, activityID string) ([]Recommendation, error)
	ListRecommendationsByUser(ctx context.Context, userID string) ([]Recommendation, error)
}

// UserValidator checks a submitting user against the user service.
type UserValidator interface {
	ValidateUser(ctx context.Context, userID string) (bool, error)
}

// EventPublisher emits activity snapshots onto the event bus.
type EventPublisher interface {
	PublishActivityCreated(ctx context.Context, activity Activity) error
}

// Option configures optional Service behaviour.
type Option func(*Service)

// WithLogger overrides the logger used to report swallowed publish failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPublishFailurePolicy selects the publish failure policy.
func WithPublishFailurePolicy(policy PublishFailurePolicy) Option {
	return func(s *Service) {
		s.publishPolicy = policy
	}
}

// Service orchestrates activity ingestion and read workflows.
type Service struct {
	repo            ActivityRepository
	recommendations RecommendationReader
	users           UserValidator
	publisher       EventPublisher
	publishPolicy   PublishFailurePolicy
	logger          *log.Logger
}

// NewService constructs a Service.
func NewService(repo ActivityRepository, recommendations RecommendationReader, users UserValidator, publisher EventPublisher, opts ...Option) *Service {
	s := &Service{
		repo:            repo,
		recommendations: recommendations,
		users:           users,
		publisher:       publisher,
		publishPolicy:   PublishPolicyLog,
		logger:          log.New(log.Writer(), "[ingest] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TrackActivityInput captures the payload from the API layer.
type TrackActivityInput struct {
	UserID         string
	ActivityType   string
	DurationMin    int
	CaloriesBurned int
	StartedAt      time.Time
	Metrics        map[string]interface{}
}

// Validate enforces input constraints before any side effect.
func (in TrackActivityInput) Validate() error {
	if strings.TrimSpace(in.UserID) == "" {
		return errors.New("user id is required")
	}
	if _, err := ParseActivityType(in.ActivityType); err != nil {
		return err
	}
	if in.DurationMin < 0 {
		return errors.New("duration must not be negative")
	}
	if in.CaloriesBurned < 0 {
		return errors.New("calories burned must not be negative")
	}
	return nil
}

// TrackActivity validates the user, persists the activity, and publishes one
// activity.created event keyed by user id. The publish never blocks the
// caller on AI processing; its failure handling follows the configured
// PublishFailurePolicy.
func (s *Service) TrackActivity(ctx context.Context, input TrackActivityInput) (*Activity, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	valid, err := s.users.ValidateUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("validate user %s: %w", input.UserID, err)
	}
	if !valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUser, input.UserID)
	}

	activityType, err := ParseActivityType(input.ActivityType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	activity := Activity{
		ID:             uuid.NewString(),
		UserID:         input.UserID,
		Type:           activityType,
		DurationMin:    input.DurationMin,
		CaloriesBurned: input.CaloriesBurned,
		StartedAt:      input.StartedAt.UTC(),
		Metrics:        input.Metrics,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateActivity(ctx, activity); err != nil {
		return nil, err
	}
	observability.RecordActivityPersisted(now)

	if err := s.publisher.PublishActivityCreated(ctx, activity); err != nil {
		if s.publishPolicy == PublishPolicyFail {
			return nil, fmt.Errorf("%w: %v", ErrPublishFailure, err)
		}
		s.logger.Printf("publish failed (activity=%s, user=%s): %v", activity.ID, activity.UserID, err)
	}

	return &activity, nil
}

// GetActivity fetches an activity by ID.
func (s *Service) GetActivity(ctx context.Context, activityID string) (*Activity, error) {
	activity, err := s.repo.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// ListUserActivities fetches all activities recorded for a user.
func (s *Service) ListUserActivities(ctx context.Context, userID string) ([]Activity, error) {
	return s.repo.ListActivitiesByUser(ctx, userID)
}

// ListActivityRecommendations fetches recommendations generated for one activity.
func (s *Service) ListActivityRecommendations(ctx context.Context, activityID string) ([]Recommendation, error) {
	return s.recommendations.ListRecommendationsByActivity(ctx, activityID)
}

// ListUserRecommendations fetches all recommendations generated for a user.
func (s *Service) ListUserRecommendations(ctx context.Context, userID string) ([]Recommendation, error) {
	return s.recommendations.ListRecommendationsByUser(ctx, userID)
}
