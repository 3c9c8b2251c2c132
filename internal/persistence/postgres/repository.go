// Package postgres provides pgx-backed persistence for activities and
// recommendations.
package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/fitcoach/internal/domain"
)

// Repository stores activities and recommendations. The two writes are
// independent, non-transactional operations owned by different processes.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateActivity persists a new activity.
func (r *Repository) CreateActivity(ctx context.Context, activity domain.Activity) error {
	metrics, err := marshalMetrics(activity.Metrics)
	if err != nil {
		return err
	}

	const stmt = `INSERT INTO activities (activity_id, user_id, activity_type, duration_min, calories_burned, started_at, metrics, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err = r.pool.Exec(ctx, stmt,
		activity.ID,
		activity.UserID,
		string(activity.Type),
		activity.DurationMin,
		activity.CaloriesBurned,
		activity.StartedAt,
		metrics,
		activity.CreatedAt,
		activity.UpdatedAt,
	)
	return err
}

// GetActivity retrieves an activity by ID; nil when absent.
func (r *Repository) GetActivity(ctx context.Context, activityID string) (*domain.Activity, error) {
	const query = `SELECT activity_id, user_id, activity_type, duration_min, calories_burned, started_at, metrics, created_at, updated_at
        FROM activities WHERE activity_id=$1`

	row := r.pool.QueryRow(ctx, query, activityID)
	activity, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return activity, nil
}

// ListActivitiesByUser returns a user's activities, most recent first.
func (r *Repository) ListActivitiesByUser(ctx context.Context, userID string) ([]domain.Activity, error) {
	const query = `SELECT activity_id, user_id, activity_type, duration_min, calories_burned, started_at, metrics, created_at, updated_at
        FROM activities WHERE user_id=$1 ORDER BY started_at DESC, activity_id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *activity)
	}
	return results, rows.Err()
}

// CreateRecommendation persists a recommendation. Duplicates for the same
// activity are possible after event redelivery and are stored as-is.
func (r *Repository) CreateRecommendation(ctx context.Context, rec domain.Recommendation) error {
	const stmt = `INSERT INTO recommendations (recommendation_id, activity_id, user_id, activity_type, analysis, improvements, suggestions, safety, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err := r.pool.Exec(ctx, stmt,
		rec.ID,
		rec.ActivityID,
		rec.UserID,
		rec.ActivityType,
		rec.Analysis,
		rec.Improvements,
		rec.Suggestions,
		rec.Safety,
		rec.CreatedAt,
	)
	return err
}

// ListRecommendationsByActivity returns recommendations for one activity.
func (r *Repository) ListRecommendationsByActivity(ctx context.Context, activityID string) ([]domain.Recommendation, error) {
	const query = `SELECT recommendation_id, activity_id, user_id, activity_type, analysis, improvements, suggestions, safety, created_at
        FROM recommendations WHERE activity_id=$1 ORDER BY created_at DESC`
	return r.queryRecommendations(ctx, query, activityID)
}

// ListRecommendationsByUser returns all recommendations for a user.
func (r *Repository) ListRecommendationsByUser(ctx context.Context, userID string) ([]domain.Recommendation, error) {
	const query = `SELECT recommendation_id, activity_id, user_id, activity_type, analysis, improvements, suggestions, safety, created_at
        FROM recommendations WHERE user_id=$1 ORDER BY created_at DESC`
	return r.queryRecommendations(ctx, query, userID)
}

func (r *Repository) queryRecommendations(ctx context.Context, query string, arg interface{}) ([]domain.Recommendation, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Recommendation
	for rows.Next() {
		var rec domain.Recommendation
		if err := rows.Scan(&rec.ID, &rec.ActivityID, &rec.UserID, &rec.ActivityType, &rec.Analysis, &rec.Improvements, &rec.Suggestions, &rec.Safety, &rec.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var (
		activity domain.Activity
		rawType  string
		metrics  []byte
	)
	if err := row.Scan(&activity.ID, &activity.UserID, &rawType, &activity.DurationMin, &activity.CaloriesBurned, &activity.StartedAt, &metrics, &activity.CreatedAt, &activity.UpdatedAt); err != nil {
		return nil, err
	}
	activity.Type = domain.ActivityType(rawType)
	if len(metrics) > 0 {
		if err := json.Unmarshal(metrics, &activity.Metrics); err != nil {
			return nil, err
		}
	}
	return &activity, nil
}

func marshalMetrics(metrics map[string]interface{}) ([]byte, error) {
	if metrics == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(metrics)
}
