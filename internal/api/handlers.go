// Package api exposes HTTP handlers for activity ingestion and reads.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"example.com/fitcoach/internal/auth"
	"example.com/fitcoach/internal/domain"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/activities", h.activities)
	mux.HandleFunc("/v1/activities/", h.activityByID)
	mux.HandleFunc("/v1/recommendations", h.recommendations)
	mux.HandleFunc("/v1/recommendations/activity/", h.recommendationsByActivity)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createActivity(w, r)
	case http.MethodGet:
		h.listActivities(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) activityByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/activities/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing activity id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getActivity(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeActivitiesWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope activities:write required")
		return
	}

	var req CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	activity, err := h.service.TrackActivity(r.Context(), domain.TrackActivityInput{
		UserID:         req.UserID,
		ActivityType:   req.ActivityType,
		DurationMin:    req.DurationMin,
		CaloriesBurned: req.CaloriesBurned,
		StartedAt:      req.StartedAt,
		Metrics:        req.Metrics,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidUser):
			writeError(w, http.StatusBadRequest, "invalid_user", err.Error())
		case errors.Is(err, domain.ErrPublishFailure):
			// Activity is persisted; only the event publish was rejected.
			writeError(w, http.StatusBadGateway, "publish_failed", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, toActivityView(*activity))
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeActivitiesRead) && !claims.HasScope(auth.ScopeActivitiesWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope activities:read required")
		return
	}

	activity, err := h.service.GetActivity(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toActivityView(*activity))
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeActivitiesRead) && !claims.HasScope(auth.ScopeActivitiesWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope activities:read required")
		return
	}

	userID := r.URL.Query().Get("user_id")
	if strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing user_id parameter")
		return
	}

	activities, err := h.service.ListUserActivities(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]ActivityView, 0, len(activities))
	for _, activity := range activities {
		items = append(items, toActivityView(activity))
	}
	writeJSON(w, http.StatusOK, ListActivitiesResponse{Items: items})
}

func (h *Handler) recommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeActivitiesRead) && !claims.HasScope(auth.ScopeActivitiesWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope activities:read required")
		return
	}

	userID := r.URL.Query().Get("user_id")
	if strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing user_id parameter")
		return
	}

	recs, err := h.service.ListUserRecommendations(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeRecommendations(w, recs)
}

func (h *Handler) recommendationsByActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeActivitiesRead) && !claims.HasScope(auth.ScopeActivitiesWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope activities:read required")
		return
	}

	activityID := strings.TrimPrefix(r.URL.Path, "/v1/recommendations/activity/")
	if activityID == "" || strings.Contains(activityID, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing activity id")
		return
	}

	recs, err := h.service.ListActivityRecommendations(r.Context(), activityID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeRecommendations(w, recs)
}

func writeRecommendations(w http.ResponseWriter, recs []domain.Recommendation) {
	items := make([]RecommendationView, 0, len(recs))
	for _, rec := range recs {
		items = append(items, toRecommendationView(rec))
	}
	writeJSON(w, http.StatusOK, ListRecommendationsResponse{Items: items})
}

// CreateActivityRequest is the payload for POST /v1/activities.
type CreateActivityRequest struct {
	UserID         string                 `json:"user_id"`
	ActivityType   string                 `json:"activity_type"`
	DurationMin    int                    `json:"duration_min"`
	CaloriesBurned int                    `json:"calories_burned"`
	StartedAt      time.Time              `json:"started_at"`
	Metrics        map[string]interface{} `json:"metrics"`
}

// Validate ensures request correctness before the service runs.
func (r CreateActivityRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if _, err := domain.ParseActivityType(r.ActivityType); err != nil {
		return err
	}
	if r.DurationMin < 0 {
		return errors.New("duration_min must not be negative")
	}
	if r.CaloriesBurned < 0 {
		return errors.New("calories_burned must not be negative")
	}
	if r.StartedAt.IsZero() {
		return errors.New("started_at is required")
	}
	return nil
}

// ActivityView exposes full details about an activity.
type ActivityView struct {
	ActivityID     string                 `json:"activity_id"`
	UserID         string                 `json:"user_id"`
	ActivityType   string                 `json:"activity_type"`
	DurationMin    int                    `json:"duration_min"`
	CaloriesBurned int                    `json:"calories_burned"`
	StartedAt      time.Time              `json:"started_at"`
	Metrics        map[string]interface{} `json:"metrics,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ListActivitiesResponse packages list results.
type ListActivitiesResponse struct {
	Items []ActivityView `json:"items"`
}

// RecommendationView exposes a stored recommendation.
type RecommendationView struct {
	RecommendationID string    `json:"recommendation_id"`
	ActivityID       string    `json:"activity_id"`
	UserID           string    `json:"user_id"`
	ActivityType     string    `json:"activity_type"`
	Analysis         string    `json:"analysis"`
	Improvements     []string  `json:"improvements"`
	Suggestions      []string  `json:"suggestions"`
	Safety           []string  `json:"safety"`
	CreatedAt        time.Time `json:"created_at"`
}

// ListRecommendationsResponse packages recommendation list results.
type ListRecommendationsResponse struct {
	Items []RecommendationView `json:"items"`
}

func toActivityView(activity domain.Activity) ActivityView {
	return ActivityView{
		ActivityID:     activity.ID,
		UserID:         activity.UserID,
		ActivityType:   string(activity.Type),
		DurationMin:    activity.DurationMin,
		CaloriesBurned: activity.CaloriesBurned,
		StartedAt:      activity.StartedAt,
		Metrics:        activity.Metrics,
		CreatedAt:      activity.CreatedAt,
		UpdatedAt:      activity.UpdatedAt,
	}
}

func toRecommendationView(rec domain.Recommendation) RecommendationView {
	return RecommendationView{
		RecommendationID: rec.ID,
		ActivityID:       rec.ActivityID,
		UserID:           rec.UserID,
		ActivityType:     rec.ActivityType,
		Analysis:         rec.Analysis,
		Improvements:     rec.Improvements,
		Suggestions:      rec.Suggestions,
		Safety:           rec.Safety,
		CreatedAt:        rec.CreatedAt,
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
