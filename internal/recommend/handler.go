package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"example.com/fitcoach/internal/ai"
	"example.com/fitcoach/internal/consumer"
	"example.com/fitcoach/internal/domain"
	"example.com/fitcoach/internal/events"
	"example.com/fitcoach/internal/observability"
)

// TextGenerator produces raw model output for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Repository persists assembled recommendations.
type Repository interface {
	CreateRecommendation(ctx context.Context, rec domain.Recommendation) error
}

// Option configures optional Handler behaviour.
type Option func(*Handler)

// WithLogger overrides the handler's logger.
func WithLogger(logger *log.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// Handler consumes activity.created events and persists exactly one
// recommendation per handled event. Model and normalization failures fall
// back to the default recommendation; only a persistence error propagates.
type Handler struct {
	generator TextGenerator
	repo      Repository
	logger    *log.Logger
}

// NewHandler constructs a Handler.
func NewHandler(generator TextGenerator, repo Repository, opts ...Option) *Handler {
	h := &Handler{
		generator: generator,
		repo:      repo,
		logger:    log.New(log.Writer(), "[recommend] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle runs the prompt → model → normalize → assemble → persist pipeline
// for one consumed message.
func (h *Handler) Handle(ctx context.Context, msg consumer.Message) error {
	if msg.EventType != events.EventTypeActivityCreated {
		return nil
	}

	var event events.ActivityCreated
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("decode activity.created payload: %w", err)
	}
	activity := event.Activity()

	rec, fallback := h.generate(ctx, activity)

	if err := h.repo.CreateRecommendation(ctx, rec); err != nil {
		return fmt.Errorf("persist recommendation (activity=%s): %w", activity.ID, err)
	}
	observability.RecordRecommendationPersisted(rec.CreatedAt)
	recordRecommendation(fallback)
	return nil
}

func (h *Handler) generate(ctx context.Context, activity domain.Activity) (domain.Recommendation, bool) {
	prompt := ai.BuildPrompt(activity)
	now := time.Now().UTC()

	start := time.Now()
	raw, err := h.generator.GenerateText(ctx, prompt)
	recordModelLatency(time.Since(start))
	if err != nil {
		h.logger.Printf("model call failed (activity=%s): %v", activity.ID, err)
		recordFallback("transport")
		return Default(activity, now), true
	}

	parsed, err := ai.Normalize(raw)
	if err != nil {
		h.logger.Printf("response normalization failed (activity=%s): %v", activity.ID, err)
		recordFallback("malformed")
		return Default(activity, now), true
	}

	return Assemble(activity, parsed, now), false
}
