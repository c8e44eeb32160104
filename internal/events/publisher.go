// Package events pushes domain events onto a Redis list for downstream
// consumers (notifications, analytics).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const DefaultQueue = "coursebank:events"

const (
	EnrollmentRequested = "enrollment.requested"
	EnrollmentValidated = "enrollment.validated"
	EnrollmentRejected  = "enrollment.rejected"
	EnrollmentCompleted = "enrollment.completed"
	CourseFeeSettled    = "course.fee_settled"
	CourseFeeReleased   = "course.fee_released"
)

type Event struct {
	Type       string            `json:"type"`
	Subject    string            `json:"subject"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// Publisher is safe to use with a nil Redis client; events are then dropped.
type Publisher struct {
	rdb   *redis.Client
	queue string
	now   func() time.Time
}

func NewPublisher(rdb *redis.Client, queue string) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Publisher{rdb: rdb, queue: queue, now: time.Now}
}

func (p *Publisher) Publish(ctx context.Context, eventType, subject string, data map[string]string) error {
	if p == nil || p.rdb == nil {
		return nil
	}

	payload, err := json.Marshal(Event{
		Type:       eventType,
		Subject:    subject,
		Data:       data,
		OccurredAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	if err := p.rdb.RPush(ctx, p.queue, payload).Err(); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}

// Emit publishes after a commit. Failures are logged and never surface to the
// caller, whose state change has already happened.
func (p *Publisher) Emit(ctx context.Context, eventType, subject string, data map[string]string) {
	if err := p.Publish(ctx, eventType, subject, data); err != nil {
		log.Printf("[EVENTS] %v", err)
	}
}
