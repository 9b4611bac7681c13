package event

import (
	"context"
	"time"
)

// ReviewCreated is published after a review row has been committed.
type ReviewCreated struct {
	ReviewID  uint      `json:"review_id"`
	BurgerID  uint      `json:"burger_id"`
	UserID    uint      `json:"user_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// Handler reacts to review events. Implementations must tolerate the same
// event being delivered more than once.
type Handler interface {
	HandleReviewCreated(ctx context.Context, evt ReviewCreated) error
}

// InlinePublisher hands events straight to a Handler in the caller's
// goroutine. Used when no broker is configured.
type InlinePublisher struct {
	handler Handler
}

func NewInlinePublisher(handler Handler) *InlinePublisher {
	return &InlinePublisher{handler: handler}
}

func (p *InlinePublisher) Publish(ctx context.Context, evt ReviewCreated) error {
	return p.handler.HandleReviewCreated(ctx, evt)
}
