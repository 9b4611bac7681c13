package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RatingWorker consumes ReviewCreated events from the queue and passes them
// to a Handler. A delivery that fails once is requeued; a second failure
// drops it.
type RatingWorker struct {
	conn      *amqp.Connection
	handler   Handler
	queueName string
	log       *zap.SugaredLogger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRatingWorker(conn *amqp.Connection, handler Handler, queueName string, log *zap.SugaredLogger) *RatingWorker {
	return &RatingWorker{
		conn:      conn,
		handler:   handler,
		queueName: queueName,
		log:       log,
	}
}

func (w *RatingWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := declareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()
		w.consume(workerCtx, deliveries)
	}()

	w.log.Infow("rating worker started", "queue", w.queueName)
	return nil
}

func (w *RatingWorker) consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *RatingWorker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var evt ReviewCreated
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		w.log.Errorw("decode review event failed", "error", err)
		_ = d.Nack(false, false)
		return
	}

	if err := w.handler.HandleReviewCreated(ctx, evt); err != nil {
		w.log.Errorw("handle review event failed",
			"review_id", evt.ReviewID,
			"burger_id", evt.BurgerID,
			"redelivered", d.Redelivered,
			"error", err,
		)
		_ = d.Nack(false, !d.Redelivered)
		return
	}

	_ = d.Ack(false)
}

func (w *RatingWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
