package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"redrose-ai/internal/model"
	"redrose-ai/internal/platform/rabbitmq"
)

type ActivityStore interface {
	Create(ctx context.Context, activity *model.Activity) error
}

// ActivityWorker drains the activity queue into the activities table.
type ActivityWorker struct {
	conn      *amqp.Connection
	store     ActivityStore
	queueName string
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewActivityWorker(conn *amqp.Connection, store ActivityStore, queueName string, logger *zap.Logger) *ActivityWorker {
	return &ActivityWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
		logger:    logger,
	}
}

func (w *ActivityWorker) Start(ctx context.Context) error {
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

	if _, err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
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

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.handle(workerCtx, d.Body); err != nil {
					w.logger.Warn("activity worker dropped delivery", zap.Error(err))
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *ActivityWorker) handle(ctx context.Context, body []byte) error {
	var activity model.Activity
	if err := json.Unmarshal(body, &activity); err != nil {
		return fmt.Errorf("decode activity failed: %w", err)
	}
	if activity.UserID == 0 || activity.Kind == "" {
		return fmt.Errorf("activity missing user or kind")
	}
	activity.ID = 0
	return w.store.Create(ctx, &activity)
}

func (w *ActivityWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
