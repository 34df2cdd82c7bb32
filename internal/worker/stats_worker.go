package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"docrag/internal/cache"
	"docrag/internal/event"
)

// StatsWorker consumes document lifecycle events and folds them into the
// Redis stat counters served by the stats endpoint.
type StatsWorker struct {
	conn      *amqp.Connection
	counters  *cache.StatsCounters
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewStatsWorker(conn *amqp.Connection, counters *cache.StatsCounters, queueName string) *StatsWorker {
	return &StatsWorker{
		conn:      conn,
		counters:  counters,
		queueName: queueName,
	}
}

func (w *StatsWorker) Start(ctx context.Context) error {
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

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
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

				var evt event.DocumentEvent
				if err := json.Unmarshal(d.Body, &evt); err != nil {
					log.Printf("worker decode document event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.apply(workerCtx, evt); err != nil {
					log.Printf("worker apply document event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *StatsWorker) apply(ctx context.Context, evt event.DocumentEvent) error {
	switch evt.Action {
	case event.ActionIngested:
		return w.counters.RecordIngest(ctx, evt.Chunks)
	case event.ActionDeleted:
		return w.counters.RecordDelete(ctx, evt.Chunks)
	default:
		return fmt.Errorf("unknown document event action %q", evt.Action)
	}
}

func (w *StatsWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
