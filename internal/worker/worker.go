package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/worker/processors"

	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of kafka.Reader the worker uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Purger drops expired cache rows. The SQL store implements it.
type Purger interface {
	Purge(ctx context.Context) (int, error)
}

type Worker struct {
	config        *config.Config
	logger        *logger.Logger
	reader        MessageReader
	processor     *processors.EventProcessor
	purger        Purger
	purgeInterval time.Duration
}

func New(cfg *config.Config, logger *logger.Logger, processor *processors.EventProcessor) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers(),
		GroupID:        cfg.KafkaGroupID,
		Topic:          cfg.KafkaTopic,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})
	return NewWithReader(cfg, logger, reader, processor)
}

func NewWithReader(cfg *config.Config, logger *logger.Logger, reader MessageReader, processor *processors.EventProcessor) *Worker {
	return &Worker{
		config:    cfg,
		logger:    logger,
		reader:    reader,
		processor: processor,
	}
}

// WithPurger enables periodic removal of expired cache rows.
func (w *Worker) WithPurger(p Purger, interval time.Duration) *Worker {
	w.purger = p
	w.purgeInterval = interval
	return w
}

// Start consumes events until ctx is cancelled. Malformed and unknown events
// are logged and committed so they do not block the partition.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Worker started, listening on %s...", w.config.KafkaTopic)

	if w.purger != nil && w.purgeInterval > 0 {
		go w.purgeLoop(ctx)
	}

	for {
		message, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Error("Failed to read message: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))
		w.handle(ctx, message.Value)

		if err := w.reader.CommitMessages(ctx, message); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("Failed to commit message: %v", err)
		}
	}
}

func (w *Worker) handle(ctx context.Context, value []byte) {
	var event processors.Event
	if err := json.Unmarshal(value, &event); err != nil {
		w.logger.Error("Failed to parse event: %v", err)
		return
	}

	if err := w.processor.Process(ctx, event); err != nil {
		w.logger.Warn("Failed to process event: %v", err)
		return
	}

	w.logger.Debug("Event processed successfully")
}

func (w *Worker) purgeLoop(ctx context.Context) {
	ticker := time.NewTicker(w.purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := w.purger.Purge(ctx)
			if err != nil {
				w.logger.Error("Failed to purge cache: %v", err)
				continue
			}
			if n > 0 {
				w.logger.Info("Purged %d expired cache entries", n)
			}
		}
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
