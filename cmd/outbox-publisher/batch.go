package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/angelmondragon/supplyhub-backend/pkg/outbox"
	"github.com/angelmondragon/supplyhub-backend/pkg/outbox/registry"
	"gorm.io/gorm"
)

// inflight is a row whose message was handed to Pub/Sub and whose result is not yet known.
type inflight struct {
	event  models.OutboxEvent
	fields map[string]any
	result publishResult
}

// processBatch claims a batch, hands every resolvable row to its publisher so the
// client can batch them on the wire, then settles each result inside the same tx.
func (s *Service) processBatch(ctx context.Context) (bool, error) {
	start := time.Now()
	processed := false
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		events, err := s.repo.FetchUnpublishedForPublish(tx, s.batchSize, s.maxAttempts)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		processed = true

		publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
		defer cancel()

		sent := make([]inflight, 0, len(events))
		for _, event := range events {
			resolved, err := s.registry.Resolve(event)
			if err != nil {
				if err := s.markTerminal(ctx, tx, event, "non_retryable", err, eventFields(event, outbox.PayloadEnvelope{}, "")); err != nil {
					return err
				}
				continue
			}

			fields := eventFields(event, resolved.Envelope, resolved.Descriptor.Topic)
			result, err := s.send(publishCtx, event, resolved)
			if err != nil {
				if err := s.markTerminal(ctx, tx, event, "non_retryable", err, fields); err != nil {
					return err
				}
				continue
			}
			sent = append(sent, inflight{event: event, fields: fields, result: result})
		}

		for _, item := range sent {
			_, pubErr := item.result.Get(publishCtx)
			if err := s.settle(ctx, tx, item, pubErr); err != nil {
				return err
			}
		}
		return nil
	})
	if processed {
		s.metrics.ObserveBatch(time.Since(start))
	}
	return processed, err
}

// send returns a NonRetryableError when the row can never be delivered as configured.
func (s *Service) send(ctx context.Context, event models.OutboxEvent, resolved *registry.ResolvedEvent) (publishResult, error) {
	topic := resolved.Descriptor.Topic
	pub := s.publisherFactory(topic)
	if pub == nil {
		return nil, registry.NewNonRetryableError(fmt.Errorf("publisher not configured for topic %s", topic))
	}
	result := pub.Publish(ctx, buildMessage(event, resolved.Envelope))
	if result == nil {
		return nil, registry.NewNonRetryableError(fmt.Errorf("publisher returned nil for topic %s", topic))
	}
	return result, nil
}

// settle records the publish outcome. Only bookkeeping failures abort the batch.
func (s *Service) settle(ctx context.Context, tx *gorm.DB, item inflight, pubErr error) error {
	event := item.event
	if pubErr == nil {
		if err := s.repo.MarkPublishedTx(tx, event.ID); err != nil {
			return fmt.Errorf("mark published %s: %w", event.ID, err)
		}
		s.metrics.IncPublished(string(event.EventType))
		s.logg.Info(s.logg.WithFields(ctx, item.fields), "outbox event published")
		return nil
	}

	var nonRetry registry.NonRetryableError
	if errors.As(pubErr, &nonRetry) {
		return s.markTerminal(ctx, tx, event, "non_retryable", pubErr, item.fields)
	}

	attempt := event.AttemptCount + 1
	item.fields["attempt_count"] = attempt
	if attempt >= s.maxAttempts {
		return s.markTerminal(ctx, tx, event, "max_attempts", fmt.Errorf("max publish attempts reached: %w", pubErr), item.fields)
	}

	s.metrics.IncFailed(string(event.EventType))
	logCtx := s.logg.WithFields(ctx, item.fields)
	s.logg.Warn(s.logg.WithField(logCtx, "error", pubErr.Error()), "outbox publish failed")
	if err := s.repo.MarkFailedTx(tx, event.ID, pubErr); err != nil {
		return fmt.Errorf("mark failure %s: %w", event.ID, err)
	}
	return nil
}

func (s *Service) markTerminal(ctx context.Context, tx *gorm.DB, event models.OutboxEvent, reason string, cause error, fields map[string]any) error {
	fields["terminal_reason"] = reason
	logCtx := s.logg.WithFields(ctx, fields)
	s.logg.Warn(s.logg.WithField(logCtx, "error", cause.Error()), "outbox event will not be retried")

	s.metrics.IncFailed(string(event.EventType))
	if err := s.repo.MarkTerminalTx(tx, event.ID, cause, s.maxAttempts); err != nil {
		return fmt.Errorf("mark terminal %s: %w", event.ID, err)
	}
	return nil
}

// buildMessage ships the stored envelope verbatim; attributes let subscribers filter without decoding.
func buildMessage(event models.OutboxEvent, envelope outbox.PayloadEnvelope) *gcppubsub.Message {
	attrs := map[string]string{
		"event_id":       envelope.EventID,
		"event_type":     string(event.EventType),
		"aggregate_type": string(event.AggregateType),
		"aggregate_id":   event.AggregateID.String(),
		"created_at":     event.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if !envelope.OccurredAt.IsZero() {
		attrs["occurred_at"] = envelope.OccurredAt.UTC().Format(time.RFC3339Nano)
	}
	return &gcppubsub.Message{Data: event.Payload, Attributes: attrs}
}

func eventFields(event models.OutboxEvent, envelope outbox.PayloadEnvelope, topic string) map[string]any {
	fields := map[string]any{
		"outbox_id":      event.ID.String(),
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID.String(),
		"attempt_count":  event.AttemptCount,
	}
	if envelope.EventID != "" {
		fields["event_id"] = envelope.EventID
	}
	if topic != "" {
		fields["topic"] = topic
	}
	if event.LastError != nil {
		fields["last_error"] = *event.LastError
	}
	return fields
}
