package kafka_test

import (
	"context"
	"testing"
	"time"

	"go-hrms/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()

		event := kafka.OutboxEvent{
			ID:          uuid.New().String(),
			RequestID:   "req-123",
			AggregateID: uuid.New().String(),
			EventType:   "leave.approved",
			Topic:       "hr.leave.decision.v1",
			Payload:     []byte(`{"status":"approved"}`),
			Status:      kafka.OutboxStatusPending,
		}

		mock.ExpectExec(`INSERT INTO outbox_events`).
			WithArgs(event.ID, event.RequestID, event.AggregateID,
				event.EventType, event.Topic, event.Payload, event.Status).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := kafka.NewOutboxRepository(db)
		err = repo.Create(ctx, event)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative invalid event never reaches the database", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()

		repo := kafka.NewOutboxRepository(db)
		err = repo.Create(ctx, kafka.OutboxEvent{
			ID:     uuid.New().String(),
			Topic:  "hr.leave.decision.v1",
			Status: kafka.OutboxStatusPending,
		})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_ListPending(t *testing.T) {
	ctx := context.Background()

	t.Run("rows carry the stored request id", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()

		id := uuid.New().String()
		aggregateID := uuid.New().String()
		now := time.Now().UTC()

		rows := sqlmock.NewRows([]string{
			"id", "request_id", "aggregate_id", "event_type",
			"topic", "payload", "status", "retry_count", "next_retry_at",
		}).AddRow(
			id, "req-456", aggregateID, "leave.approved",
			"hr.leave.decision.v1", []byte(`{}`), kafka.OutboxStatusPending, 0, now,
		)

		mock.ExpectQuery(`SELECT`).
			WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
			WillReturnRows(rows)

		repo := kafka.NewOutboxRepository(db)
		events, err := repo.ListPending(ctx, 50)

		assert.NoError(t, err)
		assert.Len(t, events, 1)
		assert.Equal(t, id, events[0].ID)
		assert.Equal(t, "req-456", events[0].RequestID)
		assert.Equal(t, aggregateID, events[0].AggregateID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{
		ID:      uuid.New().String(),
		Topic:   "hr.employee.lifecycle.v1",
		Payload: []byte(`{}`),
		Status:  kafka.OutboxStatusPending,
	}

	assert.NoError(t, kafka.ValidateOutboxEvent(valid))

	noPayload := valid
	noPayload.Payload = nil
	assert.Error(t, kafka.ValidateOutboxEvent(noPayload))

	badStatus := valid
	badStatus.Status = "queued"
	assert.Error(t, kafka.ValidateOutboxEvent(badStatus))
}
