package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"go-hrms/internal/employee"
	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	withTxFn      func(tx *sql.Tx) employee.Repository
	createFn      func(ctx context.Context, e *employee.Employee) error
	findAllFn     func(ctx context.Context) ([]employee.Employee, error)
	findByIDFn    func(ctx context.Context, id string) (*employee.Employee, error)
	findByEmailFn func(ctx context.Context, email string) (*employee.Employee, error)
	updateFn      func(ctx context.Context, e *employee.Employee) error
	deleteFn      func(ctx context.Context, id string) error
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeOutboxRepository struct {
	withTxFn func(tx *sql.Tx) kafka.OutboxRepository
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type employeeServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service employee.Service
	repo    *fakeEmployeeRepository
	outbox  *fakeOutboxRepository
}

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeEmployeeRepository{}
	outbox := &fakeOutboxRepository{}
	svc := employee.NewServiceWithOutbox(db, repo, outbox)

	return &employeeServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success with outbox event", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		req := employee.CreateEmployeeRequest{
			FirstName: "Ana",
			LastName:  "Silva",
			Email:     "ana.silva@example.com",
			Password:  "s3cret-pass",
			Position:  "Engineer",
		}

		deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			assert.Equal(t, "ana.silva@example.com", e.Email)
			assert.Equal(t, "employee", e.Role)
			assert.True(t, e.IsActive)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(e.Password), []byte("s3cret-pass")))
			return nil
		}

		var outboxEvent *kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			outboxEvent = &event
			return nil
		}

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "ana.silva@example.com", resp.Email)
		assert.Equal(t, "employee", resp.Role)

		assert.NotNil(t, outboxEvent)
		assert.Equal(t, events.EmployeeCreatedTopic, outboxEvent.Topic)
		assert.Equal(t, "employee.created", outboxEvent.EventType)
		assert.Equal(t, kafka.OutboxStatusPending, outboxEvent.Status)
		var payload events.EmployeeCreatedEvent
		assert.NoError(t, json.Unmarshal(outboxEvent.Payload, &payload))
		assert.Equal(t, resp.ID, payload.EmployeeID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate email", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_employees_email"}
		}

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FirstName: "Ana",
			LastName:  "Silva",
			Email:     "ana.silva@example.com",
			Password:  "s3cret-pass",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmailTaken)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative malformed hire date", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FirstName: "Ana",
			LastName:  "Silva",
			Email:     "ana.silva@example.com",
			Password:  "s3cret-pass",
			HireDate:  "31/12/2025",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidHireDate)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*employee.Employee, error) {
			assert.Equal(t, id.String(), targetID)
			return &employee.Employee{
				ID:        id,
				FirstName: "Budi",
				LastName:  "Santoso",
				Email:     "budi.santoso@example.com",
				Role:      "manager",
				IsActive:  true,
			}, nil
		}

		resp, err := deps.service.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
		assert.Equal(t, "manager", resp.Role)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("negative email conflict", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*employee.Employee, error) {
			return &employee.Employee{ID: id, Email: "old@example.com"}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, e *employee.Employee) error {
			return &pgconn.PgError{Code: "23505"}
		}

		_, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{
			FirstName: "Ana",
			LastName:  "Silva",
			Email:     "taken@example.com",
			Role:      "employee",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmailTaken)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		called := false
		deps.repo.deleteFn = func(ctx context.Context, targetID string) error {
			called = true
			assert.Equal(t, id, targetID)
			return nil
		}

		err := deps.service.Delete(ctx, id)

		assert.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("negative repo error", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.deleteFn = func(ctx context.Context, targetID string) error {
			return errors.New("delete failed")
		}

		err := deps.service.Delete(ctx, uuid.New().String())

		assert.Error(t, err)
	})
}
