package department_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-hrms/internal/department"
	departmenterrors "go-hrms/internal/department/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeDepartmentRepository struct {
	withTxFn   func(tx *sql.Tx) department.Repository
	createFn   func(ctx context.Context, dept *department.Department) error
	findAllFn  func(ctx context.Context) ([]department.Department, error)
	findByIDFn func(ctx context.Context, id string) (*department.Department, error)
	updateFn   func(ctx context.Context, dept *department.Department) error
	deleteFn   func(ctx context.Context, id string) error
}

func (f *fakeDepartmentRepository) WithTx(tx *sql.Tx) department.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeDepartmentRepository) Create(ctx context.Context, dept *department.Department) error {
	if f.createFn != nil {
		return f.createFn(ctx, dept)
	}
	return nil
}

func (f *fakeDepartmentRepository) FindAll(ctx context.Context) ([]department.Department, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeDepartmentRepository) FindByID(ctx context.Context, id string) (*department.Department, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDepartmentRepository) Update(ctx context.Context, dept *department.Department) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, dept)
	}
	return nil
}

func (f *fakeDepartmentRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type departmentServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service department.Service
	repo    *fakeDepartmentRepository
}

func setupDepartmentServiceTest(t *testing.T) *departmentServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeDepartmentRepository{}
	svc := department.NewService(db, repo)

	return &departmentServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
	}
}

func TestDepartmentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.createFn = func(ctx context.Context, dept *department.Department) error {
			assert.Equal(t, "Engineering", dept.Name)
			return nil
		}

		resp, err := deps.service.Create(ctx, department.CreateDepartmentRequest{
			Name:        "  Engineering  ",
			Description: "Builds the product",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Engineering", resp.Name)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate name", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.createFn = func(ctx context.Context, dept *department.Department) error {
			return &pgconn.PgError{Code: "23505"}
		}

		_, err := deps.service.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering"})

		assert.ErrorIs(t, err, departmenterrors.ErrNameTaken)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestDepartmentService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("negative not found", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, "123")

		assert.ErrorIs(t, err, departmenterrors.ErrInvalidDepartmentID)
	})
}

func TestDepartmentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*department.Department, error) {
			return &department.Department{ID: id, Name: "Engineering"}, nil
		}
		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, targetID string) error {
			deleted = true
			assert.Equal(t, id.String(), targetID)
			return nil
		}

		err := deps.service.Delete(ctx, id.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative repo error rolls back", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*department.Department, error) {
			return &department.Department{ID: id}, nil
		}
		deps.repo.deleteFn = func(ctx context.Context, targetID string) error {
			return errors.New("delete failed")
		}

		err := deps.service.Delete(ctx, id.String())

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
