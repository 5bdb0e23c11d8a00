package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/orgadmin/orgadmin/internal/db/models"
)

var userCols = []string{"id", "organization_id", "name", "role", "created_at"}

func newUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(sqlx.NewDb(db, "sqlmock")), mock
}

// ---------------------------------------------------------------------------
// ListByOrganization
// ---------------------------------------------------------------------------

func TestUserListByOrganization(t *testing.T) {
	repo, mock := newUserRepo(t)
	rows := sqlmock.NewRows(userCols).
		AddRow(int64(1), int64(1), "Dave Richards", "Admin", time.Now()).
		AddRow(int64(2), int64(1), "Abhishek Hari", "Co-ordinator", time.Now())
	mock.ExpectQuery("SELECT.*FROM users WHERE organization_id").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	users, err := repo.ListByOrganization(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len = %d, want 2", len(users))
	}
	if users[1].Role != models.RoleCoordinator {
		t.Errorf("Role = %s, want Co-ordinator", users[1].Role)
	}
}

func TestUserListByOrganization_Empty(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectQuery("SELECT.*FROM users WHERE organization_id").
		WillReturnRows(sqlmock.NewRows(userCols))

	users, err := repo.ListByOrganization(context.Background(), 404)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("users = %v, want empty slice", users)
	}
}

func TestUserListByOrganization_DBError(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectQuery("SELECT.*FROM users").WillReturnError(errors.New("boom"))

	if _, err := repo.ListByOrganization(context.Background(), 1); err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestUserCreate_Success(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(int64(1), "Nishta Gupta", "Admin").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(3), int64(1), "Nishta Gupta", "Admin", time.Now()))

	user := &models.User{OrganizationID: 1, Name: "Nishta Gupta", Role: "Admin"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 3 {
		t.Errorf("ID = %d, want 3", user.ID)
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestUserCreate_UnknownOrganization(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{
			Code:    "23503",
			Message: `insert or update on table "users" violates foreign key constraint "users_organization_id_fkey"`,
		})

	err := repo.Create(context.Background(), &models.User{OrganizationID: 999, Name: "X", Role: "Admin"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestUserUpdate_Success(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectExec("UPDATE users SET name").
		WithArgs(int64(2), "Abhishek Hari", "Admin").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(context.Background(), &models.User{ID: 2, Name: "Abhishek Hari", Role: "Admin"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserUpdate_NotFound(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectExec("UPDATE users SET name").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.User{ID: 50, Name: "n", Role: "r"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUserDelete(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectExec("DELETE FROM users WHERE id").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
