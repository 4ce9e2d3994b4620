package profiles

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pawmate/pawmate/internal/common"
	"github.com/pawmate/pawmate/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("p-1", now, now)
	mock.ExpectQuery(`INSERT\s+INTO\s+profiles\s*\(user_id\)`).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "p-1" || got.UserID != "u-1" {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestGetByUserID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM profiles`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUserID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestRecordLogin_BumpsCounter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE profiles\s+SET login_count = login_count \+ 1`).
		WithArgs("u-1", "10.0.0.1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordLogin(context.Background(), "u-1", "10.0.0.1"); err != nil {
		t.Fatalf("RecordLogin error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdate_WritesMutableFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	phone := "13800138000"
	p := &models.Profile{UserID: "u-1", Phone: &phone, Bio: "hi", Gender: "F"}

	mock.ExpectExec(`UPDATE profiles\s+SET phone = \$2, bio = \$3`).
		WithArgs("u-1", phone, "hi", nil, "F").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(context.Background(), p); err != nil {
		t.Fatalf("Update error: %v", err)
	}
}
