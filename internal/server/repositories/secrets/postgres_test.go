package secrets

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dev-tanvu/mateluxy-backend/internal/common"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_ReturnsGeneratedFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO secrets .* RETURNING id, created_at, updated_at`).
		WithArgs("Router", "office wifi", "enc-user", "enc-pass", []byte(`["u2"]`), "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("s1", now, now))

	got, err := repo.Create(context.Background(), &models.Secret{
		Title:     "Router",
		Note:      "office wifi",
		Username:  "enc-user",
		Password:  "enc-pass",
		AccessIDs: []string{"u2"},
		CreatedBy: "u1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "s1" {
		t.Fatalf("expected generated id, got %q", got.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM secrets`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_DecodesAccessIDs(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "note", "username_enc", "password_enc", "access_ids", "created_by", "created_at", "updated_at"}).
		AddRow("s1", "Router", "", "enc-u", "enc-p", []byte(`["u2","u3"]`), "u1", now, now)

	mock.ExpectQuery(`SELECT .* FROM secrets`).WithArgs("s1").WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.AccessIDs) != 2 || got.AccessIDs[0] != "u2" {
		t.Fatalf("access ids not decoded: %v", got.AccessIDs)
	}
}

func TestDelete_NotFoundOnZeroRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM secrets`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_OrderedNewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "note", "username_enc", "password_enc", "access_ids", "created_by", "created_at", "updated_at"}).
		AddRow("s2", "Second", "", "e", "e", []byte(`[]`), "u1", now, now).
		AddRow("s1", "First", "", "e", "e", []byte(`[]`), "u1", now.Add(-time.Hour), now)

	mock.ExpectQuery(`SELECT .* FROM secrets\s+ORDER BY created_at DESC`).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "s2" {
		t.Fatalf("unexpected result: %+v", got)
	}
}
