package mysql

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	domain "github.com/verilens/verilens/internal/domain/reports"
)

func TestReportRepositorySave(t *testing.T) {
	it(func() {
		created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		rep := &domain.Report{Token: "tok-1", AnalysisID: "a1b2c3", ViewCount: 0, CreatedAt: created}

		mock.ExpectExec("INSERT INTO public_reports").
			WithArgs(rep.Token, rep.AnalysisID, rep.ViewCount, created).
			WillReturnResult(sqlmock.NewResult(1, 1))

		repo := NewReportRepository(db)
		if err := repo.Save(context.Background(), rep); err != nil {
			t.Errorf("Save() error = %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unmet expectations: %v", err)
		}
	})
}

func TestReportRepositoryFindByToken(t *testing.T) {
	it(func() {
		created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows([]string{"share_token", "analysis_id", "view_count", "created_at"}).
			AddRow("tok-1", "a1b2c3", int64(4), created)

		mock.ExpectQuery("SELECT (.+) FROM public_reports WHERE share_token=(.+) LIMIT 1").
			WithArgs(domain.ShareToken("tok-1")).
			WillReturnRows(rows)

		repo := NewReportRepository(db)
		got, err := repo.FindByToken(context.Background(), "tok-1")
		if err != nil {
			t.Fatalf("FindByToken() error = %v", err)
		}
		if got.AnalysisID != "a1b2c3" || got.ViewCount != 4 {
			t.Errorf("Report mismatch: %+v", got)
		}
	})
}

func TestReportRepositoryFindByTokenNotFound(t *testing.T) {
	it(func() {
		mock.ExpectQuery("SELECT (.+) FROM public_reports WHERE share_token=(.+) LIMIT 1").
			WithArgs(domain.ShareToken("nonexistent-token")).
			WillReturnError(sql.ErrNoRows)

		repo := NewReportRepository(db)
		if _, err := repo.FindByToken(context.Background(), "nonexistent-token"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestReportRepositoryIncrementViews(t *testing.T) {
	it(func() {
		// the bump happens inside the database, not read-then-write
		mock.ExpectExec(`UPDATE public_reports SET view_count = view_count \+ 1 WHERE share_token = (.+)`).
			WithArgs(domain.ShareToken("tok-1")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewReportRepository(db)
		if err := repo.IncrementViews(context.Background(), "tok-1"); err != nil {
			t.Errorf("IncrementViews() error = %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unmet expectations: %v", err)
		}
	})
}

func TestReportRepositoryIncrementViewsNotFound(t *testing.T) {
	it(func() {
		mock.ExpectExec(`UPDATE public_reports SET view_count = view_count \+ 1 WHERE share_token = (.+)`).
			WithArgs(domain.ShareToken("gone")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewReportRepository(db)
		if err := repo.IncrementViews(context.Background(), "gone"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
