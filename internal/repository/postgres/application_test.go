package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eudaura/telehealth-api/internal/apperror"
	"github.com/eudaura/telehealth-api/internal/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestTransitionStatusCommitsWhenStatusMatches(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)
	appID := uuid.New()

	mock.ExpectExec("UPDATE clinician_applications").
		WithArgs(appID, model.ApplicationStatusSubmitted, model.ApplicationStatusApproved, "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.TransitionStatus(context.Background(), appID,
		model.ApplicationStatusSubmitted, model.ApplicationStatusApproved, "")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatusLosesWhenStatusMoved(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)
	appID := uuid.New()

	// Zero rows affected means another reviewer already flipped the status.
	mock.ExpectExec("UPDATE clinician_applications").
		WithArgs(appID, model.ApplicationStatusSubmitted, model.ApplicationStatusDenied, "no license", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.TransitionStatus(context.Background(), appID,
		model.ApplicationStatusSubmitted, model.ApplicationStatusDenied, "no license")
	assert.True(t, apperror.Is(err, apperror.KindInvalidState))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetApplicationNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)
	appID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM clinician_applications").
		WithArgs(appID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), appID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
