package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treeai-operations/alex-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetAssessment_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT payload FROM assessments WHERE id = \$1`).
		WithArgs("nonexistent-id").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetAssessment(context.Background(), "nonexistent-id")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetAssessment(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	payload, err := json.Marshal(&model.ProjectAssessment{
		ID:          "a-1",
		Name:        "oak removal",
		ProjectType: "residential_removal",
		State:       "florida",
		Status:      model.AssessmentStatusDraft,
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT payload FROM assessments WHERE id = \$1`).
		WithArgs("a-1").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := s.GetAssessment(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Equal(t, "oak removal", got.Name)
	assert.Equal(t, "florida", got.State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveAssessment_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT`).
		WithArgs(pgxmock.AnyArg(), "oak removal", "residential_removal", "florida",
			"draft", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	a := &model.ProjectAssessment{
		Name:        "oak removal",
		ProjectType: "residential_removal",
		State:       "florida",
	}
	err := s.SaveAssessment(context.Background(), a)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, model.AssessmentStatusDraft, a.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAssessments_Filtered(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	payload, err := json.Marshal(&model.ProjectAssessment{
		ID:          "a-2",
		Name:        "mulch job",
		ProjectType: "forestry_mulching",
		State:       "texas",
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT payload FROM assessments WHERE true AND project_type = \$1`).
		WithArgs("forestry_mulching", 100).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := s.ListAssessments(context.Background(), model.Filter{ProjectType: "forestry_mulching"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mulch job", got[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteAssessment(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM assessments WHERE id = \$1`).
		WithArgs("a-3").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, s.DeleteAssessment(context.Background(), "a-3"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteAssessment_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM assessments WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.DeleteAssessment(context.Background(), "missing")
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS assessments`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
