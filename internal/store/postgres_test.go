package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outboundiq/leadpipe/internal/model"
	"github.com/outboundiq/leadpipe/internal/report"
)

func newMockPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return newPostgresWithDB(mock), mock
}

func TestPostgresMigrate(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateRun(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(pgxmock.AnyArg(), 10, 8, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := s.CreateRun(context.Background(), 10, 8)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCompleteRun(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.CompleteRun(context.Background(), "run-1", report.Summary{Exported: 4})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCompleteRunNotFound(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "no-such-run").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteRun(context.Background(), "no-such-run", report.Summary{})
	assert.Error(t, err)
}

func TestPostgresSaveLeads(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("INSERT INTO leads").
		WithArgs(pgxmock.AnyArg(), "run-1", "sam.lee@acme.io|acme.io", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	leads := []KeyedLead{
		{Key: "sam.lee@acme.io|acme.io", Lead: model.UnifiedLead{Email: "sam.lee@acme.io"}},
	}
	require.NoError(t, s.SaveLeads(context.Background(), "run-1", leads))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveLeadsGeneratesKeyWhenEmpty(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("INSERT INTO leads").
		WithArgs(pgxmock.AnyArg(), "run-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	leads := []KeyedLead{{Key: "", Lead: model.UnifiedLead{CompanyName: "Corner Bakery"}}}
	require.NoError(t, s.SaveLeads(context.Background(), "run-1", leads))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListLeads(t *testing.T) {
	s, mock := newMockPostgres(t)

	leadJSON, err := json.Marshal(model.UnifiedLead{
		Email:            "sam.lee@acme.io",
		LeadSource:       model.SourceMerged,
		ValidationStatus: model.StatusValid,
	})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT lead FROM leads").
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"lead"}).AddRow(leadJSON))

	got, err := s.ListLeads(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sam.lee@acme.io", got[0].Email)
	assert.Equal(t, model.SourceMerged, got[0].LeadSource)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRun(t *testing.T) {
	s, mock := newMockPostgres(t)

	summaryJSON, err := json.Marshal(report.Summary{Exported: 4})
	require.NoError(t, err)
	created := time.Now().UTC()

	mock.ExpectQuery("SELECT id, profile_count, directory_count").
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "profile_count", "directory_count", "status", "summary", "created_at", "completed_at",
		}).AddRow("run-1", 10, 8, "complete", summaryJSON, created, (*time.Time)(nil)))

	run, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, 10, run.ProfileCount)
	assert.Equal(t, "complete", run.Status)
	require.NotNil(t, run.Summary)
	assert.Equal(t, 4, run.Summary.Exported)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRunNotFound(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery("SELECT id, profile_count, directory_count").
		WithArgs("no-such-run").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "profile_count", "directory_count", "status", "summary", "created_at", "completed_at",
		}))

	_, err := s.GetRun(context.Background(), "no-such-run")
	assert.Error(t, err)
}
