package profiles

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/devconnector-go/apperror"
)

func newMockService(t *testing.T) (*ProfileService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewProfileService(mock), mock
}

// expectProfileFetch queues the three queries behind GetByUserID: the profile
// row joined with its owner, then the grouped experience and education loads.
func expectProfileFetch(mock pgxmock.PgxPoolIface, profileID, userID int, status string, skills []string) {
	mock.ExpectQuery(`FROM profiles p`).WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "name", "avatar",
			"company", "website", "location", "bio", "status", "github_username",
			"skills", "youtube", "twitter", "facebook", "linkedin", "instagram",
			"updated_at",
		}).AddRow(profileID, userID, "Jane", "https://example.com/a.png",
			nil, nil, nil, nil, status, nil,
			skills, nil, nil, nil, nil, nil,
			time.Now()))
	mock.ExpectQuery(`FROM profile_experience`).WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{
			"profile_id", "id", "title", "company", "location", "from_date", "to_date", "current", "description",
		}))
	mock.ExpectQuery(`FROM profile_education`).WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{
			"profile_id", "id", "school", "degree", "field_of_study", "from_date", "to_date", "current", "description",
		}))
}

func TestRemoveExperienceMalformedIDNoOp(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT id FROM profiles`).WithArgs(7).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(1))
	// No DELETE is expected: an unparsable id cannot name an entry.
	expectProfileFetch(mock, 1, 7, "Developer", []string{"Go"})

	profile, err := svc.RemoveExperience(context.Background(), 7, "not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, "Developer", profile.Status)
	assert.Empty(t, profile.Experience)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveExperienceUnknownIDNoOp(t *testing.T) {
	svc, mock := newMockService(t)
	entryID := uuid.New()

	mock.ExpectQuery(`SELECT id FROM profiles`).WithArgs(7).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`DELETE FROM profile_experience`).WithArgs(entryID, 1).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	expectProfileFetch(mock, 1, 7, "Developer", []string{"Go"})

	profile, err := svc.RemoveExperience(context.Background(), 7, entryID.String())
	require.NoError(t, err)
	assert.Equal(t, "Developer", profile.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveExperienceWithoutProfile(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT id FROM profiles`).WithArgs(7).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.RemoveExperience(context.Background(), 7, uuid.NewString())
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, "There is no profile for this user", err.Error())
}

func TestUpsertCreatesProfile(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT id FROM profiles`).WithArgs(7).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO profiles`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	expectProfileFetch(mock, 1, 7, "Senior Developer", []string{"Go", "PostgreSQL"})

	profile, err := svc.Upsert(context.Background(), 7, UpsertProfileRequest{
		Status: "Senior Developer",
		Skills: "Go, PostgreSQL",
	})
	require.NoError(t, err)
	assert.Equal(t, "Senior Developer", profile.Status)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, profile.Skills)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPartialUpdateSkipsOmittedScalars(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT id FROM profiles`).WithArgs(7).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(1))
	// Only company was supplied, so it is the single scalar appended after
	// the always-written clauses: company binds $8 and user_id $9, leaving
	// website/location/bio/github_username untouched.
	mock.ExpectExec(`UPDATE profiles SET .* company = \$8 WHERE user_id = \$9`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	expectProfileFetch(mock, 1, 7, "Senior Developer", []string{"Go"})

	_, err := svc.Upsert(context.Background(), 7, UpsertProfileRequest{
		Status:  "Senior Developer",
		Skills:  "Go",
		Company: "Acme",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
