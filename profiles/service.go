package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/user/devconnector-go/apperror"
	"github.com/user/devconnector-go/db"
)

// ProfileService provides profile management over the shared connection pool.
// All mutating operations are scoped to the acting user's own profile;
// ownership is implicit in the user id taken from the request context.
type ProfileService struct {
	db db.Querier
}

// NewProfileService creates a new ProfileService.
func NewProfileService(db db.Querier) *ProfileService {
	return &ProfileService{db: db}
}

// profileColumns is the shared SELECT list for profile reads, joining the
// owning user's name and avatar.
const profileColumns = `
	SELECT p.id, u.id, u.name, u.avatar,
	       p.company, p.website, p.location, p.bio, p.status, p.github_username,
	       p.skills, p.youtube, p.twitter, p.facebook, p.linkedin, p.instagram,
	       p.updated_at
	FROM profiles p
	JOIN users u ON u.id = p.user_id`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID, &p.User.ID, &p.User.Name, &p.User.Avatar,
		&p.Company, &p.Website, &p.Location, &p.Bio, &p.Status, &p.GithubUsername,
		&p.Skills, &p.Social.Youtube, &p.Social.Twitter, &p.Social.Facebook,
		&p.Social.Linkedin, &p.Social.Instagram,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Experience = []Experience{}
	p.Education = []Education{}
	return &p, nil
}

// GetByUserID retrieves a user's profile with its experience and education
// lists, newest-first.
func (s *ProfileService) GetByUserID(ctx context.Context, userID int) (*Profile, error) {
	row := s.db.QueryRow(ctx, profileColumns+` WHERE p.user_id = $1`, userID)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("There is no profile for this user", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get profile", err)
	}

	if err := s.loadEntries(ctx, []*Profile{profile}); err != nil {
		return nil, err
	}
	return profile, nil
}

// List retrieves all profiles with their embedded lists.
func (s *ProfileService) List(ctx context.Context) ([]*Profile, error) {
	rows, err := s.db.Query(ctx, profileColumns+` ORDER BY p.id`)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list profiles", err)
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan profile", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list profiles", err)
	}

	if err := s.loadEntries(ctx, profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// loadEntries populates the experience and education lists for the given
// profiles in two grouped queries.
func (s *ProfileService) loadEntries(ctx context.Context, profiles []*Profile) error {
	if len(profiles) == 0 {
		return nil
	}
	ids := make([]int, len(profiles))
	byID := make(map[int]*Profile, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	expRows, err := s.db.Query(ctx, `
		SELECT profile_id, id, title, company, location, from_date, to_date, current, description
		FROM profile_experience
		WHERE profile_id = ANY($1)
		ORDER BY seq DESC`, ids)
	if err != nil {
		return apperror.NewDatabaseError("failed to load experience", err)
	}
	defer expRows.Close()
	for expRows.Next() {
		var (
			profileID int
			e         Experience
			from      time.Time
			to        *time.Time
		)
		if err := expRows.Scan(&profileID, &e.ID, &e.Title, &e.Company, &e.Location, &from, &to, &e.Current, &e.Description); err != nil {
			return apperror.NewDatabaseError("failed to scan experience", err)
		}
		e.From = NewDate(from)
		if to != nil {
			d := NewDate(*to)
			e.To = &d
		}
		byID[profileID].Experience = append(byID[profileID].Experience, e)
	}
	if err := expRows.Err(); err != nil {
		return apperror.NewDatabaseError("failed to load experience", err)
	}

	eduRows, err := s.db.Query(ctx, `
		SELECT profile_id, id, school, degree, field_of_study, from_date, to_date, current, description
		FROM profile_education
		WHERE profile_id = ANY($1)
		ORDER BY seq DESC`, ids)
	if err != nil {
		return apperror.NewDatabaseError("failed to load education", err)
	}
	defer eduRows.Close()
	for eduRows.Next() {
		var (
			profileID int
			e         Education
			from      time.Time
			to        *time.Time
		)
		if err := eduRows.Scan(&profileID, &e.ID, &e.School, &e.Degree, &e.FieldOfStudy, &from, &to, &e.Current, &e.Description); err != nil {
			return apperror.NewDatabaseError("failed to scan education", err)
		}
		e.From = NewDate(from)
		if to != nil {
			d := NewDate(*to)
			e.To = &d
		}
		byID[profileID].Education = append(byID[profileID].Education, e)
	}
	if err := eduRows.Err(); err != nil {
		return apperror.NewDatabaseError("failed to load education", err)
	}

	return nil
}

// nullIfEmpty maps the "absent" zero value of optional request fields to SQL NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Upsert creates the acting user's profile or partially updates an existing
// one. Optional scalar fields are only written when supplied; the social
// links sub-object is replaced wholesale, clearing links that were omitted.
func (s *ProfileService) Upsert(ctx context.Context, userID int, req UpsertProfileRequest) (*Profile, error) {
	skills := SplitSkills(req.Skills)

	var existingID int
	err := s.db.QueryRow(ctx, `SELECT id FROM profiles WHERE user_id = $1`, userID).Scan(&existingID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewDatabaseError("failed to look up profile", err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		_, err = s.db.Exec(ctx, `
			INSERT INTO profiles (user_id, company, website, location, bio, status, github_username,
			                      skills, youtube, twitter, facebook, linkedin, instagram)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			userID,
			nullIfEmpty(req.Company), nullIfEmpty(req.Website), nullIfEmpty(req.Location),
			nullIfEmpty(req.Bio), req.Status, nullIfEmpty(req.GithubUsername),
			skills,
			nullIfEmpty(req.Youtube), nullIfEmpty(req.Twitter), nullIfEmpty(req.Facebook),
			nullIfEmpty(req.Linkedin), nullIfEmpty(req.Instagram),
		)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to create profile", err)
		}
		return s.GetByUserID(ctx, userID)
	}

	// Partial update: required fields and the social object are always
	// written, optional scalars only when the request supplied them.
	setClauses := []string{"status = $1", "skills = $2", "youtube = $3", "twitter = $4",
		"facebook = $5", "linkedin = $6", "instagram = $7", "updated_at = now()"}
	args := []interface{}{
		req.Status, skills,
		nullIfEmpty(req.Youtube), nullIfEmpty(req.Twitter), nullIfEmpty(req.Facebook),
		nullIfEmpty(req.Linkedin), nullIfEmpty(req.Instagram),
	}
	addSet := func(column, value string) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if req.Company != "" {
		addSet("company", req.Company)
	}
	if req.Website != "" {
		addSet("website", req.Website)
	}
	if req.Location != "" {
		addSet("location", req.Location)
	}
	if req.Bio != "" {
		addSet("bio", req.Bio)
	}
	if req.GithubUsername != "" {
		addSet("github_username", req.GithubUsername)
	}

	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE user_id = $%d`,
		strings.Join(setClauses, ", "), len(args))

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return nil, apperror.NewDatabaseError("failed to update profile", err)
	}
	return s.GetByUserID(ctx, userID)
}

// profileIDForUser resolves the acting user's profile id.
func (s *ProfileService) profileIDForUser(ctx context.Context, userID int) (int, error) {
	var id int
	err := s.db.QueryRow(ctx, `SELECT id FROM profiles WHERE user_id = $1`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewNotFoundError("There is no profile for this user", nil)
		}
		return 0, apperror.NewDatabaseError("failed to look up profile", err)
	}
	return id, nil
}

// AddExperience prepends a new experience entry onto the acting user's
// profile and returns the updated profile.
func (s *ProfileService) AddExperience(ctx context.Context, userID int, req AddExperienceRequest) (*Profile, error) {
	profileID, err := s.profileIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var to *time.Time
	if req.To != nil {
		t := req.To.Time
		to = &t
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO profile_experience (profile_id, title, company, location, from_date, to_date, current, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		profileID, req.Title, req.Company, nullIfEmpty(req.Location),
		req.From.Time, to, req.Current, nullIfEmpty(req.Description),
	)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to add experience", err)
	}
	return s.GetByUserID(ctx, userID)
}

// RemoveExperience removes an experience entry by id from the acting user's
// profile. An unknown or malformed id is a no-op; the unchanged profile is
// returned either way.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID int, entryID string) (*Profile, error) {
	profileID, err := s.profileIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if id, parseErr := uuid.Parse(entryID); parseErr == nil {
		_, err = s.db.Exec(ctx, `DELETE FROM profile_experience WHERE id = $1 AND profile_id = $2`, id, profileID)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to remove experience", err)
		}
	}
	return s.GetByUserID(ctx, userID)
}

// AddEducation prepends a new education entry onto the acting user's profile
// and returns the updated profile.
func (s *ProfileService) AddEducation(ctx context.Context, userID int, req AddEducationRequest) (*Profile, error) {
	profileID, err := s.profileIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var to *time.Time
	if req.To != nil {
		t := req.To.Time
		to = &t
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO profile_education (profile_id, school, degree, field_of_study, from_date, to_date, current, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		profileID, req.School, req.Degree, req.FieldOfStudy,
		req.From.Time, to, req.Current, nullIfEmpty(req.Description),
	)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to add education", err)
	}
	return s.GetByUserID(ctx, userID)
}

// RemoveEducation removes an education entry by id, with the same no-op
// semantics as RemoveExperience.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID int, entryID string) (*Profile, error) {
	profileID, err := s.profileIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if id, parseErr := uuid.Parse(entryID); parseErr == nil {
		_, err = s.db.Exec(ctx, `DELETE FROM profile_education WHERE id = $1 AND profile_id = $2`, id, profileID)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to remove education", err)
		}
	}
	return s.GetByUserID(ctx, userID)
}

// DeleteAccount removes the user's posts, profile, and user record, in that
// order, in a single transaction. Posts are deleted by owner reference.
// Repeating the call for an already-deleted account yields NotFound.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID int) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return apperror.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM posts WHERE user_id = $1`, userID); err != nil {
		return apperror.NewDatabaseError("failed to delete posts", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
		return apperror.NewDatabaseError("failed to delete profile", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("User not found", nil)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewDatabaseError("failed to commit account deletion", err)
	}
	return nil
}
