package posts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/devconnector-go/apperror"
	"github.com/user/devconnector-go/db"
)

// pgForeignKeyViolation is the PostgreSQL error code for foreign key violations.
const pgForeignKeyViolation = "23503"

// PostService provides post, like and comment management over the shared
// connection pool.
type PostService struct {
	db db.Querier
}

// NewPostService creates a new PostService.
func NewPostService(db db.Querier) *PostService {
	return &PostService{db: db}
}

// notFound is the fixed response for an absent post. Malformed ids resolve to
// the same error: an id that cannot be parsed cannot name a post.
func notFound() *apperror.AppError {
	return apperror.NewNotFoundError("Post not found", nil)
}

// parsePostID maps malformed post ids onto NotFound.
func parsePostID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, notFound()
	}
	return id, nil
}

// Create stores a new post, snapshotting the author's name and avatar from
// the user record at creation time.
func (s *PostService) Create(ctx context.Context, userID int, req CreatePostRequest) (*Post, error) {
	post := &Post{
		User:     userID,
		Text:     req.Text,
		Likes:    []Like{},
		Comments: []Comment{},
	}
	err := s.db.QueryRow(ctx, `SELECT name, avatar FROM users WHERE id = $1`, userID).
		Scan(&post.Name, &post.Avatar)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("User not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO posts (user_id, name, avatar, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		userID, post.Name, post.Avatar, post.Text,
	).Scan(&post.ID, &post.Date)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create post", err)
	}
	return post, nil
}

// List returns all posts, newest-first, with their likes and comments.
func (s *PostService) List(ctx context.Context) ([]*Post, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, name, avatar, text, created_at
		FROM posts
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list posts", err)
	}
	defer rows.Close()

	var list []*Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.User, &p.Name, &p.Avatar, &p.Text, &p.Date); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan post", err)
		}
		p.Likes = []Like{}
		p.Comments = []Comment{}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list posts", err)
	}

	if err := s.loadEntries(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Get returns a single post with its likes and comments.
func (s *PostService) Get(ctx context.Context, postID string) (*Post, error) {
	id, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	var p Post
	err = s.db.QueryRow(ctx, `
		SELECT id, user_id, name, avatar, text, created_at
		FROM posts
		WHERE id = $1`, id,
	).Scan(&p.ID, &p.User, &p.Name, &p.Avatar, &p.Text, &p.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound()
		}
		return nil, apperror.NewDatabaseError("failed to get post", err)
	}
	p.Likes = []Like{}
	p.Comments = []Comment{}

	if err := s.loadEntries(ctx, []*Post{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// loadEntries populates the likes and comments lists for the given posts in
// two grouped queries, newest-first.
func (s *PostService) loadEntries(ctx context.Context, list []*Post) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(list))
	byID := make(map[uuid.UUID]*Post, len(list))
	for i, p := range list {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	likeRows, err := s.db.Query(ctx, `
		SELECT post_id, user_id
		FROM post_likes
		WHERE post_id = ANY($1)
		ORDER BY seq DESC`, ids)
	if err != nil {
		return apperror.NewDatabaseError("failed to load likes", err)
	}
	defer likeRows.Close()
	for likeRows.Next() {
		var (
			postID uuid.UUID
			like   Like
		)
		if err := likeRows.Scan(&postID, &like.User); err != nil {
			return apperror.NewDatabaseError("failed to scan like", err)
		}
		byID[postID].Likes = append(byID[postID].Likes, like)
	}
	if err := likeRows.Err(); err != nil {
		return apperror.NewDatabaseError("failed to load likes", err)
	}

	commentRows, err := s.db.Query(ctx, `
		SELECT post_id, id, user_id, name, avatar, text, created_at
		FROM post_comments
		WHERE post_id = ANY($1)
		ORDER BY seq DESC`, ids)
	if err != nil {
		return apperror.NewDatabaseError("failed to load comments", err)
	}
	defer commentRows.Close()
	for commentRows.Next() {
		var (
			postID uuid.UUID
			c      Comment
		)
		if err := commentRows.Scan(&postID, &c.ID, &c.User, &c.Name, &c.Avatar, &c.Text, &c.Date); err != nil {
			return apperror.NewDatabaseError("failed to scan comment", err)
		}
		byID[postID].Comments = append(byID[postID].Comments, c)
	}
	if err := commentRows.Err(); err != nil {
		return apperror.NewDatabaseError("failed to load comments", err)
	}

	return nil
}

// postExists reports whether a post with the given id exists.
func (s *PostService) postExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to check post", err)
	}
	return exists, nil
}

// Delete removes a post owned by the acting user.
func (s *PostService) Delete(ctx context.Context, userID int, postID string) error {
	id, err := parsePostID(postID)
	if err != nil {
		return err
	}

	var ownerID int
	err = s.db.QueryRow(ctx, `SELECT user_id FROM posts WHERE id = $1`, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound()
		}
		return apperror.NewDatabaseError("failed to get post", err)
	}
	if ownerID != userID {
		return apperror.NewForbiddenError("User not authorized", nil)
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return apperror.NewDatabaseError("failed to delete post", err)
	}
	return nil
}

// Like records the acting user's like on a post and returns the updated
// likes list. The insert is conditional on the primary key, so two
// concurrent first likes cannot both commit: exactly one succeeds and the
// other reports the post as already liked.
func (s *PostService) Like(ctx context.Context, userID int, postID string) ([]Like, error) {
	id, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	exists, err := s.postExists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound()
	}

	tag, err := s.db.Exec(ctx, `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING`, id, userID)
	if err != nil {
		// The post can disappear between the existence check and the insert;
		// the resulting FK violation is still just a missing post.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, notFound()
		}
		return nil, apperror.NewDatabaseError("failed to like post", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.NewBadRequestError("Post already liked", nil)
	}

	return s.likesForPost(ctx, id)
}

// Unlike removes the acting user's like from a post and returns the updated
// likes list. The delete is keyed on (post, user), making the not-yet-liked
// check atomic with the removal.
func (s *PostService) Unlike(ctx context.Context, userID int, postID string) ([]Like, error) {
	id, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to unlike post", err)
	}
	if tag.RowsAffected() == 0 {
		exists, err := s.postExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, notFound()
		}
		return nil, apperror.NewBadRequestError("Post has not yet been liked", nil)
	}

	return s.likesForPost(ctx, id)
}

func (s *PostService) likesForPost(ctx context.Context, postID uuid.UUID) ([]Like, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id FROM post_likes WHERE post_id = $1 ORDER BY seq DESC`, postID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load likes", err)
	}
	defer rows.Close()

	likes := []Like{}
	for rows.Next() {
		var like Like
		if err := rows.Scan(&like.User); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan like", err)
		}
		likes = append(likes, like)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to load likes", err)
	}
	return likes, nil
}

// AddComment prepends a comment onto a post, snapshotting the commenter's
// name and avatar, and returns the updated comments list.
func (s *PostService) AddComment(ctx context.Context, userID int, postID string, req AddCommentRequest) ([]Comment, error) {
	id, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	exists, err := s.postExists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound()
	}

	var name, avatar string
	err = s.db.QueryRow(ctx, `SELECT name, avatar FROM users WHERE id = $1`, userID).Scan(&name, &avatar)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("User not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO post_comments (post_id, user_id, name, avatar, text)
		VALUES ($1, $2, $3, $4, $5)`, id, userID, name, avatar, req.Text)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, notFound()
		}
		return nil, apperror.NewDatabaseError("failed to add comment", err)
	}

	return s.commentsForPost(ctx, id)
}

// RemoveComment removes a comment by id. Only the comment's own author may
// remove it, regardless of who owns the post.
func (s *PostService) RemoveComment(ctx context.Context, userID int, postID, commentID string) ([]Comment, error) {
	id, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	exists, err := s.postExists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound()
	}

	cid, err := uuid.Parse(commentID)
	if err != nil {
		return nil, apperror.NewNotFoundError("Comment not found", nil)
	}

	var commentOwner int
	err = s.db.QueryRow(ctx, `
		SELECT user_id FROM post_comments WHERE id = $1 AND post_id = $2`, cid, id,
	).Scan(&commentOwner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("Comment not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get comment", err)
	}
	if commentOwner != userID {
		return nil, apperror.NewForbiddenError("User not authorized", nil)
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM post_comments WHERE id = $1`, cid); err != nil {
		return nil, apperror.NewDatabaseError("failed to remove comment", err)
	}

	return s.commentsForPost(ctx, id)
}

func (s *PostService) commentsForPost(ctx context.Context, postID uuid.UUID) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, name, avatar, text, created_at
		FROM post_comments
		WHERE post_id = $1
		ORDER BY seq DESC`, postID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load comments", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.User, &c.Name, &c.Avatar, &c.Text, &c.Date); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan comment", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to load comments", err)
	}
	return comments, nil
}
