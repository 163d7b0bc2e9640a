package services

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/afzalbekoribjonov/zzz/internal/models"
	"github.com/afzalbekoribjonov/zzz/internal/storage"
)

// Upload is an attachment handed to the post service: the original filename
// (only its extension is kept) and the file content.
type Upload struct {
	Filename string
	Data     io.Reader
}

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	CreatePost(userID int64, title, content, date string, attachment *Upload) (models.Post, error)
	EditPost(postID, actingUserID int64, title, content, date string, attachment *Upload) (models.Post, error)
	DeletePost(postID, actingUserID int64) error
	GetPostByID(id int64) (models.Post, error)
	ListPosts() ([]models.Post, error)
	ListPostsByAuthor(userID int64) ([]models.Post, error)
	ListPostsByAuthors(userIDs []int64) ([]models.Post, error)
}

// PostService provides business logic for the post lifecycle. Attachment
// files live beside the database in the configured upload directory; the
// file write always happens before the row referencing it is committed, so a
// mid-sequence crash can only leave an orphaned file, never a dangling
// reference.
type PostService struct {
	db    *sql.DB
	files *storage.FileStore
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB, files *storage.FileStore) *PostService {
	return &PostService{db: db, files: files}
}

const postColumns = "id, COALESCE(picture, ''), title, content, post_date, user_id, created_at"

// CreatePost persists a new post. A post with identical title, content,
// date and author is a duplicate and rejected with ErrDuplicatePost.
func (s *PostService) CreatePost(userID int64, title, content, date string, attachment *Upload) (models.Post, error) {
	var exists int
	err := s.db.QueryRow(
		"SELECT COUNT(1) FROM posts WHERE title = ? AND content = ? AND post_date = ? AND user_id = ?",
		title, content, date, userID,
	).Scan(&exists)
	if err != nil {
		return models.Post{}, err
	}
	if exists > 0 {
		return models.Post{}, ErrDuplicatePost
	}

	picture := ""
	if attachment != nil {
		picture = storage.GenerateName(attachment.Filename)
		if err := s.files.Save(attachment.Data, picture); err != nil {
			return models.Post{}, err
		}
	}

	res, err := s.db.Exec(
		"INSERT INTO posts(picture, title, content, post_date, user_id) VALUES(?, ?, ?, ?, ?)",
		nullable(picture), title, content, date, userID,
	)
	if err != nil {
		return models.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Post{}, err
	}
	return s.GetPostByID(id)
}

// EditPost updates a post's title, content and date. Only the owning user
// may edit. A new attachment replaces the old one: the previous file is
// removed from storage before the replacement is saved and referenced.
func (s *PostService) EditPost(postID, actingUserID int64, title, content, date string, attachment *Upload) (models.Post, error) {
	post, err := s.GetPostByID(postID)
	if err != nil {
		return models.Post{}, err
	}
	if post.UserID != actingUserID {
		return models.Post{}, fmt.Errorf("%w: post %d is not owned by user %d", ErrForbidden, postID, actingUserID)
	}

	picture := post.Picture
	if attachment != nil {
		if post.Picture != "" {
			if err := s.files.Delete(post.Picture); err != nil {
				return models.Post{}, err
			}
		}
		picture = storage.GenerateName(attachment.Filename)
		if err := s.files.Save(attachment.Data, picture); err != nil {
			return models.Post{}, err
		}
	}

	_, err = s.db.Exec(
		"UPDATE posts SET picture = ?, title = ?, content = ?, post_date = ? WHERE id = ?",
		nullable(picture), title, content, date, postID,
	)
	if err != nil {
		return models.Post{}, err
	}
	return s.GetPostByID(postID)
}

// DeletePost removes a post and its attachment. Only the owning user may
// delete.
func (s *PostService) DeletePost(postID, actingUserID int64) error {
	post, err := s.GetPostByID(postID)
	if err != nil {
		return err
	}
	if post.UserID != actingUserID {
		return fmt.Errorf("%w: post %d is not owned by user %d", ErrForbidden, postID, actingUserID)
	}

	if post.Picture != "" && s.files.Exists(post.Picture) {
		if err := s.files.Delete(post.Picture); err != nil {
			return err
		}
	}

	_, err = s.db.Exec("DELETE FROM posts WHERE id = ?", postID)
	return err
}

// GetPostByID retrieves a single post.
func (s *PostService) GetPostByID(id int64) (models.Post, error) {
	var post models.Post
	row := s.db.QueryRow("SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	err := row.Scan(&post.ID, &post.Picture, &post.Title, &post.Content, &post.Date, &post.UserID, &post.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Post{}, fmt.Errorf("%w: id %d", ErrPostNotFound, id)
		}
		return models.Post{}, err
	}
	return post, nil
}

// ListPosts retrieves every post, most recent date first.
func (s *PostService) ListPosts() ([]models.Post, error) {
	rows, err := s.db.Query("SELECT " + postColumns + " FROM posts ORDER BY post_date DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// ListPostsByAuthor retrieves every post owned by one user.
func (s *PostService) ListPostsByAuthor(userID int64) ([]models.Post, error) {
	rows, err := s.db.Query("SELECT "+postColumns+" FROM posts WHERE user_id = ? ORDER BY post_date DESC, id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// ListPostsByAuthors retrieves the posts of a set of authors, most recent
// date first. An empty author set yields an empty result.
func (s *PostService) ListPostsByAuthors(userIDs []int64) ([]models.Post, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(userIDs)), ",")
	args := make([]interface{}, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}

	rows, err := s.db.Query(
		"SELECT "+postColumns+" FROM posts WHERE user_id IN ("+placeholders+") ORDER BY post_date DESC, id DESC",
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.Picture, &post.Title, &post.Content, &post.Date, &post.UserID, &post.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
