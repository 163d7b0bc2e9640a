package services

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/afzalbekoribjonov/zzz/internal/auth"
	"github.com/afzalbekoribjonov/zzz/internal/database"
	"github.com/afzalbekoribjonov/zzz/internal/models"
	"github.com/afzalbekoribjonov/zzz/internal/storage"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

// fakeMailer records outgoing mail, optionally failing every send.
type fakeMailer struct {
	sent []sentMail
	fail bool
}

func (m *fakeMailer) Send(to []string, subject, body string) error {
	if m.fail {
		return fmt.Errorf("smtp unreachable")
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type testEnv struct {
	db      *sql.DB
	files   *storage.FileStore
	mailer  *fakeMailer
	users   *UserService
	posts   *PostService
	follows *FollowService
	feed    *FeedService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	// Every pooled connection to :memory: would get its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	mailer := &fakeMailer{}
	codec := auth.NewResetTokenCodec("test-secret", time.Hour)
	posts := NewPostService(db, files)
	users := NewUserService(db, posts, mailer, codec, "http://localhost:8080")
	follows := NewFollowService(db)
	feed := NewFeedService(users, posts, follows)

	return &testEnv{
		db:      db,
		files:   files,
		mailer:  mailer,
		users:   users,
		posts:   posts,
		follows: follows,
		feed:    feed,
	}
}

func (e *testEnv) register(t *testing.T, username string) models.User {
	t.Helper()
	user, err := e.users.Register("Test", "User", username, username+"@example.com", "secret123")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func (e *testEnv) createPost(t *testing.T, userID int64, title string) models.Post {
	t.Helper()
	post, err := e.posts.CreatePost(userID, title, "content of "+title, "2024-05-01", nil)
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return post
}

func attachmentOf(content string) *Upload {
	return &Upload{Filename: "original.png", Data: strings.NewReader(content)}
}
