package maintenance

import (
	"strings"
	"testing"

	"github.com/afzalbekoribjonov/zzz/internal/database"
	"github.com/afzalbekoribjonov/zzz/internal/storage"
)

func TestSweepRemovesOnlyUnreferencedFiles(t *testing.T) {
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	// One referenced attachment, one orphan.
	referenced := storage.GenerateName("kept.png")
	orphan := storage.GenerateName("orphan.png")
	for _, name := range []string{referenced, orphan} {
		if err := files.Save(strings.NewReader("x"), name); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}
	_, err = db.Exec(
		"INSERT INTO users(first_name, last_name, username, email, password_hash) VALUES('A', 'B', 'ada', 'ada@example.com', 'h')",
	)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	_, err = db.Exec("INSERT INTO posts(picture, title, content, post_date, user_id) VALUES(?, 't', 'c', '2024-05-01', 1)", referenced)
	if err != nil {
		t.Fatalf("insert post: %v", err)
	}

	sweeper := NewSweeper(db, files)

	// Inside the grace period nothing is touched.
	sweeper.sweep()
	if !files.Exists(orphan) {
		t.Fatal("orphan swept inside grace period")
	}

	sweeper.grace = 0
	sweeper.sweep()
	if files.Exists(orphan) {
		t.Fatal("orphan survived sweep")
	}
	if !files.Exists(referenced) {
		t.Fatal("referenced attachment swept")
	}
}

func TestSweepEmptyDirectory(t *testing.T) {
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	sweeper := NewSweeper(db, files)
	sweeper.grace = 0
	sweeper.sweep() // must not panic on an empty directory
}
