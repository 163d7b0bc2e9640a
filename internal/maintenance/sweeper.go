package maintenance

import (
	"database/sql"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/afzalbekoribjonov/zzz/internal/storage"
)

// Sweeper periodically removes upload-directory files no post references.
// Attachment writes happen before the database rows that reference them are
// committed, so a crash between the two leaves an orphaned file; reclaiming
// those is this out-of-band job, not the post service's.
type Sweeper struct {
	db    *sql.DB
	files *storage.FileStore
	cron  *cron.Cron
	grace time.Duration
}

// NewSweeper creates a sweeper over the given store and upload directory.
func NewSweeper(db *sql.DB, files *storage.FileStore) *Sweeper {
	return &Sweeper{
		db:    db,
		files: files,
		cron:  cron.New(),
		grace: 1 * time.Hour,
	}
}

// Run starts the hourly sweep and blocks until Stop is called.
func (s *Sweeper) Run() {
	log.Info().Msg("Starting attachment sweeper")
	if _, err := s.cron.AddFunc("@hourly", s.sweep); err != nil {
		log.Error().Err(err).Msg("Failed to schedule attachment sweep")
		return
	}
	s.cron.Run()
}

// Stop halts the sweeper, waiting for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Stopped attachment sweeper")
}

// sweep deletes every stored file not referenced by any post. Files are only
// considered orphaned after a grace period so an attachment written for an
// in-flight create is never swept between its file write and row commit.
func (s *Sweeper) sweep() {
	names, err := s.files.List()
	if err != nil {
		log.Error().Err(err).Msg("Sweep: failed to list upload directory")
		return
	}
	if len(names) == 0 {
		return
	}

	referenced := make(map[string]bool)
	rows, err := s.db.Query("SELECT picture FROM posts WHERE picture IS NOT NULL")
	if err != nil {
		log.Error().Err(err).Msg("Sweep: failed to query referenced attachments")
		return
	}
	defer rows.Close()
	for rows.Next() {
		var picture string
		if err := rows.Scan(&picture); err != nil {
			log.Error().Err(err).Msg("Sweep: failed to scan attachment name")
			return
		}
		referenced[picture] = true
	}
	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("Sweep: failed to read referenced attachments")
		return
	}

	removed := 0
	for _, name := range names {
		if referenced[name] {
			continue
		}
		age, err := s.files.Age(name)
		if err != nil || age < s.grace {
			continue
		}
		if err := s.files.Delete(name); err != nil {
			log.Warn().Err(err).Str("file", name).Msg("Sweep: failed to remove orphaned attachment")
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Swept orphaned attachments")
	}
}
