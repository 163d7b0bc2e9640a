package services

import (
	"database/sql"
	"fmt"

	"github.com/afzalbekoribjonov/zzz/internal/models"
)

// FollowServiceProvider defines the interface for follow-graph services.
type FollowServiceProvider interface {
	Follow(followerID, followedID int64) (models.Follow, error)
	Unfollow(followerID, followedID int64) error
	IsFollowing(followerID, followedID int64) (bool, error)
	FollowedIDs(userID int64) (map[int64]bool, error)
	FollowStatusFor(currentUserID int64, users []models.User) (map[int64]bool, error)
}

// FollowService provides business logic for the directed follow graph.
// Edge uniqueness is not enforced: following the same user twice records two
// edges, and the membership queries treat them as one relationship.
type FollowService struct {
	db *sql.DB
}

// NewFollowService creates a new FollowService.
func NewFollowService(db *sql.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow inserts a new edge. Both endpoints must exist.
func (s *FollowService) Follow(followerID, followedID int64) (models.Follow, error) {
	for _, id := range []int64{followerID, followedID} {
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE id = ?", id).Scan(&exists); err != nil {
			return models.Follow{}, err
		}
		if exists == 0 {
			return models.Follow{}, fmt.Errorf("%w: id %d", ErrUserNotFound, id)
		}
	}

	res, err := s.db.Exec("INSERT INTO follows(follower_id, followed_id) VALUES(?, ?)", followerID, followedID)
	if err != nil {
		return models.Follow{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Follow{}, err
	}
	return models.Follow{ID: id, FollowerID: followerID, FollowedID: followedID}, nil
}

// Unfollow removes every edge for the pair. Returns ErrFollowNotFound when
// no edge exists.
func (s *FollowService) Unfollow(followerID, followedID int64) error {
	res, err := s.db.Exec("DELETE FROM follows WHERE follower_id = ? AND followed_id = ?", followerID, followedID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d -> %d", ErrFollowNotFound, followerID, followedID)
	}
	return nil
}

// IsFollowing reports whether at least one edge exists for the pair.
func (s *FollowService) IsFollowing(followerID, followedID int64) (bool, error) {
	var exists int
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = ? AND followed_id = ?)",
		followerID, followedID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

// FollowedIDs returns the set of user ids the given user follows.
func (s *FollowService) FollowedIDs(userID int64) (map[int64]bool, error) {
	rows, err := s.db.Query("SELECT DISTINCT followed_id FROM follows WHERE follower_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	followed := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		followed[id] = true
	}
	return followed, rows.Err()
}

// FollowStatusFor maps each candidate author to whether the current user
// follows them, from a single followed-set query.
func (s *FollowService) FollowStatusFor(currentUserID int64, users []models.User) (map[int64]bool, error) {
	followed, err := s.FollowedIDs(currentUserID)
	if err != nil {
		return nil, err
	}

	status := make(map[int64]bool, len(users))
	for _, u := range users {
		status[u.ID] = followed[u.ID]
	}
	return status, nil
}
