package services

import (
	"github.com/afzalbekoribjonov/zzz/internal/models"
)

// FeedPage is one assembled feed view: the posts to show, the authors, and
// whether the viewer follows each author.
type FeedPage struct {
	Posts        []models.Post  `json:"posts"`
	Users        []models.User  `json:"users"`
	FollowStatus map[int64]bool `json:"followStatus"`
}

// FeedServiceProvider defines the interface for feed assembly.
type FeedServiceProvider interface {
	GlobalFeed(viewerID int64) (FeedPage, error)
	FollowingFeed(viewerID int64) (FeedPage, error)
}

// FeedService composes the post and follow services into feed views. Posts
// are ordered most recent date first.
type FeedService struct {
	users   UserServiceProvider
	posts   PostServiceProvider
	follows FollowServiceProvider
}

// NewFeedService creates a new FeedService.
func NewFeedService(users UserServiceProvider, posts PostServiceProvider, follows FollowServiceProvider) *FeedService {
	return &FeedService{users: users, posts: posts, follows: follows}
}

// GlobalFeed returns every post with the viewer's follow-status map.
func (s *FeedService) GlobalFeed(viewerID int64) (FeedPage, error) {
	posts, err := s.posts.ListPosts()
	if err != nil {
		return FeedPage{}, err
	}
	return s.assemble(viewerID, posts)
}

// FollowingFeed returns only posts whose author the viewer follows.
func (s *FeedService) FollowingFeed(viewerID int64) (FeedPage, error) {
	followed, err := s.follows.FollowedIDs(viewerID)
	if err != nil {
		return FeedPage{}, err
	}

	authorIDs := make([]int64, 0, len(followed))
	for id := range followed {
		authorIDs = append(authorIDs, id)
	}

	posts, err := s.posts.ListPostsByAuthors(authorIDs)
	if err != nil {
		return FeedPage{}, err
	}
	return s.assemble(viewerID, posts)
}

func (s *FeedService) assemble(viewerID int64, posts []models.Post) (FeedPage, error) {
	users, err := s.users.ListUsers()
	if err != nil {
		return FeedPage{}, err
	}

	status, err := s.follows.FollowStatusFor(viewerID, users)
	if err != nil {
		return FeedPage{}, err
	}

	return FeedPage{Posts: posts, Users: users, FollowStatus: status}, nil
}
