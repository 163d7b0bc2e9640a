package models

// Follow is a directed edge in the follow graph: the follower observes the
// followed user's posts. The (follower, followed) pair is not unique in
// storage, so the same relationship may be recorded more than once.
type Follow struct {
	ID         int64 `json:"id"`
	FollowerID int64 `json:"followerId"`
	FollowedID int64 `json:"followedId"`
}
