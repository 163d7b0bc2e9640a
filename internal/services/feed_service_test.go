package services

import (
	"testing"
)

func TestFollowingFeedFiltersByFollowGraph(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.register(t, "viewer")
	followed := env.register(t, "followed")
	stranger := env.register(t, "stranger")

	if _, err := env.follows.Follow(viewer.ID, followed.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	wanted := env.createPost(t, followed.ID, "From followed")
	env.createPost(t, stranger.ID, "From stranger")

	page, err := env.feed.FollowingFeed(viewer.ID)
	if err != nil {
		t.Fatalf("following feed: %v", err)
	}
	if len(page.Posts) != 1 || page.Posts[0].ID != wanted.ID {
		t.Fatalf("expected exactly the followed user's post, got %+v", page.Posts)
	}
	if !page.FollowStatus[followed.ID] || page.FollowStatus[stranger.ID] {
		t.Fatalf("bad follow status map: %v", page.FollowStatus)
	}
	if len(page.Users) != 3 {
		t.Fatalf("expected all users in page, got %d", len(page.Users))
	}
}

func TestFollowingFeedEmptyWhenFollowingNobody(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.register(t, "viewer")
	author := env.register(t, "author")
	env.createPost(t, author.ID, "Unseen")

	page, err := env.feed.FollowingFeed(viewer.ID)
	if err != nil {
		t.Fatalf("following feed: %v", err)
	}
	if len(page.Posts) != 0 {
		t.Fatalf("expected empty feed, got %+v", page.Posts)
	}
}

func TestGlobalFeedOrderedByRecency(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.register(t, "viewer")
	author := env.register(t, "author")

	old, err := env.posts.CreatePost(author.ID, "Old", "c", "2024-01-01", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	recent, err := env.posts.CreatePost(author.ID, "Recent", "c", "2024-06-01", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sameDay, err := env.posts.CreatePost(viewer.ID, "Same day, later insert", "c", "2024-06-01", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	page, err := env.feed.GlobalFeed(viewer.ID)
	if err != nil {
		t.Fatalf("global feed: %v", err)
	}
	if len(page.Posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(page.Posts))
	}
	// Most recent date first; within a date, newest insert first.
	gotOrder := []int64{page.Posts[0].ID, page.Posts[1].ID, page.Posts[2].ID}
	wantOrder := []int64{sameDay.ID, recent.ID, old.ID}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("order %v, want %v", gotOrder, wantOrder)
		}
	}
}
