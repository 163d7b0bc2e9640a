package services

import (
	"errors"
	"testing"

	"github.com/afzalbekoribjonov/zzz/internal/models"
)

func TestFollowUnfollowRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ada := env.register(t, "ada")
	bob := env.register(t, "bob")

	if _, err := env.follows.Follow(ada.ID, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if following, err := env.follows.IsFollowing(ada.ID, bob.ID); err != nil || !following {
		t.Fatalf("IsFollowing after follow = %v, %v", following, err)
	}
	// Directed edge: the reverse is not implied.
	if following, _ := env.follows.IsFollowing(bob.ID, ada.ID); following {
		t.Fatal("reverse edge implied")
	}

	if err := env.follows.Unfollow(ada.ID, bob.ID); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if following, _ := env.follows.IsFollowing(ada.ID, bob.ID); following {
		t.Fatal("still following after unfollow")
	}
}

func TestFollowUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	ada := env.register(t, "ada")

	if _, err := env.follows.Follow(ada.ID, 999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
	if _, err := env.follows.Follow(999, ada.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}

func TestUnfollowMissingEdge(t *testing.T) {
	env := newTestEnv(t)
	ada := env.register(t, "ada")
	bob := env.register(t, "bob")

	if err := env.follows.Unfollow(ada.ID, bob.ID); !errors.Is(err, ErrFollowNotFound) {
		t.Fatalf("got %v, want ErrFollowNotFound", err)
	}
}

func TestDuplicateEdgesBehaveAsOneRelationship(t *testing.T) {
	env := newTestEnv(t)
	ada := env.register(t, "ada")
	bob := env.register(t, "bob")

	// Edge uniqueness is not enforced; following twice records two edges.
	if _, err := env.follows.Follow(ada.ID, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if _, err := env.follows.Follow(ada.ID, bob.ID); err != nil {
		t.Fatalf("second follow: %v", err)
	}

	followed, err := env.follows.FollowedIDs(ada.ID)
	if err != nil {
		t.Fatalf("followed ids: %v", err)
	}
	if len(followed) != 1 || !followed[bob.ID] {
		t.Fatalf("duplicate edges not collapsed to membership: %v", followed)
	}

	// Unfollow clears all edges for the pair at once.
	if err := env.follows.Unfollow(ada.ID, bob.ID); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if following, _ := env.follows.IsFollowing(ada.ID, bob.ID); following {
		t.Fatal("edges remain after unfollow")
	}
}

func TestFollowStatusFor(t *testing.T) {
	env := newTestEnv(t)
	ada := env.register(t, "ada")
	bob := env.register(t, "bob")
	eve := env.register(t, "eve")

	if _, err := env.follows.Follow(ada.ID, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	status, err := env.follows.FollowStatusFor(ada.ID, []models.User{ada, bob, eve})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	want := map[int64]bool{ada.ID: false, bob.ID: true, eve.ID: false}
	for id, expected := range want {
		if status[id] != expected {
			t.Fatalf("status[%d] = %v, want %v (full map %v)", id, status[id], expected, status)
		}
	}
}
