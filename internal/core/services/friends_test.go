package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven/mocks"
)

type friendsFixture struct {
	svc         *friendService
	friendships *mocks.MockFriendshipStore
	profiles    *mocks.MockProfileStore
	notes       *mocks.MockNoteStore
	compiled    *mocks.MockCompiledNoteStore
	events      *mocks.MockEventSink
}

func newFriendsFixture(t *testing.T) *friendsFixture {
	t.Helper()
	f := &friendsFixture{
		friendships: mocks.NewMockFriendshipStore(),
		profiles:    mocks.NewMockProfileStore(),
		notes:       mocks.NewMockNoteStore(),
		compiled:    mocks.NewMockCompiledNoteStore(),
		events:      mocks.NewMockEventSink(),
	}
	f.svc = NewFriendService(f.friendships, f.profiles, f.notes, f.compiled, f.events, nil).(*friendService)
	for _, id := range []string{"alice", "bob", "carol"} {
		_ = f.profiles.Save(context.Background(), &domain.Profile{ID: id, Username: id})
	}
	return f
}

func TestFriendRequestLifecycle(t *testing.T) {
	f := newFriendsFixture(t)

	friendship, err := f.svc.Request(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if friendship.Status != domain.FriendshipPending {
		t.Errorf("status = %q, want pending", friendship.Status)
	}

	// Only the addressee may accept
	if _, err := f.svc.Accept(context.Background(), "alice", friendship.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("requester accept: error = %v, want ErrForbidden", err)
	}

	accepted, err := f.svc.Accept(context.Background(), "bob", friendship.ID)
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if accepted.Status != domain.FriendshipAccepted {
		t.Errorf("status = %q, want accepted", accepted.Status)
	}

	ok, _ := f.friendships.AreFriends(context.Background(), "alice", "bob")
	if !ok {
		t.Error("expected an accepted friendship in either direction")
	}
}

func TestFriendRequestRejections(t *testing.T) {
	f := newFriendsFixture(t)

	if _, err := f.svc.Request(context.Background(), "alice", "alice"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("self request: error = %v, want ErrInvalidInput", err)
	}
	if _, err := f.svc.Request(context.Background(), "alice", "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown addressee: error = %v, want ErrNotFound", err)
	}

	first, err := f.svc.Request(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if _, err := f.svc.Request(context.Background(), "alice", "bob"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("duplicate request: error = %v, want ErrAlreadyExists", err)
	}
	// The reverse direction is also blocked while a request is open
	if _, err := f.svc.Request(context.Background(), "bob", "alice"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("reverse request: error = %v, want ErrAlreadyExists", err)
	}

	if err := f.svc.Reject(context.Background(), "bob", first.ID); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	// After rejection a new request reuses the record
	again, err := f.svc.Request(context.Background(), "bob", "alice")
	if err != nil {
		t.Fatalf("request after rejection: %v", err)
	}
	if again.Status != domain.FriendshipPending || again.UserID != "bob" {
		t.Errorf("re-request = %+v", again)
	}
}

func TestFriendRemovalStripsCitations(t *testing.T) {
	f := newFriendsFixture(t)

	_ = f.friendships.Save(context.Background(), &domain.Friendship{
		ID: "f1", UserID: "alice", FriendID: "bob", Status: domain.FriendshipAccepted,
	})
	_ = f.notes.Save(context.Background(), &domain.Note{ID: "bob-1", OwnerID: "bob", Title: "Bob 1"})
	_ = f.notes.Save(context.Background(), &domain.Note{ID: "bob-2", OwnerID: "bob", Title: "Bob 2"})
	_ = f.notes.Save(context.Background(), &domain.Note{ID: "alice-1", OwnerID: "alice", Title: "Alice 1"})

	// Alice compiled from her note and both of Bob's
	_ = f.compiled.Save(context.Background(), &domain.CompiledNote{
		ID:      "c1",
		OwnerID: "alice",
		Content: domain.NoteContent{Sections: []domain.Section{
			{Title: "S", Content: "x", SourceNoteIDs: []string{"alice-1", "bob-1", "bob-2"}},
		}},
		SourceNoteIDs: []string{"alice-1", "bob-1", "bob-2"},
		CreatedAt:     time.Now(),
	})
	// Bob's own compiled note must not be touched
	_ = f.compiled.Save(context.Background(), &domain.CompiledNote{
		ID:            "c2",
		OwnerID:       "bob",
		Content:       domain.NoteContent{Sections: []domain.Section{{Title: "S", Content: "y", SourceNoteIDs: []string{"bob-1"}}}},
		SourceNoteIDs: []string{"bob-1", "bob-2"},
		CreatedAt:     time.Now(),
	})

	if err := f.svc.Remove(context.Background(), "alice", "bob"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	ok, _ := f.friendships.AreFriends(context.Background(), "alice", "bob")
	if ok {
		t.Error("friendship still present after removal")
	}

	c1, _ := f.compiled.Get(context.Background(), "c1")
	if len(c1.SourceNoteIDs) != 1 || c1.SourceNoteIDs[0] != "alice-1" {
		t.Errorf("remover citations = %v, want [alice-1]", c1.SourceNoteIDs)
	}
	if got := c1.Content.Sections[0].SourceNoteIDs; len(got) != 1 || got[0] != "alice-1" {
		t.Errorf("section citations = %v, want [alice-1]", got)
	}

	c2, _ := f.compiled.Get(context.Background(), "c2")
	if len(c2.SourceNoteIDs) != 2 {
		t.Errorf("removed friend's compiled note was modified: %v", c2.SourceNoteIDs)
	}

	if got := f.events.OfType(domain.EventFriendRemoved); len(got) != 1 {
		t.Errorf("expected one friend.removed event, got %d", len(got))
	}
}

func TestFriendRemovalWorksInEitherDirection(t *testing.T) {
	f := newFriendsFixture(t)
	_ = f.friendships.Save(context.Background(), &domain.Friendship{
		ID: "f1", UserID: "alice", FriendID: "bob", Status: domain.FriendshipAccepted,
	})

	// Bob, the addressee, removes the friendship
	if err := f.svc.Remove(context.Background(), "bob", "alice"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
}

func TestFriendRemovalUnknownPair(t *testing.T) {
	f := newFriendsFixture(t)

	if err := f.svc.Remove(context.Background(), "alice", "carol"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Remove() error = %v, want ErrNotFound", err)
	}
}

func TestFriendListFiltersByStatus(t *testing.T) {
	f := newFriendsFixture(t)
	_ = f.friendships.Save(context.Background(), &domain.Friendship{
		ID: "f1", UserID: "alice", FriendID: "bob", Status: domain.FriendshipAccepted,
	})
	_ = f.friendships.Save(context.Background(), &domain.Friendship{
		ID: "f2", UserID: "carol", FriendID: "alice", Status: domain.FriendshipPending,
	})

	all, err := f.svc.List(context.Background(), "alice", "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all friendships = %d, want 2", len(all))
	}

	pending, err := f.svc.List(context.Background(), "alice", domain.FriendshipPending)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "f2" {
		t.Errorf("pending = %+v", pending)
	}
}
