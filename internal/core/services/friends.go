package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
	"github.com/notefold/notefold-core/internal/core/ports/driving"
)

// Ensure friendService implements FriendService
var _ driving.FriendService = (*friendService)(nil)

// friendService implements the FriendService interface
type friendService struct {
	friendshipStore   driven.FriendshipStore
	profileStore      driven.ProfileStore
	noteStore         driven.NoteStore
	compiledNoteStore driven.CompiledNoteStore
	events            driven.EventSink
	logger            *slog.Logger
	now               func() time.Time
}

// NewFriendService creates a new FriendService
func NewFriendService(
	friendshipStore driven.FriendshipStore,
	profileStore driven.ProfileStore,
	noteStore driven.NoteStore,
	compiledNoteStore driven.CompiledNoteStore,
	events driven.EventSink,
	logger *slog.Logger,
) driving.FriendService {
	if logger == nil {
		logger = slog.Default()
	}
	return &friendService{
		friendshipStore:   friendshipStore,
		profileStore:      profileStore,
		noteStore:         noteStore,
		compiledNoteStore: compiledNoteStore,
		events:            events,
		logger:            logger,
		now:               time.Now,
	}
}

// Request sends a friend request from the user to the addressee
func (s *friendService) Request(ctx context.Context, userID, addresseeID string) (*domain.Friendship, error) {
	if userID == addresseeID {
		return nil, fmt.Errorf("%w: cannot befriend yourself", domain.ErrInvalidInput)
	}
	if _, err := s.profileStore.Get(ctx, addresseeID); err != nil {
		return nil, err
	}
	existing, err := s.eitherDirection(ctx, userID, addresseeID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Status == domain.FriendshipRejected {
			// A rejected pair may try again
			existing.UserID = userID
			existing.FriendID = addresseeID
			existing.Status = domain.FriendshipPending
			existing.UpdatedAt = s.now()
			if err := s.friendshipStore.Save(ctx, existing); err != nil {
				return nil, err
			}
			return existing, nil
		}
		return nil, domain.ErrAlreadyExists
	}

	now := s.now()
	friendship := &domain.Friendship{
		ID:        uuid.NewString(),
		UserID:    userID,
		FriendID:  addresseeID,
		Status:    domain.FriendshipPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.friendshipStore.Save(ctx, friendship); err != nil {
		return nil, err
	}
	return friendship, nil
}

// Accept accepts a pending friend request addressed to the user
func (s *friendService) Accept(ctx context.Context, userID, friendshipID string) (*domain.Friendship, error) {
	return s.respond(ctx, userID, friendshipID, domain.FriendshipAccepted)
}

// Reject rejects a pending friend request addressed to the user
func (s *friendService) Reject(ctx context.Context, userID, friendshipID string) error {
	_, err := s.respond(ctx, userID, friendshipID, domain.FriendshipRejected)
	return err
}

func (s *friendService) respond(ctx context.Context, userID, friendshipID string, status domain.FriendshipStatus) (*domain.Friendship, error) {
	friendship, err := s.friendshipStore.Get(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if friendship.FriendID != userID {
		return nil, domain.ErrForbidden
	}
	if friendship.Status != domain.FriendshipPending {
		return nil, fmt.Errorf("%w: request already %s", domain.ErrInvalidInput, friendship.Status)
	}

	friendship.Status = status
	friendship.UpdatedAt = s.now()
	if err := s.friendshipStore.Save(ctx, friendship); err != nil {
		return nil, err
	}
	return friendship, nil
}

// Remove ends a friendship and strips the former friend's note ids from the
// remover's compiled notes. The former friend's own compiled notes are
// untouched.
func (s *friendService) Remove(ctx context.Context, userID, friendID string) error {
	if _, err := s.eitherDirection(ctx, userID, friendID); err != nil {
		return err
	}

	if err := s.friendshipStore.DeleteBetween(ctx, userID, friendID); err != nil {
		return err
	}

	if err := s.stripFriendCitations(ctx, userID, friendID); err != nil {
		s.logger.Warn("citation sweep failed after friend removal",
			"user_id", userID,
			"friend_id", friendID,
			"error", err)
	}

	s.emit(ctx, userID, friendID)
	return nil
}

// eitherDirection finds the friendship record between two users regardless
// of who requested it
func (s *friendService) eitherDirection(ctx context.Context, a, b string) (*domain.Friendship, error) {
	friendship, err := s.friendshipStore.GetBetween(ctx, a, b)
	if err == nil {
		return friendship, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.friendshipStore.GetBetween(ctx, b, a)
}

// List returns the user's friendships, optionally filtered by status
func (s *friendService) List(ctx context.Context, userID string, status domain.FriendshipStatus) ([]*domain.Friendship, error) {
	return s.friendshipStore.ListByUser(ctx, userID, status)
}

// stripFriendCitations removes every citation of the former friend's notes
// from the remover's compiled notes
func (s *friendService) stripFriendCitations(ctx context.Context, userID, friendID string) error {
	friendNoteIDs, err := s.noteStore.ListIDsByOwner(ctx, friendID)
	if err != nil {
		return err
	}
	if len(friendNoteIDs) == 0 {
		return nil
	}

	const pageSize = 100
	for offset := 0; ; offset += pageSize {
		compiled, err := s.compiledNoteStore.ListByOwner(ctx, userID, pageSize, offset)
		if err != nil {
			return err
		}
		for _, c := range compiled {
			if !c.CitesAny(friendNoteIDs) {
				continue
			}
			changed := false
			for _, id := range friendNoteIDs {
				if c.RemoveSource(id) {
					changed = true
				}
			}
			if !changed {
				continue
			}
			c.UpdatedAt = s.now()
			if err := s.compiledNoteStore.Save(ctx, c); err != nil {
				return err
			}
		}
		if len(compiled) < pageSize {
			return nil
		}
	}
}

func (s *friendService) emit(ctx context.Context, userID, friendID string) {
	if s.events == nil {
		return
	}
	_ = s.events.Emit(ctx, domain.Event{
		Type:       domain.EventFriendRemoved,
		UserID:     userID,
		ResourceID: friendID,
		OccurredAt: s.now(),
	})
}
