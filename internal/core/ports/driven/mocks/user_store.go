package mocks

import (
	"context"
	"sync"

	"github.com/notefold/notefold-core/internal/core/domain"
)

// MockProfileStore is a mock implementation of ProfileStore for testing
type MockProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]*domain.Profile
}

// NewMockProfileStore creates a new MockProfileStore
func NewMockProfileStore() *MockProfileStore {
	return &MockProfileStore{profiles: make(map[string]*domain.Profile)}
}

func (m *MockProfileStore) Save(ctx context.Context, profile *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.ID] = profile
	return nil
}

func (m *MockProfileStore) Get(ctx context.Context, id string) (*domain.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	profile, ok := m.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

func (m *MockProfileStore) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, profile := range m.profiles {
		if profile.Username == username {
			return profile, nil
		}
	}
	return nil, domain.ErrNotFound
}

// MockFriendshipStore is a mock implementation of FriendshipStore for testing
type MockFriendshipStore struct {
	mu          sync.RWMutex
	friendships map[string]*domain.Friendship
}

// NewMockFriendshipStore creates a new MockFriendshipStore
func NewMockFriendshipStore() *MockFriendshipStore {
	return &MockFriendshipStore{friendships: make(map[string]*domain.Friendship)}
}

func (m *MockFriendshipStore) Save(ctx context.Context, friendship *domain.Friendship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.friendships[friendship.ID] = friendship
	return nil
}

func (m *MockFriendshipStore) Get(ctx context.Context, id string) (*domain.Friendship, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	friendship, ok := m.friendships[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return friendship, nil
}

func (m *MockFriendshipStore) GetBetween(ctx context.Context, userID, friendID string) (*domain.Friendship, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.friendships {
		if f.UserID == userID && f.FriendID == friendID {
			return f, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockFriendshipStore) ListByUser(ctx context.Context, userID string, status domain.FriendshipStatus) ([]*domain.Friendship, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Friendship
	for _, f := range m.friendships {
		if f.UserID != userID && f.FriendID != userID {
			continue
		}
		if status != "" && f.Status != status {
			continue
		}
		result = append(result, f)
	}
	return result, nil
}

func (m *MockFriendshipStore) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.friendships {
		if f.Status != domain.FriendshipAccepted {
			continue
		}
		if (f.UserID == userID && f.FriendID == otherID) || (f.UserID == otherID && f.FriendID == userID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockFriendshipStore) DeleteBetween(ctx context.Context, userID, friendID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, f := range m.friendships {
		if (f.UserID == userID && f.FriendID == friendID) || (f.UserID == friendID && f.FriendID == userID) {
			delete(m.friendships, id)
		}
	}
	return nil
}
