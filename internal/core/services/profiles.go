package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
	"github.com/notefold/notefold-core/internal/core/ports/driving"
)

// Ensure profileService implements ProfileService
var _ driving.ProfileService = (*profileService)(nil)

// profileService implements the ProfileService interface
type profileService struct {
	profileStore driven.ProfileStore
	events       driven.EventSink
	logger       *slog.Logger
	now          func() time.Time
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileStore driven.ProfileStore, events driven.EventSink, logger *slog.Logger) driving.ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &profileService{
		profileStore: profileStore,
		events:       events,
		logger:       logger,
		now:          time.Now,
	}
}

// Ensure returns the user's profile, provisioning it from the token claims
// on first sight. Notes, compiled notes and friendships all reference the
// profile row, so this must run before any other write for a new user.
func (s *profileService) Ensure(ctx context.Context, authCtx *domain.AuthContext) (*domain.Profile, error) {
	if authCtx == nil || authCtx.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", domain.ErrInvalidInput)
	}

	profile, err := s.profileStore.Get(ctx, authCtx.UserID)
	if err == nil {
		// Keep the stored email in step with the identity provider
		if authCtx.Email != "" && profile.Email != authCtx.Email {
			profile.Email = authCtx.Email
			profile.UpdatedAt = s.now()
			if err := s.profileStore.Save(ctx, profile); err != nil {
				return nil, err
			}
		}
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	profile = &domain.Profile{
		ID:        authCtx.UserID,
		Username:  s.availableUsername(ctx, authCtx),
		Email:     authCtx.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profileStore.Save(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("provisioned profile for new user",
		"user_id", profile.ID,
		"username", profile.Username)

	if s.events != nil {
		_ = s.events.Emit(ctx, domain.Event{
			Type:       domain.EventProfileCreated,
			UserID:     profile.ID,
			ResourceID: profile.ID,
			OccurredAt: now,
		})
	}
	return profile, nil
}

// Get retrieves a profile by user id
func (s *profileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profileStore.Get(ctx, userID)
}

// GetByUsername retrieves a profile by username
func (s *profileService) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	return s.profileStore.GetByUsername(ctx, username)
}

// Update edits the user's own profile
func (s *profileService) Update(ctx context.Context, userID string, req driving.UpdateProfileRequest) (*domain.Profile, error) {
	profile, err := s.profileStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", domain.ErrInvalidInput)
		}
		if username != profile.Username {
			if taken, err := s.usernameTaken(ctx, username, userID); err != nil {
				return nil, err
			} else if taken {
				return nil, fmt.Errorf("%w: username %q", domain.ErrAlreadyExists, username)
			}
			profile.Username = username
		}
	}
	if req.ProfilePictureURL != nil {
		profile.ProfilePictureURL = *req.ProfilePictureURL
	}

	profile.UpdatedAt = s.now()
	if err := s.profileStore.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// availableUsername derives a username from the email local part (or the
// user id when there is no email) and suffixes it with a user-id fragment
// on collision. Usernames are unique.
func (s *profileService) availableUsername(ctx context.Context, authCtx *domain.AuthContext) string {
	base := authCtx.UserID
	if at := strings.Index(authCtx.Email, "@"); at > 0 {
		base = authCtx.Email[:at]
	}
	base = strings.ToLower(strings.TrimSpace(base))

	taken, err := s.usernameTaken(ctx, base, authCtx.UserID)
	if err == nil && !taken {
		return base
	}

	suffix := authCtx.UserID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return base + "-" + suffix
}

func (s *profileService) usernameTaken(ctx context.Context, username, selfID string) (bool, error) {
	existing, err := s.profileStore.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != selfID, nil
}
