package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/martkit/user-service/internal/model"
	"github.com/martkit/user-service/internal/repository"
	"github.com/martkit/user-service/internal/storage"
)

var ErrNotAnImage = errors.New("only image files are allowed")

// ProfileStore is the profile persistence surface the profile service needs.
type ProfileStore interface {
	GetByAccountID(ctx context.Context, userID int64) (*repository.AccountProfile, error)
	UpdateNameAndProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) error
	GetPreferences(ctx context.Context, userID int64) (*string, error)
	SetPreferences(ctx context.Context, userID int64, prefs string) error
	GetAvatar(ctx context.Context, userID int64) (*string, error)
	SetAvatar(ctx context.Context, userID int64, ref *string) error
}

// ProfileService handles profile reads and mutations for authenticated
// callers.
type ProfileService struct {
	profiles ProfileStore
	avatars  storage.AvatarStorage
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles ProfileStore, avatars storage.AvatarStorage) *ProfileService {
	return &ProfileService{profiles: profiles, avatars: avatars}
}

// GetProfile returns the joined account+profile view. Unparseable stored
// preferences degrade to an empty mapping rather than failing the read.
func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (model.ProfileResponse, error) {
	row, err := s.profiles.GetByAccountID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return model.ProfileResponse{}, ErrAccountNotFound
		}
		return model.ProfileResponse{}, err
	}

	return model.ProfileResponse{
		ID:          row.ID,
		Name:        row.Name,
		Email:       row.Email,
		FullName:    row.FullName,
		Bio:         row.Bio,
		Avatar:      row.Avatar,
		Preferences: parsePreferences(row.Preferences),
	}, nil
}

// UpdateProfile updates the account name and the profile's full name and
// bio together.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) error {
	return s.profiles.UpdateNameAndProfile(ctx, userID, req)
}

// UpdatePreferences shallow-merges the given partial mapping over the
// stored preferences and returns the merged result. Keys in the partial
// mapping win; other stored keys survive.
func (s *ProfileService) UpdatePreferences(ctx context.Context, userID int64, partial map[string]any) (map[string]any, error) {
	stored, err := s.profiles.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	merged := parsePreferences(stored)
	for k, v := range partial {
		merged[k] = v
	}

	encoded, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.SetPreferences(ctx, userID, string(encoded)); err != nil {
		return nil, err
	}

	return merged, nil
}

// UploadAvatar stores the image and persists its reference on the profile.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID int64, filename, contentType string, r io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}

	ref, err := s.avatars.Save(ctx, filename, contentType, r)
	if err != nil {
		return "", err
	}

	if err := s.profiles.SetAvatar(ctx, userID, &ref); err != nil {
		return "", err
	}

	return ref, nil
}

// RemoveAvatar clears the profile's avatar reference. Deleting the stored
// file is best-effort: a failure is logged and the operation still
// succeeds.
func (s *ProfileService) RemoveAvatar(ctx context.Context, userID int64) error {
	ref, err := s.profiles.GetAvatar(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	if ref != nil && *ref != "" {
		if err := s.avatars.Delete(ctx, *ref); err != nil {
			slog.Warn("failed to delete avatar file", "user_id", userID, "ref", *ref, "error", err)
		}
	}

	return s.profiles.SetAvatar(ctx, userID, nil)
}

// parsePreferences deserializes stored preferences, defaulting to an empty
// mapping when the column is null or holds malformed JSON.
func parsePreferences(stored *string) map[string]any {
	prefs := map[string]any{}
	if stored == nil || *stored == "" {
		return prefs
	}
	if err := json.Unmarshal([]byte(*stored), &prefs); err != nil {
		return map[string]any{}
	}
	return prefs
}
