package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/martkit/user-service/internal/model"
)

func registerAlice(t *testing.T, store *fakeStore) int64 {
	t.Helper()
	auth := NewAuthService(store, store, "test-secret", time.Hour)
	id, err := auth.Register(context.Background(), model.RegisterRequest{
		Name: "Alice", Email: "a@x.com", Password: "pw1",
	})
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	return id
}

func TestGetProfile(t *testing.T) {
	store := newFakeStore()
	id := registerAlice(t, store)
	svc := NewProfileService(store, &fakeAvatarStorage{})

	profile, err := svc.GetProfile(context.Background(), id)
	if err != nil {
		t.Fatalf("GetProfile() unexpected error: %v", err)
	}
	if profile.ID != id || profile.Name != "Alice" || profile.Email != "a@x.com" {
		t.Errorf("unexpected profile: %+v", profile)
	}
	if profile.FullName != nil || profile.Bio != nil || profile.Avatar != nil {
		t.Errorf("fresh profile should have null fields: %+v", profile)
	}
	if len(profile.Preferences) != 0 {
		t.Errorf("fresh profile preferences = %v, want empty", profile.Preferences)
	}
}

func TestGetProfile_UnknownAccount(t *testing.T) {
	svc := NewProfileService(newFakeStore(), &fakeAvatarStorage{})

	if _, err := svc.GetProfile(context.Background(), 99); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetProfile() error = %v, want ErrAccountNotFound", err)
	}
}

func TestGetProfile_MalformedPreferencesDefaultEmpty(t *testing.T) {
	store := newFakeStore()
	id := registerAlice(t, store)
	broken := "{not json"
	store.profiles[id].preferences = &broken

	svc := NewProfileService(store, &fakeAvatarStorage{})

	profile, err := svc.GetProfile(context.Background(), id)
	if err != nil {
		t.Fatalf("GetProfile() unexpected error: %v", err)
	}
	if len(profile.Preferences) != 0 {
		t.Errorf("preferences = %v, want empty mapping on parse failure", profile.Preferences)
	}
}

func TestUpdateProfile(t *testing.T) {
	store := newFakeStore()
	id := registerAlice(t, store)
	svc := NewProfileService(store, &fakeAvatarStorage{})

	fullName := "Alice Liddell"
	bio := "down the rabbit hole"
	err := svc.UpdateProfile(context.Background(), id, model.UpdateProfileRequest{
		Name: "Alice L.", FullName: &fullName, Bio: &bio,
	})
	if err != nil {
		t.Fatalf("UpdateProfile() unexpected error: %v", err)
	}

	profile, err := svc.GetProfile(context.Background(), id)
	if err != nil {
		t.Fatalf("GetProfile() unexpected error: %v", err)
	}
	if profile.Name != "Alice L." {
		t.Errorf("Name = %q, want %q", profile.Name, "Alice L.")
	}
	if profile.FullName == nil || *profile.FullName != fullName {
		t.Errorf("FullName = %v, want %q", profile.FullName, fullName)
	}
	if profile.Bio == nil || *profile.Bio != bio {
		t.Errorf("Bio = %v, want %q", profile.Bio, bio)
	}
}

func TestUpdatePreferencesMerges(t *testing.T) {
	store := newFakeStore()
	id := registerAlice(t, store)
	stored := `{"theme":"light","lang":"en"}`
	store.profiles[id].preferences = &stored

	svc := NewProfileService(store, &fakeAvatarStorage{})

	merged, err := svc.UpdatePreferences(context.Background(), id, map[string]any{"theme": "dark"})
	if err != nil {
		t.Fatalf("UpdatePreferences() unexpected error: %v", err)
	}
	if merged["theme"] != "dark" {
		t.Errorf("theme = %v, want dark (incoming key wins)", merged["theme"])
	}
	if merged["lang"] != "en" {
		t.Errorf("lang = %v, want en (untouched key survives)", merged["lang"])
	}

	// Merge is persisted, not just returned.
	again, err := svc.UpdatePreferences(context.Background(), id, map[string]any{})
	if err != nil {
		t.Fatalf("UpdatePreferences() unexpected error: %v", err)
	}
	if again["theme"] != "dark" || again["lang"] != "en" {
		t.Errorf("persisted preferences = %v, want merged result", again)
	}
}

func TestUploadAvatar(t *testing.T) {
	store := newFakeStore()
	id := registerAlice(t, store)
	avatars := &fakeAvatarStorage{}
	svc := NewProfileService(store, avatars)

	ref, err := svc.UploadAvatar(context.Background(), id, "cat.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("UploadAvatar() unexpected error: %v", err)
	}
	if ref == "" {
		t.Fatal("UploadAvatar() returned empty reference")
	}
	if got := store.profiles[id].avatar; got == nil || *got != ref {
		t.Errorf("stored avatar = %v, want %q", got, ref)
	}
}

func TestUploadAvatar_RejectsNonImage(t *testing.T) {
	store := newFakeStore()
	id := registerAlice(t, store)
	svc := NewProfileService(store, &fakeAvatarStorage{})

	if _, err := svc.UploadAvatar(context.Background(), id, "notes.txt", "text/plain", strings.NewReader("hi")); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("UploadAvatar() error = %v, want ErrNotAnImage", err)
	}
}

func TestRemoveAvatar(t *testing.T) {
	store := newFakeStore()
	id := registerAlice(t, store)
	avatars := &fakeAvatarStorage{}
	svc := NewProfileService(store, avatars)

	ref, err := svc.UploadAvatar(context.Background(), id, "cat.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("UploadAvatar() unexpected error: %v", err)
	}

	if err := svc.RemoveAvatar(context.Background(), id); err != nil {
		t.Fatalf("RemoveAvatar() unexpected error: %v", err)
	}
	if got := store.profiles[id].avatar; got != nil {
		t.Errorf("avatar reference still set after removal: %q", *got)
	}
	if len(avatars.deleted) != 1 || avatars.deleted[0] != ref {
		t.Errorf("deleted files = %v, want [%q]", avatars.deleted, ref)
	}
}

func TestRemoveAvatar_FileDeleteFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	id := registerAlice(t, store)
	avatars := &fakeAvatarStorage{deleteErr: errors.New("bucket gone")}
	svc := NewProfileService(store, avatars)

	if _, err := svc.UploadAvatar(context.Background(), id, "cat.png", "image/png", strings.NewReader("png-bytes")); err != nil {
		t.Fatalf("UploadAvatar() unexpected error: %v", err)
	}

	if err := svc.RemoveAvatar(context.Background(), id); err != nil {
		t.Fatalf("RemoveAvatar() should succeed despite file delete failure, got: %v", err)
	}
	if got := store.profiles[id].avatar; got != nil {
		t.Errorf("avatar reference still set after removal: %q", *got)
	}
}

func TestRemoveAvatar_NoAvatarIsNoOp(t *testing.T) {
	store := newFakeStore()
	id := registerAlice(t, store)
	avatars := &fakeAvatarStorage{}
	svc := NewProfileService(store, avatars)

	if err := svc.RemoveAvatar(context.Background(), id); err != nil {
		t.Fatalf("RemoveAvatar() unexpected error: %v", err)
	}
	if len(avatars.deleted) != 0 {
		t.Errorf("deleted files = %v, want none", avatars.deleted)
	}
}
