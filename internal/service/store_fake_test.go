package service

import (
	"context"
	"errors"
	"io"

	"github.com/martkit/user-service/internal/model"
	"github.com/martkit/user-service/internal/repository"
)

// fakeStore is an in-memory stand-in for the account and profile
// repositories, enforcing the same contracts (unique email, sentinel
// errors) without a database.
type fakeStore struct {
	nextID   int64
	accounts map[int64]*model.Account
	profiles map[int64]*fakeProfileRow

	createProfileErr error
}

type fakeProfileRow struct {
	fullName    *string
	bio         *string
	avatar      *string
	preferences *string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: make(map[int64]*model.Account),
		profiles: make(map[int64]*fakeProfileRow),
	}
}

func (f *fakeStore) Create(_ context.Context, account *model.Account) error {
	for _, a := range f.accounts {
		if a.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.nextID++
	account.ID = f.nextID
	cp := *account
	f.accounts[account.ID] = &cp
	return nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*model.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	a, ok := f.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	a.PasswordHash = hash
	return nil
}

func (f *fakeStore) CreateEmpty(_ context.Context, userID int64) error {
	if f.createProfileErr != nil {
		return f.createProfileErr
	}
	empty := "{}"
	f.profiles[userID] = &fakeProfileRow{preferences: &empty}
	return nil
}

func (f *fakeStore) GetByAccountID(_ context.Context, userID int64) (*repository.AccountProfile, error) {
	a, ok := f.accounts[userID]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	row := &repository.AccountProfile{ID: a.ID, Name: a.Name, Email: a.Email}
	if p, ok := f.profiles[userID]; ok {
		row.FullName = p.fullName
		row.Bio = p.bio
		row.Avatar = p.avatar
		row.Preferences = p.preferences
	}
	return row, nil
}

func (f *fakeStore) UpdateNameAndProfile(_ context.Context, userID int64, req model.UpdateProfileRequest) error {
	a, ok := f.accounts[userID]
	if !ok {
		return repository.ErrAccountNotFound
	}
	p, ok := f.profiles[userID]
	if !ok {
		return errors.New("profile row missing")
	}
	a.Name = req.Name
	p.fullName = req.FullName
	p.bio = req.Bio
	return nil
}

func (f *fakeStore) GetPreferences(_ context.Context, userID int64) (*string, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return p.preferences, nil
}

func (f *fakeStore) SetPreferences(_ context.Context, userID int64, prefs string) error {
	p, ok := f.profiles[userID]
	if !ok {
		return repository.ErrAccountNotFound
	}
	p.preferences = &prefs
	return nil
}

func (f *fakeStore) GetAvatar(_ context.Context, userID int64) (*string, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return p.avatar, nil
}

func (f *fakeStore) SetAvatar(_ context.Context, userID int64, ref *string) error {
	p, ok := f.profiles[userID]
	if !ok {
		return repository.ErrAccountNotFound
	}
	p.avatar = ref
	return nil
}

// fakeAvatarStorage records saves and deletes in memory.
type fakeAvatarStorage struct {
	saved     []string
	deleted   []string
	deleteErr error
}

func (f *fakeAvatarStorage) Save(_ context.Context, filename, _ string, _ io.Reader) (string, error) {
	ref := "/uploads/avatars/" + filename
	f.saved = append(f.saved, ref)
	return ref, nil
}

func (f *fakeAvatarStorage) Delete(_ context.Context, ref string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ref)
	return nil
}
