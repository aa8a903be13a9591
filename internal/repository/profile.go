package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/martkit/user-service/internal/model"
)

// AccountProfile is the joined account+profile row used by profile reads.
// Profile columns are nullable: the profile row may be missing entirely
// when its best-effort creation at registration failed.
type AccountProfile struct {
	ID          int64
	Name        string
	Email       string
	FullName    *string
	Bio         *string
	Avatar      *string
	Preferences *string
}

// ProfileRepository handles profile persistence operations.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// CreateEmpty inserts an empty profile row for the given account.
func (r *ProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO profiles (user_id, full_name, bio, avatar, preferences) VALUES (?, NULL, NULL, NULL, ?)`
	_, err := r.db.ExecContext(ctx, query, userID, "{}")
	return err
}

// GetByAccountID retrieves the joined account and profile for an account.
func (r *ProfileRepository) GetByAccountID(ctx context.Context, userID int64) (*AccountProfile, error) {
	query := `SELECT a.id, a.name, a.email, p.full_name, p.bio, p.avatar, p.preferences
		FROM accounts a
		LEFT JOIN profiles p ON p.user_id = a.id
		WHERE a.id = ?
		LIMIT 1`

	row := &AccountProfile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&row.ID, &row.Name, &row.Email, &row.FullName, &row.Bio, &row.Avatar, &row.Preferences,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return row, nil
}

// UpdateNameAndProfile updates the account display name together with the
// profile's full name and bio in a single transaction, so a failure in
// either write leaves both rows untouched.
func (r *ProfileRepository) UpdateNameAndProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET name = ? WHERE id = ?`, req.Name, userID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE profiles SET full_name = ?, bio = ? WHERE user_id = ?`, req.FullName, req.Bio, userID); err != nil {
		return err
	}

	return tx.Commit()
}

// GetPreferences returns the serialized preferences for an account, or nil
// when the profile row is absent.
func (r *ProfileRepository) GetPreferences(ctx context.Context, userID int64) (*string, error) {
	var prefs *string
	err := r.db.QueryRowContext(ctx, `SELECT preferences FROM profiles WHERE user_id = ?`, userID).Scan(&prefs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return prefs, nil
}

// SetPreferences persists the serialized preferences for an account.
func (r *ProfileRepository) SetPreferences(ctx context.Context, userID int64, prefs string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET preferences = ? WHERE user_id = ?`, prefs, userID)
	return err
}

// GetAvatar returns the stored avatar reference, or nil when unset.
func (r *ProfileRepository) GetAvatar(ctx context.Context, userID int64) (*string, error) {
	var avatar *string
	err := r.db.QueryRowContext(ctx, `SELECT avatar FROM profiles WHERE user_id = ?`, userID).Scan(&avatar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return avatar, nil
}

// SetAvatar stores an avatar reference. Pass nil to clear it.
func (r *ProfileRepository) SetAvatar(ctx context.Context, userID int64, ref *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET avatar = ? WHERE user_id = ?`, ref, userID)
	return err
}
