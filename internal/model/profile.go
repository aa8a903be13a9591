package model

// Profile represents the one-to-one extension of an account. Free-text
// fields are nullable in the store and surface as null in responses.
type Profile struct {
	UserID      int64
	FullName    *string
	Bio         *string
	Avatar      *string
	Preferences string // serialized JSON object
}

// ProfileResponse represents the joined account+profile view returned by
// GET /profile.
type ProfileResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	FullName    *string        `json:"full_name"`
	Bio         *string        `json:"bio"`
	Avatar      *string        `json:"avatar"`
	Preferences map[string]any `json:"preferences"`
}

// UpdateProfileRequest represents a profile update request.
type UpdateProfileRequest struct {
	Name     string  `json:"name"`
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
}
