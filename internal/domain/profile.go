package domain

import (
	"context"
	"time"
)

// Tier is the subscription level carried on the profile. It gates which
// onboarding modules and agent features a user can reach.
type Tier string

const (
	TierFree       Tier = "free"
	TierSubscriber Tier = "subscriber"
	TierAdmin      Tier = "admin"
)

func ValidTiers() []Tier {
	return []Tier{TierFree, TierSubscriber, TierAdmin}
}

func (t Tier) IsValid() bool {
	for _, valid := range ValidTiers() {
		if t == valid {
			return true
		}
	}
	return false
}

// Profile mirrors the identity-provider user into the profiles table.
// ID equals the token subject and never changes after creation.
type Profile struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Phone           string    `json:"phone"`
	AvatarURL       string    `json:"avatarUrl"`
	MarketArea      string    `json:"marketArea"`
	Brokerage       string    `json:"brokerage"`
	Tier            Tier      `json:"tier"`
	CallCenterAddon bool      `json:"callCenterAddon"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProfileUpdateRequest carries the user-editable profile fields.
type ProfileUpdateRequest struct {
	FirstName  *string `json:"firstName,omitempty" validate:"omitempty,max=100,valid_name"`
	LastName   *string `json:"lastName,omitempty" validate:"omitempty,max=100,valid_name"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,valid_phone"`
	AvatarURL  *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
	MarketArea *string `json:"marketArea,omitempty" validate:"omitempty,max=200"`
	Brokerage  *string `json:"brokerage,omitempty" validate:"omitempty,max=200"`
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
	// RelinkByEmail moves an existing row to a new provider ID when the
	// identity provider reissued the account (same email, new subject).
	RelinkByEmail(ctx context.Context, email string, profile *Profile) error
}

type AuthUsecase interface {
	// SyncProfile idempotently upserts the signed-in identity into profiles
	// and seeds the onboarding progress row. Called on every sign-in.
	SyncProfile(ctx context.Context, profile *Profile) error
	GetCurrentProfile(ctx context.Context, id string) (*Profile, error)
	UpdateProfile(ctx context.Context, id string, req *ProfileUpdateRequest) (*Profile, error)
}
