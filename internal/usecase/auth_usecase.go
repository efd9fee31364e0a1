package usecase

import (
	"context"
	"net/http"
	"time"

	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type authUsecase struct {
	profileRepo    domain.ProfileRepository
	onboardingRepo domain.OnboardingRepository
	validate       *validator.Validate
}

func NewAuthUsecase(profileRepo domain.ProfileRepository, onboardingRepo domain.OnboardingRepository, validate *validator.Validate) domain.AuthUsecase {
	return &authUsecase{
		profileRepo:    profileRepo,
		onboardingRepo: onboardingRepo,
		validate:       validate,
	}
}

// SyncProfile mirrors the identity-provider user into profiles and seeds the
// onboarding progress row. It runs on every sign-in, so it must be idempotent
// and must never fail an existing user on a duplicate email.
func (u *authUsecase) SyncProfile(ctx context.Context, profile *domain.Profile) error {
	if profile.Tier == "" {
		profile.Tier = domain.TierFree
	}

	// Happy path: returning user, ID matches.
	existing, err := u.profileRepo.GetByID(ctx, profile.ID)
	if existing != nil && err == nil {
		return u.onboardingRepo.CreateInitial(ctx, profile.ID)
	}

	// Same email under a different ID: the provider reissued the account.
	// Relink the existing row instead of tripping the unique constraint.
	existingByEmail, err := u.profileRepo.GetByEmail(ctx, profile.Email)
	if existingByEmail != nil && err == nil {
		existingByEmail.ID = profile.ID
		existingByEmail.UpdatedAt = time.Now()
		if err := u.profileRepo.RelinkByEmail(ctx, profile.Email, existingByEmail); err != nil {
			return err
		}
		return u.onboardingRepo.CreateInitial(ctx, profile.ID)
	}

	// Truly new user.
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	if err := u.profileRepo.Create(ctx, profile); err != nil {
		return err
	}
	return u.onboardingRepo.CreateInitial(ctx, profile.ID)
}

func (u *authUsecase) GetCurrentProfile(ctx context.Context, id string) (*domain.Profile, error) {
	profile, err := u.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Profile not found")
	}
	return profile, nil
}

func (u *authUsecase) UpdateProfile(ctx context.Context, id string, req *domain.ProfileUpdateRequest) (*domain.Profile, error) {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != id {
		return nil, apperror.Forbidden("You can only update your own profile")
	}

	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest("Validation failed: " + err.Error())
	}

	profile, err := u.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Profile not found")
	}

	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.MarketArea != nil {
		profile.MarketArea = *req.MarketArea
	}
	if req.Brokerage != nil {
		profile.Brokerage = *req.Brokerage
	}
	profile.UpdatedAt = time.Now()

	if err := u.profileRepo.Update(ctx, profile); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to update profile: "+err.Error(), err)
	}
	return profile, nil
}
