package v1

import (
	"net/http"

	"go-coaching-backend/internal/delivery/http/response"
	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC       domain.AuthUsecase
	onboardingUC domain.OnboardingUsecase
}

func NewAuthHandler(protected *gin.RouterGroup, authUC domain.AuthUsecase, onboardingUC domain.OnboardingUsecase) {
	handler := &AuthHandler{
		authUC:       authUC,
		onboardingUC: onboardingUC,
	}

	auth := protected.Group("/auth")
	{
		auth.POST("/sync", handler.SyncProfile)
		auth.GET("/me", handler.Me)
		auth.PUT("/me", handler.UpdateProfile)
	}
}

// SyncProfileRequest carries the optional provider metadata the frontend has
// on hand at sign-in. Identity (sub, email) always comes from the token.
type SyncProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl"`
}

// SyncProfile godoc
// @Summary      Sync profile from identity provider
// @Description  Idempotently mirror the signed-in Supabase user into the local profiles table and seed onboarding progress. Call on every sign-in.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      SyncProfileRequest  false  "Optional provider metadata"
// @Success      200      {object}  response.Response{data=domain.Profile}
// @Failure      401      {object}  response.Response
// @Router       /auth/sync [post]
// @Security     BearerAuth
func (h *AuthHandler) SyncProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	email := c.GetString(string(domain.KeyUserEmail))

	// Body is optional: a bare POST still syncs identity.
	var req SyncProfileRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
			return
		}
	}

	profile := &domain.Profile{
		ID:        userID,
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		AvatarURL: req.AvatarURL,
	}

	if err := h.authUC.SyncProfile(c.Request.Context(), profile); err != nil {
		c.Error(err)
		return
	}

	synced, err := h.authUC.GetCurrentProfile(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile synced", synced)
}

// Me godoc
// @Summary      Get current profile
// @Description  Return the synced profile plus the onboarding position
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	profile, err := h.authUC.GetCurrentProfile(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	// Onboarding position rides along so the frontend can resume the wizard
	// without a second round trip. Best-effort: nil when unavailable.
	var onboarding *domain.SequencerState
	if state, err := h.onboardingUC.GetState(c, userID); err == nil {
		onboarding = state
	}

	response.Success(c, http.StatusOK, "Profile details", gin.H{
		"user":       profile,
		"onboarding": onboarding,
	})
}

// UpdateProfile godoc
// @Summary      Update current profile
// @Description  Partially update the user-editable profile fields
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.ProfileUpdateRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=domain.Profile}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/me [put]
// @Security     BearerAuth
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req domain.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	profile, err := h.authUC.UpdateProfile(c, userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", profile)
}
