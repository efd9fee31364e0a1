package v1

import (
	"net/http"

	"go-coaching-backend/internal/delivery/http/response"
	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	onboardingUC domain.OnboardingUsecase
}

func NewOnboardingHandler(r *gin.RouterGroup, onboardingUC domain.OnboardingUsecase) {
	handler := &OnboardingHandler{onboardingUC: onboardingUC}

	onboarding := r.Group("/onboarding")
	{
		onboarding.GET("/state", handler.GetState)
		onboarding.POST("/advance", handler.Advance)
		onboarding.POST("/retreat", handler.Retreat)
		onboarding.POST("/reset", handler.Reset)
	}
}

// GetState godoc
// @Summary      Get onboarding position
// @Description  Return the resumable sequencer position derived from persisted progress and the user's tier
// @Tags         onboarding
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.SequencerState}
// @Failure      401  {object}  response.Response
// @Router       /onboarding/state [get]
// @Security     BearerAuth
func (h *OnboardingHandler) GetState(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	state, err := h.onboardingUC.GetState(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Onboarding state retrieved", state)
}

// Advance godoc
// @Summary      Complete the current step
// @Description  Persist the current step's payload and move the sequencer forward. The step ID must match the current position.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        request  body      domain.AdvanceRequest  true  "Current step and its payload"
// @Success      200      {object}  response.Response{data=domain.SequencerState}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /onboarding/advance [post]
// @Security     BearerAuth
func (h *OnboardingHandler) Advance(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req domain.AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	state, err := h.onboardingUC.Advance(c, userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Step completed", state)
}

// Retreat godoc
// @Summary      Step back one position
// @Description  Move the view one step back without un-completing anything. Module completion flags never reset.
// @Tags         onboarding
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.SequencerState}
// @Failure      401  {object}  response.Response
// @Router       /onboarding/retreat [post]
// @Security     BearerAuth
func (h *OnboardingHandler) Retreat(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	state, err := h.onboardingUC.Retreat(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Stepped back", state)
}

// Reset godoc
// @Summary      Restart onboarding
// @Description  Clear the completed step set. Module completion flags are kept; already-finished modules stay finished.
// @Tags         onboarding
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.SequencerState}
// @Failure      401  {object}  response.Response
// @Router       /onboarding/reset [post]
// @Security     BearerAuth
func (h *OnboardingHandler) Reset(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	state, err := h.onboardingUC.Reset(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Onboarding reset", state)
}
