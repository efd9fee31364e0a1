package v1

import (
	"net/http"

	"go-coaching-backend/internal/delivery/http/response"
	"go-coaching-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ContextHandler struct {
	contextUC domain.ContextUsecase
}

func NewContextHandler(r *gin.RouterGroup, contextUC domain.ContextUsecase) {
	handler := &ContextHandler{contextUC: contextUC}

	r.GET("/context", handler.GetUserContext)
}

// GetUserContext godoc
// @Summary      Get the aggregated user context
// @Description  One call joining profile, onboarding, market config, preferences, goals, business plan, pulse data, and agent settings. Sections other than the profile degrade to null when their read fails.
// @Tags         context
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.UserContext}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /context [get]
// @Security     BearerAuth
func (h *ContextHandler) GetUserContext(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	uc, err := h.contextUC.GetUserContext(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User context retrieved", uc)
}
