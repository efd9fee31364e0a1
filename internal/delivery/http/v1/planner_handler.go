package v1

import (
	"net/http"

	"go-coaching-backend/internal/delivery/http/response"
	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type PlannerHandler struct {
	plannerUC domain.PlannerUsecase
}

func NewPlannerHandler(r *gin.RouterGroup, plannerUC domain.PlannerUsecase) {
	handler := &PlannerHandler{plannerUC: plannerUC}

	plan := r.Group("/business-plan")
	{
		plan.GET("", handler.GetPlan)
		plan.PUT("", handler.SavePlan)
	}
}

// GetPlan godoc
// @Summary      Get the business plan
// @Description  Return the stored plan inputs and derived annual targets
// @Tags         planner
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.BusinessPlan}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /business-plan [get]
// @Security     BearerAuth
func (h *PlannerHandler) GetPlan(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	plan, err := h.plannerUC.GetPlan(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Business plan retrieved", plan)
}

// SavePlan godoc
// @Summary      Save the business plan
// @Description  Recompute GCI, deal counts, and both activity funnels from the inputs and upsert the single plan row. Optionally regenerates the planner-derived goals.
// @Tags         planner
// @Accept       json
// @Produce      json
// @Param        request  body      domain.PlanSaveRequest  true  "Plan inputs"
// @Success      200      {object}  response.Response{data=domain.BusinessPlan}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /business-plan [put]
// @Security     BearerAuth
func (h *PlannerHandler) SavePlan(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req domain.PlanSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	plan, err := h.plannerUC.SavePlan(c, userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Business plan saved", plan)
}
