package v1

import (
	"net/http"

	"go-coaching-backend/internal/delivery/http/response"
	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type GoalHandler struct {
	goalUC domain.GoalUsecase
}

func NewGoalHandler(r *gin.RouterGroup, goalUC domain.GoalUsecase) {
	handler := &GoalHandler{goalUC: goalUC}

	goals := r.Group("/goals")
	{
		goals.GET("", handler.List)
		goals.POST("", handler.Create)
		goals.PUT("/:id", handler.Update)
		goals.POST("/:id/progress", handler.UpdateProgress)
		goals.DELETE("/:id", handler.Delete)
	}
}

// List godoc
// @Summary      List goals
// @Description  Return all goals of the current user with derived confidence scores
// @Tags         goals
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Goal}
// @Failure      401  {object}  response.Response
// @Router       /goals [get]
// @Security     BearerAuth
func (h *GoalHandler) List(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	goals, err := h.goalUC.List(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Goals retrieved", goals)
}

// Create godoc
// @Summary      Create a goal
// @Tags         goals
// @Accept       json
// @Produce      json
// @Param        request  body      domain.GoalCreateRequest  true  "Goal details"
// @Success      201      {object}  response.Response{data=domain.Goal}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /goals [post]
// @Security     BearerAuth
func (h *GoalHandler) Create(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req domain.GoalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	goal, err := h.goalUC.Create(c, userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Goal created", goal)
}

// Update godoc
// @Summary      Update a goal
// @Description  Partially update a goal. Status is user-owned; setting it here always wins.
// @Tags         goals
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Goal ID"
// @Param        request  body      domain.GoalUpdateRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=domain.Goal}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /goals/{id} [put]
// @Security     BearerAuth
func (h *GoalHandler) Update(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	goalID := c.Param("id")

	var req domain.GoalUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	goal, err := h.goalUC.Update(c, userID, goalID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Goal updated", goal)
}

// UpdateProgress godoc
// @Summary      Record goal progress
// @Description  Set the absolute current value. An active goal that reaches its target flips to completed.
// @Tags         goals
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Goal ID"
// @Param        request  body      domain.GoalProgressRequest  true  "New current value"
// @Success      200      {object}  response.Response{data=domain.Goal}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /goals/{id}/progress [post]
// @Security     BearerAuth
func (h *GoalHandler) UpdateProgress(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	goalID := c.Param("id")

	var req domain.GoalProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	goal, err := h.goalUC.UpdateProgress(c, userID, goalID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Progress recorded", goal)
}

// Delete godoc
// @Summary      Delete a goal
// @Tags         goals
// @Produce      json
// @Param        id   path      string  true  "Goal ID"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /goals/{id} [delete]
// @Security     BearerAuth
func (h *GoalHandler) Delete(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	goalID := c.Param("id")

	if err := h.goalUC.Delete(c, userID, goalID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Goal deleted", nil)
}
