package v1

import (
	"net/http"

	"go-coaching-backend/internal/delivery/http/response"
	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type EntityHandler struct {
	entityUC domain.EntityUsecase
}

func NewEntityHandler(r *gin.RouterGroup, entityUC domain.EntityUsecase) {
	handler := &EntityHandler{entityUC: entityUC}

	r.POST("/entities", handler.Handle)
}

// Handle godoc
// @Summary      Generic entity operation
// @Description  Relay a CRUD operation to one of the registered per-user tables. Rows are always scoped to the caller; an unregistered table is rejected.
// @Tags         entities
// @Accept       json
// @Produce      json
// @Param        request  body      domain.EntityRequest  true  "Table, operation, and payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /entities [post]
// @Security     BearerAuth
func (h *EntityHandler) Handle(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req domain.EntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	result, err := h.entityUC.Handle(c, userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Operation completed", result)
}
