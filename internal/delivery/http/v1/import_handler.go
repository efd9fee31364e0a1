package v1

import (
	"net/http"

	"go-coaching-backend/internal/delivery/http/response"
	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	importerUC domain.ImporterUsecase
}

func NewImportHandler(r *gin.RouterGroup, importerUC domain.ImporterUsecase) {
	handler := &ImportHandler{importerUC: importerUC}

	r.POST("/import/csv", handler.ImportCSV)
}

// ImportCSV godoc
// @Summary      Bulk import from CSV
// @Description  Insert CSV rows into contacts or goals in fixed-size batches. A failed batch is reported with its row range and the import continues; the result counts what actually landed.
// @Tags         import
// @Accept       json
// @Produce      json
// @Param        request  body      domain.ImportRequest  true  "CSV text and header-to-column mapping"
// @Success      200      {object}  response.Response{data=domain.ImportResult}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /import/csv [post]
// @Security     BearerAuth
func (h *ImportHandler) ImportCSV(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req domain.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	result, err := h.importerUC.Import(c, userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Import finished", result)
}
