package v1

import (
	"net/http"

	"go-coaching-backend/internal/delivery/http/response"
	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatUC domain.ChatUsecase
}

// NewChatHandler mounts one chat and one history route per persona. The rate
// limiter is applied by the caller so chat turns share a per-user budget
// across personas.
func NewChatHandler(r *gin.RouterGroup, chatUC domain.ChatUsecase, chatLimiter gin.HandlerFunc) {
	handler := &ChatHandler{chatUC: chatUC}

	agents := r.Group("/agents")
	{
		agents.POST("/:persona/chat", chatLimiter, handler.Chat)
		agents.GET("/:persona/conversations", handler.History)
	}
}

// Chat godoc
// @Summary      Send a chat turn to a coaching agent
// @Description  Relay one message to the named persona (advisor, roleplay, content). The system prompt is primed with the user's profile, active goals, and market snapshot; the exchange is appended to today's conversation.
// @Tags         agents
// @Accept       json
// @Produce      json
// @Param        persona  path      string              true  "Agent persona"  Enums(advisor, roleplay, content)
// @Param        request  body      domain.ChatRequest  true  "Message and optional client-side history"
// @Success      200      {object}  response.Response{data=domain.ChatResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /agents/{persona}/chat [post]
// @Security     BearerAuth
func (h *ChatHandler) Chat(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	persona := domain.AgentPersona(c.Param("persona"))

	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	reply, err := h.chatUC.Chat(c, userID, persona, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Reply generated", reply)
}

// History godoc
// @Summary      List recent conversations with a persona
// @Tags         agents
// @Produce      json
// @Param        persona  path      string  true  "Agent persona"  Enums(advisor, roleplay, content)
// @Success      200      {object}  response.Response{data=[]domain.AgentConversation}
// @Failure      401      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /agents/{persona}/conversations [get]
// @Security     BearerAuth
func (h *ChatHandler) History(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	persona := domain.AgentPersona(c.Param("persona"))

	convs, err := h.chatUC.History(c, userID, persona)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Conversations retrieved", convs)
}
