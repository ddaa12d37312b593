package routes

import (
	"bizbook/cmd/internal/chatmemory"
	"bizbook/cmd/internal/domain/entity"
	"bizbook/cmd/internal/utils"
	"bizbook/cmd/internal/utils/apierror"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

var chatModePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)

type ChatHistoryRequest struct {
	Messages []entity.ChatMessage `json:"messages"`
}

type DefaultChatRoute struct {
	Memory chatmemory.Store
}

func NewChatDefault(memory chatmemory.Store) *DefaultChatRoute {
	return &DefaultChatRoute{Memory: memory}
}

func (h *DefaultChatRoute) GetHistory(c echo.Context) error {
	key, apierr := chatKey(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	messages, err := h.Memory.Get(c.Request().Context(), key)
	if err != nil {
		log.Errorf("failed to load chat history %s/%s: %v", key.UserID, key.Mode, err)
		messages = []entity.ChatMessage{}
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": messages})
}

func (h *DefaultChatRoute) PutHistory(c echo.Context) error {
	key, apierr := chatKey(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req ChatHistoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if err := h.Memory.Set(c.Request().Context(), key, req.Messages); err != nil {
		log.Errorf("failed to store chat history %s/%s: %v", key.UserID, key.Mode, err)
		return c.JSON(apierror.InternalServerError.Code(), apierror.InternalServerError)
	}
	return c.NoContent(http.StatusNoContent)
}

func chatKey(c echo.Context) (chatmemory.Key, apierror.ErrorResponse) {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return chatmemory.Key{}, apierror.InvalidAuthTokenError
	}

	mode := c.Param("mode")
	if !chatModePattern.MatchString(mode) {
		return chatmemory.Key{}, apierror.NewInvalidParamTypeError("mode", "lowercase identifier")
	}
	return chatmemory.Key{UserID: data.Sub, Mode: mode}, nil
}
