package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatapp/realtime-chat/internal/core/ports"
)

type MessageHandler struct {
	messageService ports.MessageService
}

func NewMessageHandler(messageService ports.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type sendMessageRequest struct {
	Text  string `json:"text"  validate:"max=5000"`
	Image string `json:"image"`
}

// Contacts lists every other account.
//
// @Summary      List contacts
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Account
// @Failure      401  {object}  errorResponse
// @Router       /api/messages/users [get]
func (h *MessageHandler) Contacts(c echo.Context) error {
	self, err := currentAccount(c)
	if err != nil {
		return err
	}

	contacts, err := h.messageService.Contacts(c.Request().Context(), self.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contacts)
}

// Thread returns the conversation with another account, oldest first.
//
// @Summary      Get conversation
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Peer account ID"
// @Success      200  {array}   domain.Message
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/messages/{id} [get]
func (h *MessageHandler) Thread(c echo.Context) error {
	self, err := currentAccount(c)
	if err != nil {
		return err
	}

	msgs, err := h.messageService.Thread(c.Request().Context(), self.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

// Send stores a message with text, an image, or both.
//
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Receiver account ID"
// @Param        body  body      sendMessageRequest  true  "Message content"
// @Success      201   {object}  domain.Message
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/messages/send/{id} [post]
func (h *MessageHandler) Send(c echo.Context) error {
	self, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.messageService.Send(c.Request().Context(), ports.SendMessageInput{
		SenderID:   self.ID,
		ReceiverID: c.Param("id"),
		Text:       req.Text,
		Image:      req.Image,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, msg)
}
