package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cliniiq/hospital-api/internal/application"
	"github.com/cliniiq/hospital-api/pkg/response"
	"github.com/cliniiq/hospital-api/pkg/validation"
)

type MessageHandler struct {
	Svc    *application.MessageService
	Logger *logrus.Logger
}

func NewMessageHandler(svc *application.MessageService, logger *logrus.Logger) *MessageHandler {
	return &MessageHandler{Svc: svc, Logger: logger}
}

type sendMessageRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// Send POST /message/send (public contact form)
func (h *MessageHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "Please Fill Full Form!", validation.ToDetails(err))
		return
	}
	if _, err := h.Svc.Send(c.Request.Context(), application.MessageInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Body:      req.Message,
	}); err != nil {
		h.Logger.WithError(err).Error("message save failed")
		response.Error[any](c, http.StatusInternalServerError, "could not send message", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Message Sent Successfully!", nil)
}

// GetAll GET /message/getall (admin)
func (h *MessageHandler) GetAll(c *gin.Context) {
	msgs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("message listing failed")
		response.Error[any](c, http.StatusInternalServerError, "could not list messages", nil)
		return
	}
	views := make([]gin.H, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, gin.H{
			"id":        m.ID,
			"firstName": m.FirstName,
			"lastName":  m.LastName,
			"email":     m.Email,
			"phone":     m.Phone,
			"message":   m.Body,
			"createdAt": m.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, gin.H{"messages": views}, "messages", nil)
}
