package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	contactdomain "github.com/hopelink/hopelink/internal/contact/domain"
)

type SubmitContactRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	Message      string `json:"message"`
}

func (s *Server) SubmitContactMessage(c *gin.Context) {
	var req SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	message, err := s.contactSvc.Submit(c.Request.Context(), contactdomain.SubmitRequest{
		Name:         req.Name,
		Email:        req.Email,
		Organization: req.Organization,
		Message:      req.Message,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": message.ID.String()})
}
