package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	newsletterdomain "github.com/hopelink/hopelink/internal/newsletter/domain"
)

type SubscribeNewsletterRequest struct {
	Email string `json:"email"`
}

func (s *Server) SubscribeNewsletter(c *gin.Context) {
	var req SubscribeNewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.newsletterSvc.Subscribe(c.Request.Context(), newsletterdomain.SubscribeRequest{
		Email: req.Email,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
