package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/hopelink/hopelink/internal/payment/domain"
)

// HandleStripeWebhook verifies the delivery signature before anything
// else. Events outside the checkout lifecycle are acknowledged without
// action so the processor stops retrying them.
func (s *Server) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.webhooks.Verify(c.Request.Context(), payload, c.Request.Header); err != nil {
		AbortWithError(c, err)
		return
	}

	event, err := s.webhooks.Parse(c.Request.Context(), payload)
	if err != nil {
		if errors.Is(err, paymentdomain.ErrEventIgnored) {
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		AbortWithError(c, err)
		return
	}

	s.obsMetrics.RecordWebhookEvent(c.Request.Context(), event.Type)

	if _, err := s.donationSvc.ConfirmFromEvent(c.Request.Context(), event); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
