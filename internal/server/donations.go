package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	checkoutdomain "github.com/hopelink/hopelink/internal/checkout/domain"
	donationdomain "github.com/hopelink/hopelink/internal/donation/domain"
)

type CreateDonationCheckoutRequest struct {
	ProjectID  string `json:"project_id"`
	DonorName  string `json:"donor_name"`
	DonorEmail string `json:"donor_email"`
	// Amount is a decimal string such as "25.00".
	Amount string `json:"amount"`
}

func (s *Server) CreateDonationCheckout(c *gin.Context) {
	var req CreateDonationCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	amountCents, err := checkoutdomain.DecimalStringToCents(req.Amount)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	create := checkoutdomain.CreateCheckoutRequest{
		ProjectID:   req.ProjectID,
		DonorName:   req.DonorName,
		DonorEmail:  req.DonorEmail,
		AmountCents: amountCents,
	}
	if user, ok := currentUser(c); ok {
		create.UserID = user.ID.String()
	}

	resp, err := s.checkoutSvc.Create(c.Request.Context(), create)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ConfirmDonation backs the success-page poll: it asks the processor
// for the session state and records the donation when it is paid. The
// call is idempotent and safe to retry.
func (s *Server) ConfirmDonation(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Query("session_id"))

	resp, err := s.donationSvc.Confirm(c.Request.Context(), donationdomain.ConfirmRequest{
		SessionID: sessionID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListMyDonations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.donationSvc.ListByUser(c.Request.Context(), donationdomain.ListByUserRequest{
		UserID: user.ID.String(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListRecentDonations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	resp, err := s.donationSvc.ListRecent(c.Request.Context(), donationdomain.ListRecentRequest{
		Limit:     limit,
		ProjectID: strings.TrimSpace(c.Query("project_id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetDonationStats(c *gin.Context) {
	stats, err := s.donationSvc.Stats(c.Request.Context(), donationdomain.StatsRequest{
		ProjectID: strings.TrimSpace(c.Query("project_id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
