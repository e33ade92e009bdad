package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	authdomain "github.com/hopelink/hopelink/internal/auth/domain"
	"github.com/hopelink/hopelink/internal/auth/session"
	checkoutdomain "github.com/hopelink/hopelink/internal/checkout/domain"
	"github.com/hopelink/hopelink/internal/config"
	donationdomain "github.com/hopelink/hopelink/internal/donation/domain"
	paymentdomain "github.com/hopelink/hopelink/internal/payment/domain"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	return router
}

func newTestServer() *Server {
	return &Server{
		cfg:      config.Config{PublicBaseURL: "https://hopelink.example"},
		sessions: session.NewManager(config.Config{}),
	}
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (body %q)", err, rec.Body.String())
	}
	return resp
}

type fakeAuthService struct {
	signUpResult authdomain.AuthResult
	signUpErr    error
	signInResult authdomain.AuthResult
	signInErr    error
	authUser     authdomain.User
	authErr      error
	signedOut    []string
}

func (f *fakeAuthService) SignUp(ctx context.Context, req authdomain.SignUpRequest) (authdomain.AuthResult, error) {
	if f.signUpErr != nil {
		return authdomain.AuthResult{}, f.signUpErr
	}
	return f.signUpResult, nil
}

func (f *fakeAuthService) SignIn(ctx context.Context, req authdomain.SignInRequest) (authdomain.AuthResult, error) {
	if f.signInErr != nil {
		return authdomain.AuthResult{}, f.signInErr
	}
	return f.signInResult, nil
}

func (f *fakeAuthService) SignOut(ctx context.Context, token string) error {
	f.signedOut = append(f.signedOut, token)
	return nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, token string) (authdomain.User, error) {
	if f.authErr != nil {
		return authdomain.User{}, f.authErr
	}
	return f.authUser, nil
}

type fakeCheckoutService struct {
	lastRequest checkoutdomain.CreateCheckoutRequest
	response    checkoutdomain.CreateCheckoutResponse
	err         error
}

func (f *fakeCheckoutService) Create(ctx context.Context, req checkoutdomain.CreateCheckoutRequest) (checkoutdomain.CreateCheckoutResponse, error) {
	f.lastRequest = req
	if f.err != nil {
		return checkoutdomain.CreateCheckoutResponse{}, f.err
	}
	return f.response, nil
}

type fakeDonationService struct {
	confirmRequest  donationdomain.ConfirmRequest
	confirmResponse donationdomain.ConfirmResponse
	confirmErr      error
	lastEvent       *paymentdomain.CheckoutEvent
	listResponse    donationdomain.ListDonationResponse
	historyResponse donationdomain.HistoryResponse
	recentRequest   donationdomain.ListRecentRequest
	statsRequest    donationdomain.StatsRequest
	stats           donationdomain.Stats
}

func (f *fakeDonationService) Confirm(ctx context.Context, req donationdomain.ConfirmRequest) (donationdomain.ConfirmResponse, error) {
	f.confirmRequest = req
	if f.confirmErr != nil {
		return donationdomain.ConfirmResponse{}, f.confirmErr
	}
	return f.confirmResponse, nil
}

func (f *fakeDonationService) ConfirmFromEvent(ctx context.Context, event *paymentdomain.CheckoutEvent) (donationdomain.ConfirmResponse, error) {
	f.lastEvent = event
	if f.confirmErr != nil {
		return donationdomain.ConfirmResponse{}, f.confirmErr
	}
	return f.confirmResponse, nil
}

func (f *fakeDonationService) ListByUser(ctx context.Context, req donationdomain.ListByUserRequest) (donationdomain.HistoryResponse, error) {
	return f.historyResponse, nil
}

func (f *fakeDonationService) ListRecent(ctx context.Context, req donationdomain.ListRecentRequest) (donationdomain.ListDonationResponse, error) {
	f.recentRequest = req
	return f.listResponse, nil
}

func (f *fakeDonationService) Stats(ctx context.Context, req donationdomain.StatsRequest) (donationdomain.Stats, error) {
	f.statsRequest = req
	return f.stats, nil
}
