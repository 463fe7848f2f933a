package inbound

import (
	"github.com/shandysiswandi/otpgate/internal/identity/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the register, login and OTP flow.
type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Health(*router.Request) (any, error) {
	return HealthResponse{Status: "ok"}, nil
}

// Register creates an account with a fresh OTP secret.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return nil, err
	}

	return MessageResponse{Message: "User registered successfully"}, nil
}

// Login checks the password and emails a one-time code.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	msg := "OTP sent to user's email."
	if resp.OTP != "" {
		msg += " For testing, the OTP is: " + resp.OTP
	}

	return MessageResponse{Message: msg}, nil
}

// VerifyOTP exchanges a valid code for a bearer token.
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Username: req.Username,
		OTP:      req.OTP,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
	}, nil
}

// Me returns the profile behind the bearer token.
func (h *HTTPEndpoint) Me(r *router.Request) (any, error) {
	profile, err := h.uc.Identify(r.Context(), usecase.IdentifyInput{
		Token: jwt.GetToken(r.Context()),
	})
	if err != nil {
		return nil, err
	}

	return MeResponse{
		Username: profile.Username,
		Email:    profile.Email,
	}, nil
}
