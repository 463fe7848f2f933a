package inbound

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/identity/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) error
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
	Identify(ctx context.Context, in usecase.IdentifyInput) (*entity.Profile, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/health", end.Health)

	r.POST("/register/", end.Register)
	r.POST("/login/", end.Login)
	r.POST("/verify-otp/", end.VerifyOTP)

	r.GET("/users/me", end.Me, router.Bearer)
}
