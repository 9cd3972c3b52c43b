package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/users/auth/controller"
	"academykit_backend/internals/features/users/auth/service"
	rateLimiter "academykit_backend/internals/middlewares"
)

// AuthRoutes mounts /account. Login, refresh and password recovery are public.
func AuthRoutes(r fiber.Router, a *container.App) {
	svc := service.NewAuthService(
		a.DB,
		service.NewTokenIssuer(a.Config.JWT),
		service.GoogleVerifier{ClientID: a.Config.Google.ClientID},
		a.Queue,
		a.Config.JWT.ResetTokenTTL,
	)
	ctl := controller.NewAuthController(svc)

	account := r.Group("/account")
	account.Post("/login", rateLimiter.LoginRateLimiter(), ctl.Login)
	account.Post("/login/google", rateLimiter.LoginRateLimiter(), ctl.LoginGoogle)
	account.Post("/refresh-token", ctl.RefreshToken)
	account.Post("/forgot-password", rateLimiter.ForgotPasswordRateLimiter(), ctl.ForgotPassword)
	account.Post("/verify-reset-token", ctl.VerifyResetToken)
	account.Post("/reset-password", ctl.ResetPassword)

	account.Post("/logout", a.Auth, ctl.Logout)
	account.Post("/change-password", a.Auth, ctl.ChangePassword)
	account.Get("/me", a.Auth, ctl.Me)
}
