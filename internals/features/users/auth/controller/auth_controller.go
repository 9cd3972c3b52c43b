package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/users/auth/dto"
	"academykit_backend/internals/features/users/auth/service"
	userDTO "academykit_backend/internals/features/users/users/dto"
	helper "academykit_backend/internals/helpers"
)

type AuthController struct {
	Service *service.AuthService
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Service: svc}
}

func clientMeta(c *fiber.Ctx) dto.ClientMeta {
	return dto.ClientMeta{UserAgent: c.Get(fiber.HeaderUserAgent), IP: c.IP()}
}

type loginResponse struct {
	service.TokenPair
	User userDTO.UserResponse `json:"user"`
}

// POST /account/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	user, pair, err := ac.Service.Login(c.Context(), req, clientMeta(c))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Login successful", loginResponse{TokenPair: pair, User: userDTO.FromModel(user)})
}

// POST /account/login/google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	user, pair, err := ac.Service.LoginGoogle(c.Context(), req.IDToken, clientMeta(c))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Login successful", loginResponse{TokenPair: pair, User: userDTO.FromModel(user)})
}

// POST /account/refresh-token
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	pair, err := ac.Service.Refresh(c.Context(), req.Token, clientMeta(c))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Token refreshed", pair)
}

// POST /account/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	token := helper.GetRawAccessToken(c)
	if token == "" {
		return helper.ErrUnauthorized("no token provided")
	}
	if err := ac.Service.Logout(c.Context(), userID, token); err != nil {
		return err
	}
	return helper.JsonOK(c, "Logout successful", nil)
}

// POST /account/forgot-password
func (ac *AuthController) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := ac.Service.ForgotPassword(c.Context(), req.Email); err != nil {
		return err
	}
	return helper.JsonOK(c, "If the email is registered, a reset code has been sent", nil)
}

// POST /account/verify-reset-token
func (ac *AuthController) VerifyResetToken(c *fiber.Ctx) error {
	var req dto.VerifyResetTokenRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := ac.Service.VerifyResetToken(c.Context(), req); err != nil {
		return err
	}
	return helper.JsonOK(c, "Reset token is valid", nil)
}

// POST /account/reset-password
func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := ac.Service.ResetPassword(c.Context(), req); err != nil {
		return err
	}
	return helper.JsonOK(c, "Password has been reset", nil)
}

// POST /account/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := ac.Service.ChangePassword(c.Context(), userID, req); err != nil {
		return err
	}
	return helper.JsonOK(c, "Password changed", nil)
}

// GET /account/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	user, err := ac.Service.Me(c.Context(), userID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", userDTO.FromModel(user))
}
