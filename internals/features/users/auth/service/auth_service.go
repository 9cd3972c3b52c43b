package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	dto "academykit_backend/internals/features/users/auth/dto"
	authModel "academykit_backend/internals/features/users/auth/model"
	authRepo "academykit_backend/internals/features/users/auth/repository"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/jobs"
	"academykit_backend/internals/helpers/mailer"
)

const resetTTLDefault = 15 * time.Minute

type AuthService struct {
	DB       *gorm.DB
	Tokens   *TokenIssuer
	Google   IDTokenVerifier
	Jobs     jobs.Enqueuer
	ResetTTL time.Duration
}

func NewAuthService(db *gorm.DB, tokens *TokenIssuer, google IDTokenVerifier, q jobs.Enqueuer, resetTTL time.Duration) *AuthService {
	if resetTTL <= 0 {
		resetTTL = resetTTLDefault
	}
	return &AuthService{DB: db, Tokens: tokens, Google: google, Jobs: q, ResetTTL: resetTTL}
}

func nowUTC() time.Time { return time.Now().UTC() }

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ensureCanLogin maps the account status onto 403.
func ensureCanLogin(u *userModel.UserModel) error {
	switch u.Status {
	case constants.UserActive:
		return nil
	case constants.UserPending:
		return helper.ErrForbidden("your account is pending activation")
	default:
		return helper.ErrForbidden("your account is inactive")
	}
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest, meta dto.ClientMeta) (*userModel.UserModel, TokenPair, error) {
	user, err := authRepo.FindUserByEmail(ctx, s.DB, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, TokenPair{}, helper.ErrUnauthorized("invalid email or password")
		}
		return nil, TokenPair{}, helper.ErrService("could not load user", err)
	}
	if !CheckPassword(user.PasswordHash, req.Password) {
		return nil, TokenPair{}, helper.ErrUnauthorized("invalid email or password")
	}
	if err := ensureCanLogin(user); err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issue(ctx, user, meta)
	return user, pair, err
}

// LoginGoogle never creates accounts; the email must already belong to a user.
func (s *AuthService) LoginGoogle(ctx context.Context, idToken string, meta dto.ClientMeta) (*userModel.UserModel, TokenPair, error) {
	if s.Google == nil {
		return nil, TokenPair{}, helper.ErrUnavailable("google sign-in is not configured", nil)
	}
	email, err := s.Google.VerifyEmail(idToken)
	if err != nil {
		log.Warn().Err(err).Msg("[AUTH] google id token rejected")
		return nil, TokenPair{}, helper.ErrUnauthorized("invalid google id token")
	}
	user, err := authRepo.FindUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, TokenPair{}, helper.ErrUnauthorized("no account is registered for this google email")
		}
		return nil, TokenPair{}, helper.ErrService("could not load user", err)
	}
	if err := ensureCanLogin(user); err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issue(ctx, user, meta)
	return user, pair, err
}

func (s *AuthService) issue(ctx context.Context, user *userModel.UserModel, meta dto.ClientMeta) (TokenPair, error) {
	pair, err := s.Tokens.Issue(user)
	if err != nil {
		return TokenPair{}, helper.ErrService("could not sign tokens", err)
	}
	rt := &authModel.RefreshToken{
		UserID:    user.ID,
		TokenHash: s.Tokens.HashRefresh(pair.RefreshToken),
		ExpiresAt: pair.RefreshExpiresAt,
		UserAgent: strptr(meta.UserAgent),
		IP:        strptr(meta.IP),
	}
	if err := authRepo.CreateRefreshToken(ctx, s.DB, rt); err != nil {
		return TokenPair{}, helper.ErrService("could not store refresh token", err)
	}
	if err := authRepo.TouchLastLogin(ctx, s.DB, user.ID, nowUTC()); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("[AUTH] last login not updated")
	}
	return pair, nil
}

// Refresh rotates the refresh token: the presented one is revoked and a new pair is issued.
func (s *AuthService) Refresh(ctx context.Context, token string, meta dto.ClientMeta) (TokenPair, error) {
	userID, err := s.Tokens.ParseRefresh(token)
	if err != nil {
		return TokenPair{}, helper.ErrUnauthorized("invalid refresh token")
	}
	stored, err := authRepo.FindActiveRefreshToken(ctx, s.DB, s.Tokens.HashRefresh(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, helper.ErrUnauthorized("refresh token is unknown, revoked or expired")
		}
		return TokenPair{}, helper.ErrService("could not load refresh token", err)
	}
	if stored.UserID != userID {
		return TokenPair{}, helper.ErrUnauthorized("invalid refresh token")
	}
	if err := authRepo.RevokeRefreshToken(ctx, s.DB, stored.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// lost a race with a concurrent rotation
			return TokenPair{}, helper.ErrUnauthorized("refresh token already used")
		}
		return TokenPair{}, helper.ErrService("could not revoke refresh token", err)
	}

	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, helper.ErrUnauthorized("user not found")
		}
		return TokenPair{}, helper.ErrService("could not load user", err)
	}
	if err := ensureCanLogin(user); err != nil {
		return TokenPair{}, err
	}
	return s.issue(ctx, user, meta)
}

// Logout blacklists the access token until it expires and revokes all refresh tokens of the user.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, accessToken string) error {
	exp, ok := s.Tokens.AccessExpiry(accessToken)
	if !ok {
		exp = nowUTC().Add(s.Tokens.AccessTTL)
	}
	if err := authRepo.BlacklistToken(ctx, s.DB, accessToken, exp); err != nil {
		return helper.ErrService("could not revoke token", err)
	}
	if err := authRepo.RevokeUserRefreshTokens(ctx, s.DB, userID); err != nil {
		return helper.ErrService("could not revoke refresh tokens", err)
	}
	return nil
}

// ForgotPassword is silent about unknown emails.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := authRepo.FindUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Info().Str("email", email).Msg("[AUTH] forgot-password for unknown email")
			return nil
		}
		return helper.ErrService("could not load user", err)
	}
	if user.Status == constants.UserInActive {
		return nil
	}

	code, err := GenerateResetCode()
	if err != nil {
		return helper.ErrService("could not generate reset code", err)
	}
	hash, err := HashPassword(code)
	if err != nil {
		return helper.ErrService("could not hash reset code", err)
	}
	if err := authRepo.SetResetToken(ctx, s.DB, user.ID, hash, nowUTC().Add(s.ResetTTL)); err != nil {
		return helper.ErrService("could not store reset code", err)
	}

	mailer.Enqueue(ctx, s.Jobs, constants.MailForgotPassword,
		mailer.Recipient{Name: user.FullName(), Email: user.Email},
		map[string]any{
			"Name":             user.FullName(),
			"Token":            code,
			"ExpiresInMinutes": int(s.ResetTTL.Minutes()),
		})
	return nil
}

func (s *AuthService) checkResetToken(ctx context.Context, email, token string) (*userModel.UserModel, error) {
	user, err := authRepo.FindUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrBadRequest("invalid or expired reset token")
		}
		return nil, helper.ErrService("could not load user", err)
	}
	if user.PasswordResetToken == nil || user.PasswordResetTokenExpiry == nil ||
		nowUTC().After(*user.PasswordResetTokenExpiry) ||
		!CheckPassword(*user.PasswordResetToken, token) {
		return nil, helper.ErrBadRequest("invalid or expired reset token")
	}
	return user, nil
}

func (s *AuthService) VerifyResetToken(ctx context.Context, req dto.VerifyResetTokenRequest) error {
	_, err := s.checkResetToken(ctx, req.Email, req.Token)
	return err
}

func (s *AuthService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	user, err := s.checkResetToken(ctx, req.Email, req.Token)
	if err != nil {
		return err
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return helper.ErrService("could not hash password", err)
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := authRepo.UpdateUserPassword(ctx, tx, user.ID, hash); err != nil {
			return helper.ErrService("could not update password", err)
		}
		if err := authRepo.RevokeUserRefreshTokens(ctx, tx, user.ID); err != nil {
			return helper.ErrService("could not revoke sessions", err)
		}
		return nil
	})
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return helper.ErrFieldValidation("current_password", "current password is incorrect")
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return helper.ErrService("could not hash password", err)
	}
	if err := authRepo.UpdateUserPassword(ctx, s.DB, user.ID, hash); err != nil {
		return helper.ErrService("could not update password", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*userModel.UserModel, error) {
	return authRepo.FindUserByID(ctx, s.DB, userID)
}
