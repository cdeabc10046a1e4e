package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"estatehub/internal/apperrors"
	"estatehub/internal/auth"
	"estatehub/internal/mail"
	"estatehub/internal/model"
	"estatehub/internal/repository"
)

// AuthService handles the credential lifecycle: login, password recovery and
// admin moderation. Domain failures are returned as apperrors values and
// surface through the boundary translator.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) (token string, err error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) (token string, err error)
	BlockUser(ctx context.Context, caller *model.User, targetID uuid.UUID, reason string) error
	UnblockUser(ctx context.Context, targetID uuid.UUID) error
}

type authService struct {
	users       repository.UserRepository
	jwtService  *auth.JWTService
	policy      *auth.PasswordPolicy
	mailer      mail.Mailer
	frontendURL string
	resetExpiry time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	jwtService *auth.JWTService,
	policy *auth.PasswordPolicy,
	mailer mail.Mailer,
	frontendURL string,
	resetExpiry time.Duration,
) AuthService {
	if resetExpiry <= 0 {
		resetExpiry = 10 * time.Minute
	}
	return &authService{
		users:       users,
		jwtService:  jwtService,
		policy:      policy,
		mailer:      mailer,
		frontendURL: frontendURL,
		resetExpiry: resetExpiry,
	}
}

// Login authenticates a user and issues a session token.
//
// Unknown emails and wrong passwords produce the same message to avoid
// account enumeration; deactivated accounts are reported distinctly, matching
// the platform's established behavior.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, apperrors.BadRequest("Please provide email and password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, apperrors.Unauthorized("Invalid credentials")
	}

	if !user.IsActive {
		return "", nil, apperrors.Forbidden("Your account has been deactivated. Please contact an administrator.")
	}

	if !s.policy.Verify(password, user.PasswordHash) {
		return "", nil, apperrors.Unauthorized("Invalid credentials")
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return "", nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Me returns the current user's record.
func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("User not found")
	}
	return user, nil
}

// ForgotPassword issues a one-time reset token and mails it out. Only the
// token's one-way hash is persisted; a mail failure rolls the fields back.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return apperrors.NotFound("User not found")
	}

	raw, hash, err := auth.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(s.resetExpiry)
	if err := s.users.SetResetToken(ctx, user.ID, hash, expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, raw)
	message := fmt.Sprintf("You are receiving this email because you (or someone else) has requested the reset of a password. Please make a PUT request to: \n\n %s", resetURL)

	if err := s.mailer.Send(user.Email, "Password reset token", message); err != nil {
		// Roll back so a token that never reached the user can't linger.
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			log.Printf("clear reset token after mail failure: %v", clearErr)
		}
		return apperrors.Internal("Email could not be sent")
	}
	return nil
}

// ResetPassword consumes a reset token and sets a new password. The token is
// matched by hash and must not be expired; consumption clears both fields.
func (s *authService) ResetPassword(ctx context.Context, rawToken, newPassword string) (string, error) {
	hash := auth.HashResetToken(rawToken)

	user, err := s.users.FindByResetTokenHash(ctx, hash, time.Now())
	if err != nil {
		return "", apperrors.BadRequest("Invalid or expired token")
	}

	if err := s.policy.ValidateComplexity(newPassword); err != nil {
		return "", apperrors.BadRequest(err.Error())
	}
	passwordHash, err := s.policy.Hash(newPassword)
	if err != nil {
		return "", err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}
	if err := s.users.ClearResetToken(ctx, user.ID); err != nil {
		return "", fmt.Errorf("clear reset token: %w", err)
	}

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// ChangePassword verifies the current password before setting a new one and
// issues a fresh session token.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", apperrors.NotFound("User not found")
	}

	if !s.policy.Verify(currentPassword, user.PasswordHash) {
		return "", apperrors.Unauthorized("Current password is incorrect")
	}

	if err := s.policy.ValidateComplexity(newPassword); err != nil {
		return "", apperrors.BadRequest(err.Error())
	}
	passwordHash, err := s.policy.Hash(newPassword)
	if err != nil {
		return "", err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// BlockUser deactivates an account. The notification mail is best effort:
// a delivery failure is logged, never surfaced to the caller.
func (s *authService) BlockUser(ctx context.Context, caller *model.User, targetID uuid.UUID, reason string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return apperrors.NotFound("User not found")
	}

	if target.ID == caller.ID {
		return apperrors.BadRequest("You cannot block yourself")
	}
	if target.IsAdmin() && !caller.IsAdmin() {
		return apperrors.Forbidden("You cannot block an admin user")
	}

	if err := s.users.SetActive(ctx, target.ID, false); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}

	if reason == "" {
		reason = "No reason provided"
	}
	message := fmt.Sprintf("Your account has been deactivated. Reason: %s. Please contact support for more information.", reason)
	if err := s.mailer.Send(target.Email, "Account Deactivated", message); err != nil {
		log.Printf("send block notification email: %v", err)
	}
	return nil
}

// UnblockUser reactivates an account, without the self/role guards of BlockUser.
func (s *authService) UnblockUser(ctx context.Context, targetID uuid.UUID) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return apperrors.NotFound("User not found")
	}

	if err := s.users.SetActive(ctx, target.ID, true); err != nil {
		return fmt.Errorf("reactivate user: %w", err)
	}

	if err := s.mailer.Send(target.Email, "Account Reactivated", "Your account has been reactivated. You can now log in to your account."); err != nil {
		log.Printf("send unblock notification email: %v", err)
	}
	return nil
}
