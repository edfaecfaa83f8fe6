package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/adapters/persistence/repositories"
	"expensehub/internal/config"
	"expensehub/internal/core/domain"
	"expensehub/internal/pkg/jwt"
	"expensehub/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWeakPassword       = errors.New("password does not meet requirements")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo          repositories.UserRepository
	refreshTokenRepo  repositories.RefreshTokenRepository
	passwordResetRepo repositories.PasswordResetRepository
	notification      *NotificationService
	cfg               *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	passwordResetRepo repositories.PasswordResetRepository,
	notification *NotificationService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		refreshTokenRepo:  refreshTokenRepo,
		passwordResetRepo: passwordResetRepo,
		notification:      notification,
		cfg:               cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Department string `json:"department"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register registers a new employee account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	// 1. Check if email already exists
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	// 2. Validate password strength
	if !password.Validate(input.Password) {
		return nil, ErrWeakPassword
	}

	// 3. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 4. Assign the next free employee number
	employeeNo, err := s.nextEmployeeNo(ctx)
	if err != nil {
		return nil, err
	}

	// 5. Create user. New accounts always start as employees; role changes
	// go through the admin user management endpoints.
	user := &models.User{
		EmployeeNo: employeeNo,
		Name:       input.Name,
		Email:      input.Email,
		Password:   hashedPassword,
		Role:       string(domain.RoleEmployee),
		Department: input.Department,
		IsActive:   true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// 6. Generate tokens
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	// 7. Store refresh token
	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s (%s)", user.Email, user.EmployeeNo)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Generate tokens
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	// 5. Store refresh token
	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Email)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken refreshes the access token using refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	// 1. Validate refresh token JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	// 2. Hash the token to find in DB
	tokenHash := password.HashToken(refreshToken)

	// 3. Find token in DB
	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	// 4. Check if token is revoked
	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}

	// 5. Check if token is expired
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	// 6. Get user
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// 7. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 8. Revoke old refresh token (Token Rotation)
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	// 9. Generate new tokens
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	// 10. Store new refresh token
	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Token refreshed for user: %s", user.Email)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)

	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return err
	}

	log.Printf("✅ User logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}

	log.Printf("✅ All sessions revoked for user ID: %d", userID)
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ChangePassword changes a user's password after verifying the current one.
// All sessions are revoked so stolen refresh tokens stop working.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	if !password.Verify(currentPassword, user.Password) {
		return ErrInvalidCredentials
	}
	if !password.Validate(newPassword) {
		return ErrWeakPassword
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}

	if s.notification != nil {
		s.notification.NotifyPasswordChanged(user.Email)
	}

	log.Printf("✅ Password changed for user: %s", user.Email)
	return nil
}

// RequestPasswordReset issues a reset token and emails the reset link. The
// result does not reveal whether the email belongs to an account.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	token := password.HashToken(uuid.NewString())

	reset := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := s.passwordResetRepo.Create(ctx, reset); err != nil {
		return err
	}

	if s.notification != nil {
		resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.SMTP.ClientURL, token)
		s.notification.NotifyPasswordReset(user.Email, resetURL)
	}

	log.Printf("✅ Password reset requested for user: %s", user.Email)
	return nil
}

// ResetPassword completes a password reset using a token from the reset
// email. Tokens are single-use and expire after one hour.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	reset, err := s.passwordResetRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if !reset.IsUsable() {
		return ErrTokenExpired
	}

	if !password.Validate(newPassword) {
		return ErrWeakPassword
	}

	user, err := s.userRepo.GetByID(ctx, reset.UserID)
	if err != nil {
		return ErrUserNotFound
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.passwordResetRepo.MarkUsed(ctx, reset.ID); err != nil {
		return err
	}

	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
		return err
	}

	if s.notification != nil {
		s.notification.NotifyPasswordChanged(user.Email)
	}

	log.Printf("✅ Password reset completed for user: %s", user.Email)
	return nil
}

// nextEmployeeNo assigns the lowest unused EMP number
func (s *AuthService) nextEmployeeNo(ctx context.Context) (string, error) {
	_, total, err := s.userRepo.List(ctx, 0, 1)
	if err != nil {
		return "", err
	}

	for n := total + 1; ; n++ {
		candidate := fmt.Sprintf("EMP%04d", n)
		exists, err := s.userRepo.ExistsByEmployeeNo(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User) (*domain.TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		user.Name,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, userID uint, refreshToken string) error {
	token := &models.RefreshToken{
		UserID:    userID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}

	return s.refreshTokenRepo.Create(ctx, token)
}
