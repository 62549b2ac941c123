package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tripmate/internal/apperr"
	"tripmate/internal/config"
	"tripmate/internal/models"
	"tripmate/internal/repository"
)

const minPasswordLength = 6

var (
	userIDPattern = regexp.MustCompile(`^[a-z0-9_]+$`)
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type RegisterInput struct {
	UserID           string
	Email            string
	Password         string
	FullName         string
	Role             string
	OrganizationName string
}

type AuthResult struct {
	User         models.PublicProfile `json:"user"`
	AccessToken  string               `json:"token"`
	RefreshToken string               `json:"refreshToken"`
}

type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, userID, password string) (*AuthResult, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthResult, error)
	ValidateToken(tokenString string) (*Claims, error)
	// Authenticate resolves a bearer token to an active user.
	Authenticate(ctx context.Context, tokenString string) (Principal, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
	IsUserIDAvailable(ctx context.Context, candidate string) (bool, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	const op = "auth.register"

	in.UserID = strings.ToLower(strings.TrimSpace(in.UserID))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	in.OrganizationName = strings.TrimSpace(in.OrganizationName)

	if err := apperr.MissingFields(op, "Please provide all required fields", map[string]bool{
		"userId":   in.UserID == "",
		"email":    in.Email == "",
		"password": in.Password == "",
		"fullName": in.FullName == "",
		"role":     in.Role == "",
	}); err != nil {
		return nil, err
	}

	if in.Role != models.RoleTraveler && in.Role != models.RoleOrganizer {
		return nil, apperr.Validation(op, "Role must be either traveler or organizer")
	}
	if in.Role == models.RoleOrganizer && in.OrganizationName == "" {
		return nil, apperr.Validation(op, "Organization name is required for organizers")
	}
	if !userIDPattern.MatchString(in.UserID) {
		return nil, apperr.Validation(op, "User ID can only contain lowercase letters, numbers, and underscores")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, apperr.Validation(op, "Please provide a valid email")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.Validation(op, "Password must be at least %d characters", minPasswordLength)
	}

	taken, err := s.userRepo.ExistsByUserID(ctx, in.UserID)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	if taken {
		return nil, apperr.Conflict(op, "This User ID is already taken")
	}

	registered, err := s.userRepo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	if registered {
		return nil, apperr.Conflict(op, "This email is already registered")
	}

	// create password hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, apperr.Internal(op, fmt.Errorf("hash password: %w", err))
	}

	refreshToken, refreshTokenExpiry := s.generateRefreshToken()

	user := &models.User{
		UserID:                 in.UserID,
		Email:                  in.Email,
		PasswordHash:           string(hashedPassword),
		FullName:               in.FullName,
		Role:                   in.Role,
		RefreshToken:           refreshToken,
		RefreshTokenExpiryTime: refreshTokenExpiry,
	}
	if in.Role == models.RoleOrganizer {
		user.OrganizationName = in.OrganizationName
	}

	// the unique indexes still catch a concurrent registration of the same handle or email
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, wrapInternal(op, err)
	}

	return s.issue(user, refreshToken)
}

func (s *authService) Login(ctx context.Context, userID, password string) (*AuthResult, error) {
	const op = "auth.login"

	userID = strings.ToLower(strings.TrimSpace(userID))
	if userID == "" || password == "" {
		return nil, apperr.Validation(op, "Please provide userId and password")
	}

	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Auth(op, "Invalid credentials")
		}
		return nil, apperr.Internal(op, err)
	}

	if !user.IsActive {
		return nil, apperr.Auth(op, "Your account has been deactivated")
	}

	// checking that the password hash is the same
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Auth(op, "Invalid credentials")
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, apperr.Internal(op, err)
	}
	user.LastLogin = now

	refreshToken, refreshTokenExpiry := s.generateRefreshToken()
	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, refreshToken, refreshTokenExpiry); err != nil {
		return nil, apperr.Internal(op, err)
	}

	return s.issue(user, refreshToken)
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*AuthResult, error) {
	const op = "auth.refresh"

	if refreshToken == "" {
		return nil, apperr.Validation(op, "Refresh token is required")
	}

	user, err := s.userRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Auth(op, "Invalid or expired refresh token")
		}
		return nil, apperr.Internal(op, err)
	}

	if !user.IsActive {
		return nil, apperr.Auth(op, "Your account has been deactivated")
	}

	newRefreshToken, refreshTokenExpiry := s.generateRefreshToken()
	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, newRefreshToken, refreshTokenExpiry); err != nil {
		return nil, apperr.Internal(op, err)
	}

	return s.issue(user, newRefreshToken)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	const op = "auth.validate"

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Auth(op, "Not authorized, token failed")
	}

	if claims.Subject == "" {
		return nil, apperr.Auth(op, "Not authorized, token failed")
	}

	return claims, nil
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (Principal, error) {
	const op = "auth.authenticate"

	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return Principal{}, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Principal{}, apperr.Auth(op, "User not found")
		}
		return Principal{}, apperr.Internal(op, err)
	}

	if !user.IsActive {
		return Principal{}, apperr.Auth(op, "Your account has been deactivated")
	}

	return Principal{ID: user.ID, UserID: user.UserID, Role: user.Role}, nil
}

func (s *authService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	const op = "auth.change_password"

	if currentPassword == "" || newPassword == "" {
		return apperr.Validation(op, "Please provide current and new password")
	}
	if len(newPassword) < minPasswordLength {
		return apperr.Validation(op, "New password must be at least %d characters", minPasswordLength)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return wrapInternal(op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperr.Auth(op, "Current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.BcryptCost)
	if err != nil {
		return apperr.Internal(op, fmt.Errorf("hash password: %w", err))
	}

	if err := s.userRepo.UpdatePassword(ctx, id, string(hashedPassword)); err != nil {
		return wrapInternal(op, err)
	}

	return nil
}

func (s *authService) IsUserIDAvailable(ctx context.Context, candidate string) (bool, string, error) {
	normalized := strings.ToLower(strings.TrimSpace(candidate))
	if normalized == "" {
		return false, "", apperr.Validation("auth.check_user_id", "User ID is required")
	}

	taken, err := s.userRepo.ExistsByUserID(ctx, normalized)
	if err != nil {
		return false, "", apperr.Internal("auth.check_user_id", err)
	}

	return !taken, normalized, nil
}

func (s *authService) issue(user *models.User, refreshToken string) (*AuthResult, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, apperr.Internal("auth.issue", err)
	}

	return &AuthResult{
		User:         toPublicProfile(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.UserID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

func (s *authService) generateRefreshToken() (string, time.Time) {
	return uuid.New().String(), time.Now().UTC().Add(s.cfg.RefreshTokenDuration)
}
