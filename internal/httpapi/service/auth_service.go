package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"reviewhub/internal/auth"
	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/mail"
)

var (
	ErrReservedUsername = errors.New("username 'me' is reserved")
	ErrIdentityInUse    = errors.New("username or email already tied to a different account")
	ErrInvalidCode      = errors.New("invalid confirmation code")
	ErrInvalidToken     = errors.New("invalid token")
)

// Claims is the payload of an issued access token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// AuthService implements the passwordless signup flow: a signup request mails
// a confirmation code, the token exchange turns that code into a bearer token.
type AuthService interface {
	Signup(ctx context.Context, username, email string) (*models.User, error)
	IssueToken(ctx context.Context, username, confirmationCode string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	codeStore      auth.CodeStore
	mailer         mail.Sender
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	codeStore auth.CodeStore,
	mailer mail.Sender,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		codeStore:      codeStore,
		mailer:         mailer,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

// Signup creates (or reuses) the user record for the username/email pair and
// mails a fresh confirmation code. The code never appears in the response; a
// repeated signup replaces any outstanding code.
func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	if strings.EqualFold(username, "me") {
		return nil, ErrReservedUsername
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	if user != nil {
		// Existing account: the pair must match exactly.
		if user.Email != email {
			return nil, ErrIdentityInUse
		}
	} else {
		// The email must not be claimed by another username.
		if _, err := s.userRepo.FindByEmail(email); err == nil {
			return nil, ErrIdentityInUse
		} else if !isNotFound(err) {
			return nil, err
		}

		user = &models.User{
			Username: username,
			Email:    email,
			Role:     models.RoleUser,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
	}

	code, err := auth.GenerateCode()
	if err != nil {
		return nil, err
	}

	fingerprint := auth.StateFingerprint(user.ID, user.Email, user.EffectiveRole())
	codeHash, err := auth.HashCode(code, fingerprint)
	if err != nil {
		return nil, err
	}
	if err := s.codeStore.Save(ctx, user.ID, codeHash); err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Your confirmation code: %s", code)
	if err := s.mailer.Send(user.Email, "Confirmation code", body); err != nil {
		return nil, fmt.Errorf("dispatch confirmation code: %w", err)
	}

	return user, nil
}

// IssueToken exchanges a confirmation code for an access token. The code is
// deleted on success, so it cannot be redeemed twice.
func (s *authService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if isNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	codeHash, err := s.codeStore.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, auth.ErrCodeNotFound) {
			return "", ErrInvalidCode
		}
		return "", err
	}

	fingerprint := auth.StateFingerprint(user.ID, user.Email, user.EffectiveRole())
	if err := auth.VerifyCode(codeHash, confirmationCode, fingerprint); err != nil {
		// Wrong code: leave it in place so the caller may retry.
		return "", ErrInvalidCode
	}

	if err := s.codeStore.Delete(ctx, user.ID); err != nil {
		return "", err
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.EffectiveRole(),
		Type:     "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a bearer token and returns its claims.
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != "access" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
