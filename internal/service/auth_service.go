package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-shop-api/internal/model"
	"go-shop-api/pkg/apierror"
)

// AuthService checks the single configured admin credential and issues signed
// tokens for it. There is no user store and no revocation list: an issued
// token stays valid until its embedded expiry.
type AuthService struct {
	identity  model.AdminIdentity
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(identity model.AdminIdentity, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		identity:  identity,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

func (s *AuthService) Login(username string, password string) (model.TokenResponse, error) {
	if strings.TrimSpace(username) != s.identity.Username {
		return model.TokenResponse{}, apierror.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.identity.PasswordHash), []byte(password)); err != nil {
		return model.TokenResponse{}, apierror.Unauthorized("invalid credentials")
	}

	token, err := s.issueToken(s.identity.Username)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.tokenTTL.Seconds()),
	}, nil
}

// ValidateToken verifies the signature and expiry and returns the embedded
// principal. Malformed, badly signed and expired tokens are rejected alike.
func (s *AuthService) ValidateToken(tokenString string) (model.Principal, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.Unauthorized("invalid token signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return model.Principal{}, apierror.Unauthorized("invalid token")
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return model.Principal{}, apierror.Unauthorized("invalid token claims")
	}

	principal := model.Principal{}
	principal.Username, _ = claimsMap["username"].(string)
	principal.Role, _ = claimsMap["role"].(string)

	if principal.Username == "" || principal.Role == "" {
		return model.Principal{}, apierror.Unauthorized("invalid token claims")
	}

	return principal, nil
}

func (s *AuthService) issueToken(username string) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"role":     model.RoleAdmin,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}
