package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"musiccatalog/internal/apperrors"
	"musiccatalog/internal/models"
	"musiccatalog/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for password hashing.
const bcryptCost = 12

// Claims are the JWT claims issued on login.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.StandardClaims
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	issuer     string
	audience   string
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret, issuer, audience string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		issuer:     issuer,
		audience:   audience,
		tokenDurat: 10 * time.Hour,
	}
}

// Register creates a new user with a hashed password. The role defaults
// to USER when empty.
func (s *AuthService) Register(username, password, role string) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}

	existing, err := s.userRepo.GetByUsername(username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username %s: %w", username, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("username '%s': %w", username, apperrors.ErrDuplicateUsername)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Login authenticates a user and returns a signed JWT token. Unknown
// usernames and wrong passwords get the same answer.
func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	return s.IssueToken(user.Username, user.Role)
}

// IssueToken signs a token carrying the username and role, bound to the
// configured issuer and audience, valid for the configured window.
func (s *AuthService) IssueToken(username, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Role:     role,
		StandardClaims: jwt.StandardClaims{
			Issuer:    s.issuer,
			Audience:  s.audience,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenDurat).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if
// valid. A token with the wrong audience or issuer is rejected even when
// its signature checks out.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrUnauthenticated
	}
	if !claims.VerifyAudience(s.audience, true) {
		return nil, fmt.Errorf("%w: audience mismatch", apperrors.ErrUnauthenticated)
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return nil, fmt.Errorf("%w: issuer mismatch", apperrors.ErrUnauthenticated)
	}
	return claims, nil
}

// GetAllUsers retrieves all users.
func (s *AuthService) GetAllUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// SetRole changes the role of an existing user.
func (s *AuthService) SetRole(id, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return fmt.Errorf("invalid role: %s", role)
	}
	return s.userRepo.UpdateRole(id, role)
}

// DeleteUser removes a user account. Users are never referenced by
// catalog entities, so no guard applies.
func (s *AuthService) DeleteUser(id string) error {
	return s.userRepo.Delete(id)
}
