package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"strings"
	"time"

	"noirqr/menu-svc/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

// Claims are the signed contents of a session token.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Principal is the caller of an authenticated request: either a registered user
// or the operator holding the admin shared secret.
type Principal struct {
	User     *domain.User
	Operator bool
}

func (p Principal) Authenticated() bool {
	return p.Operator || p.User != nil
}

// CanManage reports whether the principal may modify venue and everything under it.
func (p Principal) CanManage(venue *domain.Venue) bool {
	if p.Operator {
		return true
	}
	return p.User != nil && venue != nil && p.User.ID == venue.UserID
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

type AuthServiceInterface interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Verify(ctx context.Context, token string) (*domain.User, error)
	Authenticate(ctx context.Context, bearer, adminSecret string) (Principal, error)
}

type AuthService struct {
	users       UserRepository
	tokens      *TokenManager
	adminSecret string
	hashCost    int
}

func NewAuthService(users UserRepository, tokens *TokenManager, adminSecret string) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		adminSecret: adminSecret,
		hashCost:    bcrypt.DefaultCost,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if v, ok := firstViolation(in); !ok {
		if v.Tag == "min" {
			return nil, ErrWeakPassword
		}
		return nil, ErrMissingFields
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.result(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if _, ok := firstViolation(in); !ok {
		return nil, ErrCredentialsMissing
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.result(user)
}

func (s *AuthService) Verify(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if user.Email != claims.Email {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// Authenticate resolves the caller. A matching admin secret yields the operator.
// Otherwise a session token decides, so a stale admin header sent alongside a
// valid session does not lock the owner out.
func (s *AuthService) Authenticate(ctx context.Context, bearer, adminSecret string) (Principal, error) {
	if adminSecret != "" && s.adminSecret != "" &&
		subtle.ConstantTimeCompare([]byte(adminSecret), []byte(s.adminSecret)) == 1 {
		return Principal{Operator: true}, nil
	}

	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		if adminSecret != "" {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, ErrTokenRequired
	}

	user, err := s.Verify(ctx, bearer)
	if err != nil {
		return Principal{}, err
	}
	return Principal{User: user}, nil
}

func (s *AuthService) result(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}

var _ AuthServiceInterface = (*AuthService)(nil)
