package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"burgerreview/internal/model"
	"burgerreview/internal/pkg/jwtutil"
	"burgerreview/internal/repository"
	"burgerreview/internal/session"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUsernameExists    = errors.New("username already exists")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrUnauthenticated   = errors.New("authentication required")
)

type SessionStore interface {
	Issue(ctx context.Context, userID uint) (string, error)
	Resolve(ctx context.Context, id string) (uint, error)
	Revoke(ctx context.Context, id string) error
}

type AuthService struct {
	store         *repository.Store
	sessions      SessionStore
	jwtSecret     string
	jwtExpiration time.Duration
	log           *zap.SugaredLogger
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries both credentials a login produces: the server-side
// session for the HTML surface and a bearer token for the JSON API.
type LoginResult struct {
	User      *model.User
	SessionID string
	Token     string
}

func NewAuthService(store *repository.Store, sessions SessionStore, jwtSecret string, jwtExpiration time.Duration, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		store:         store,
		sessions:      sessions,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		log:           log,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	// passwords are compared byte for byte, whitespace included
	password := input.Password

	if username == "" || email == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}
	if err := validate.Var(username, "max=50"); err != nil {
		return nil, ErrInvalidInput
	}
	if err := validate.Var(email, "email,max=120"); err != nil {
		return nil, ErrInvalidInput
	}

	existingByName, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existingByName != nil {
		return nil, ErrUsernameExists
	}

	existingByEmail, err := s.store.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingByEmail != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateField(ctx, username, err)
		}
		return nil, err
	}

	s.log.Infow("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// duplicateField resolves which unique column a concurrent insert collided on.
func (s *AuthService) duplicateField(ctx context.Context, username string, cause error) error {
	existing, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("resolve duplicate user after %v: %w", cause, err)
	}
	if existing != nil {
		return ErrUsernameExists
	}
	return ErrEmailExists
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.authenticate(ctx, input)
	if err != nil {
		return nil, err
	}

	sessionID, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username)
	if err != nil {
		_ = s.sessions.Revoke(ctx, sessionID)
		return nil, err
	}
	return &LoginResult{User: user, SessionID: sessionID, Token: token}, nil
}

// IssueToken checks the credentials like Login but hands out only a bearer
// token; no server-side session is created.
func (s *AuthService) IssueToken(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.authenticate(ctx, input)
	if err != nil {
		return nil, err
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

// authenticate never reveals whether the email or the password was wrong.
func (s *AuthService) authenticate(ctx context.Context, input LoginInput) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.store.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Revoke(ctx, sessionID)
}

// CurrentUser maps a missing, expired or orphaned session to ErrUnauthenticated.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	userID, err := s.sessions.Resolve(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.store.Users.GetByID(ctx, id)
}
