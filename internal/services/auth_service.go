package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/canconnect/internal/logger"
)

// Role of an authenticated user
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

var (
	ErrInvalidCredentials = errors.New("email and password required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrSessionNotFound    = errors.New("session not found")
	ErrForbidden          = errors.New("insufficient role")
)

// User is the profile attached to a session
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user is an administrator
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStaff reports whether the user is staff; administrators count as staff
func (u User) IsStaff() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}

// SessionTTL is how long an issued session stays valid
const SessionTTL = 24 * time.Hour

// Session is an issued login
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RegisterInput is a citizen registration request
type RegisterInput struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// AuthService is a mock identity provider: two fixed back-office accounts,
// everyone else logs in as a citizen. Sessions live in memory.
type AuthService struct {
	delay time.Duration
	log   logger.Logger

	mu       sync.RWMutex
	sessions map[string]Session

	now func() time.Time
}

// NewAuthService creates the mock identity provider with a simulated latency
func NewAuthService(delay time.Duration, log logger.Logger) *AuthService {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &AuthService{
		delay:    delay,
		log:      log,
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

func (a *AuthService) wait(ctx context.Context) error {
	if a.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Login issues a session for the credentials
func (a *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	if err := a.wait(ctx); err != nil {
		return Session{}, err
	}
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	user := User{
		Email:     email,
		Phone:     "1234567890",
		CreatedAt: a.now().UTC(),
	}
	switch {
	case email == "admin@canconnect.gov.ph" && password == "admin123":
		user.ID, user.FirstName, user.LastName, user.Role = "admin_001", "Admin", "User", RoleAdmin
	case email == "staff@canconnect.gov.ph" && password == "staff123":
		user.ID, user.FirstName, user.LastName, user.Role = "staff_001", "Staff", "Member", RoleStaff
	default:
		user.ID = "user_" + uuid.NewString()[:8]
		user.FirstName, _, _ = strings.Cut(email, "@")
		user.LastName = "User"
		user.Role = RoleCitizen
	}

	now := a.now()
	session := Session{Token: uuid.NewString(), User: user, ExpiresAt: now.Add(SessionTTL).UTC()}

	a.mu.Lock()
	for token, s := range a.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(a.sessions, token)
		}
	}
	a.sessions[session.Token] = session
	a.mu.Unlock()

	a.log.Info("login", map[string]interface{}{"userId": user.ID, "role": user.Role})
	return session, nil
}

// Register validates a registration and returns the new user id. Nothing is stored.
func (a *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if in.Password != in.ConfirmPassword {
		return "", ErrPasswordMismatch
	}
	if err := a.wait(ctx); err != nil {
		return "", err
	}
	if in.Email == "" || in.Password == "" {
		return "", ErrInvalidCredentials
	}
	return uuid.NewString(), nil
}

// Logout drops the session, reporting whether it existed
func (a *AuthService) Logout(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.sessions[token]; !ok {
		return false
	}
	delete(a.sessions, token)
	return true
}

// ValidateSession returns the session user when the token is known, unexpired,
// and the user holds one of roles. An empty roles list accepts any user.
// RoleStaff is satisfied by administrators.
func (a *AuthService) ValidateSession(token string, roles []Role) (User, error) {
	a.mu.RLock()
	session, ok := a.sessions[token]
	a.mu.RUnlock()

	if !ok {
		return User{}, ErrSessionNotFound
	}
	if !a.now().Before(session.ExpiresAt) {
		a.mu.Lock()
		delete(a.sessions, token)
		a.mu.Unlock()
		return User{}, ErrSessionNotFound
	}
	if len(roles) == 0 {
		return session.User, nil
	}

	for _, role := range roles {
		switch role {
		case RoleStaff:
			if session.User.IsStaff() {
				return session.User, nil
			}
		default:
			if session.User.Role == role {
				return session.User, nil
			}
		}
	}

	return User{}, ErrForbidden
}
