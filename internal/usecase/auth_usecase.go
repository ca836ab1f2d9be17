package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"storefront_service/internal/domain"
	"storefront_service/internal/metrics"
	"storefront_service/pkg/kvstore"
)

const sessionKeyPrefix = "storefront_session_"

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type AuthConfig struct {
	Secret        string
	SessionTTL    time.Duration
	RememberMeTTL time.Duration
}

type AuthUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.AuthResponse, error)
	Login(ctx context.Context, email, password string, rememberMe bool) (*domain.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	Profile(ctx context.Context, session *domain.Session) (*domain.UserProfile, error)
	ListUsers(ctx context.Context) ([]domain.UserProfile, error)
	EnsureAdmin(ctx context.Context, name, email, password string) error
}

// sessionClaims is the signed token body. The session record it names must
// still exist for the token to authenticate.
type sessionClaims struct {
	Role       domain.Role `json:"role"`
	Email      string      `json:"email"`
	RememberMe bool        `json:"rem,omitempty"`
	jwt.RegisteredClaims
}

type authUseCase struct {
	userRepo  domain.UserRepository
	durable   kvstore.Store
	ephemeral kvstore.Store
	cfg       AuthConfig
	metrics   *metrics.Metrics
	log       *logrus.Logger
	now       func() time.Time
}

// NewAuthUseCase stores remembered sessions in durable and all others in
// ephemeral, which should not outlive the process.
func NewAuthUseCase(repo domain.UserRepository, durable, ephemeral kvstore.Store, cfg AuthConfig, m *metrics.Metrics, logger *logrus.Logger) AuthUseCase {
	return &authUseCase{
		userRepo:  repo,
		durable:   durable,
		ephemeral: ephemeral,
		cfg:       cfg,
		metrics:   m,
		log:       logger,
		now:       time.Now,
	}
}

func (uc *authUseCase) findByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

func (uc *authUseCase) Register(ctx context.Context, input RegisterInput) (*domain.AuthResponse, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	phone := strings.TrimSpace(input.Phone)
	uc.log.Infof("Use Case: Attempting registration for email: %s", email)

	if name == "" {
		uc.log.Warn("Use Case: Registration failed - empty name")
		return nil, domain.NewValidationError("name", "user name cannot be empty")
	}
	if !isValidEmail(email) {
		uc.log.Warnf("Use Case: Registration failed - invalid email format: %s", email)
		return nil, domain.NewValidationError("email", "invalid email format")
	}
	if phone != "" && !isValidPhone(phone) {
		return nil, domain.NewValidationError("phone", "must be a 10 digit mobile number starting with 6-9")
	}
	if err := validatePassword(input.Password); err != nil {
		uc.log.Warnf("Use Case: Registration failed - password validation error: %v", err)
		return nil, err
	}

	if _, err := uc.findByEmail(ctx, email); err == nil {
		uc.log.Warnf("Use Case: Registration failed - email already exists: %s", email)
		return nil, fmt.Errorf("user with email '%s': %w", email, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	user, err := uc.createUser(ctx, name, email, phone, input.Password, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: User registered successfully. ID: %s, Email: %s", user.ID, user.Email)
	return uc.startSession(ctx, *user, false)
}

func (uc *authUseCase) createUser(ctx context.Context, name, email, phone, password string, role domain.Role) (*domain.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for %s: %v", email, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		Role:         role,
		PasswordHash: string(hashedPassword),
		CreatedAt:    uc.now(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			uc.log.Warnf("Use Case: Registration failed - email already exists: %s", email)
			return nil, fmt.Errorf("user with email '%s': %w", email, domain.ErrAlreadyExists)
		}
		uc.log.Errorf("Use Case: Repository failed to create user %s: %v", email, err)
		return nil, err
	}
	return &user, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string, rememberMe bool) (*domain.AuthResponse, error) {
	email = normalizeEmail(email)
	uc.log.Infof("Use Case: Attempting authentication for email: %s", email)

	reject := func() (*domain.AuthResponse, error) {
		uc.metrics.AuthAttempts.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if !isValidEmail(email) || password == "" {
		uc.log.Warnf("Use Case: Auth failed - invalid email or empty password for %s", email)
		return reject()
	}

	user, err := uc.findByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		uc.log.Warnf("Use Case: Auth failed - user not found: %s", email)
		return reject()
	}
	if err != nil {
		uc.log.Errorf("Use Case: Error retrieving user %s during auth: %v", email, err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Use Case: Auth failed - incorrect password for user %s (ID: %s)", email, user.ID)
			return reject()
		}
		uc.log.Errorf("Use Case: Error comparing password hash for user %s: %v", email, err)
		return nil, fmt.Errorf("internal error during authentication: %w", err)
	}

	uc.metrics.AuthAttempts.WithLabelValues("accepted").Inc()
	uc.log.Infof("Use Case: Authentication successful for user %s (ID: %s)", email, user.ID)
	return uc.startSession(ctx, *user, rememberMe)
}

func (uc *authUseCase) sessionStore(rememberMe bool) kvstore.Store {
	if rememberMe {
		return uc.durable
	}
	return uc.ephemeral
}

func (uc *authUseCase) startSession(ctx context.Context, user domain.User, rememberMe bool) (*domain.AuthResponse, error) {
	ttl := uc.cfg.SessionTTL
	if rememberMe {
		ttl = uc.cfg.RememberMeTTL
	}
	now := uc.now()
	session := domain.Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Email:      user.Email,
		Role:       user.Role,
		RememberMe: rememberMe,
		ExpiresAt:  now.Add(ttl),
	}

	claims := sessionClaims{
		Role:       user.Role,
		Email:      user.Email,
		RememberMe: rememberMe,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("could not sign session token: %w", err)
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("could not encode session: %w", err)
	}
	if err := uc.sessionStore(rememberMe).Set(ctx, sessionKeyPrefix+session.ID, string(raw)); err != nil {
		uc.log.Errorf("Use Case: Failed to persist session for user %s: %v", user.ID, err)
		return nil, fmt.Errorf("could not store session: %w", err)
	}
	return &domain.AuthResponse{Token: token, ExpiresAt: session.ExpiresAt, User: user.Profile()}, nil
}

func (uc *authUseCase) parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(uc.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(uc.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid session token: %w", domain.ErrUnauthorized)
	}
	return claims, nil
}

func (uc *authUseCase) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := uc.parse(token)
	if err != nil {
		return nil, err
	}
	store := uc.sessionStore(claims.RememberMe)
	raw, ok, err := store.Get(ctx, sessionKeyPrefix+claims.ID)
	if err != nil {
		return nil, fmt.Errorf("could not load session: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("session ended: %w", domain.ErrUnauthorized)
	}
	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("could not decode session: %w", err)
	}
	if !uc.now().Before(session.ExpiresAt) {
		_ = store.Remove(ctx, sessionKeyPrefix+session.ID)
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	return &session, nil
}

func (uc *authUseCase) Logout(ctx context.Context, token string) error {
	claims, err := uc.parse(token)
	if err != nil {
		return err
	}
	if err := uc.sessionStore(claims.RememberMe).Remove(ctx, sessionKeyPrefix+claims.ID); err != nil {
		return fmt.Errorf("could not end session: %w", err)
	}
	uc.log.Infof("Use Case: Session %s for user %s ended", claims.ID, claims.Subject)
	return nil
}

func (uc *authUseCase) Profile(ctx context.Context, session *domain.Session) (*domain.UserProfile, error) {
	if session == nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.Get(ctx, session.UserID)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get user profile for ID %s: %v", session.UserID, err)
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

func (uc *authUseCase) ListUsers(ctx context.Context) ([]domain.UserProfile, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve users: %w", err)
	}
	profiles := make([]domain.UserProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// EnsureAdmin creates the bootstrap admin account when no user holds its
// email. An existing account is promoted to admin but its password is kept.
func (uc *authUseCase) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	if !isValidEmail(email) {
		return domain.NewValidationError("email", "invalid admin email")
	}
	existing, err := uc.findByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == domain.RoleAdmin {
			return nil
		}
		existing.Role = domain.RoleAdmin
		uc.log.Infof("Use Case: Promoting existing user %s to admin", email)
		return uc.userRepo.Save(ctx, *existing)
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}
	if password == "" {
		return domain.NewValidationError("password", "admin password cannot be empty")
	}
	if _, err := uc.createUser(ctx, name, email, "", password, domain.RoleAdmin); err != nil {
		return err
	}
	uc.log.Infof("Use Case: Bootstrap admin %s created", email)
	return nil
}
