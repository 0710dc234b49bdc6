package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mykare/user-registration/internal/core/domain"
	"github.com/mykare/user-registration/internal/core/ports"
)

const (
	msgValidated = "User validated successfully"
	msgDeleted   = "User deleted successfully"

	// unknownUserPassword is hashed once at startup so lookups of unknown
	// emails still pay for a bcrypt comparison.
	unknownUserPassword = "unknown-user-placeholder"
)

var tracer = otel.Tracer("github.com/mykare/user-registration/internal/core/service")

// UserService implements registration, credential validation, listing and
// deletion on top of the user directory.
type UserService struct {
	repo       ports.UserRepository
	limiter    ports.LoginLimiter
	hasher     ports.PasswordHasher
	tokens     *TokenService
	adminEmail string
	dummyHash  string
	logger     zerolog.Logger
	now        func() time.Time
}

// NewUserService wires the service. limiter may be nil to disable lockout.
func NewUserService(
	repo ports.UserRepository,
	limiter ports.LoginLimiter,
	hasher ports.PasswordHasher,
	tokens *TokenService,
	adminEmail string,
	logger zerolog.Logger,
) *UserService {
	dummyHash, err := hasher.Hash(unknownUserPassword)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to precompute placeholder hash")
	}
	return &UserService{
		dummyHash:  dummyHash,
		repo:       repo,
		limiter:    limiter,
		hasher:     hasher,
		tokens:     tokens,
		adminEmail: adminEmail,
		logger:     logger,
		now:        time.Now,
	}
}

// RegisterUser creates a USER account. An email that is already present fails
// with domain.ErrDuplicateUser and leaves the directory untouched.
func (s *UserService) RegisterUser(ctx context.Context, in ports.RegisterInput) (_ *domain.User, err error) {
	ctx, span := tracer.Start(ctx, "UserService.RegisterUser")
	defer func() { endSpan(span, err) }()

	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		s.logger.Warn().Str("email", in.Email).Msg("registration rejected: email already registered")
		return nil, fmt.Errorf("%w: user with email %s already exists", domain.ErrDuplicateUser, in.Email)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Save(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		Gender:       domain.ParseGender(in.Gender),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			return nil, fmt.Errorf("%w: user with email %s already exists", domain.ErrDuplicateUser, in.Email)
		}
		return nil, fmt.Errorf("save user: %w", err)
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	s.logger.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("user registered")
	return user, nil
}

// ValidateUser checks credentials and issues a bearer token. The token role is
// ADMIN only when email matches the configured admin email; the stored role
// is not consulted.
func (s *UserService) ValidateUser(ctx context.Context, email, password string) (_ *ports.ValidationResult, err error) {
	ctx, span := tracer.Start(ctx, "UserService.ValidateUser")
	defer func() { endSpan(span, err) }()

	if s.limiter != nil {
		locked, lockErr := s.limiter.IsLocked(ctx, email)
		if lockErr != nil {
			s.logger.Warn().Err(lockErr).Msg("login limiter check failed, continuing")
		} else if locked {
			s.logger.Warn().Str("email", email).Msg("validation rejected: account temporarily locked")
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}
	hash := s.dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	if !s.hasher.Matches(password, hash) || user == nil {
		s.recordFailure(ctx, email)
		s.logger.Info().Str("email", email).Msg("invalid email or password")
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if resetErr := s.limiter.Reset(ctx, email); resetErr != nil {
			s.logger.Warn().Err(resetErr).Msg("failed to reset login failures")
		}
	}

	role := domain.RoleUser
	if strings.EqualFold(email, s.adminEmail) {
		role = domain.RoleAdmin
	}

	token, err := s.tokens.Issue(user.Email, role, s.now())
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("user.role", string(role)))
	return &ports.ValidationResult{
		Message:         msgValidated,
		Token:           token,
		ExpirationAfter: fmt.Sprintf("%d hour", s.tokens.ExpirySeconds()/3600),
	}, nil
}

// ListUsers returns one page of users in directory order.
func (s *UserService) ListUsers(ctx context.Context, page, size int) (_ []*domain.User, err error) {
	ctx, span := tracer.Start(ctx, "UserService.ListUsers",
		trace.WithAttributes(attribute.Int("page", page), attribute.Int("size", size)))
	defer func() { endSpan(span, err) }()

	var problems []string
	if page < 0 {
		problems = append(problems, "page must not be negative")
	}
	if size < 1 {
		problems = append(problems, "size must be at least 1")
	}
	if len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}
	if page > math.MaxInt/size {
		return nil, domain.NewValidationError("page is out of range")
	}

	users, err := s.repo.FindAllPaged(ctx, page, size)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return []*domain.User{}, nil
	}
	return users, nil
}

// DeleteUser removes the account registered under email. The admin account
// can never be deleted, whoever asks.
func (s *UserService) DeleteUser(ctx context.Context, email string) (_ *ports.DeleteResult, err error) {
	ctx, span := tracer.Start(ctx, "UserService.DeleteUser")
	defer func() { endSpan(span, err) }()

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	actor := ""
	if id := domain.IdentityFromContext(ctx); id != nil {
		actor = id.Subject
	}

	if strings.EqualFold(user.Email, s.adminEmail) {
		s.logger.Warn().Str("actor", actor).Msg("an admin is not allowed to delete admin")
		return nil, fmt.Errorf("%w: an admin is not allowed to delete admin", domain.ErrAccessDenied)
	}

	if err := s.repo.Delete(ctx, user); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info().Str("email", user.Email).Str("actor", actor).Msg("user deleted")
	return &ports.DeleteResult{Email: user.Email, Message: msgDeleted}, nil
}

func (s *UserService) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record login failure")
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
