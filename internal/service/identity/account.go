package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.opentelemetry.io/otel"

	"noteshare/internal/config"
	"noteshare/internal/domain"
	"noteshare/internal/domain/models"
	"noteshare/internal/domain/repositories"
	"noteshare/internal/domain/services"
)

var tracer = otel.Tracer("Identity.Service")

// accountService implements the AccountService interface
type accountService struct {
	userRepo  repositories.UserRepository
	txManager repositories.TransactionManager
	hasher    services.PasswordHasher
	issuer    services.TokenIssuer
	logger    *slog.Logger

	// Compared against when the email is unknown so both login failures cost the same
	decoyOnce sync.Once
	decoyHash string
}

// NewAccountService creates a new account service
func NewAccountService(
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	hasher services.PasswordHasher,
	issuer services.TokenIssuer,
	logger *slog.Logger,
) services.AccountService {
	return &accountService{
		userRepo:  userRepo,
		txManager: txManager,
		hasher:    hasher,
		issuer:    issuer,
		logger:    logger,
	}
}

// Register creates an account and signs the user in
func (s *accountService) Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "AccountService.Register")
	defer span.End()

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRegisterRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.Name == "" {
		user.Name = strings.SplitN(req.Email, "@", 2)[0]
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.userRepo.Create(txCtx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account registered", "user_id", user.ID)

	return s.respond(user)
}

// Login verifies credentials. Unknown email and wrong password are indistinguishable.
func (s *accountService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "AccountService.Login")
	defer span.End()

	err := validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var user *models.User
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		user, err = s.userRepo.GetByEmail(txCtx, req.Email)
		return err
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		s.hasher.Verify(req.Password, s.decoy())
		s.logger.Debug("login failed", "reason", "unknown email")
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.logger.Debug("login failed", "reason", "wrong password", "user_id", user.ID)
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return s.respond(user)
}

// GetAccount returns the account behind an authenticated identity
func (s *accountService) GetAccount(ctx context.Context, userID int64) (*models.User, error) {
	var user *models.User
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		user, err = s.userRepo.GetByID(txCtx, userID)
		return err
	})
	if err != nil {
		// A valid token for a deleted account
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", domain.ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}

func (s *accountService) respond(user *models.User) (*services.AuthResponse, error) {
	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	return &services.AuthResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		User:      user,
	}, nil
}

func (s *accountService) decoy() string {
	s.decoyOnce.Do(func() {
		s.decoyHash, _ = s.hasher.Hash("noteshare-decoy-password")
	})
	return s.decoyHash
}

func validateRegisterRequest(req *services.RegisterRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email,
			validation.Required,
			validation.Length(3, config.MaxEmailLength),
			is.EmailFormat,
		),
		validation.Field(&req.Password,
			validation.Required,
			validation.Length(config.MinPasswordLength, config.MaxPasswordLength),
		),
		validation.Field(&req.Name, validation.RuneLength(0, config.MaxUserNameLength)),
	)
}
