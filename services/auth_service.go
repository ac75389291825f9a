package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is a self-service customer signup.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// StaffRequest is an administrator creating a staff account.
type StaffRequest struct {
	RegisterRequest
	Role models.Role `json:"role" binding:"required"`
}

// LoginRequest authenticates by username or email.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthService defines the interface for account and session business logic.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, *ServiceError)
	CreateStaff(ctx context.Context, actor Actor, req *StaffRequest) (*models.User, *ServiceError)
	Login(ctx context.Context, req *LoginRequest) (*TokenPair, *models.User, *ServiceError)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, *ServiceError)
	Me(ctx context.Context, actor Actor) (*models.User, *ServiceError)
}

// authServiceImpl implements AuthService.
type authServiceImpl struct {
	users  repository.UserRepository
	tokens TokenService
	logger *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, tokens TokenService, logger *zap.Logger) AuthService {
	return &authServiceImpl{users: users, tokens: tokens, logger: logger}
}

// Register creates a customer account. The account and its cart are created
// in one transaction so checkout never finds a cartless customer.
func (s *authServiceImpl) Register(ctx context.Context, req *RegisterRequest) (*models.User, *ServiceError) {
	return s.createAccount(ctx, req, models.RoleCustomer)
}

// CreateStaff creates an account with a staff role. Administrator-only.
func (s *authServiceImpl) CreateStaff(ctx context.Context, actor Actor, req *StaffRequest) (*models.User, *ServiceError) {
	if !actor.Is(models.RoleAdministrator) {
		return nil, errForbidden("Only administrators may create staff accounts")
	}
	if !req.Role.Valid() {
		return nil, errValidation(fmt.Sprintf("Unknown role %q", req.Role))
	}
	return s.createAccount(ctx, &req.RegisterRequest, req.Role)
}

func (s *authServiceImpl) createAccount(ctx context.Context, req *RegisterRequest, role models.Role) (*models.User, *ServiceError) {
	if svcErr := validatePassword(req.Password); svcErr != nil {
		return nil, svcErr
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, errInternal("Failed to create account")
	}

	user := &models.User{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		Role:      role,
		Active:    true,
	}
	if user.Username == "" {
		return nil, errValidation("Username is required")
	}

	if err := s.users.CreateWithCart(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errConflict("Username or email already taken")
		}
		s.logger.Error("Failed to create account", zap.Error(err))
		return nil, errInternal("Failed to create account")
	}

	s.logger.Info("Account created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)),
	)
	return user, nil
}

// Login authenticates by username or email. The failure message never says
// which half was wrong.
func (s *authServiceImpl) Login(ctx context.Context, req *LoginRequest) (*TokenPair, *models.User, *ServiceError) {
	user, err := s.users.FindByUsername(ctx, req.Login)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.users.FindByEmail(ctx, req.Login)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, errUnauthorized("Invalid credentials")
	}
	if err != nil {
		s.logger.Error("Failed to load account", zap.Error(err))
		return nil, nil, errInternal("Failed to log in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, errUnauthorized("Invalid credentials")
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID.String(), user.Username, string(user.Role))
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, nil, errInternal("Failed to log in")
	}

	s.logger.Info("Login", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a new pair. Claims are
// re-derived from the database so a role change takes effect on refresh.
func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, *ServiceError) {
	claims, err := s.tokens.ValidateToken(refreshToken, "refresh")
	if err != nil {
		return nil, errUnauthorized("Invalid refresh token")
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errUnauthorized("Invalid refresh token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUnauthorized("Account no longer exists")
	}
	if err != nil {
		s.logger.Error("Failed to load account", zap.Error(err))
		return nil, errInternal("Failed to refresh session")
	}
	if !user.Active {
		return nil, errUnauthorized("Account is disabled")
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID.String(), user.Username, string(user.Role))
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, errInternal("Failed to refresh session")
	}
	return pair, nil
}

func (s *authServiceImpl) Me(ctx context.Context, actor Actor) (*models.User, *ServiceError) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUnauthorized("Account no longer exists")
	}
	if err != nil {
		s.logger.Error("Failed to load account", zap.Error(err))
		return nil, errInternal("Failed to load account")
	}
	return user, nil
}

// validatePassword enforces the minimum password policy: eight characters
// with at least one letter and one digit.
func validatePassword(password string) *ServiceError {
	if len(password) < 8 {
		return errValidation("Password must be at least 8 characters")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errValidation("Password must contain at least one letter and one digit")
	}
	return nil
}
