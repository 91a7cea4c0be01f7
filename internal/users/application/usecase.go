package application

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/users/domain"
	"storefront/internal/users/ports"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
	"storefront/pkg/token"
)

// UserUseCase implements registration, login and profile operations
type UserUseCase struct {
	repo      ports.UserRepository
	tokens    *token.Manager
	publisher ports.EventPublisher
	log       *logger.Logger
}

// NewUserUseCase creates a new user use case. publisher may be nil when no
// broker is configured.
func NewUserUseCase(repo ports.UserRepository, tokens *token.Manager, publisher ports.EventPublisher, log *logger.Logger) *UserUseCase {
	return &UserUseCase{
		repo:      repo,
		tokens:    tokens,
		publisher: publisher,
		log:       log,
	}
}

// RegisterInput is the input for registering a user
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// RegisterOutput is the output of registering a user
type RegisterOutput struct {
	User        *domain.User
	AccessToken string
}

// Register creates an account and returns a signed access token
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.NewValidation("invalid email address", nil)
	}
	if len(input.Password) < 8 {
		return nil, errors.NewValidation("password must be at least 8 characters", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternal("failed to hash password", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         domain.RoleCustomer,
	}

	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	accessToken, err := uc.tokens.Issue(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, errors.NewInternal("failed to issue token", err)
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishUserRegistered(ctx, user); err != nil {
			uc.log.WithContext(ctx).Warn("failed to publish user registered event",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
		}
	}

	uc.log.WithContext(ctx).Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return &RegisterOutput{User: user, AccessToken: accessToken}, nil
}

// LoginInput is the input for logging in
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput is the output of logging in
type LoginOutput struct {
	User        *domain.User
	AccessToken string
}

// Login verifies the credentials and returns a signed access token. A
// missing account and a wrong password are indistinguishable to the caller.
func (uc *UserUseCase) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.NewInvalidCredentials()
	}

	accessToken, err := uc.tokens.Issue(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, errors.NewInternal("failed to issue token", err)
	}

	return &LoginOutput{User: user, AccessToken: accessToken}, nil
}

// GetProfileInput is the input for retrieving a profile
type GetProfileInput struct {
	UserID string
}

// GetProfileOutput is the output of retrieving a profile
type GetProfileOutput struct {
	User *domain.User
}

// GetProfile returns the user's own profile
func (uc *UserUseCase) GetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	id, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, errors.NewValidation("invalid user id", nil)
	}

	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &GetProfileOutput{User: user}, nil
}

// UpdateProfileInput is the input for updating a profile
type UpdateProfileInput struct {
	UserID     string
	FirstName  *string
	LastName   *string
	Phone      *string
	Address    *string
	City       *string
	PostalCode *string
}

// UpdateProfileOutput is the output of updating a profile
type UpdateProfileOutput struct {
	User *domain.User
}

// UpdateProfile applies a partial update to the user's own profile
func (uc *UserUseCase) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	id, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, errors.NewValidation("invalid user id", nil)
	}

	user, err := uc.repo.Update(ctx, id, domain.UserUpdate{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Phone:      input.Phone,
		Address:    input.Address,
		City:       input.City,
		PostalCode: input.PostalCode,
	})
	if err != nil {
		return nil, err
	}

	return &UpdateProfileOutput{User: user}, nil
}
