package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/users/domain"
	apperrors "storefront/pkg/errors"
	"storefront/pkg/logger"
	"storefront/pkg/token"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.NewDuplicateEmail(user.Email)
		}
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.NewUserNotFound(id)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.NewUserNotFound(email)
}

func (r *fakeUserRepo) Update(ctx context.Context, id uuid.UUID, update domain.UserUpdate) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.NewUserNotFound(id)
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	return user, nil
}

type fakeUserPublisher struct {
	published []*domain.User
}

func (p *fakeUserPublisher) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	p.published = append(p.published, user)
	return nil
}

func newUserFixture() (*UserUseCase, *fakeUserRepo, *fakeUserPublisher, *token.Manager) {
	repo := newFakeUserRepo()
	publisher := &fakeUserPublisher{}
	tokens := token.NewManager("test-secret", time.Hour)
	uc := NewUserUseCase(repo, tokens, publisher, logger.New("test", "error", "json"))
	return uc, repo, publisher, tokens
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestRegister(t *testing.T) {
	uc, repo, publisher, tokens := newUserFixture()

	output, err := uc.Register(context.Background(), RegisterInput{
		Email:     "Alice@Example.com",
		Password:  "hunter2hunter2",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", output.User.Email)
	assert.Equal(t, domain.RoleCustomer, output.User.Role)
	assert.NotEqual(t, "hunter2hunter2", output.User.PasswordHash)
	assert.Len(t, repo.users, 1)
	assert.Len(t, publisher.published, 1)

	claims, err := tokens.Validate(output.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, output.User.ID.String(), claims.UserID)
	assert.Equal(t, "customer", claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	uc, _, _, _ := newUserFixture()

	_, err := uc.Register(context.Background(), RegisterInput{Email: "not-an-email", Password: "longenough"})
	assertCode(t, err, apperrors.CodeValidation)

	_, err = uc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "short"})
	assertCode(t, err, apperrors.CodeValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _, _, _ := newUserFixture()

	_, err := uc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "hunter2hunter2"})
	assertCode(t, err, apperrors.CodeConflict)
}

func TestLogin(t *testing.T) {
	uc, _, _, _ := newUserFixture()

	_, err := uc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	output, err := uc.Login(context.Background(), LoginInput{Email: "A@B.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	uc, _, _, _ := newUserFixture()

	_, err := uc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	// Wrong password and unknown account fail identically
	_, err = uc.Login(context.Background(), LoginInput{Email: "a@b.com", Password: "wrong-password"})
	assertCode(t, err, apperrors.CodeUnauthorized)

	_, err = uc.Login(context.Background(), LoginInput{Email: "nobody@b.com", Password: "hunter2hunter2"})
	assertCode(t, err, apperrors.CodeUnauthorized)
}

func TestProfile(t *testing.T) {
	uc, _, _, _ := newUserFixture()

	registered, err := uc.Register(context.Background(), RegisterInput{
		Email:    "a@b.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	id := registered.User.ID.String()

	profile, err := uc.GetProfile(context.Background(), GetProfileInput{UserID: id})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", profile.User.Email)

	firstName := "Alice"
	updated, err := uc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: id, FirstName: &firstName})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.User.FirstName)
}
