package service

import (
	"context"
	"testing"

	"invoicehub/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	created, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Role:     model.RoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, model.RoleManager, created.Role)

	stored, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-pass")))
}

func TestCreateUserValidation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "bob", Email: "bob@example.com", Password: "password1", Role: "superuser",
	})
	assert.ErrorContains(t, err, "invalid role")

	_, err = svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "bob", Email: "not-an-email", Password: "password1", Role: model.RoleStaff,
	})
	assert.ErrorContains(t, err, "invalid email")
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "carol", Email: "carol@example.com", Password: "password1", Role: model.RoleStaff,
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "carol", Email: "other@example.com", Password: "password1", Role: model.RoleStaff,
	})
	assert.ErrorContains(t, err, "username already exists")

	_, err = svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "carol2", Email: "carol@example.com", Password: "password1", Role: model.RoleStaff,
	})
	assert.ErrorContains(t, err, "email already exists")
}

func TestLoginIssuesToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "dave", Email: "dave@example.com", Password: "password1", Role: model.RoleAdmin,
	})
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), LoginUserRequest{Username: "dave", Password: "password1"})
	require.NoError(t, err)
	require.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "dave", token.User.Username)

	parsed, err := jwt.Parse(token.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("default_super_secret_key"), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, model.RoleAdmin, claims["role"])
	assert.Equal(t, token.User.ID.String(), claims["sub"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "erin", Email: "erin@example.com", Password: "password1", Role: model.RoleStaff,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginUserRequest{Username: "erin", Password: "wrong"})
	assert.ErrorContains(t, err, "invalid username or password")

	_, err = svc.Login(context.Background(), LoginUserRequest{Username: "nobody", Password: "password1"})
	assert.ErrorContains(t, err, "invalid username or password")
}
