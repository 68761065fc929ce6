package users

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/insuite-dev/insuite/internal/shared"
)

type fakeRepo struct {
	nextID int64
	users  map[int64]User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[int64]User)}
}

func (f *fakeRepo) List(ctx context.Context, companyID int64) ([]User, error) {
	var out []User
	for _, u := range f.users {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) FindByEmail(ctx context.Context, companyID int64, email string) (User, error) {
	for _, u := range f.users {
		if u.CompanyID == companyID && strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, shared.ErrNotFound
}

func (f *fakeRepo) Insert(ctx context.Context, u User) (User, error) {
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeRepo) SetActive(ctx context.Context, id int64, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.IsActive = active
	f.users[id] = u
	return nil
}

func (f *fakeRepo) EmailExists(ctx context.Context, companyID int64, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, companyID, email)
	return err == nil, nil
}

func createUser(t *testing.T, svc *Service) User {
	t.Helper()
	u, err := svc.Create(context.Background(), CreateUserRequest{
		CompanyID: 1,
		Email:     "owner@acme.test",
		Name:      "Owner",
		Role:      string(RoleAdmin),
		Password:  "opensesame1",
	})
	require.NoError(t, err)
	return u
}

func TestCreateHashesPassword(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	u := createUser(t, svc)
	require.NotEqual(t, "opensesame1", u.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("opensesame1")))
	require.True(t, u.IsActive)
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		CompanyID: 1, Email: "x@acme.test", Name: "X", Role: "superuser", Password: "opensesame1",
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	createUser(t, svc)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		CompanyID: 1, Email: "OWNER@acme.test", Name: "Again", Role: string(RoleViewer), Password: "opensesame1",
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	created := createUser(t, svc)

	u, err := svc.Authenticate(context.Background(), 1, "owner@acme.test", "opensesame1")
	require.NoError(t, err)
	require.Equal(t, created.ID, u.ID)
}

func TestAuthenticateFailuresLookAlike(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	created := createUser(t, svc)

	_, badPassword := svc.Authenticate(context.Background(), 1, "owner@acme.test", "wrong")
	_, noSuchUser := svc.Authenticate(context.Background(), 1, "ghost@acme.test", "opensesame1")
	require.ErrorIs(t, badPassword, shared.ErrInvalidCredentials)
	require.ErrorIs(t, noSuchUser, shared.ErrInvalidCredentials)
	require.Equal(t, badPassword.Error(), noSuchUser.Error())

	require.NoError(t, svc.Deactivate(context.Background(), created.ID))
	_, inactive := svc.Authenticate(context.Background(), 1, "owner@acme.test", "opensesame1")
	require.ErrorIs(t, inactive, shared.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	created := createUser(t, svc)

	err := svc.ChangePassword(context.Background(), created.ID, ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "newsecret99",
	})
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), created.ID, ChangePasswordRequest{
		CurrentPassword: "opensesame1", NewPassword: "newsecret99",
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), 1, "owner@acme.test", "opensesame1")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
	_, err = svc.Authenticate(context.Background(), 1, "owner@acme.test", "newsecret99")
	require.NoError(t, err)
}
