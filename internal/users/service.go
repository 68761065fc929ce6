package users

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/insuite-dev/insuite/internal/shared"
)

type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles user account business rules.
type Service struct {
	repo  Repository
	audit AuditPort
	now   func() time.Time
}

func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

func (s *Service) List(ctx context.Context, companyID int64) ([]User, error) {
	return s.repo.List(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateUserRequest) (User, error) {
	role := Role(in.Role)
	if !role.Valid() {
		return User{}, fmt.Errorf("%w: unknown role %q", shared.ErrValidation, in.Role)
	}
	dup, err := s.repo.EmailExists(ctx, in.CompanyID, in.Email)
	if err != nil {
		return User{}, err
	}
	if dup {
		return User{}, fmt.Errorf("%w: email %q already registered", shared.ErrValidation, in.Email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	user, err := s.repo.Insert(ctx, User{
		CompanyID:    in.CompanyID,
		Email:        in.Email,
		Name:         in.Name,
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
	})
	if err != nil {
		return User{}, err
	}
	s.record(ctx, user.CompanyID, "users.create", user.ID)
	return user, nil
}

// Authenticate validates email/password credentials. All failure modes
// collapse to ErrInvalidCredentials so callers cannot probe for accounts.
func (s *Service) Authenticate(ctx context.Context, companyID int64, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, companyID, email)
	if err != nil {
		return User{}, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return User{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, shared.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, id int64, in ChangePasswordRequest) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return shared.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, id, string(hash)); err != nil {
		return err
	}
	s.record(ctx, user.CompanyID, "users.change_password", id)
	return nil
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.record(ctx, user.CompanyID, "users.deactivate", id)
	return nil
}

func (s *Service) record(ctx context.Context, companyID int64, action string, id int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		CompanyID: companyID,
		Action:    action,
		Entity:    "user",
		EntityID:  strconv.FormatInt(id, 10),
		At:        s.now(),
	})
}
