package user

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/devportal-io/portal-api/app/domain/common"
	"github.com/devportal-io/portal-api/app/domain/query"
	"github.com/devportal-io/portal-api/app/utils/idgen"
)

// UserService provides business logic for the identity store.
type UserService struct {
	userrepo UserRepository
}

func NewService(userrepo UserRepository) *UserService {
	return &UserService{
		userrepo: userrepo,
	}
}

func (s *UserService) generatePublicID() (string, error) {
	return idgen.GenerateSecureID("user", 16)
}

// RegisterUser hashes the plaintext password and persists a new user with a
// fresh public ID.
func (s *UserService) RegisterUser(ctx context.Context, u *User, password string) (*User, error) {
	publicId, err := s.generatePublicID()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u.PublicID = publicId
	u.PasswordHash = string(hash)
	if u.Role == "" {
		u.Role = RoleMember
	}
	u.Enabled = true
	if err := s.userrepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate resolves a user by username and verifies the password.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.Enabled {
		return nil, common.ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrNotAuthorized
	}
	return u, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.findOne(ctx, UserFilter{Username: &username})
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, UserFilter{Email: &email})
}

func (s *UserService) FindByPublicID(ctx context.Context, publicID string) (*User, error) {
	return s.findOne(ctx, UserFilter{PublicID: &publicID})
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*User, error) {
	return s.userrepo.FindByID(ctx, id)
}

func (s *UserService) FindByFilter(ctx context.Context, filter UserFilter, pagination *query.Pagination) ([]*User, error) {
	return s.userrepo.FindByFilter(ctx, filter, pagination)
}

func (s *UserService) Update(ctx context.Context, u *User) error {
	if u.ID == 0 {
		return fmt.Errorf("cannot update user with an ID of 0")
	}
	return s.userrepo.Update(ctx, u)
}

func (s *UserService) findOne(ctx context.Context, filter UserFilter) (*User, error) {
	users, err := s.userrepo.FindByFilter(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	if len(users) != 1 {
		return nil, fmt.Errorf("duplicated user record")
	}
	return users[0], nil
}
