// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"cafe/internal/domain/entity"

	"github.com/google/uuid"
)

// Actor identifies who is performing an operation, as established by the
// authentication middleware.
type Actor struct {
	ID    uuid.UUID
	Roles entity.Roles
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Roles.Contains(entity.RoleAdmin)
}

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Whatsapp  *string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput defines the fields an account owner may change on their
// own profile. Nil fields are left untouched.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Whatsapp  *string
}

// AdminUpdateUserInput defines the fields an administrator may change on any
// account. Nil fields are left untouched.
type AdminUpdateUserInput struct {
	FirstName *string
	LastName  *string
	Whatsapp  *string
	Roles     *[]string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated token after a successful login.
type LoginOutput struct {
	AccessToken string
	User        *entity.User
}

// UserUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	// Register creates a new active customer account. The role and status are
	// assigned by the server regardless of what the client sends.
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)

	// Login verifies credentials and issues an access token. Soft-deleted
	// accounts cannot log in.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// GetProfile returns the account of the authenticated user.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// UpdateProfile applies the owner's changes to their own account.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entity.User, error)

	// DeleteAccount soft-deletes an account: anonymizes it, clears favorites
	// and cancels every order still in flight. Owners can delete themselves,
	// admins can delete anyone. Idempotent.
	DeleteAccount(ctx context.Context, actor Actor, targetID uuid.UUID) error

	// ListUsers returns all accounts, newest first. Admin only.
	ListUsers(ctx context.Context) ([]*entity.User, error)

	// GetUser returns any account by ID. Admin only.
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// AdminUpdateUser applies an administrator's changes to any account.
	AdminUpdateUser(ctx context.Context, id uuid.UUID, input AdminUpdateUserInput) (*entity.User, error)
}
