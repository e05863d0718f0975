// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"time"

	"cafe/internal/domain/entity"
	domainerrors "cafe/internal/domain/errors"
	"cafe/internal/domain/repository"
	"cafe/internal/domain/service"
	"cafe/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager      repository.TransactionManager
	passwordHasher service.PasswordHasher
	tokenService   service.TokenService
	eventPublisher service.EventPublisher
	logger         *slog.Logger
	now            func() time.Time
}

// NewUserService is the constructor for userService.
func NewUserService(
	txManager repository.TransactionManager,
	passwordHasher service.PasswordHasher,
	tokenService service.TokenService,
	eventPublisher service.EventPublisher,
	logger *slog.Logger,
) usecase.UserUsecase {
	return &userService{
		txManager:      txManager,
		passwordHasher: passwordHasher,
		tokenService:   tokenService,
		eventPublisher: eventPublisher,
		logger:         logger,
		now:            time.Now,
	}
}

// Register creates a new active customer account. Whatever the client claims,
// the account starts as a plain active user.
func (srv *userService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.logger.Info("Registering new account", "email", input.Email)

	if input.Password == "" {
		return nil, domainerrors.ErrPasswordRequired
	}

	hash, err := srv.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &entity.User{
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Whatsapp:     input.Whatsapp,
		Roles:        entity.Roles{entity.RoleUser},
		Status:       entity.AccountStatusActive,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		// Reject duplicates up front for a clean error; the unique constraint
		// still backs this up under concurrency.
		if _, err := userRepo.FindByEmail(ctx, input.Email); err == nil {
			return domainerrors.ErrUserAlreadyExists
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check existing email")
		}

		if err := userRepo.Create(ctx, user); err != nil {
			return errors.Wrap(err, "failed to create user")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &usecase.RegisterOutput{User: user}, nil
}

// Login verifies credentials and issues an access token.
func (srv *userService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	var user *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		found, err := userRepo.FindByEmail(ctx, input.Email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrInvalidCredentials
			}

			return errors.Wrap(err, "failed to find user by email")
		}
		user = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	// A deleted account behaves exactly like a wrong password: no hint that
	// the address ever existed.
	if user.IsDeleted() {
		return nil, domainerrors.ErrInvalidCredentials
	}

	if !srv.passwordHasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	token, err := srv.tokenService.GenerateAccessToken(user.ID, user.EffectiveRoles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	srv.logger.Info("User logged in", "userID", user.ID)

	return &usecase.LoginOutput{AccessToken: token, User: user}, nil
}

// GetProfile retrieves the account of the authenticated user.
func (srv *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	var user *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}
		user = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateProfile applies the owner's changes to their own account.
func (srv *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input usecase.UpdateProfileInput) (*entity.User, error) {
	var user *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		found, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if input.FirstName != nil {
			found.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			found.LastName = *input.LastName
		}
		if input.Whatsapp != nil {
			found.Whatsapp = input.Whatsapp
		}

		if err := userRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update user")
		}
		user = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteAccount soft-deletes an account and cancels its in-flight orders, all
// in one transaction. Status change events go out only after the commit.
func (srv *userService) DeleteAccount(ctx context.Context, actor usecase.Actor, targetID uuid.UUID) error {
	if actor.ID != targetID && !actor.IsAdmin() {
		return domainerrors.ErrForbidden
	}

	now := srv.now()
	var cancelledEvents []*service.OrderStatusEvent

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		orderRepo := repoFactory.OrderRepo()

		user, err := userRepo.FindByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		// Idempotent: deleting a deleted account succeeds without touching
		// anything.
		if !user.SoftDelete(now) {
			return nil
		}

		orders, err := orderRepo.FindByOwner(ctx, targetID)
		if err != nil {
			return errors.Wrap(err, "failed to list orders for cancellation")
		}
		for _, order := range orders {
			oldStatus := order.Status
			if !order.CancelIfNotTerminal() {
				continue
			}
			if err := orderRepo.Update(ctx, order); err != nil {
				return errors.Wrap(err, "failed to cancel order")
			}
			cancelledEvents = append(cancelledEvents, &service.OrderStatusEvent{
				OrderID:   order.ID.String(),
				OwnerID:   order.OwnerID.String(),
				OldStatus: oldStatus.String(),
				NewStatus: order.Status.String(),
				ChangedAt: now.UTC().Format(time.RFC3339),
			})
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to persist account deletion")
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, event := range cancelledEvents {
		if err := srv.eventPublisher.PublishOrderStatusEvent(ctx, event); err != nil {
			// The deletion is committed; a lost event must not undo it.
			srv.logger.Error("Failed to publish order cancellation event",
				"orderID", event.OrderID, "error", err)
		}
	}

	srv.logger.Info("Account soft-deleted",
		"targetID", targetID, "actorID", actor.ID, "cancelledOrders", len(cancelledEvents))

	return nil
}

// ListUsers returns all accounts, newest first.
func (srv *userService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.UserRepo().List(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list users")
		}
		users = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}

// GetUser returns any account by ID.
func (srv *userService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return srv.GetProfile(ctx, id)
}

// AdminUpdateUser applies an administrator's changes to any account.
func (srv *userService) AdminUpdateUser(ctx context.Context, id uuid.UUID, input usecase.AdminUpdateUserInput) (*entity.User, error) {
	var user *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		found, err := userRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if input.FirstName != nil {
			found.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			found.LastName = *input.LastName
		}
		if input.Whatsapp != nil {
			found.Whatsapp = input.Whatsapp
		}
		if input.Roles != nil {
			found.Roles = entity.RolesFromStrings(*input.Roles)
		}

		if err := userRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update user")
		}
		user = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}
