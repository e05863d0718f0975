package impl

import (
	"context"
	"log/slog"

	"cafe/internal/domain/entity"
	domainerrors "cafe/internal/domain/errors"
	"cafe/internal/domain/repository"
	"cafe/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// favoriteService implements the FavoriteUsecase interface.
type favoriteService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewFavoriteService is the constructor for favoriteService.
func NewFavoriteService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.FavoriteUsecase {
	return &favoriteService{
		txManager: txManager,
		logger:    logger,
	}
}

// ListFavorites returns the user's favorite products.
func (srv *favoriteService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]*entity.Product, error) {
	var products []*entity.Product

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := repoFactory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		productRepo := repoFactory.ProductRepo()
		products = make([]*entity.Product, 0, len(user.Favorites))
		for _, productID := range user.Favorites {
			product, err := productRepo.FindByID(ctx, productID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					// The favorite points at a product deleted since; skip it.
					continue
				}

				return errors.Wrap(err, "failed to load favorite product")
			}
			products = append(products, product)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return products, nil
}

// AddFavorite marks a product as favorite. Adding twice is a no-op.
func (srv *favoriteService) AddFavorite(ctx context.Context, userID uuid.UUID, productID uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if _, err := repoFactory.ProductRepo().FindByID(ctx, productID); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound
			}

			return errors.Wrap(err, "failed to find product")
		}

		if user.HasFavorite(productID) {
			return nil
		}
		user.AddFavorite(productID)

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to save favorites")
		}

		return nil
	})
}

// RemoveFavorite unmarks a favorite product.
func (srv *favoriteService) RemoveFavorite(ctx context.Context, userID uuid.UUID, productID uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if !user.HasFavorite(productID) {
			return nil
		}
		user.RemoveFavorite(productID)

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to save favorites")
		}

		return nil
	})
}
