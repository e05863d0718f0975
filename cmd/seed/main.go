// Command seed bootstraps a fresh installation: it creates the initial
// administrator account and a small starter catalog so the shop is usable
// right after deployment. Running it twice is safe.
package main

import (
	"context"
	"log/slog"
	"os"

	"cafe/config"
	"cafe/internal/domain/entity"
	"cafe/internal/domain/repository"
	"cafe/internal/domain/service"
	"cafe/internal/infra/auth"
	logs "cafe/internal/infra/log"
	"cafe/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type seedParams struct {
	fx.In
	fx.Shutdowner

	Config    *config.Config
	Logger    *slog.Logger
	TxManager repository.TransactionManager
	Hasher    service.PasswordHasher
}

func main() {
	fx.New(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
			postgres.NewTransactionManager,
			auth.NewBcryptHasher,
		),
		fx.Invoke(runSeed),
	).Run()
}

func runSeed(ctx context.Context, params seedParams) {
	err := seedAdmin(ctx, params)
	if err == nil {
		err = seedCatalog(ctx, params)
	}
	if err != nil {
		params.Logger.Error("Seeding failed", slog.Any("error", err))
		if shutdownErr := params.Shutdown(fx.ExitCode(1)); shutdownErr != nil {
			os.Exit(1)
		}

		return
	}

	params.Logger.Info("Seeding complete")
	if err := params.Shutdown(); err != nil {
		os.Exit(1)
	}
}

// seedAdmin creates the bootstrap administrator unless one already exists
// under the configured email.
func seedAdmin(ctx context.Context, params seedParams) error {
	if params.Config.Seed == nil || params.Config.Seed.AdminEmail == "" || params.Config.Seed.AdminPassword == "" {
		return errors.New("seed.adminEmail and seed.adminPassword must be configured")
	}

	hash, err := params.Hasher.Hash(params.Config.Seed.AdminPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash admin password")
	}

	return params.TxManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		_, err := repoFactory.UserRepo().FindByEmail(ctx, params.Config.Seed.AdminEmail)
		if err == nil {
			params.Logger.Info("Admin account already exists", "email", params.Config.Seed.AdminEmail)

			return nil
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to look up admin account")
		}

		admin := &entity.User{
			Email:        params.Config.Seed.AdminEmail,
			PasswordHash: hash,
			FirstName:    "Admin",
			LastName:     "Account",
			Roles:        entity.Roles{entity.RoleAdmin, entity.RoleUser},
			Status:       entity.AccountStatusActive,
		}
		if err := repoFactory.UserRepo().Create(ctx, admin); err != nil {
			return errors.Wrap(err, "failed to create admin account")
		}

		params.Logger.Info("Admin account created", "email", admin.Email)

		return nil
	})
}

// seedCatalog inserts a starter menu when the catalog is completely empty.
func seedCatalog(ctx context.Context, params seedParams) error {
	return params.TxManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		existing, err := repoFactory.CategoryRepo().List(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list categories")
		}
		if len(existing) > 0 {
			params.Logger.Info("Catalog already seeded", "categories", len(existing))

			return nil
		}

		starter := map[string][]*entity.Product{
			"Hot drinks": {
				{Name: "Espresso", Description: "Single shot", Price: 2.00, Available: true},
				{Name: "Cappuccino", Description: "Espresso with steamed milk foam", Price: 3.50, Available: true},
			},
			"Pastries": {
				{Name: "Croissant", Description: "Butter croissant", Price: 2.20, Available: true},
			},
		}

		for name, products := range starter {
			category := &entity.Category{Name: name}
			if err := repoFactory.CategoryRepo().Create(ctx, category); err != nil {
				return errors.Wrapf(err, "failed to create category %q", name)
			}

			for _, product := range products {
				product.CategoryID = category.ID
				if err := repoFactory.ProductRepo().Create(ctx, product); err != nil {
					return errors.Wrapf(err, "failed to create product %q", product.Name)
				}
			}
		}

		params.Logger.Info("Starter catalog created")

		return nil
	})
}
