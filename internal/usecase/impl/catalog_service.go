package impl

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"cafe/config"
	"cafe/internal/domain/entity"
	domainerrors "cafe/internal/domain/errors"
	"cafe/internal/domain/repository"
	"cafe/internal/domain/service"
	"cafe/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// allowedImageExtensions are the file extensions accepted for product images.
var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager      repository.TransactionManager
	fileStorage    service.FileStorage
	logger         *slog.Logger
	uploadMaxBytes int64
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(
	cfg *config.Config,
	txManager repository.TransactionManager,
	fileStorage service.FileStorage,
	logger *slog.Logger,
) usecase.CatalogUsecase {
	var maxBytes int64 = 2 << 20
	if cfg.Uploads != nil && cfg.Uploads.MaxBytes > 0 {
		maxBytes = cfg.Uploads.MaxBytes
	}

	return &catalogService{
		txManager:      txManager,
		fileStorage:    fileStorage,
		logger:         logger,
		uploadMaxBytes: maxBytes,
	}
}

// ListCategories returns every category.
func (srv *catalogService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	var categories []*entity.Category

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.CategoryRepo().List(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list categories")
		}
		categories = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// GetCategory returns one category by ID.
func (srv *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category *entity.Category

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.CategoryRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return domainerrors.ErrCategoryNotFound
			}

			return errors.Wrap(err, "failed to find category")
		}
		category = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

// CreateCategory creates a new category.
func (srv *catalogService) CreateCategory(ctx context.Context, input usecase.CategoryInput) (*entity.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("category name is required")
	}

	category := &entity.Category{Name: input.Name}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.CategoryRepo().Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	srv.logger.Info("Category created", "categoryID", category.ID, "name", category.Name)

	return category, nil
}

// UpdateCategory renames a category.
func (srv *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, input usecase.CategoryInput) (*entity.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("category name is required")
	}

	var category *entity.Category

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		categoryRepo := repoFactory.CategoryRepo()

		found, err := categoryRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return domainerrors.ErrCategoryNotFound
			}

			return errors.Wrap(err, "failed to find category")
		}

		found.Name = input.Name
		if err := categoryRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update category")
		}
		category = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category. Categories still holding products cannot
// be removed.
func (srv *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.CategoryRepo().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return domainerrors.ErrCategoryNotFound
			}

			return err
		}

		return nil
	})
}

// ListProducts returns the menu, optionally restricted to available products.
func (srv *catalogService) ListProducts(ctx context.Context, onlyAvailable bool) ([]*entity.Product, error) {
	var products []*entity.Product

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.ProductRepo().List(ctx, onlyAvailable)
		if err != nil {
			return errors.Wrap(err, "failed to list products")
		}
		products = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return products, nil
}

// GetProduct returns one product with its images.
func (srv *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product *entity.Product

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.ProductRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound
			}

			return errors.Wrap(err, "failed to find product")
		}
		product = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

func validateProductInput(input usecase.ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("product name is required")
	}
	if input.Price < 0 {
		return domainerrors.ErrValidationFailed.WrapMessage("product price cannot be negative")
	}
	if input.CategoryID == uuid.Nil {
		return domainerrors.ErrValidationFailed.WrapMessage("product category is required")
	}

	return nil
}

// CreateProduct creates a new menu item.
func (srv *catalogService) CreateProduct(ctx context.Context, input usecase.ProductInput) (*entity.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Available:   input.Available,
		CategoryID:  input.CategoryID,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		// The category must exist before the product points at it.
		if _, err := repoFactory.CategoryRepo().FindByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return domainerrors.ErrCategoryNotFound
			}

			return errors.Wrap(err, "failed to find category")
		}

		return repoFactory.ProductRepo().Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	srv.logger.Info("Product created", "productID", product.ID, "name", product.Name)

	return product, nil
}

// UpdateProduct modifies a menu item.
func (srv *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input usecase.ProductInput) (*entity.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	var product *entity.Product

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		found, err := productRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound
			}

			return errors.Wrap(err, "failed to find product")
		}

		if _, err := repoFactory.CategoryRepo().FindByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return domainerrors.ErrCategoryNotFound
			}

			return errors.Wrap(err, "failed to find category")
		}

		found.Name = input.Name
		found.Description = input.Description
		found.Price = input.Price
		found.Available = input.Available
		found.CategoryID = input.CategoryID

		if err := productRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update product")
		}
		product = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product, detaches it from every favorite list, and
// removes its image rows. Backing files go last, after the commit: a failed
// file delete leaves an orphan file, never a dangling row.
func (srv *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	var orphanedFiles []string

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		product, err := productRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound
			}

			return errors.Wrap(err, "failed to find product")
		}

		for _, image := range product.Images {
			orphanedFiles = append(orphanedFiles, image.URL)
		}

		if err := productRepo.RemoveFromAllFavorites(ctx, id); err != nil {
			return errors.Wrap(err, "failed to remove product from favorites")
		}

		if err := productRepo.Delete(ctx, id); err != nil {
			return errors.Wrap(err, "failed to delete product")
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, file := range orphanedFiles {
		if err := srv.fileStorage.Delete(ctx, file); err != nil {
			srv.logger.Error("Failed to delete image file", "path", file, "error", err)
		}
	}

	srv.logger.Info("Product deleted", "productID", id, "imageFiles", len(orphanedFiles))

	return nil
}

// UploadImage validates, stores and attaches an image file to a product.
func (srv *catalogService) UploadImage(ctx context.Context, input usecase.UploadImageInput) (*entity.Image, error) {
	if input.Size > srv.uploadMaxBytes {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("image file is too large")
	}

	ext := strings.ToLower(path.Ext(input.Filename))
	if !allowedImageExtensions[ext] {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unsupported image file type")
	}

	key := path.Join(input.ProductID.String(), uuid.NewString()+ext)

	image := &entity.Image{
		Alt:       input.Alt,
		ProductID: input.ProductID,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.ProductRepo().FindByID(ctx, input.ProductID); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound
			}

			return errors.Wrap(err, "failed to find product")
		}

		// Write the file first so the row never points at nothing. If the row
		// insert fails the transaction rolls back and the file is removed below.
		publicPath, err := srv.fileStorage.Store(ctx, key, input.ContentType, input.Content)
		if err != nil {
			return errors.Wrap(err, "failed to store image file")
		}
		image.URL = publicPath

		if err := repoFactory.ImageRepo().Create(ctx, image); err != nil {
			if delErr := srv.fileStorage.Delete(ctx, publicPath); delErr != nil {
				srv.logger.Error("Failed to clean up image file after rollback",
					"path", publicPath, "error", delErr)
			}

			return errors.Wrap(err, "failed to create image")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.logger.Info("Image uploaded", "imageID", image.ID, "productID", input.ProductID)

	return image, nil
}

// DeleteImage removes an image row together with its backing file.
func (srv *catalogService) DeleteImage(ctx context.Context, id uuid.UUID) error {
	var filePath string

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		imageRepo := repoFactory.ImageRepo()

		image, err := imageRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrImageNotFound) {
				return domainerrors.ErrImageNotFound
			}

			return errors.Wrap(err, "failed to find image")
		}
		filePath = image.URL

		if err := imageRepo.Delete(ctx, id); err != nil {
			return errors.Wrap(err, "failed to delete image")
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := srv.fileStorage.Delete(ctx, filePath); err != nil {
		srv.logger.Error("Failed to delete image file", "path", filePath, "error", err)
	}

	return nil
}
