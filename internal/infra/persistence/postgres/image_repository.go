package postgres

import (
	"context"

	"cafe/internal/domain/entity"
	domainerrors "cafe/internal/domain/errors"
	"cafe/internal/domain/repository"
	"cafe/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// imageRepository implements the domain.ImageRepository interface using GORM.
type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository is the constructor for imageRepository.
func NewImageRepository(db *gorm.DB) repository.ImageRepository {
	return &imageRepository{db: db}
}

// FindByID retrieves a single image by its unique ID.
func (repo *imageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Image, error) {
	var imageM model.ImageModel
	err := repo.db.WithContext(ctx).First(&imageM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrImageNotFound
		}

		return nil, errors.Wrap(err, "failed to find image by id")
	}

	return toImageDomain(&imageM), nil
}

// FindByProduct retrieves all images attached to a product.
func (repo *imageRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Image, error) {
	var imageModels []*model.ImageModel
	err := repo.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&imageModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list product images")
	}

	images := make([]*entity.Image, 0, len(imageModels))
	for _, imageM := range imageModels {
		images = append(images, toImageDomain(imageM))
	}

	return images, nil
}

// Create persists a new image row.
func (repo *imageRepository) Create(ctx context.Context, image *entity.Image) error {
	imageM := fromImageDomain(image)

	if err := repo.db.WithContext(ctx).Create(imageM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrProductNotFound.WrapMessage("product does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create image")
	}

	image.ID = imageM.ID
	image.CreatedAt = imageM.CreatedAt

	return nil
}

// Delete removes an image row. Removing the backing file is the caller's
// concern.
func (repo *imageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.ImageModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete image")
	}
	if result.RowsAffected == 0 {
		return repository.ErrImageNotFound
	}

	return nil
}

// toImageDomain maps a persistence model to the pure domain entity.
func toImageDomain(imageM *model.ImageModel) *entity.Image {
	return &entity.Image{
		ID:        imageM.ID,
		URL:       imageM.URL,
		Alt:       imageM.Alt,
		ProductID: imageM.ProductID,
		CreatedAt: imageM.CreatedAt,
	}
}

// fromImageDomain maps a domain entity to the persistence model.
func fromImageDomain(image *entity.Image) *model.ImageModel {
	return &model.ImageModel{
		ID:        image.ID,
		URL:       image.URL,
		Alt:       image.Alt,
		ProductID: image.ProductID,
		CreatedAt: image.CreatedAt,
	}
}
