package products

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsup-innovation/medsup-backend/pkg/db"
	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
)

// Service exposes the product catalog operations.
type Service interface {
	ListProducts(ctx context.Context, query ProductListQuery) (*ProductListResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductView, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductView, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]string, error)
	UploadImage(ctx context.Context, id uuid.UUID, filename string, payload io.Reader) (*ProductView, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type imageStore interface {
	Save(key string, payload io.Reader) (string, error)
}

type service struct {
	repo   *Repository
	client txRunner
	images imageStore
	logg   *logger.Logger
}

// NewService wires the product service with its dependencies.
func NewService(repo *Repository, client txRunner, images imageStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product service requires a repository")
	}
	if client == nil {
		return nil, fmt.Errorf("product service requires a db client")
	}
	if images == nil {
		return nil, fmt.Errorf("product service requires an image store")
	}
	if logg == nil {
		return nil, fmt.Errorf("product service requires a logger")
	}
	return &service{repo: repo, client: client, images: images, logg: logg}, nil
}

func (s *service) ListProducts(ctx context.Context, query ProductListQuery) (*ProductListResult, error) {
	result, err := s.repo.ListProductSummaries(ctx, productListQuery{
		Pagination: query.Pagination,
		Filters:    query.Filters,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return result, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	product, err := s.repo.GetProductDetail(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get product")
	}
	return toProductView(product), nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductView, error) {
	product := &models.Product{
		Name:                strings.TrimSpace(input.Name),
		Description:         input.Description,
		SKU:                 strings.ToUpper(strings.TrimSpace(input.SKU)),
		Category:            strings.TrimSpace(input.Category),
		Subcategory:         input.Subcategory,
		Manufacturer:        input.Manufacturer,
		UnitPrice:           input.UnitPrice,
		CostPrice:           input.CostPrice,
		UnitOfMeasure:       strings.TrimSpace(input.UnitOfMeasure),
		ReorderPoint:        input.ReorderPoint,
		ReorderQuantity:     input.ReorderQuantity,
		RegulatoryInfo:      input.RegulatoryInfo,
		StorageRequirements: input.StorageRequirements,
		ShelfLifeMonths:     input.ShelfLifeMonths,
		IsActive:            true,
	}
	if product.UnitPrice.IsNegative() || product.CostPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must not be negative")
	}

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		created, err := txRepo.CreateProduct(ctx, product)
		if err != nil {
			if db.IsUniqueViolation(err, "idx_products_sku") {
				return pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}

		inventory := &models.Inventory{ProductID: created.ID}
		if err := tx.WithContext(ctx).Create(inventory).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert inventory")
		}
		created.Inventory = inventory
		product = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"product_id": product.ID, "sku": product.SKU})
	s.logg.Info(logCtx, "product.created")

	return toProductView(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductView, error) {
	var updated *models.Product

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product, err := txRepo.GetProductDetail(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get product")
		}

		if err := applyUpdateToProduct(product, input); err != nil {
			return err
		}

		updated, err = txRepo.UpdateProduct(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toProductView(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate product")
	}

	logCtx := s.logg.WithField(ctx, "product_id", id)
	s.logg.Info(logCtx, "product.deactivated")
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return categories, nil
}

// allowedImageExtensions maps detected content types to the stored extension.
var allowedImageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func (s *service) UploadImage(ctx context.Context, id uuid.UUID, filename string, payload io.Reader) (*ProductView, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get product")
	}

	head := make([]byte, 3072)
	n, err := io.ReadFull(payload, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read upload")
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	ext, ok := allowedImageExtensions[detected.String()]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type").
			WithDetails(map[string]any{"detected": detected.String()})
	}

	key := path.Join("products", id.String()+ext)
	url, err := s.images.Save(key, io.MultiReader(bytes.NewReader(head), payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: save image")
	}

	if err := s.repo.SetImageURL(ctx, id, url); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set image url")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"product_id": id, "content_type": detected.String(), "filename": filename})
	s.logg.Info(logCtx, "product.image_uploaded")

	return s.GetProduct(ctx, id)
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) error {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Subcategory != nil {
		product.Subcategory = input.Subcategory
	}
	if input.Manufacturer != nil {
		product.Manufacturer = input.Manufacturer
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unit_price must not be negative")
		}
		product.UnitPrice = *input.UnitPrice
	}
	if input.CostPrice != nil {
		if input.CostPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "cost_price must not be negative")
		}
		product.CostPrice = *input.CostPrice
	}
	if input.UnitOfMeasure != nil {
		product.UnitOfMeasure = strings.TrimSpace(*input.UnitOfMeasure)
	}
	if input.ReorderPoint != nil {
		product.ReorderPoint = *input.ReorderPoint
	}
	if input.ReorderQuantity != nil {
		product.ReorderQuantity = *input.ReorderQuantity
	}
	if input.RegulatoryInfo != nil {
		product.RegulatoryInfo = input.RegulatoryInfo
	}
	if input.StorageRequirements != nil {
		product.StorageRequirements = input.StorageRequirements
	}
	if input.ShelfLifeMonths != nil {
		product.ShelfLifeMonths = input.ShelfLifeMonths
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	return nil
}

func toProductView(product *models.Product) *ProductView {
	view := &ProductView{
		ID:                  product.ID,
		Name:                product.Name,
		Description:         product.Description,
		SKU:                 product.SKU,
		Category:            product.Category,
		Subcategory:         product.Subcategory,
		Manufacturer:        product.Manufacturer,
		UnitPrice:           product.UnitPrice,
		CostPrice:           product.CostPrice,
		UnitOfMeasure:       product.UnitOfMeasure,
		ReorderPoint:        product.ReorderPoint,
		ReorderQuantity:     product.ReorderQuantity,
		RegulatoryInfo:      product.RegulatoryInfo,
		StorageRequirements: product.StorageRequirements,
		ShelfLifeMonths:     product.ShelfLifeMonths,
		ImageURL:            product.ImageURL,
		IsActive:            product.IsActive,
		CreatedAt:           product.CreatedAt,
		UpdatedAt:           product.UpdatedAt,
	}
	if product.Inventory != nil {
		view.Inventory = &ProductStockView{
			CurrentStock:   product.Inventory.CurrentStock,
			ReservedStock:  product.Inventory.ReservedStock,
			AvailableStock: product.Inventory.AvailableStock(),
			MaximumStock:   product.Inventory.MaximumStock,
			Location:       product.Inventory.Location,
			BatchNumber:    product.Inventory.BatchNumber,
			ExpiryDate:     product.Inventory.ExpiryDate,
			SupplierID:     product.Inventory.SupplierID,
		}
	}
	return view
}
