package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"belanja/internal/models"
	"belanja/internal/repositories"
)

// ProductService handles business logic related to the product catalog.
type ProductService struct {
	store repositories.Store
}

// NewProductService creates a new ProductService.
func NewProductService(store repositories.Store) *ProductService {
	return &ProductService{store: store}
}

// VariantOptionInput is one option axis of a variant, e.g. Color/Black.
type VariantOptionInput struct {
	Name  string
	Value string
}

// VariantInput describes a variant to create or replace.
type VariantInput struct {
	SKU                string
	Price              float64
	StockQuantity      int
	IsActive           bool
	DiscountPrice      *float64
	DiscountPercentage *float64
	DiscountStart      *time.Time
	DiscountEnd        *time.Time
	Options            []VariantOptionInput
}

// CreateProductInput carries everything needed to create a product with its
// variants, images and categories in one call.
type CreateProductInput struct {
	Name          string
	Description   string
	BasePrice     float64
	SKU           *string
	MinStock      *int
	Supplier      string
	IsActive      bool
	Featured      bool
	CategoryNames []string
	ImageURLs     []string
	Variants      []VariantInput
}

// UpdateProductInput carries a partial product update. Nil fields are left
// untouched; non-nil slices replace the corresponding association wholesale.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	BasePrice     *float64
	SKU           *string
	Stock         *int
	MinStock      *int
	Supplier      *string
	IsActive      *bool
	Featured      *bool
	CategoryNames []string
	ImageURLs     []string
	Variants      []VariantInput
}

// StockUpdate is one entry of a bulk stock adjustment.
type StockUpdate struct {
	ProductID uint
	Quantity  int
}

// ListProducts retrieves products matching the filter with the total count.
func (s *ProductService) ListProducts(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	return s.store.Products().List(ctx, filter)
}

// GetProduct retrieves a single product with its associations.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return product, nil
}

// CreateProduct creates a product together with its variants, images and
// categories, atomically. SKUs must be unique across products and variants;
// at least one variant is required. The aggregate stock counter is seeded
// from the variant sum.
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if len(input.Variants) == 0 {
		return nil, fmt.Errorf("at least one variant is required: %w", ErrInvalidInput)
	}

	var created *models.Product
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if input.SKU != nil {
			taken, err := tx.Products().SKUExists(ctx, *input.SKU, 0)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("product SKU %q: %w", *input.SKU, ErrDuplicate)
			}
		}
		for _, v := range input.Variants {
			if strings.TrimSpace(v.SKU) == "" {
				return fmt.Errorf("variant SKU is required: %w", ErrInvalidInput)
			}
			taken, err := tx.Variants().SKUExists(ctx, v.SKU)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("variant SKU %q: %w", v.SKU, ErrDuplicate)
			}
		}

		minStock := models.DefaultMinStock
		if input.MinStock != nil {
			minStock = *input.MinStock
		}

		product := &models.Product{
			Name:        input.Name,
			Description: input.Description,
			BasePrice:   input.BasePrice,
			SKU:         input.SKU,
			MinStock:    minStock,
			Supplier:    input.Supplier,
			IsActive:    input.IsActive,
			Featured:    input.Featured,
			Images:      buildImages(input.ImageURLs),
			Variants:    buildVariants(input.Variants),
		}
		if err := tx.Products().Create(ctx, product); err != nil {
			return err
		}

		if err := s.assignCategories(ctx, tx, product, input.CategoryNames); err != nil {
			return err
		}
		if err := tx.Products().ResyncStock(ctx, product.ID); err != nil {
			return err
		}

		created = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, created.ID)
}

// UpdateProduct applies a partial update. When variants are replaced the
// aggregate stock counter is recomputed from the new variant sum.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*models.Product, error) {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		product, err := tx.Products().GetByID(ctx, id)
		if err != nil {
			return translateNotFound(err)
		}

		if input.SKU != nil && (product.SKU == nil || *input.SKU != *product.SKU) {
			taken, err := tx.Products().SKUExists(ctx, *input.SKU, id)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("product SKU %q: %w", *input.SKU, ErrDuplicate)
			}
			product.SKU = input.SKU
		}
		if input.BasePrice != nil {
			if *input.BasePrice < 0 {
				return fmt.Errorf("base price must not be negative: %w", ErrInvalidInput)
			}
			product.BasePrice = *input.BasePrice
		}
		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Stock != nil {
			product.Stock = *input.Stock
		}
		if input.MinStock != nil {
			product.MinStock = *input.MinStock
		}
		if input.Supplier != nil {
			product.Supplier = *input.Supplier
		}
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}
		if input.Featured != nil {
			product.Featured = *input.Featured
		}
		if err := tx.Products().Update(ctx, product); err != nil {
			return translateNotFound(err)
		}

		if input.ImageURLs != nil {
			if err := tx.Products().ReplaceImages(ctx, id, input.ImageURLs); err != nil {
				return err
			}
		}
		if input.CategoryNames != nil {
			if err := s.assignCategories(ctx, tx, product, input.CategoryNames); err != nil {
				return err
			}
		}
		if input.Variants != nil {
			return tx.Products().ReplaceVariants(ctx, id, buildVariants(input.Variants))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

// DeactivateProduct soft-deletes a product; it stays in the database but
// disappears from active listings.
func (s *ProductService) DeactivateProduct(ctx context.Context, id uint) error {
	return translateNotFound(s.store.Products().Deactivate(ctx, id))
}

// DeleteProduct permanently removes a product and its dependent rows.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	return translateNotFound(s.store.Products().Delete(ctx, id))
}

// UpdateStock sets a product's aggregate stock counter.
func (s *ProductService) UpdateStock(ctx context.Context, id uint, quantity int) (*models.Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative: %w", ErrInvalidInput)
	}
	if err := s.store.Products().UpdateStock(ctx, id, quantity); err != nil {
		return nil, translateNotFound(err)
	}
	return s.GetProduct(ctx, id)
}

// BulkUpdateStock applies several stock updates atomically. Entries with a
// negative quantity are skipped.
func (s *ProductService) BulkUpdateStock(ctx context.Context, updates []StockUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, fmt.Errorf("no updates provided: %w", ErrInvalidInput)
	}
	updated := 0
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		for _, u := range updates {
			if u.Quantity < 0 {
				continue
			}
			if err := tx.Products().UpdateStock(ctx, u.ProductID, u.Quantity); err != nil {
				return translateNotFound(err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

func (s *ProductService) assignCategories(ctx context.Context, tx repositories.Store, product *models.Product, names []string) error {
	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		category, err := tx.Products().UpsertCategory(ctx, name)
		if err != nil {
			return err
		}
		categories = append(categories, *category)
	}
	return tx.Products().SetCategories(ctx, product, categories)
}

func buildImages(urls []string) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(urls))
	order := 0
	for _, url := range urls {
		if strings.TrimSpace(url) == "" {
			continue
		}
		images = append(images, models.ProductImage{
			ImageURL:     url,
			IsPrimary:    order == 0,
			DisplayOrder: order,
		})
		order++
	}
	return images
}

func buildVariants(inputs []VariantInput) []models.ProductVariant {
	variants := make([]models.ProductVariant, 0, len(inputs))
	for _, in := range inputs {
		options := make([]models.VariantOption, 0, len(in.Options))
		for _, opt := range in.Options {
			if strings.TrimSpace(opt.Name) == "" || strings.TrimSpace(opt.Value) == "" {
				continue
			}
			options = append(options, models.VariantOption{
				Name:  strings.TrimSpace(opt.Name),
				Value: strings.TrimSpace(opt.Value),
			})
		}
		variants = append(variants, models.ProductVariant{
			SKU:                in.SKU,
			Price:              in.Price,
			StockQuantity:      in.StockQuantity,
			IsActive:           in.IsActive,
			DiscountPrice:      in.DiscountPrice,
			DiscountPercentage: in.DiscountPercentage,
			DiscountStart:      in.DiscountStart,
			DiscountEnd:        in.DiscountEnd,
			Options:            options,
		})
	}
	return variants
}
