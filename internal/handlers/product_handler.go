package handlers

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"belanja/internal/models"
	"belanja/internal/repositories"
	"belanja/internal/services"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers product routes: reads are public, mutations run
// behind the given auth and admin middleware.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, requireAuth, requireAdmin fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)

	productRoutes.Post("/", requireAuth, requireAdmin, h.HandleCreateProduct)
	productRoutes.Put("/:id", requireAuth, requireAdmin, h.HandleUpdateProduct)
	productRoutes.Delete("/:id/soft", requireAuth, requireAdmin, h.HandleDeactivateProduct)
	productRoutes.Delete("/:id/hard", requireAuth, requireAdmin, h.HandleDeleteProduct)
	productRoutes.Patch("/:id/stock", requireAuth, requireAdmin, h.HandleUpdateStock)
	productRoutes.Patch("/bulk-stock", requireAuth, requireAdmin, h.HandleBulkUpdateStock)
}

// VariantOptionRequest is one option axis of a variant in a request body.
type VariantOptionRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// VariantRequest describes a variant in a create or update request.
type VariantRequest struct {
	SKU                string                 `json:"sku" validate:"required"`
	Price              float64                `json:"price" validate:"gte=0"`
	StockQuantity      int                    `json:"stock_quantity" validate:"gte=0"`
	IsActive           bool                   `json:"is_active"`
	DiscountPrice      *float64               `json:"discount_price"`
	DiscountPercentage *float64               `json:"discount_percentage"`
	DiscountStart      *time.Time             `json:"discount_start"`
	DiscountEnd        *time.Time             `json:"discount_end"`
	Options            []VariantOptionRequest `json:"options" validate:"dive"`
}

// CreateProductRequest represents the request body for product creation.
type CreateProductRequest struct {
	Name          string           `json:"name" validate:"required,min=3,max=255"`
	Description   string           `json:"description" validate:"omitempty,max=2000"`
	BasePrice     float64          `json:"base_price" validate:"required,gt=0"`
	SKU           *string          `json:"sku"`
	MinStock      *int             `json:"min_stock"`
	Supplier      string           `json:"supplier"`
	IsActive      bool             `json:"is_active"`
	Featured      bool             `json:"featured"`
	CategoryNames []string         `json:"category_names"`
	ImageURLs     []string         `json:"image_urls"`
	Variants      []VariantRequest `json:"variants" validate:"required,min=1,dive"`
}

// UpdateProductRequest represents a partial product update.
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	BasePrice     *float64         `json:"base_price"`
	SKU           *string          `json:"sku"`
	Stock         *int             `json:"stock"`
	MinStock      *int             `json:"min_stock"`
	Supplier      *string          `json:"supplier"`
	IsActive      *bool            `json:"is_active"`
	Featured      *bool            `json:"featured"`
	CategoryNames []string         `json:"category_names"`
	ImageURLs     []string         `json:"image_urls"`
	Variants      []VariantRequest `json:"variants" validate:"omitempty,dive"`
}

// UpdateStockRequest sets a product's aggregate stock to an absolute value.
type UpdateStockRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// BulkStockUpdateRequest is one entry of a bulk stock adjustment.
type BulkStockUpdateRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"`
}

// VariantResponse is a variant with its derived sale fields resolved.
type VariantResponse struct {
	models.ProductVariant
	OnSale      bool    `json:"on_sale"`
	FinalPrice  float64 `json:"final_price"`
	StockStatus string  `json:"stock_status"`
}

// ProductResponse is a product with its derived stock status and resolved
// variants.
type ProductResponse struct {
	models.Product
	StockStatus string            `json:"stock_status"`
	Variants    []VariantResponse `json:"variants"`
}

func newProductResponse(p models.Product, now time.Time) ProductResponse {
	variants := make([]VariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, VariantResponse{
			ProductVariant: v,
			OnSale:         v.OnSaleAt(now),
			FinalPrice:     v.FinalPriceAt(now),
			StockStatus:    v.StockStatus(p.MinStock),
		})
	}
	return ProductResponse{
		Product:     p,
		StockStatus: p.StockStatus(),
		Variants:    variants,
	}
}

// HandleListProducts lists products with search, flag and stock-status
// filters plus pagination.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		Search:      c.Query("search"),
		StockStatus: c.Query("stock_status"),
		Page:        c.QueryInt("page", 1),
		PageSize:    c.QueryInt("page_size", 10),
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		filter.Featured = &featured
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}

	products, total, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	now := time.Now()
	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, newProductResponse(p, now))
	}

	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	return c.JSON(fiber.Map{
		"page":        filter.Page,
		"page_size":   pageSize,
		"total_items": total,
		"total_pages": int(math.Ceil(float64(total) / float64(pageSize))),
		"items":       items,
	})
}

// HandleGetProduct fetches one product with its derived fields.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product id",
		})
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newProductResponse(*product, time.Now()))
}

// HandleCreateProduct creates a product with variants, images and
// categories.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), services.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		BasePrice:     req.BasePrice,
		SKU:           req.SKU,
		MinStock:      req.MinStock,
		Supplier:      req.Supplier,
		IsActive:      req.IsActive,
		Featured:      req.Featured,
		CategoryNames: req.CategoryNames,
		ImageURLs:     req.ImageURLs,
		Variants:      toVariantInputs(req.Variants),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newProductResponse(*product, time.Now()))
}

// HandleUpdateProduct applies a partial product update.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product id",
		})
	}

	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	input := services.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		BasePrice:     req.BasePrice,
		SKU:           req.SKU,
		Stock:         req.Stock,
		MinStock:      req.MinStock,
		Supplier:      req.Supplier,
		IsActive:      req.IsActive,
		Featured:      req.Featured,
		CategoryNames: req.CategoryNames,
		ImageURLs:     req.ImageURLs,
	}
	if req.Variants != nil {
		input.Variants = toVariantInputs(req.Variants)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newProductResponse(*product, time.Now()))
}

// HandleDeactivateProduct soft-deletes a product.
func (h *ProductHandler) HandleDeactivateProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product id",
		})
	}
	if err := h.service.DeactivateProduct(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deactivated"})
}

// HandleDeleteProduct permanently deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product id",
		})
	}
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product permanently deleted"})
}

// HandleUpdateStock sets a product's aggregate stock counter.
func (h *ProductHandler) HandleUpdateStock(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product id",
		})
	}

	var req UpdateStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	product, err := h.service.UpdateStock(c.UserContext(), id, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"product_id":   product.ID,
		"stock":        product.Stock,
		"stock_status": product.StockStatus(),
		"message":      "Stock updated successfully",
	})
}

// HandleBulkUpdateStock applies several stock updates at once.
func (h *ProductHandler) HandleBulkUpdateStock(c *fiber.Ctx) error {
	var reqs []BulkStockUpdateRequest
	if err := c.BodyParser(&reqs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	updates := make([]services.StockUpdate, 0, len(reqs))
	for _, r := range reqs {
		updates = append(updates, services.StockUpdate{ProductID: r.ProductID, Quantity: r.Quantity})
	}

	updated, err := h.service.BulkUpdateStock(c.UserContext(), updates)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Stock updated successfully",
		"updated": updated,
	})
}

func toVariantInputs(reqs []VariantRequest) []services.VariantInput {
	inputs := make([]services.VariantInput, 0, len(reqs))
	for _, r := range reqs {
		options := make([]services.VariantOptionInput, 0, len(r.Options))
		for _, opt := range r.Options {
			options = append(options, services.VariantOptionInput{Name: opt.Name, Value: opt.Value})
		}
		inputs = append(inputs, services.VariantInput{
			SKU:                r.SKU,
			Price:              r.Price,
			StockQuantity:      r.StockQuantity,
			IsActive:           r.IsActive,
			DiscountPrice:      r.DiscountPrice,
			DiscountPercentage: r.DiscountPercentage,
			DiscountStart:      r.DiscountStart,
			DiscountEnd:        r.DiscountEnd,
			Options:            options,
		})
	}
	return inputs
}
