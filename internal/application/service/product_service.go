package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/money"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
	"github.com/sangkips/pos-backoffice/pkg/utils"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	locker       Locker
	importOpts   ImportOptions
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	locker Locker,
	importOpts ImportOptions,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		locker:       locker,
		importOpts:   importOpts,
	}
}

// CreateProductInput represents the create product input.
// Prices are decimal strings; BuyingPrice may be empty.
type CreateProductInput struct {
	CategoryID    *uuid.UUID
	Name          string
	Code          string
	Barcode       *string
	Quantity      int
	QuantityAlert int
	BuyingPrice   string
	SellingPrice  string
	TaxType       enum.TaxType
	Notes         *string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}

	selling, err := money.ParsePrice(input.SellingPrice)
	if err != nil {
		return nil, apperror.NewFieldError("selling_price", err.Error())
	}
	buying, err := parseOptionalPrice(input.BuyingPrice)
	if err != nil {
		return nil, apperror.NewFieldError("buying_price", err.Error())
	}
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	code := utils.NormalizeCode(input.Code)
	if code == "" {
		code = utils.GenerateProductCode()
	}
	if err := s.checkCodeFree(ctx, code); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	slug, err := s.uniqueSlug(ctx, name)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		TenantID:      tenantID,
		CategoryID:    input.CategoryID,
		Name:          name,
		Slug:          slug,
		Code:          code,
		Barcode:       trimmedOrNil(input.Barcode),
		Quantity:      input.Quantity,
		QuantityAlert: input.QuantityAlert,
		BuyingPrice:   buying,
		SellingPrice:  selling,
		TaxType:       input.TaxType,
		Notes:         input.Notes,
		IsActive:      true,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by slug
func (s *ProductService) GetProduct(ctx context.Context, slug string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) (*pagination.Page[entity.Product], error) {
	filter.Pagination.Normalize()
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(products, filter.Pagination, total), nil
}

// UpdateProductInput represents the update product input. Nil fields are left unchanged.
type UpdateProductInput struct {
	Slug          string
	CategoryID    *uuid.UUID
	ClearCategory bool
	Name          *string
	Code          *string
	Barcode       *string
	Quantity      *int
	QuantityAlert *int
	BuyingPrice   *string
	SellingPrice  *string
	TaxType       *enum.TaxType
	Notes         *string
	IsActive      *bool
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, input.Slug)
	if err != nil {
		return nil, err
	}

	if input.Code != nil {
		code := utils.NormalizeCode(*input.Code)
		if code == "" {
			return nil, apperror.NewFieldError("code", "must not be empty")
		}
		if code != utils.NormalizeCode(product.Code) {
			if err := s.checkCodeFree(ctx, code); err != nil {
				return nil, err
			}
		}
		product.Code = code
	}
	if input.SellingPrice != nil {
		cents, err := money.ParsePrice(*input.SellingPrice)
		if err != nil {
			return nil, apperror.NewFieldError("selling_price", err.Error())
		}
		product.SellingPrice = cents
	}
	if input.BuyingPrice != nil {
		cents, err := parseOptionalPrice(*input.BuyingPrice)
		if err != nil {
			return nil, apperror.NewFieldError("buying_price", err.Error())
		}
		product.BuyingPrice = cents
	}
	if input.ClearCategory {
		product.CategoryID = nil
	} else if input.CategoryID != nil {
		if err := s.checkCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name != product.Name {
			slug, err := s.uniqueSlug(ctx, name)
			if err != nil {
				return nil, err
			}
			product.Name = name
			product.Slug = slug
		}
	}
	if input.Barcode != nil {
		product.Barcode = trimmedOrNil(input.Barcode)
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.QuantityAlert != nil {
		product.QuantityAlert = *input.QuantityAlert
	}
	if input.TaxType != nil {
		product.TaxType = *input.TaxType
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	product.Category = nil
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct soft-deletes a product. Past orders keep their copied line data.
func (s *ProductService) DeleteProduct(ctx context.Context, slug string) error {
	product, err := s.GetProduct(ctx, slug)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, product.ID)
}

// GetLowStockProducts returns active products at or below their alert quantity
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}
	return products, nil
}

func (s *ProductService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	category, err := s.categoryRepo.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewFieldError("category_id", "category does not exist")
	}
	return nil
}

func (s *ProductService) checkCodeFree(ctx context.Context, code string) error {
	used, err := s.productRepo.ExistingCodes(ctx, []string{code})
	if err != nil {
		return err
	}
	if used[utils.NormalizeCode(code)] {
		return apperror.NewConflictError("Product code already exists")
	}
	return nil
}

// uniqueSlug slugifies name and appends a short random suffix when the slug is taken.
func (s *ProductService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		base = "product"
	}
	taken, err := s.productRepo.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	return base + "-" + strings.ToLower(uuid.New().String()[:8]), nil
}

func parseOptionalPrice(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return money.ParsePrice(s)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
