package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
	"gorm.io/gorm"
)

const importBatchSize = 200

var productSortColumns = map[string]bool{
	"name": true, "code": true, "quantity": true, "selling_price": true, "created_at": true,
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx))
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return err
	}
	product.TenantID = tenantID
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) ImportBatch(ctx context.Context, categories []entity.Category, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return err
	}
	for i := range categories {
		categories[i].TenantID = tenantID
	}
	for i := range products {
		products[i].TenantID = tenantID
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(categories) > 0 {
			if err := tx.Create(&categories).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Category").CreateInBatches(products, importBatchSize).Error
	})
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.scoped(ctx).Preload("Category").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.scoped(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	var product entity.Product
	err := r.scoped(ctx).Preload("Category").First(&product, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var product entity.Product
	err := r.scoped(ctx).First(&product, "UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) ExistingCodes(ctx context.Context, codes []string) (map[string]bool, error) {
	found := make(map[string]bool)
	if len(codes) == 0 {
		return found, nil
	}
	upper := make([]string, 0, len(codes))
	for _, c := range codes {
		upper = append(upper, strings.ToUpper(strings.TrimSpace(c)))
	}
	var existing []string
	// Deleted products keep their code in the unique index.
	err := r.scoped(ctx).Model(&entity.Product{}).Unscoped().
		Where("UPPER(code) IN ?", upper).
		Pluck("code", &existing).Error
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		found[strings.ToUpper(c)] = true
	}
	return found, nil
}

func (r *productRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := r.scoped(ctx).Model(&entity.Product{}).Unscoped().
		Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.scoped(ctx).Omit("Category").Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.scoped(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) filtered(ctx context.Context, f domainRepo.ProductFilter) *gorm.DB {
	query := r.scoped(ctx).Model(&entity.Product{})
	if f.Search != "" {
		s := like(f.Search)
		query = query.Where("name ILIKE ? OR code ILIKE ? OR barcode ILIKE ?", s, s, s)
	}
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.LowStock {
		query = query.Where("quantity <= quantity_alert")
	}
	if f.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	return query
}

func (r *productRepository) List(ctx context.Context, f domainRepo.ProductFilter) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.filtered(ctx, f)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	f.Pagination.Normalize()
	err := query.Preload("Category").
		Order(orderBy(f.SortBy, f.SortOrder, productSortColumns, "created_at DESC")).
		Offset(f.Pagination.Offset()).Limit(f.Pagination.PerPage).
		Find(&products).Error
	return products, total, err
}

func (r *productRepository) ListAll(ctx context.Context, f domainRepo.ProductFilter) ([]entity.Product, error) {
	var products []entity.Product
	err := r.filtered(ctx, f).Preload("Category").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepository) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.scoped(ctx).
		Where("quantity <= quantity_alert AND is_active = ?", true).
		Preload("Category").
		Order("quantity ASC").
		Find(&products).Error
	return products, err
}

// AtomicDecrementBatch decrements stock in a single transaction.
// If any product has insufficient stock, the entire transaction is rolled back.
func (r *productRepository) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failed []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		failed, err = decrementStock(ctx, tx, decrements)
		if err != nil {
			return err
		}
		if len(failed) > 0 {
			return errInsufficientStock
		}
		return nil
	})
	if errors.Is(err, errInsufficientStock) {
		return failed, nil
	}
	return failed, err
}

func (r *productRepository) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	if len(increments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return incrementStock(ctx, tx, increments)
	})
}

var errInsufficientStock = errors.New("insufficient stock")

// decrementStock runs UPDATE ... SET quantity = quantity - n WHERE quantity >= n per product.
func decrementStock(ctx context.Context, tx *gorm.DB, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failed []uuid.UUID
	for id, amount := range decrements {
		res := tx.Model(&entity.Product{}).Scopes(TenantScope(ctx)).
			Where("id = ? AND quantity >= ?", id, amount).
			Update("quantity", gorm.Expr("quantity - ?", amount))
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			failed = append(failed, id)
		}
	}
	return failed, nil
}

func incrementStock(ctx context.Context, tx *gorm.DB, increments map[uuid.UUID]int) error {
	for id, amount := range increments {
		if err := tx.Model(&entity.Product{}).Scopes(TenantScope(ctx)).
			Where("id = ?", id).
			Update("quantity", gorm.Expr("quantity + ?", amount)).Error; err != nil {
			return err
		}
	}
	return nil
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return err
	}
	category.TenantID = tenantID
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&category, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Delete(&entity.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) List(ctx context.Context, params pagination.Params) ([]entity.Category, int64, error) {
	var categories []entity.Category
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Category{}).Scopes(TenantScope(ctx))
	if params.Search != "" {
		query = query.Where("name ILIKE ?", like(params.Search))
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Normalize()
	err := query.Select("categories.*, (SELECT COUNT(*) FROM products p WHERE p.category_id = categories.id AND p.deleted_at IS NULL) AS product_count").
		Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&categories).Error
	return categories, total, err
}

func (r *categoryRepository) ListAll(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Product{}).Scopes(TenantScope(ctx)).
		Where("category_id = ?", id).Count(&n).Error
	return n, err
}
