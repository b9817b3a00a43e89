package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// ImportBatch inserts the new categories and then the products in one
	// transaction; nothing is stored if any insert fails.
	ImportBatch(ctx context.Context, categories []entity.Category, products []entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// ExistingCodes returns which of codes are already used, keyed by upper-cased code.
	ExistingCodes(ctx context.Context, codes []string) (map[string]bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ProductFilter) ([]entity.Product, int64, error)
	// ListAll returns every matching product without paging, for exports.
	ListAll(ctx context.Context, filter ProductFilter) ([]entity.Product, error)
	GetLowStock(ctx context.Context) ([]entity.Product, error)
	// AtomicDecrementBatch decrements stock for every product or none. It returns
	// the IDs that lacked stock; the transaction is rolled back when any did.
	AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) (failedIDs []uuid.UUID, err error)
	AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Pagination pagination.Params
	Search     string
	CategoryID *uuid.UUID
	LowStock   bool
	ActiveOnly bool
	SortBy     string
	SortOrder  string
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) ([]entity.Category, int64, error)
	ListAll(ctx context.Context) ([]entity.Category, error)
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
}
