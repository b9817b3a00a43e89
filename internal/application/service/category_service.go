package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
	"github.com/sangkips/pos-backoffice/pkg/utils"
)

// CategoryService handles category-related operations
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	slug := utils.Slugify(name)
	if slug == "" {
		return nil, apperror.NewFieldError("name", "must contain letters or digits")
	}

	existing, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Category with this name already exists")
	}

	category := &entity.Category{
		TenantID: tenantID,
		Name:     name,
		Slug:     slug,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategory retrieves a category by slug
func (s *CategoryService) GetCategory(ctx context.Context, slug string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

// ListCategories lists categories with their product counts
func (s *CategoryService) ListCategories(ctx context.Context, params pagination.Params) (*pagination.Page[entity.Category], error) {
	params.Normalize()
	categories, total, err := s.categoryRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(categories, params, total), nil
}

// UpdateCategory renames a category. The slug follows the new name.
func (s *CategoryService) UpdateCategory(ctx context.Context, slug, name string) (*entity.Category, error) {
	category, err := s.GetCategory(ctx, slug)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	newSlug := utils.Slugify(name)
	if newSlug == "" {
		return nil, apperror.NewFieldError("name", "must contain letters or digits")
	}
	if newSlug != category.Slug {
		existing, err := s.categoryRepo.GetBySlug(ctx, newSlug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != category.ID {
			return nil, apperror.NewConflictError("Category with this name already exists")
		}
	}

	category.Name = name
	category.Slug = newSlug
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category that no product uses.
func (s *CategoryService) DeleteCategory(ctx context.Context, slug string) error {
	category, err := s.GetCategory(ctx, slug)
	if err != nil {
		return err
	}

	count, err := s.categoryRepo.CountProducts(ctx, category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError(fmt.Sprintf("Category is used by %d product(s)", count))
	}
	return s.categoryRepo.Delete(ctx, category.ID)
}
