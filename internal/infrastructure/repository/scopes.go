package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	domainRepo "github.com/sangkips/pos-backoffice/internal/domain/repository"
	"gorm.io/gorm"
)

// ErrNoTenant is returned by writes issued without a tenant in the context.
var ErrNoTenant = errors.New("repository: tenant missing from context")

// TenantScope filters a query to the tenant in ctx. Without one it matches nothing.
// Joined queries must qualify tenant_id themselves.
func TenantScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		tenantID, ok := domainRepo.TenantID(ctx)
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}

func tenantOf(ctx context.Context) (uuid.UUID, error) {
	id, ok := domainRepo.TenantID(ctx)
	if !ok {
		return uuid.Nil, ErrNoTenant
	}
	return id, nil
}

func like(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(s))
	return "%" + s + "%"
}

// orderBy whitelists a sort column and direction.
func orderBy(col, dir string, allowed map[string]bool, fallback string) string {
	if !allowed[col] {
		return fallback
	}
	if strings.EqualFold(dir, "asc") {
		return col + " ASC"
	}
	return col + " DESC"
}
