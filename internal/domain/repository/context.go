package repository

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const tenantIDKey ctxKey = "tenant_id"

// WithTenant scopes every repository call made with the returned context to tenantID.
func WithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// TenantID extracts the tenant set by WithTenant.
func TenantID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
