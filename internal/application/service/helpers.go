package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
)

func requireTenant(ctx context.Context) (uuid.UUID, error) {
	id, ok := repository.TenantID(ctx)
	if !ok {
		return uuid.Nil, apperror.ErrTenantRequired
	}
	return id, nil
}

func optionalString(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
