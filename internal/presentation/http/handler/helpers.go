package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
	"github.com/sangkips/pos-backoffice/pkg/validation"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// bindJSON binds the body into req and answers 422 with field errors on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, validation.BindError(err))
		return false
	}
	return true
}

// bindQuery is bindJSON for query strings.
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.Error(c, validation.BindError(err))
		return false
	}
	return true
}

// pathID parses the named path parameter as a UUID, answering 400 when it is not one.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// listParams binds page, per_page, search and sort, answering 422 when they do not parse.
func listParams(c *gin.Context) (pagination.Params, bool) {
	var p pagination.Params
	if !bindQuery(c, &p) {
		return p, false
	}
	p.Normalize()
	return p, true
}

// optionalUUID parses an optional filter id. Empty means no filter.
func optionalUUID(field, s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, apperror.NewFieldError(field, "must be a valid UUID")
	}
	return &id, nil
}

// dayRange turns optional from/to days into [from 00:00, to+1 00:00) in loc.
func dayRange(from, to string, loc *time.Location) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if from != "" {
		t, err := validation.ParseDay(from, loc)
		if err != nil {
			return nil, nil, apperror.NewFieldError("from", "must be a date in YYYY-MM-DD format")
		}
		start = &t
	}
	if to != "" {
		t, err := validation.ParseDay(to, loc)
		if err != nil {
			return nil, nil, apperror.NewFieldError("to", "must be a date in YYYY-MM-DD format")
		}
		t = t.AddDate(0, 0, 1)
		end = &t
	}
	if start != nil && end != nil && !start.Before(*end) {
		return nil, nil, apperror.NewFieldError("from", "must not be after to")
	}
	return start, end, nil
}
