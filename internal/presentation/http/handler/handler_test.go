package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/application/service"
	"github.com/sangkips/pos-backoffice/internal/domain/report"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/internal/infrastructure/cache"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterWithGin(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type emptyReports struct{}

func (emptyReports) OrderRecords(context.Context, time.Time, time.Time) ([]report.OrderRecord, error) {
	return nil, nil
}
func (emptyReports) ItemRecords(context.Context, time.Time, time.Time) ([]report.ItemRecord, error) {
	return nil, nil
}
func (emptyReports) AttendanceRecords(context.Context, time.Time, time.Time) ([]report.AttendanceRecord, error) {
	return nil, nil
}
func (emptyReports) CatalogProducts(context.Context) ([]report.CatalogProduct, error) {
	return nil, nil
}
func (emptyReports) EmployeeNames(context.Context) (report.Names, error)  { return nil, nil }
func (emptyReports) EmployeeRoster(context.Context) (report.Names, error) { return nil, nil }
func (emptyReports) CustomerNames(context.Context, []uuid.UUID) (report.Names, error) {
	return nil, nil
}

func withTenant(c *gin.Context) {
	c.Request = c.Request.WithContext(repository.WithTenant(c.Request.Context(), uuid.New()))
}

func reportRouter() *gin.Engine {
	svc := service.NewReportService(emptyReports{}, cache.New(nil, ""), service.ReportOptions{Location: time.UTC})
	h := NewReportHandler(svc)

	r := gin.New()
	r.GET("/reports", withTenant, h.Kinds)
	r.GET("/reports/:kind", withTenant, h.Get)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestReportHandler_JSON(t *testing.T) {
	w := get(reportRouter(), "/reports/daily?from=2024-03-01&to=2024-03-03")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Contains(t, string(body.Data), `"2024-03-02"`)
}

func TestReportHandler_Errors(t *testing.T) {
	r := reportRouter()

	tests := []struct {
		name   string
		target string
		status int
		field  string
	}{
		{"unknown report", "/reports/weekly", http.StatusNotFound, ""},
		{"malformed date", "/reports/daily?from=03/01/2024", http.StatusUnprocessableEntity, "from"},
		{"reversed range", "/reports/daily?from=2024-03-05&to=2024-03-01", http.StatusUnprocessableEntity, "from"},
		{"bad format", "/reports/daily?format=csv", http.StatusUnprocessableEntity, "format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.target)
			assert.Equal(t, tt.status, w.Code)

			var body response.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			if tt.field != "" {
				assert.Contains(t, w.Body.String(), `"field":"`+tt.field+`"`)
			}
		})
	}
}

func TestReportHandler_XLSX(t *testing.T) {
	w := get(reportRouter(), "/reports/summary?from=2024-03-01&to=2024-03-31&format=xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report-summary-2024-03-01_2024-03-31.xlsx")
	// xlsx files are zip archives
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
}

func TestReportHandler_Kinds(t *testing.T) {
	w := get(reportRouter(), "/reports")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "product-analysis")
}

func TestBindJSON_PriceRule(t *testing.T) {
	r := gin.New()
	r.POST("/products", func(c *gin.Context) {
		var req request.CreateProductRequest
		if !bindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		price  string
		status int
	}{
		{"0", http.StatusUnprocessableEntity},
		{"-1", http.StatusUnprocessableEntity},
		{"100000000", http.StatusUnprocessableEntity},
		{"abc", http.StatusUnprocessableEntity},
		{"1.234", http.StatusUnprocessableEntity},
		{"0.01", http.StatusNoContent},
		{"99999999.99", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			body := `{"name":"Espresso","selling_price":"` + tt.price + `"}`
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body)))

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnprocessableEntity {
				assert.Contains(t, w.Body.String(), `"field":"selling_price"`)
			}
		})
	}
}

func TestDayRange(t *testing.T) {
	nairobi := time.FixedZone("EAT", 3*3600)

	from, to, err := dayRange("2024-03-01", "2024-03-01", nairobi)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, nairobi), *from)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, nairobi), *to)

	from, to, err = dayRange("", "", nairobi)
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	_, _, err = dayRange("2024-03-02", "2024-03-01", nairobi)
	assert.Error(t, err)

	_, _, err = dayRange("yesterday", "", nairobi)
	assert.Error(t, err)
}

func TestListHandlers_RejectMalformedFilters(t *testing.T) {
	r := gin.New()
	r.GET("/orders", withTenant, NewOrderHandler(&service.OrderService{}, time.UTC).List)
	r.GET("/products", withTenant, NewProductHandler(&service.ProductService{}, 0).List)
	r.GET("/customers", withTenant, NewCustomerHandler(&service.CustomerService{}).List)

	tests := []struct {
		name   string
		target string
		field  string
	}{
		{"order customer id", "/orders?customer_id=garbage", "customer_id"},
		{"order employee id", "/orders?employee_id=42", "employee_id"},
		{"product category id", "/products?category_id=drinks", "category_id"},
		{"non-numeric page", "/customers?page=abc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.target)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			if tt.field != "" {
				assert.Contains(t, w.Body.String(), `"field":"`+tt.field+`"`)
			}
		})
	}
}

func TestOptionalUUID(t *testing.T) {
	id, err := optionalUUID("customer_id", "")
	require.NoError(t, err)
	assert.Nil(t, id)

	want := uuid.New()
	id, err = optionalUUID("customer_id", want.String())
	require.NoError(t, err)
	assert.Equal(t, want, *id)

	_, err = optionalUUID("customer_id", "nope")
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}
