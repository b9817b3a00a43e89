package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB builds SQL for the postgres dialect without a server and records
// every statement it would have sent.
func dryRunDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=pos dbname=pos sslmode=disable"}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	var stmts []string
	record := func(tx *gorm.DB) {
		stmts = append(stmts, tx.Statement.SQL.String())
	}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:record_query", record))
	require.NoError(t, db.Callback().Row().After("gorm:row").Register("test:record_row", record))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:record_update", record))
	return db, &stmts
}

func tenantCtx() context.Context {
	return domainRepo.WithTenant(context.Background(), uuid.New())
}

func lastSQL(t *testing.T, stmts *[]string) string {
	t.Helper()
	require.NotEmpty(t, *stmts)
	return (*stmts)[len(*stmts)-1]
}

var (
	march   = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	april   = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	param   = `\$\d+`
	tenantQ = regexp.MustCompile(`tenant_id = ` + param)
)

func TestTenantScope(t *testing.T) {
	db, _ := dryRunDB(t)

	scoped := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&entity.Customer{}).Scopes(TenantScope(tenantCtx())).Find(&[]entity.Customer{})
	})
	assert.Contains(t, scoped, "tenant_id = '")

	unscoped := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&entity.Customer{}).Scopes(TenantScope(context.Background())).Find(&[]entity.Customer{})
	})
	assert.Contains(t, unscoped, "1 = 0")
	assert.NotContains(t, unscoped, "tenant_id")
}

func TestDecrementStock_GuardsQuantity(t *testing.T) {
	db, stmts := dryRunDB(t)
	id := uuid.New()

	_, err := decrementStock(tenantCtx(), db, map[uuid.UUID]int{id: 3})
	require.NoError(t, err)

	sql := lastSQL(t, stmts)
	assert.Regexp(t, `^UPDATE "products" SET "quantity"=quantity - `+param, sql)
	assert.Regexp(t, `id = `+param+` AND quantity >= `+param, sql)
	assert.Regexp(t, tenantQ, sql)
	assert.Contains(t, sql, `"products"."deleted_at" IS NULL`)
}

func TestIncrementStock_IsTenantScoped(t *testing.T) {
	db, stmts := dryRunDB(t)

	require.NoError(t, incrementStock(tenantCtx(), db, map[uuid.UUID]int{uuid.New(): 2}))

	sql := lastSQL(t, stmts)
	assert.Regexp(t, `SET "quantity"=quantity \+ `+param, sql)
	assert.Regexp(t, tenantQ, sql)
}

func TestReportQueries_GroupUndatedFilter(t *testing.T) {
	tests := []struct {
		name   string
		run    func(domainRepo.ReportRepository, context.Context) error
		window string
		tenant string
	}{
		{
			name: "orders",
			run: func(r domainRepo.ReportRepository, ctx context.Context) error {
				_, err := r.OrderRecords(ctx, march, april)
				return err
			},
			window: `\(\(order_date >= ` + param + ` AND order_date < ` + param + `\) OR order_date < ` + param + `\)`,
			tenant: `tenant_id = ` + param,
		},
		{
			name: "items",
			run: func(r domainRepo.ReportRepository, ctx context.Context) error {
				_, err := r.ItemRecords(ctx, march, april)
				return err
			},
			window: `\(\(o\.order_date >= ` + param + ` AND o\.order_date < ` + param + `\) OR o\.order_date < ` + param + `\)`,
			tenant: `o\.tenant_id = ` + param,
		},
		{
			name: "attendance",
			run: func(r domainRepo.ReportRepository, ctx context.Context) error {
				_, err := r.AttendanceRecords(ctx, march, april)
				return err
			},
			window: `\(\(check_in >= ` + param + ` AND check_in < ` + param + `\) OR check_in < ` + param + `\)`,
			tenant: `tenant_id = ` + param,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, stmts := dryRunDB(t)
			// dry runs cannot scan rows, only the statement matters here
			_ = tt.run(NewReportRepository(db), tenantCtx())

			sql := lastSQL(t, stmts)
			assert.Regexp(t, tt.window, sql)
			assert.Regexp(t, tt.tenant, sql)
		})
	}
}

func TestEmployeeRoster_ExcludesDeleted(t *testing.T) {
	db, stmts := dryRunDB(t)
	repo := NewReportRepository(db)
	ctx := tenantCtx()

	_, _ = repo.EmployeeNames(ctx)
	names := lastSQL(t, stmts)
	_, _ = repo.EmployeeRoster(ctx)
	roster := lastSQL(t, stmts)

	assert.NotContains(t, names, "deleted_at")
	assert.Contains(t, roster, `"employees"."deleted_at" IS NULL`)
	assert.Regexp(t, tenantQ, names)
	assert.Regexp(t, tenantQ, roster)
}

func TestLike_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\%\_off%`, like(" 50%_off "))
}
