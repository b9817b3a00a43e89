package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/internal/domain/report"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/internal/infrastructure/cache"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
)

var testTenant = uuid.MustParse("00000000-0000-0000-0000-00000000000a")

func tenantCtx() context.Context {
	return repository.WithTenant(context.Background(), testTenant)
}

func page[T any](items []T, p pagination.Params) ([]T, int64) {
	total := int64(len(items))
	start := p.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + p.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
	batches  int

	categories *fakeCategoryRepo
	importErr  error
}

func newFakeProductRepo(products ...entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
	for i := range products {
		p := products[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.products[p.ID] = &p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) ImportBatch(ctx context.Context, categories []entity.Category, products []entity.Product) error {
	if r.importErr != nil {
		return r.importErr
	}
	r.batches++
	for i := range categories {
		if r.categories == nil {
			break
		}
		if err := r.categories.Create(ctx, &categories[i]); err != nil {
			return err
		}
	}
	for i := range products {
		if err := r.Create(ctx, &products[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, _ := r.GetByID(ctx, id); p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) find(match func(*entity.Product) bool) *entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if match(p) {
			cp := *p
			return &cp
		}
	}
	return nil
}

func (r *fakeProductRepo) GetBySlug(_ context.Context, slug string) (*entity.Product, error) {
	return r.find(func(p *entity.Product) bool { return p.Slug == slug }), nil
}

func (r *fakeProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	return r.find(func(p *entity.Product) bool { return strings.EqualFold(p.Code, code) }), nil
}

func (r *fakeProductRepo) ExistingCodes(_ context.Context, codes []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, c := range codes {
		if r.find(func(p *entity.Product) bool { return strings.EqualFold(p.Code, c) }) != nil {
			out[strings.ToUpper(c)] = true
		}
	}
	return out, nil
}

func (r *fakeProductRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	return r.find(func(p *entity.Product) bool { return p.Slug == slug }) != nil, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.Create(ctx, p)
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) all() []entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out
}

func (r *fakeProductRepo) List(_ context.Context, f repository.ProductFilter) ([]entity.Product, int64, error) {
	items, total := page(r.all(), f.Pagination)
	return items, total, nil
}

func (r *fakeProductRepo) ListAll(_ context.Context, _ repository.ProductFilter) ([]entity.Product, error) {
	return r.all(), nil
}

func (r *fakeProductRepo) GetLowStock(_ context.Context) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.all() {
		if p.Quantity <= p.QuantityAlert {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) AtomicDecrementBatch(_ context.Context, dec map[uuid.UUID]int) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var failed []uuid.UUID
	for id, n := range dec {
		if p, ok := r.products[id]; !ok || p.Quantity < n {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, n := range dec {
		r.products[id].Quantity -= n
	}
	return nil, nil
}

func (r *fakeProductRepo) AtomicIncrementBatch(_ context.Context, inc map[uuid.UUID]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range inc {
		if p, ok := r.products[id]; ok {
			p.Quantity += n
		}
	}
	return nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*entity.Category
	products   map[uuid.UUID]int64
}

func newFakeCategoryRepo(categories ...entity.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: make(map[uuid.UUID]*entity.Category), products: make(map[uuid.UUID]int64)}
	for i := range categories {
		c := categories[i]
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.categories[c.ID] = &c
	}
	return r
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	if c, ok := r.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	return r.Create(ctx, c)
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) List(ctx context.Context, p pagination.Params) ([]entity.Category, int64, error) {
	all, _ := r.ListAll(ctx)
	items, total := page(all, p)
	return items, total, nil
}

func (r *fakeCategoryRepo) ListAll(_ context.Context) ([]entity.Category, error) {
	out := make([]entity.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) CountProducts(_ context.Context, id uuid.UUID) (int64, error) {
	return r.products[id], nil
}

type fakeOrderRepo struct {
	products *fakeProductRepo
	orders   map[uuid.UUID]*entity.Order
	seq      int
}

func newFakeOrderRepo(products *fakeProductRepo) *fakeOrderRepo {
	return &fakeOrderRepo{products: products, orders: make(map[uuid.UUID]*entity.Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *entity.Order, dec map[uuid.UUID]int) ([]uuid.UUID, error) {
	failed, err := r.products.AtomicDecrementBatch(ctx, dec)
	if err != nil || len(failed) > 0 {
		return failed, err
	}
	r.seq++
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.TenantID = testTenant
	o.InvoiceNo = fmt.Sprintf("INV-%06d", r.seq)
	cp := *o
	r.orders[o.ID] = &cp
	return nil, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	if o, ok := r.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeOrderRepo) List(_ context.Context, f repository.OrderFilter) ([]entity.Order, int64, error) {
	all := make([]entity.Order, 0, len(r.orders))
	for _, o := range r.orders {
		all = append(all, *o)
	}
	items, total := page(all, f.Pagination)
	return items, total, nil
}

func (r *fakeOrderRepo) Cancel(ctx context.Context, id uuid.UUID, inc map[uuid.UUID]int) error {
	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s not found", id)
	}
	if o.Status == enum.OrderStatusCancel {
		return repository.ErrOrderCancelled
	}
	o.Status = enum.OrderStatusCancel
	return r.products.AtomicIncrementBatch(ctx, inc)
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo(customers ...entity.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
	for i := range customers {
		c := customers[i]
		r.customers[c.ID] = &c
	}
	return r
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	if c, ok := r.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	return r.Create(ctx, c)
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(_ context.Context, p pagination.Params) ([]entity.Customer, int64, error) {
	all := make([]entity.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		all = append(all, *c)
	}
	items, total := page(all, p)
	return items, total, nil
}

type fakeEmployeeRepo struct {
	employees map[uuid.UUID]*entity.Employee
}

func newFakeEmployeeRepo(employees ...entity.Employee) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{employees: make(map[uuid.UUID]*entity.Employee)}
	for i := range employees {
		e := employees[i]
		r.employees[e.ID] = &e
	}
	return r
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *entity.Employee) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	r.employees[e.ID] = &cp
	return nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Employee, error) {
	if e, ok := r.employees[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeEmployeeRepo) GetByCode(_ context.Context, code string) (*entity.Employee, error) {
	for _, e := range r.employees {
		if strings.EqualFold(e.Code, code) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeEmployeeRepo) Update(ctx context.Context, e *entity.Employee) error {
	return r.Create(ctx, e)
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.employees, id)
	return nil
}

func (r *fakeEmployeeRepo) List(_ context.Context, p pagination.Params, activeOnly bool) ([]entity.Employee, int64, error) {
	all := make([]entity.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		if activeOnly && !e.IsActive {
			continue
		}
		all = append(all, *e)
	}
	items, total := page(all, p)
	return items, total, nil
}

type fakeAttendanceRepo struct {
	records []*entity.AttendanceRecord
}

func (r *fakeAttendanceRepo) Create(_ context.Context, rec *entity.AttendanceRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	cp := *rec
	r.records = append(r.records, &cp)
	return nil
}

func (r *fakeAttendanceRepo) Update(_ context.Context, rec *entity.AttendanceRecord) error {
	for i, existing := range r.records {
		if existing.ID == rec.ID {
			cp := *rec
			r.records[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("attendance record %s not found", rec.ID)
}

func (r *fakeAttendanceRepo) GetOpen(_ context.Context, employeeID uuid.UUID) (*entity.AttendanceRecord, error) {
	for _, rec := range r.records {
		if rec.EmployeeID == employeeID && rec.CheckOut == nil {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAttendanceRepo) List(_ context.Context, f repository.AttendanceFilter) ([]entity.AttendanceRecord, int64, error) {
	var all []entity.AttendanceRecord
	for _, rec := range r.records {
		if f.EmployeeID != nil && rec.EmployeeID != *f.EmployeeID {
			continue
		}
		all = append(all, *rec)
	}
	items, total := page(all, f.Pagination)
	return items, total, nil
}

type fakeSettingsRepo struct {
	setting *entity.InvoiceSetting
	saves   int
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*entity.InvoiceSetting, error) {
	if r.setting == nil {
		return nil, nil
	}
	cp := *r.setting
	return &cp, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, s *entity.InvoiceSetting) error {
	r.saves++
	cp := *s
	r.setting = &cp
	return nil
}

type fakeTenantRepo struct {
	tenants map[uuid.UUID]*entity.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: map[uuid.UUID]*entity.Tenant{
		testTenant: {ID: testTenant, Name: "Corner Cafe", Slug: "corner-cafe"},
	}}
}

func (r *fakeTenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	r.tenants[t.ID] = t
	return nil
}

func (r *fakeTenantRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Tenant, error) {
	return r.tenants[id], nil
}

func (r *fakeTenantRepo) GetBySlug(_ context.Context, slug string) (*entity.Tenant, error) {
	for _, t := range r.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, nil
}

type fakeUserRepo struct {
	users   map[uuid.UUID]*entity.User
	touched int
}

func newFakeUserRepo(users ...entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
	for i := range users {
		u := users[i]
		r.users[u.ID] = &u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *entity.User) error {
	return r.Create(ctx, u)
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	r.touched++
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, p pagination.Params) ([]entity.User, int64, error) {
	all := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *u)
	}
	items, total := page(all, p)
	return items, total, nil
}

type fakePrinterRepo struct {
	configs map[uuid.UUID]*entity.PrinterConfig
}

func newFakePrinterRepo() *fakePrinterRepo {
	return &fakePrinterRepo{configs: make(map[uuid.UUID]*entity.PrinterConfig)}
}

func (r *fakePrinterRepo) Create(_ context.Context, cfg *entity.PrinterConfig) error {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	cfg.TenantID = testTenant
	cp := *cfg
	r.configs[cfg.ID] = &cp
	return nil
}

func (r *fakePrinterRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.PrinterConfig, error) {
	if c, ok := r.configs[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakePrinterRepo) List(_ context.Context) ([]entity.PrinterConfig, error) {
	out := make([]entity.PrinterConfig, 0, len(r.configs))
	for _, c := range r.configs {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakePrinterRepo) Update(_ context.Context, cfg *entity.PrinterConfig) error {
	cp := *cfg
	r.configs[cfg.ID] = &cp
	return nil
}

func (r *fakePrinterRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.configs, id)
	return nil
}

func (r *fakePrinterRepo) GetDefault(_ context.Context, purpose enum.PrinterPurpose) (*entity.PrinterConfig, error) {
	for _, c := range r.configs {
		if c.Purpose == purpose && c.IsDefault {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePrinterRepo) SetDefault(_ context.Context, id uuid.UUID, purpose enum.PrinterPurpose) error {
	if _, ok := r.configs[id]; !ok {
		return fmt.Errorf("printer %s not found", id)
	}
	for _, c := range r.configs {
		if c.Purpose == purpose {
			c.IsDefault = c.ID == id
		}
	}
	return nil
}

type fakeReportRepo struct {
	orders     []report.OrderRecord
	items      []report.ItemRecord
	attendance []report.AttendanceRecord
	catalog    []report.CatalogProduct
	employees  report.Names
	roster     report.Names
	customers  report.Names
	calls      int
}

func (r *fakeReportRepo) OrderRecords(_ context.Context, start, end time.Time) ([]report.OrderRecord, error) {
	r.calls++
	return r.orders, nil
}

func (r *fakeReportRepo) ItemRecords(_ context.Context, start, end time.Time) ([]report.ItemRecord, error) {
	r.calls++
	return r.items, nil
}

func (r *fakeReportRepo) AttendanceRecords(_ context.Context, start, end time.Time) ([]report.AttendanceRecord, error) {
	r.calls++
	return r.attendance, nil
}

func (r *fakeReportRepo) CatalogProducts(_ context.Context) ([]report.CatalogProduct, error) {
	return r.catalog, nil
}

func (r *fakeReportRepo) EmployeeNames(_ context.Context) (report.Names, error) {
	return r.employees, nil
}

func (r *fakeReportRepo) EmployeeRoster(_ context.Context) (report.Names, error) {
	return r.roster, nil
}

func (r *fakeReportRepo) CustomerNames(_ context.Context, ids []uuid.UUID) (report.Names, error) {
	return r.customers, nil
}

type fakeLocker struct {
	held     map[string]bool
	released int
}

func (l *fakeLocker) Obtain(_ context.Context, key string, _ time.Duration) (func(), error) {
	if l.held == nil {
		l.held = make(map[string]bool)
	}
	if l.held[key] {
		return nil, cache.ErrLocked
	}
	l.held[key] = true
	return func() {
		delete(l.held, key)
		l.released++
	}, nil
}

type fakeCache struct {
	data   map[string][]byte
	writes int
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	if c.data == nil {
		c.data = make(map[string][]byte)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = b
	c.writes++
	return nil
}
