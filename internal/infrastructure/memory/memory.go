// Package memory keeps every repository in process memory. It backs the
// "memory" database driver for local runs and serves as the test double for
// the services.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/pkg/pagination"
)

// Store holds all tenants' data. Reads are scoped to the tenant in the
// request context exactly like the gorm TenantScope: no tenant, no rows.
type Store struct {
	mu          sync.RWMutex
	sales       map[uuid.UUID]entity.Sale
	staff       map[uuid.UUID]entity.Staff
	customers   map[uuid.UUID]entity.Customer
	profiles    map[uuid.UUID]entity.CommissionProfile
	idempotency map[string]entity.IdempotencyKey
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		sales:       make(map[uuid.UUID]entity.Sale),
		staff:       make(map[uuid.UUID]entity.Staff),
		customers:   make(map[uuid.UUID]entity.Customer),
		profiles:    make(map[uuid.UUID]entity.CommissionProfile),
		idempotency: make(map[string]entity.IdempotencyKey),
	}
}

// Sales returns the sale repository view of the store
func (s *Store) Sales() domainRepo.SaleRepository { return &saleRepo{s} }

// Staff returns the staff repository view of the store
func (s *Store) Staff() domainRepo.StaffRepository { return &staffRepo{s} }

// Customers returns the customer repository view of the store
func (s *Store) Customers() domainRepo.CustomerRepository { return &customerRepo{s} }

// Profiles returns the commission profile repository view of the store
func (s *Store) Profiles() domainRepo.CommissionProfileRepository { return &profileRepo{s} }

// Idempotency returns the idempotency key repository view of the store
func (s *Store) Idempotency() domainRepo.IdempotencyRepository { return &idempotencyRepo{s} }

func visible(ctx context.Context, tenantID uuid.UUID) bool {
	id, ok := infraRepo.GetTenantID(ctx)
	return ok && id == tenantID
}

func contains(value, search string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(search))
}

func page[T any](items []T, params *pagination.PaginationParams) []T {
	params.Validate()
	start := params.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + params.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func copySale(sale entity.Sale) entity.Sale {
	sale.Items = append([]entity.SaleItem(nil), sale.Items...)
	return sale
}

func copyProfile(profile entity.CommissionProfile) entity.CommissionProfile {
	profile.Scope = append([]string(nil), profile.Scope...)
	profile.Tiers = append([]entity.CommissionTier(nil), profile.Tiers...)
	sort.SliceStable(profile.Tiers, func(i, j int) bool {
		return profile.Tiers[i].Threshold.LessThan(profile.Tiers[j].Threshold)
	})
	return profile
}

// ---- sales ----

type saleRepo struct{ s *Store }

func (r *saleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	for _, existing := range r.s.sales {
		if existing.TenantID == sale.TenantID && existing.InvoiceNo == sale.InvoiceNo {
			return errDuplicate("invoice_no")
		}
	}
	stamp(&sale.CreatedAt, &sale.UpdatedAt)
	for i := range sale.Items {
		if sale.Items[i].ID == uuid.Nil {
			sale.Items[i].ID = uuid.New()
		}
		sale.Items[i].SaleID = sale.ID
		stamp(&sale.Items[i].CreatedAt, &sale.Items[i].UpdatedAt)
	}
	r.s.sales[sale.ID] = copySale(*sale)
	return nil
}

func (r *saleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sale, ok := r.s.sales[id]
	if !ok || !visible(ctx, sale.TenantID) {
		return nil, nil
	}
	out := copySale(sale)
	return &out, nil
}

func (r *saleRepo) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sale := range r.s.sales {
		if sale.InvoiceNo == invoiceNo && visible(ctx, sale.TenantID) {
			out := copySale(sale)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *saleRepo) matching(ctx context.Context, match func(*entity.Sale) bool) []entity.Sale {
	out := make([]entity.Sale, 0)
	for _, sale := range r.s.sales {
		if !visible(ctx, sale.TenantID) || !match(&sale) {
			continue
		}
		out = append(out, copySale(sale))
	}
	return out
}

func (r *saleRepo) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sales := r.matching(ctx, func(sale *entity.Sale) bool {
		if params.Search != "" && !contains(sale.InvoiceNo, params.Search) && !contains(sale.StaffName, params.Search) {
			return false
		}
		if params.Status != nil && sale.Status != *params.Status {
			return false
		}
		if params.StaffID != nil && !soldBy(sale, *params.StaffID) {
			return false
		}
		if params.CustomerID != nil && (sale.CustomerID == nil || *sale.CustomerID != *params.CustomerID) {
			return false
		}
		return inPeriod(sale.SaleDate, params.StartDate, params.EndDate)
	})

	less := func(a, b *entity.Sale) bool {
		switch params.SortBy {
		case "total":
			return a.Total.LessThan(b.Total)
		case "invoice_no":
			return a.InvoiceNo < b.InvoiceNo
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.SaleDate.Before(b.SaleDate)
	}
	asc := params.SortOrder == "ASC" || params.SortOrder == "asc"
	sort.SliceStable(sales, func(i, j int) bool {
		if asc {
			return less(&sales[i], &sales[j])
		}
		return less(&sales[j], &sales[i])
	})

	return page(sales, params.Pagination), int64(len(sales)), nil
}

func (r *saleRepo) ListForPeriod(ctx context.Context, start, end *time.Time) ([]entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sales := r.matching(ctx, func(sale *entity.Sale) bool {
		return inPeriod(sale.SaleDate, start, end)
	})
	sort.SliceStable(sales, func(i, j int) bool {
		if sales[i].SaleDate.Equal(sales[j].SaleDate) {
			return sales[i].ID.String() < sales[j].ID.String()
		}
		return sales[i].SaleDate.Before(sales[j].SaleDate)
	})
	return sales, nil
}

func (r *saleRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sale, ok := r.s.sales[id]
	if !ok || !visible(ctx, sale.TenantID) {
		return nil
	}
	sale.Status = status
	sale.UpdatedAt = time.Now()
	r.s.sales[id] = sale
	return nil
}

func soldBy(sale *entity.Sale, staffID uuid.UUID) bool {
	if sale.StaffID != nil && *sale.StaffID == staffID {
		return true
	}
	for _, item := range sale.Items {
		if item.StaffID != nil && *item.StaffID == staffID {
			return true
		}
	}
	return false
}

func inPeriod(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

// ---- staff ----

type staffRepo struct{ s *Store }

func (r *staffRepo) Create(ctx context.Context, staff *entity.Staff) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	stamp(&staff.CreatedAt, &staff.UpdatedAt)
	r.s.staff[staff.ID] = *staff
	return nil
}

func (r *staffRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	staff, ok := r.s.staff[id]
	if !ok || !visible(ctx, staff.TenantID) {
		return nil, nil
	}
	staff.CommissionProfileIDs = append([]uuid.UUID(nil), staff.CommissionProfileIDs...)
	return &staff, nil
}

func (r *staffRepo) Update(ctx context.Context, staff *entity.Staff) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stamp(&staff.CreatedAt, &staff.UpdatedAt)
	r.s.staff[staff.ID] = *staff
	return nil
}

func (r *staffRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if staff, ok := r.s.staff[id]; ok && visible(ctx, staff.TenantID) {
		delete(r.s.staff, id)
	}
	return nil
}

func (r *staffRepo) sorted(ctx context.Context, match func(*entity.Staff) bool) []entity.Staff {
	out := make([]entity.Staff, 0)
	for _, staff := range r.s.staff {
		if visible(ctx, staff.TenantID) && match(&staff) {
			out = append(out, staff)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *staffRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Staff, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	staff := r.sorted(ctx, func(s *entity.Staff) bool {
		return search == "" || contains(s.Name, search) || contains(s.Email, search) || contains(s.Phone, search)
	})
	return page(staff, params), int64(len(staff)), nil
}

func (r *staffRepo) ListAll(ctx context.Context, activeOnly bool) ([]entity.Staff, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.sorted(ctx, func(s *entity.Staff) bool {
		return !activeOnly || s.Active
	}), nil
}

// ---- customers ----

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	stamp(&customer.CreatedAt, &customer.UpdatedAt)
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	customer, ok := r.s.customers[id]
	if !ok || !visible(ctx, customer.TenantID) {
		return nil, nil
	}
	return &customer, nil
}

func (r *customerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stamp(&customer.CreatedAt, &customer.UpdatedAt)
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if customer, ok := r.s.customers[id]; ok && visible(ctx, customer.TenantID) {
		delete(r.s.customers, id)
	}
	return nil
}

func (r *customerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entity.Customer, 0)
	for _, customer := range r.s.customers {
		if !visible(ctx, customer.TenantID) {
			continue
		}
		if search != "" && !contains(customer.Name, search) &&
			!(customer.Email != nil && contains(*customer.Email, search)) &&
			!(customer.Phone != nil && contains(*customer.Phone, search)) {
			continue
		}
		out = append(out, customer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, params), int64(len(out)), nil
}

// ---- commission profiles ----

type profileRepo struct{ s *Store }

func (r *profileRepo) save(profile *entity.CommissionProfile) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	stamp(&profile.CreatedAt, &profile.UpdatedAt)
	for i := range profile.Tiers {
		if profile.Tiers[i].ID == uuid.Nil {
			profile.Tiers[i].ID = uuid.New()
		}
		profile.Tiers[i].ProfileID = profile.ID
	}
	r.s.profiles[profile.ID] = copyProfile(*profile)
}

func (r *profileRepo) Create(ctx context.Context, profile *entity.CommissionProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.save(profile)
	return nil
}

func (r *profileRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CommissionProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	profile, ok := r.s.profiles[id]
	if !ok || !visible(ctx, profile.TenantID) {
		return nil, nil
	}
	out := copyProfile(profile)
	return &out, nil
}

func (r *profileRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.CommissionProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entity.CommissionProfile, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		profile, ok := r.s.profiles[id]
		if !ok || seen[id] || !visible(ctx, profile.TenantID) {
			continue
		}
		seen[id] = true
		out = append(out, copyProfile(profile))
	}
	return out, nil
}

func (r *profileRepo) Update(ctx context.Context, profile *entity.CommissionProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range profile.Tiers {
		profile.Tiers[i].ID = uuid.Nil
	}
	r.save(profile)
	return nil
}

func (r *profileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if profile, ok := r.s.profiles[id]; ok && visible(ctx, profile.TenantID) {
		delete(r.s.profiles, id)
	}
	return nil
}

func (r *profileRepo) all(ctx context.Context) []entity.CommissionProfile {
	out := make([]entity.CommissionProfile, 0)
	for _, profile := range r.s.profiles {
		if visible(ctx, profile.TenantID) {
			out = append(out, copyProfile(profile))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *profileRepo) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.CommissionProfile, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	profiles := r.all(ctx)
	return page(profiles, params), int64(len(profiles)), nil
}

func (r *profileRepo) ListAll(ctx context.Context) ([]entity.CommissionProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.all(ctx), nil
}

// ---- idempotency keys ----

type idempotencyRepo struct{ s *Store }

func idempotencyKey(tenantID uuid.UUID, key string) string {
	return tenantID.String() + "/" + key
}

func (r *idempotencyRepo) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, nil
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ikey, ok := r.s.idempotency[idempotencyKey(tenantID, key)]
	if !ok || ikey.UserID != userID {
		return nil, nil
	}
	return &ikey, nil
}

func (r *idempotencyRepo) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now()
	}
	scoped := idempotencyKey(ikey.TenantID, ikey.Key)
	if _, exists := r.s.idempotency[scoped]; exists {
		return errDuplicate("key")
	}
	r.s.idempotency[scoped] = *ikey
	return nil
}

func (r *idempotencyRepo) DeleteExpired(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for key, ikey := range r.s.idempotency {
		if ikey.IsExpired() {
			delete(r.s.idempotency, key)
		}
	}
	return nil
}
