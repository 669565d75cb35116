package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"biomed-system/internal/entities"
	apperrors "biomed-system/pkg/errors"
	"biomed-system/pkg/types"

	"github.com/jackc/pgx/v5"
)

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.calls++
	return fn(nil)
}

type fakeEquipmentRepo struct {
	mu      sync.Mutex
	items   map[string]entities.Equipment
	updates int
}

func newFakeEquipmentRepo(items ...entities.Equipment) *fakeEquipmentRepo {
	r := &fakeEquipmentRepo{items: make(map[string]entities.Equipment)}
	for _, eq := range items {
		r.items[eq.ID] = eq
	}
	return r
}

func (r *fakeEquipmentRepo) get(id string) entities.Equipment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id]
}

func (r *fakeEquipmentRepo) sorted() []entities.Equipment {
	out := make([]entities.Equipment, 0, len(r.items))
	for _, eq := range r.items {
		out = append(out, eq)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeEquipmentRepo) List(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted()
	return all, uint64(len(all)), nil
}

func (r *fakeEquipmentRepo) ListAll(ctx context.Context) ([]entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

func (r *fakeEquipmentRepo) FindByID(ctx context.Context, id string) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	eq, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &eq, nil
}

func (r *fakeEquipmentRepo) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.Equipment, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeEquipmentRepo) Create(ctx context.Context, eq entities.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.SerialNumber == eq.SerialNumber {
			return apperrors.ErrConflict
		}
	}
	r.items[eq.ID] = eq
	return nil
}

// UpdateDetails keeps the stored maintenance dates, like the SQL column list does.
func (r *fakeEquipmentRepo) UpdateDetails(ctx context.Context, eq entities.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[eq.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	eq.LastMaintenanceDate = stored.LastMaintenanceDate
	eq.NextMaintenanceDate = stored.NextMaintenanceDate
	r.items[eq.ID] = eq
	r.updates++
	return nil
}

func (r *fakeEquipmentRepo) UpdateInTx(ctx context.Context, tx pgx.Tx, eq entities.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[eq.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.items[eq.ID] = eq
	r.updates++
	return nil
}

func (r *fakeEquipmentRepo) UpsertBySerialInTx(ctx context.Context, tx pgx.Tx, eq entities.Equipment) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.items {
		if existing.SerialNumber == eq.SerialNumber {
			existing.Name, existing.Brand, existing.Model = eq.Name, eq.Brand, eq.Model
			if eq.Location != "" {
				existing.Location = eq.Location
			}
			if eq.InventoryNumber != "" {
				existing.InventoryNumber = eq.InventoryNumber
			}
			r.items[id] = existing
			return false, nil
		}
	}
	r.items[eq.ID] = eq
	return true, nil
}

// fakeWorkOrderRepo stores history separately, the way the database does.
type fakeWorkOrderRepo struct {
	mu      sync.Mutex
	orders  map[string]entities.WorkOrder
	history map[string][]entities.HistoryEntry
}

func newFakeWorkOrderRepo() *fakeWorkOrderRepo {
	return &fakeWorkOrderRepo{
		orders:  make(map[string]entities.WorkOrder),
		history: make(map[string][]entities.HistoryEntry),
	}
}

// seed stores wo with its history as if it had been created earlier.
func (r *fakeWorkOrderRepo) seed(wo entities.WorkOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history[wo.ID] = wo.History.Entries()
	wo.History = entities.History{}
	r.orders[wo.ID] = wo
}

func (r *fakeWorkOrderRepo) load(wo entities.WorkOrder) entities.WorkOrder {
	wo.History = entities.NewHistory(r.history[wo.ID]...)
	return wo
}

func (r *fakeWorkOrderRepo) list(keep func(entities.WorkOrder) bool) []entities.WorkOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.WorkOrder, 0)
	for _, wo := range r.orders {
		if keep(wo) {
			out = append(out, r.load(wo))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *fakeWorkOrderRepo) ListAll(ctx context.Context) ([]entities.WorkOrder, error) {
	return r.list(func(entities.WorkOrder) bool { return true }), nil
}

func (r *fakeWorkOrderRepo) ListOpen(ctx context.Context) ([]entities.WorkOrder, error) {
	return r.list(func(wo entities.WorkOrder) bool { return !wo.IsClosed() }), nil
}

func (r *fakeWorkOrderRepo) ListByEquipment(ctx context.Context, equipmentID string) ([]entities.WorkOrder, error) {
	return r.list(func(wo entities.WorkOrder) bool { return wo.EquipmentID == equipmentID }), nil
}

func (r *fakeWorkOrderRepo) ListOpenByEquipmentInTx(ctx context.Context, tx pgx.Tx, equipmentID string) ([]entities.WorkOrder, error) {
	return r.list(func(wo entities.WorkOrder) bool { return wo.EquipmentID == equipmentID && !wo.IsClosed() }), nil
}

func (r *fakeWorkOrderRepo) FindByID(ctx context.Context, id string) (*entities.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wo, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	loaded := r.load(wo)
	return &loaded, nil
}

func (r *fakeWorkOrderRepo) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.WorkOrder, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeWorkOrderRepo) CreateInTx(ctx context.Context, tx pgx.Tx, wo entities.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[wo.ID]; ok {
		return apperrors.ErrConflict
	}
	wo.History = entities.History{}
	r.orders[wo.ID] = wo
	return nil
}

func (r *fakeWorkOrderRepo) UpdateInTx(ctx context.Context, tx pgx.Tx, wo entities.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[wo.ID]; !ok {
		return apperrors.ErrNotFound
	}
	wo.History = entities.History{}
	r.orders[wo.ID] = wo
	return nil
}

func (r *fakeWorkOrderRepo) AppendHistoryInTx(ctx context.Context, tx pgx.Tx, workOrderID string, entries []entities.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history[workOrderID] = append(r.history[workOrderID], entries...)
	return nil
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
