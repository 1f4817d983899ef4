package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aam9063/dogwalk/internal/apperr"
	"github.com/aam9063/dogwalk/internal/model"
)

// In-memory stores with the same conditional-update semantics as the pgx
// repositories: every state change is a compare-and-swap under a lock, so the
// concurrency properties of the engine are exercised for real.

type fakeSlotStore struct {
	mu     sync.Mutex
	nextID int64
	slots  map[int64]*model.Slot
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{slots: make(map[int64]*model.Slot)}
}

func (f *fakeSlotStore) add(walkerID int64, start time.Time, state model.SlotState) *model.Slot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	slot := &model.Slot{
		ID:        f.nextID,
		WalkerID:  walkerID,
		StartTime: start,
		State:     state,
		CreatedAt: time.Now(),
	}
	f.slots[slot.ID] = slot
	return copySlot(slot)
}

func copySlot(s *model.Slot) *model.Slot {
	c := *s
	return &c
}

func (f *fakeSlotStore) InsertMissing(_ context.Context, walkerID int64, starts []time.Time) ([]*model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var created []*model.Slot
	for _, start := range starts {
		exists := false
		for _, s := range f.slots {
			if s.WalkerID == walkerID && s.StartTime.Equal(start) {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		f.nextID++
		slot := &model.Slot{
			ID:        f.nextID,
			WalkerID:  walkerID,
			StartTime: start,
			State:     model.SlotStateAvailable,
			CreatedAt: time.Now(),
		}
		f.slots[slot.ID] = slot
		created = append(created, copySlot(slot))
	}
	return created, nil
}

func (f *fakeSlotStore) GetByID(_ context.Context, id int64) (*model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok {
		return nil, nil
	}
	return copySlot(slot), nil
}

func (f *fakeSlotStore) ListByWalker(_ context.Context, walkerID int64, from time.Time, to *time.Time) ([]*model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Slot
	for _, s := range f.slots {
		if s.WalkerID != walkerID || s.StartTime.Before(from) {
			continue
		}
		if to != nil && !s.StartTime.Before(*to) {
			continue
		}
		out = append(out, copySlot(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeSlotStore) SetState(_ context.Context, slotID int64, from, to model.SlotState) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.casStateLocked(slotID, from, to), nil
}

func (f *fakeSlotStore) casStateLocked(slotID int64, from, to model.SlotState) bool {
	slot, ok := f.slots[slotID]
	if !ok || slot.State != from {
		return false
	}
	slot.State = to
	return true
}

func (f *fakeSlotStore) Delete(_ context.Context, slotID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[slotID]
	if !ok || slot.State != model.SlotStateAvailable {
		return false, nil
	}
	delete(f.slots, slotID)
	return true, nil
}

type fakeReservationStore struct {
	mu     sync.Mutex
	nextID int64
	res    map[int64]*model.Reservation
	slots  *fakeSlotStore
}

func newFakeReservationStore(slots *fakeSlotStore) *fakeReservationStore {
	return &fakeReservationStore{res: make(map[int64]*model.Reservation), slots: slots}
}

func copyReservation(r *model.Reservation) *model.Reservation {
	c := *r
	return &c
}

func (f *fakeReservationStore) CreateWithClaim(_ context.Context, res *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.slots.mu.Lock()
	claimed := f.slots.casStateLocked(res.SlotID, model.SlotStateAvailable, model.SlotStateReserved)
	f.slots.mu.Unlock()
	if !claimed {
		return apperr.Conflict("slot no longer available")
	}

	f.nextID++
	res.ID = f.nextID
	res.Reference = uuid.New()
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	f.res[res.ID] = copyReservation(res)
	return nil
}

func (f *fakeReservationStore) TransitionState(_ context.Context, id int64, from, to model.ReservationState) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.res[id]
	if !ok || res.State != from {
		return false, nil
	}
	res.State = to
	res.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeReservationStore) CancelAndRelease(_ context.Context, id, slotID int64, from model.ReservationState) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	res, ok := f.res[id]
	if !ok || res.State != from {
		return false, nil
	}

	f.slots.mu.Lock()
	released := f.slots.casStateLocked(slotID, model.SlotStateReserved, model.SlotStateAvailable)
	f.slots.mu.Unlock()
	if !released {
		return false, apperr.Conflict("slot for reservation %d is not reserved", id)
	}

	res.State = model.ReservationStateCancelled
	res.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeReservationStore) GetByID(_ context.Context, id int64) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.res[id]
	if !ok {
		return nil, nil
	}
	return copyReservation(res), nil
}

func (f *fakeReservationStore) ActiveExistsForSlot(_ context.Context, slotID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.res {
		if r.SlotID == slotID && r.State.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservationStore) listWhere(pred func(*model.Reservation) bool) []*model.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Reservation
	for _, r := range f.res {
		if pred(r) {
			out = append(out, copyReservation(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeReservationStore) ListByCustomer(_ context.Context, customerID int64) ([]*model.Reservation, error) {
	return f.listWhere(func(r *model.Reservation) bool { return r.CustomerID == customerID }), nil
}

func (f *fakeReservationStore) ListByWalker(_ context.Context, walkerID int64) ([]*model.Reservation, error) {
	return f.listWhere(func(r *model.Reservation) bool { return r.WalkerID == walkerID }), nil
}

func (f *fakeReservationStore) ListByUserAndStates(_ context.Context, userID int64, states []model.ReservationState) ([]*model.Reservation, error) {
	return f.listWhere(func(r *model.Reservation) bool {
		if r.CustomerID != userID && r.WalkerID != userID {
			return false
		}
		for _, s := range states {
			if r.State == s {
				return true
			}
		}
		return false
	}), nil
}

type fakeUsers struct {
	mu sync.Mutex
	m  map[int64]*model.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.m[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

type fakeDogs struct {
	mu sync.Mutex
	m  map[int64]*model.Dog
}

func (f *fakeDogs) GetByID(_ context.Context, id int64) (*model.Dog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.m[id]
	if !ok {
		return nil, nil
	}
	c := *d
	return &c, nil
}

type fakeCatalog struct {
	mu sync.Mutex
	m  map[int64]*model.WalkService
}

func (f *fakeCatalog) GetByID(_ context.Context, id int64) (*model.WalkService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.m[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

type priceKey struct{ walkerID, serviceID int64 }

type fakePrices struct {
	mu     sync.Mutex
	nextID int64
	m      map[priceKey]*model.WalkerPrice
}

func newFakePrices() *fakePrices {
	return &fakePrices{m: make(map[priceKey]*model.WalkerPrice)}
}

func (f *fakePrices) Get(_ context.Context, walkerID, serviceID int64) (*model.WalkerPrice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.m[priceKey{walkerID, serviceID}]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (f *fakePrices) Upsert(_ context.Context, price *model.WalkerPrice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := priceKey{price.WalkerID, price.ServiceID}
	if existing, ok := f.m[key]; ok {
		price.ID = existing.ID
	} else {
		f.nextID++
		price.ID = f.nextID
	}
	c := *price
	f.m[key] = &c
	return nil
}

func (f *fakePrices) ListByWalker(_ context.Context, walkerID int64) ([]*model.WalkerPrice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.WalkerPrice
	for _, p := range f.m {
		if p.WalkerID == walkerID {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServiceID < out[j].ServiceID })
	return out, nil
}

// Well-known fixture ids.
const (
	walkerID      = int64(1)
	ownerID       = int64(2)
	adminID       = int64(3)
	otherOwnerID  = int64(4)
	otherWalkerID = int64(5)
	dogID         = int64(10)
	otherDogID    = int64(11)
	serviceID     = int64(100)
)

var (
	walkerPrincipal = model.Principal{UserID: walkerID, Role: model.RoleWalker}
	ownerPrincipal  = model.Principal{UserID: ownerID, Role: model.RoleOwner}
	adminPrincipal  = model.Principal{UserID: adminID, Role: model.RoleAdmin}
	otherOwner      = model.Principal{UserID: otherOwnerID, Role: model.RoleOwner}
)

type fixture struct {
	slots        *fakeSlotStore
	reservations *fakeReservationStore
	prices       *fakePrices
	availability *AvailabilityService
	pricing      *PricingService
	booking      *ReservationService
}

func newFixture() *fixture {
	slots := newFakeSlotStore()
	reservations := newFakeReservationStore(slots)
	prices := newFakePrices()

	users := &fakeUsers{m: map[int64]*model.User{
		walkerID:      {ID: walkerID, Email: "walker@example.com", DisplayName: "Marta", Role: model.RoleWalker},
		ownerID:       {ID: ownerID, Email: "owner@example.com", DisplayName: "Alvaro", Role: model.RoleOwner},
		adminID:       {ID: adminID, Email: "admin@example.com", DisplayName: "Admin", Role: model.RoleAdmin},
		otherOwnerID:  {ID: otherOwnerID, Email: "owner2@example.com", DisplayName: "Lucia", Role: model.RoleOwner},
		otherWalkerID: {ID: otherWalkerID, Email: "walker2@example.com", DisplayName: "Pablo", Role: model.RoleWalker},
	}}
	dogs := &fakeDogs{m: map[int64]*model.Dog{
		dogID:      {ID: dogID, OwnerID: ownerID, Name: "Rex", Breed: "Labrador"},
		otherDogID: {ID: otherDogID, OwnerID: otherOwnerID, Name: "Luna", Breed: "Beagle"},
	}}
	catalog := &fakeCatalog{m: map[int64]*model.WalkService{
		serviceID: {ID: serviceID, Name: "30 minute walk", DurationMinutes: 30},
	}}

	logger := zap.NewNop()
	pricing := NewPricingService(prices, users, catalog, logger)

	return &fixture{
		slots:        slots,
		reservations: reservations,
		prices:       prices,
		availability: NewAvailabilityService(slots, reservations, logger),
		pricing:      pricing,
		booking:      NewReservationService(reservations, slots, pricing, users, dogs, catalog, logger),
	}
}

// setPrice seeds the walker's price list directly.
func (f *fixture) setPrice(amountCents int64) {
	_ = f.prices.Upsert(context.Background(), &model.WalkerPrice{
		WalkerID:  walkerID,
		ServiceID: serviceID,
		Price:     model.Price{AmountCents: amountCents, Currency: "EUR"},
	})
}

// futureTime returns a deterministic instant tomorrow at the given clock time.
func futureTime(hour, min int) time.Time {
	t := time.Now().UTC().AddDate(0, 0, 1)
	return time.Date(t.Year(), t.Month(), t.Day(), hour, min, 0, 0, time.UTC)
}
