package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pairtime-api/modules/slot/entity"

	"github.com/google/uuid"
)

func mutual(id, date, start, end string) entity.TimeSlot {
	return slotOf(id, date, start, end, entity.SlotKindMutual)
}

func booked(id, date, start, end string) entity.TimeSlot {
	return slotOf(id, date, start, end, entity.SlotKindBooked)
}

func slotOf(id, date, start, end string, kind entity.SlotKind) entity.TimeSlot {
	return entity.TimeSlot{ID: id, Date: date, Start: start, End: end, Kind: kind, Source: entity.Internal{}}
}

func imported(id, date, start, end string) entity.TimeSlot {
	return entity.TimeSlot{
		ID:      "google:" + id,
		OwnerID: entity.ExternalOwnerID,
		Date:    date,
		Start:   start,
		End:     end,
		Kind:    entity.SlotKindBooked,
		Source:  entity.Imported{ProviderID: "google"},
	}
}

func phasePtr(p entity.EnergyPhase) *entity.EnergyPhase {
	return &p
}

// memoryStore is an in-memory SlotStore.
type memoryStore struct {
	mu        sync.Mutex
	slots     []entity.TimeSlot
	seq       int
	insertErr error
	updateErr error
	deleteErr error
	listErr   error
}

func (m *memoryStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]entity.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []entity.TimeSlot
	for _, s := range m.slots {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryStore) GetByID(_ context.Context, id string) (*entity.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.slots {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) Insert(_ context.Context, ownerID uuid.UUID, date, start, end, title string, kind entity.SlotKind) (*entity.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	m.seq++
	s := entity.TimeSlot{
		ID:      fmt.Sprintf("slot-%d", m.seq),
		OwnerID: ownerID,
		Date:    date,
		Start:   start,
		End:     end,
		Kind:    kind,
		Title:   title,
		Source:  entity.Internal{},
	}
	m.slots = append(m.slots, s)
	return &s, nil
}

func (m *memoryStore) Update(_ context.Context, id string, update entity.SlotUpdate) (*entity.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	for i := range m.slots {
		if m.slots[i].ID != id {
			continue
		}
		s := &m.slots[i]
		if update.Date != nil {
			s.Date = *update.Date
		}
		if update.Start != nil {
			s.Start = *update.Start
		}
		if update.End != nil {
			s.End = *update.End
		}
		if update.Title != nil {
			s.Title = *update.Title
		}
		if update.Kind != nil {
			s.Kind = *update.Kind
		}
		updated := *s
		return &updated, nil
	}
	return nil, fmt.Errorf("slot %s not found", id)
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i := range m.slots {
		if m.slots[i].ID == id {
			m.slots = append(m.slots[:i], m.slots[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memoryStore) seed(owner uuid.UUID, slots ...entity.TimeSlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range slots {
		s.OwnerID = owner
		m.slots = append(m.slots, s)
	}
}

type scheduled struct {
	OwnerID  uuid.UUID
	SlotID   string
	RemindAt time.Time
}

// recordingScheduler captures every reminder request.
type recordingScheduler struct {
	mu    sync.Mutex
	calls []scheduled
	err   error
}

func (r *recordingScheduler) Schedule(_ context.Context, ownerID uuid.UUID, slot entity.TimeSlot, remindAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, scheduled{OwnerID: ownerID, SlotID: slot.ID, RemindAt: remindAt})
	return r.err
}

type staticPairs struct {
	partners map[uuid.UUID]uuid.UUID
	err      error
}

func (p staticPairs) GetPartnerID(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	if p.err != nil {
		return uuid.Nil, p.err
	}
	return p.partners[userID], nil
}

type staticImporter struct {
	source string
	slots  []entity.TimeSlot
}

func (i staticImporter) Source() string { return i.source }

func (i staticImporter) FetchUpcomingEvents(context.Context, uuid.UUID) []entity.TimeSlot {
	return i.slots
}

type staticEnergy struct {
	phase *entity.EnergyPhase
	err   error
}

func (e staticEnergy) FetchCurrentPhase(context.Context, uuid.UUID) (*entity.EnergyPhase, error) {
	return e.phase, e.err
}

// gatedEnergy holds its first caller until release is closed.
type gatedEnergy struct {
	phase   *entity.EnergyPhase
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedEnergy(phase *entity.EnergyPhase) *gatedEnergy {
	return &gatedEnergy{phase: phase, entered: make(chan struct{}), release: make(chan struct{})}
}

func (e *gatedEnergy) FetchCurrentPhase(ctx context.Context, _ uuid.UUID) (*entity.EnergyPhase, error) {
	first := false
	e.once.Do(func() { first = true })
	if first {
		close(e.entered)
		select {
		case <-e.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return e.phase, nil
}
