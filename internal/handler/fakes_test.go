package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stayboard/internal/config"
	"github.com/iliyamo/stayboard/internal/lock"
	"github.com/iliyamo/stayboard/internal/middleware"
	"github.com/iliyamo/stayboard/internal/model"
	"github.com/iliyamo/stayboard/internal/repository"
	"github.com/iliyamo/stayboard/internal/resolution"
)

type fakeRooms struct{ rooms []model.Room }

func (f *fakeRooms) List(context.Context) ([]model.Room, error) {
	return append([]model.Room(nil), f.rooms...), nil
}

func (f *fakeRooms) Get(_ context.Context, id string) (model.Room, error) {
	for _, r := range f.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Room{}, repository.ErrNotFound
}

type fakeBookings struct {
	mu      sync.Mutex
	items   []model.Booking
	collide map[string]bool // ids taken by another desk on first insert
	taken   []string
}

func (f *fakeBookings) List(context.Context) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Booking(nil), f.items...), nil
}

func (f *fakeBookings) ListByRoom(_ context.Context, roomID string) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Booking
	for _, b := range f.items {
		if b.RoomID == roomID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) Get(_ context.Context, id string) (model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.items {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Booking{}, repository.ErrNotFound
}

func (f *fakeBookings) NextSequence(_ context.Context, year int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := fmt.Sprintf("ACM-%04d-", year)
	max := 0
	ids := append([]string(nil), f.taken...)
	for _, b := range f.items {
		ids = append(ids, b.ID)
	}
	for _, id := range ids {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if n, err := strconv.Atoi(id[len(prefix):]); err == nil && n > max {
			max = n
		}
	}
	return max + 1, nil
}

func (f *fakeBookings) Create(_ context.Context, b model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.collide[b.ID] {
		delete(f.collide, b.ID)
		f.taken = append(f.taken, b.ID)
		return repository.ErrConflict
	}
	for _, x := range f.items {
		if x.ID == b.ID {
			return repository.ErrConflict
		}
	}
	f.items = append(f.items, b)
	return nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, id string, status model.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeHolds struct {
	mu       sync.Mutex
	items    []model.Hold
	released map[string]string // id -> released by
}

func (f *fakeHolds) active(roomID string) []model.Hold {
	var out []model.Hold
	for _, h := range f.items {
		if _, gone := f.released[h.ID]; gone {
			continue
		}
		if roomID == "" || h.RoomID == roomID {
			out = append(out, h)
		}
	}
	return out
}

func (f *fakeHolds) List(context.Context) ([]model.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active(""), nil
}

func (f *fakeHolds) ListByRoom(_ context.Context, roomID string) ([]model.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active(roomID), nil
}

func (f *fakeHolds) Get(_ context.Context, id string) (model.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.active("") {
		if h.ID == id {
			return h, nil
		}
	}
	return model.Hold{}, repository.ErrNotFound
}

func (f *fakeHolds) NextSequence(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items) + 1, nil
}

func (f *fakeHolds) Create(_ context.Context, h model.Hold) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, h)
	return nil
}

func (f *fakeHolds) Release(_ context.Context, id, by string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.active("") {
		if h.ID == id {
			f.released[id] = by
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []resolution.AuditEntry
	err     error
}

func (f *fakeAudit) Append(_ context.Context, e resolution.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAudit) List(_ context.Context, key string) ([]resolution.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]resolution.AuditEntry, 0)
	for _, e := range f.entries {
		if key == "" || e.ConflictKey == key {
			out = append(out, e)
		}
	}
	return out, nil
}

type published struct {
	queue string
	v     interface{}
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, queue string, v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{queue: queue, v: v})
	return nil
}

var errBroker = errors.New("broker down")

// deskFixture is room-01 with a confirmed and a pending stay overlapping on
// the 12th, and room-03 with an inspection hold on the 16th and 17th.
type deskFixture struct {
	h        *DeskHandler
	rooms    *fakeRooms
	bookings *fakeBookings
	holds    *fakeHolds
	audit    *fakeAudit
	events   *fakePublisher
	reviews  *resolution.MemoryStore
	e        *echo.Echo
}

const pairKey = "room-01:ACM-2026-00001:ACM-2026-00002"

func newDesk(t *testing.T) *deskFixture {
	t.Helper()
	f := &deskFixture{
		rooms: &fakeRooms{rooms: []model.Room{
			{ID: "room-01", Name: "오션 풀빌라", Category: model.CategoryVilla, MaxGuests: 4, PricePerNight: 200000},
			{ID: "room-02", Name: "솔밭 한옥", Category: model.CategoryHanok, MaxGuests: 6, PricePerNight: 150000},
			{ID: "room-03", Name: "별빛 글램핑", Category: model.CategoryGlamping, MaxGuests: 2, PricePerNight: 90000},
		}},
		bookings: &fakeBookings{collide: map[string]bool{}, items: []model.Booking{
			{ID: "ACM-2026-00001", RoomID: "room-01", CheckIn: "2026-02-10", CheckOut: "2026-02-13", GuestName: "김민수",
				GuestCount: 3, Status: model.StatusConfirmed, Channel: model.ChannelAuto, Source: model.SourcePlatform},
			{ID: "ACM-2026-00002", RoomID: "room-01", CheckIn: "2026-02-12", CheckOut: "2026-02-15", GuestName: "이서연",
				GuestCount: 2, Status: model.StatusPaymentPending, Channel: model.ChannelManual, Source: model.SourcePhone},
		}},
		holds: &fakeHolds{released: map[string]string{}, items: []model.Hold{
			{ID: "HOLD-001", RoomID: "room-03", StartDate: "2026-02-16", EndDate: "2026-02-18", Reason: model.ReasonInspection, CreatedBy: "관리자"},
		}},
		audit:   &fakeAudit{},
		events:  &fakePublisher{},
		reviews: resolution.NewMemoryStore(),
	}
	f.h = NewDeskHandler(DeskDeps{
		Rooms:    f.rooms,
		Bookings: f.bookings,
		Holds:    f.holds,
		Audit:    f.audit,
		Reviews:  f.reviews,
		Locks:    lock.NewLocal(),
		Events:   f.events,
		Queues:   config.QueueConfig{ActionsQueue: "actions", OverridesQueue: "overrides", HoldsQueue: "holds"},
		Desk:     config.DeskConfig{Location: time.FixedZone("KST", 9*60*60), CheckInSoon: 2, ValidateOnSave: true},
	})
	f.h.now = func() time.Time { return time.Date(2026, 2, 9, 1, 0, 0, 0, time.UTC) }
	f.e = echo.New()
	f.e.Validator = NewValidator()
	return f
}

// call runs fn as an authenticated admin named 김관리.  params are
// name/value pairs for path parameters.
func (f *deskFixture) call(fn echo.HandlerFunc, method, target, body string, params ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	c.Set(middleware.CtxOperatorID, uint64(1))
	c.Set(middleware.CtxRole, model.RoleAdmin)
	c.Set(middleware.CtxOperatorName, "김관리")
	if err := fn(c); err != nil {
		f.e.HTTPErrorHandler(err, c)
	}
	return rec
}
