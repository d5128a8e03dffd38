package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stayboard/internal/calendar"
    "github.com/iliyamo/stayboard/internal/config"
    "github.com/iliyamo/stayboard/internal/conflict"
    "github.com/iliyamo/stayboard/internal/lock"
    "github.com/iliyamo/stayboard/internal/model"
    "github.com/iliyamo/stayboard/internal/repository"
    "github.com/iliyamo/stayboard/internal/resolution"
    "github.com/iliyamo/stayboard/internal/service"
)

// RoomStore is the room catalog as the desk reads it.
type RoomStore interface {
    List(ctx context.Context) ([]model.Room, error)
    Get(ctx context.Context, id string) (model.Room, error)
}

// BookingStore is implemented by repository.BookingRepo.
type BookingStore interface {
    List(ctx context.Context) ([]model.Booking, error)
    ListByRoom(ctx context.Context, roomID string) ([]model.Booking, error)
    Get(ctx context.Context, id string) (model.Booking, error)
    NextSequence(ctx context.Context, year int) (int, error)
    Create(ctx context.Context, b model.Booking) error
    UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error
}

// HoldStore is implemented by repository.HoldRepo.  List and ListByRoom
// return active holds only.
type HoldStore interface {
    List(ctx context.Context) ([]model.Hold, error)
    ListByRoom(ctx context.Context, roomID string) ([]model.Hold, error)
    Get(ctx context.Context, id string) (model.Hold, error)
    NextSequence(ctx context.Context) (int, error)
    Create(ctx context.Context, h model.Hold) error
    Release(ctx context.Context, id, by string) error
}

// AuditStore is the append-only override log.
type AuditStore interface {
    Append(ctx context.Context, e resolution.AuditEntry) error
    List(ctx context.Context, conflictKey string) ([]resolution.AuditEntry, error)
}

// DeskDeps lists what the desk handlers need.  Every field is required.
type DeskDeps struct {
    Rooms    RoomStore
    Bookings BookingStore
    Holds    HoldStore
    Audit    AuditStore
    Reviews  resolution.Store
    Locks    lock.Locker
    Events   service.EventPublisher
    Queues   config.QueueConfig
    Desk     config.DeskConfig
}

// DeskHandler serves rooms, bookings, holds, conflicts, the calendar and
// the dashboard.
type DeskHandler struct {
    DeskDeps
    now func() time.Time
}

// NewDeskHandler panics if any dependency is nil.
func NewDeskHandler(d DeskDeps) *DeskHandler {
    if d.Rooms == nil || d.Bookings == nil || d.Holds == nil || d.Audit == nil ||
        d.Reviews == nil || d.Locks == nil || d.Events == nil {
        panic("nil dependency passed to NewDeskHandler")
    }
    return &DeskHandler{DeskDeps: d, now: time.Now}
}

// snapshot loads bookings and active holds for one room, or for every room
// when roomID is empty or "all".
func (h *DeskHandler) snapshot(ctx context.Context, roomID string) ([]model.Booking, []model.Hold, error) {
    if roomID == "" || roomID == calendar.AllRooms {
        bookings, err := h.Bookings.List(ctx)
        if err != nil {
            return nil, nil, err
        }
        holds, err := h.Holds.List(ctx)
        return bookings, holds, err
    }
    bookings, err := h.Bookings.ListByRoom(ctx, roomID)
    if err != nil {
        return nil, nil, err
    }
    holds, err := h.Holds.ListByRoom(ctx, roomID)
    return bookings, holds, err
}

// classify runs the classifier over the snapshot of roomID ("all" for the
// whole inventory).
func classify(bookings []model.Booking, holds []model.Hold, roomID string) []conflict.Record {
    if roomID == "" || roomID == calendar.AllRooms {
        return conflict.ClassifyAll(bookings, holds)
    }
    return conflict.Classify(bookings, holds, roomID)
}

// today returns ?today= when it is a valid date, otherwise the business
// date of now.
func (h *DeskHandler) today(c echo.Context) string {
    if t := c.QueryParam("today"); conflict.IsISODate(t) {
        return t
    }
    return h.Desk.Today(h.now())
}

func (h *DeskHandler) location() *time.Location {
    if h.Desk.Location == nil {
        return time.UTC
    }
    return h.Desk.Location
}

func errorJSON(c echo.Context, status int, msg string) error {
    return c.JSON(status, echo.Map{"error": msg})
}

// fail maps domain and storage errors to responses.  Unknown errors are
// logged and reported as 500.
func fail(c echo.Context, err error, what string) error {
    switch {
    case errors.Is(err, repository.ErrNotFound):
        return errorJSON(c, http.StatusNotFound, what+" not found")
    case errors.Is(err, resolution.ErrUnknownConflict):
        return errorJSON(c, http.StatusNotFound, "conflict not found")
    case errors.Is(err, resolution.ErrBlankJustification):
        return errorJSON(c, http.StatusUnprocessableEntity, "justification is required")
    case errors.Is(err, resolution.ErrInvalidTransition):
        return errorJSON(c, http.StatusConflict, err.Error())
    case errors.Is(err, resolution.ErrUnsupportedAction):
        return errorJSON(c, http.StatusBadRequest, err.Error())
    case errors.Is(err, lock.ErrNotAcquired):
        return errorJSON(c, http.StatusConflict, "room is being updated, retry")
    case errors.Is(err, repository.ErrConflict):
        return errorJSON(c, http.StatusConflict, what+" already exists")
    case errors.Is(err, context.DeadlineExceeded):
        return errorJSON(c, http.StatusGatewayTimeout, "timeout")
    }
    c.Logger().Errorf("%s: %v", what, err)
    return errorJSON(c, http.StatusInternalServerError, "internal error")
}

// withRoomLock runs fn while holding the mutation lock of roomID.
func (h *DeskHandler) withRoomLock(ctx context.Context, roomID string, fn func() error) error {
    unlock, err := h.Locks.Lock(ctx, roomID)
    if err != nil {
        return err
    }
    defer unlock()
    return fn()
}

// publish sends v and logs a failure.  Callers that must report the
// failure to the client check the returned error.
func (h *DeskHandler) publish(c echo.Context, queue string, v interface{}) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), h.Queues.PublishTimeout+time.Second)
    defer cancel()
    if err := h.Events.Publish(ctx, queue, v); err != nil {
        c.Logger().Warnf("publish to %s failed: %v", queue, err)
        return err
    }
    return nil
}
