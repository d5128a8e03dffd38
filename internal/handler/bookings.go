package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stayboard/internal/calendar"
    "github.com/iliyamo/stayboard/internal/conflict"
    "github.com/iliyamo/stayboard/internal/model"
    "github.com/iliyamo/stayboard/internal/repository"
    "github.com/iliyamo/stayboard/internal/utils"
)

// maxIDAttempts bounds retries when two desks pick the same sequence.
const maxIDAttempts = 5

type bookingView struct {
    model.Booking
    StatusLabel  string `json:"status_label"`
    ChannelLabel string `json:"channel_label"`
    SourceLabel  string `json:"source_label"`
    Nights       int    `json:"nights"`
}

func viewBooking(b model.Booking) bookingView {
    return bookingView{
        Booking:      b,
        StatusLabel:  b.Status.Label(),
        ChannelLabel: b.Channel.Label(),
        SourceLabel:  b.Source.Label(),
        Nights:       conflict.Nights(conflict.BookingRange(b)),
    }
}

// ListBookings handles GET /v1/bookings?room_id=&channel=.
func (h *DeskHandler) ListBookings(c echo.Context) error {
    roomID := c.QueryParam("room_id")
    view := calendar.ChannelView(strings.ToLower(c.QueryParam("channel")))
    if view == "" {
        view = calendar.ViewAll
    }
    if !view.Valid() {
        return errorJSON(c, http.StatusBadRequest, "channel must be all, auto or manual")
    }

    bookings, _, err := h.snapshot(c.Request().Context(), roomID)
    if err != nil {
        return fail(c, err, "bookings")
    }
    out := make([]bookingView, 0, len(bookings))
    for _, b := range bookings {
        switch {
        case view == calendar.ViewAuto && b.Channel != model.ChannelAuto:
            continue
        case view == calendar.ViewManual && b.Channel != model.ChannelManual:
            continue
        }
        out = append(out, viewBooking(b))
    }
    return c.JSON(http.StatusOK, out)
}

type candidateReq struct {
    RoomID           string `json:"room_id" validate:"required,notblank"`
    CheckIn          string `json:"check_in" validate:"required,isodate"`
    CheckOut         string `json:"check_out" validate:"required,isodate"`
    ExcludeBookingID string `json:"exclude_booking_id"`
}

func (r candidateReq) candidate() conflict.Candidate {
    return conflict.Candidate{
        RoomID:           strings.TrimSpace(r.RoomID),
        CheckIn:          r.CheckIn,
        CheckOut:         r.CheckOut,
        ExcludeBookingID: r.ExcludeBookingID,
    }
}

// ValidateBooking handles POST /v1/bookings/validate.  It reports what the
// proposed stay would overlap without saving anything.
func (h *DeskHandler) ValidateBooking(c echo.Context) error {
    var req candidateReq
    if ok, err := bindAndValidate(c, &req); !ok {
        return err
    }
    cand := req.candidate()
    if !cand.Range().Valid() {
        return errorJSON(c, http.StatusBadRequest, "check_in must be before check_out")
    }
    ctx := c.Request().Context()
    if _, err := h.Rooms.Get(ctx, cand.RoomID); err != nil {
        return fail(c, err, "room")
    }
    bookings, holds, err := h.snapshot(ctx, cand.RoomID)
    if err != nil {
        return fail(c, err, "bookings")
    }
    return c.JSON(http.StatusOK, conflict.CheckNewBooking(bookings, holds, cand))
}

type createBookingReq struct {
    RoomID       string            `json:"room_id" validate:"required,notblank"`
    CheckIn      string            `json:"check_in" validate:"required,isodate"`
    CheckOut     string            `json:"check_out" validate:"required,isodate"`
    GuestName    string            `json:"guest_name" validate:"required,notblank"`
    Phone        string            `json:"phone" validate:"required,notblank"`
    GuestCount   int               `json:"guest_count" validate:"min=1"`
    ExtraGuests  int               `json:"extra_guests" validate:"min=0"`
    Source       string            `json:"source" validate:"omitempty,oneof=PLATFORM PHONE WALK_IN EXTERNAL_OTA"`
    Paid         bool              `json:"paid"`
    Memo         string            `json:"memo"`
    Acknowledged conflict.Severity `json:"acknowledged_severity"`
}

// CreateBooking handles POST /v1/bookings: a manually keyed stay.  The
// overlap check runs again under the room lock; a submission whose
// acknowledged severity is below the fresh verdict is rejected with 409
// and the fresh verdict so the operator can look again.
func (h *DeskHandler) CreateBooking(c echo.Context) error {
    var req createBookingReq
    if ok, err := bindAndValidate(c, &req); !ok {
        return err
    }
    cand := conflict.Candidate{RoomID: strings.TrimSpace(req.RoomID), CheckIn: req.CheckIn, CheckOut: req.CheckOut}
    if !cand.Range().Valid() {
        return errorJSON(c, http.StatusBadRequest, "check_in must be before check_out")
    }
    source := model.Source(req.Source)
    if source == "" {
        source = model.SourcePhone
    }

    ctx := c.Request().Context()
    room, err := h.Rooms.Get(ctx, cand.RoomID)
    if err != nil {
        return fail(c, err, "room")
    }

    var (
        created model.Booking
        result  conflict.ValidationResult
        stale   bool
    )
    err = h.withRoomLock(ctx, room.ID, func() error {
        bookings, holds, err := h.snapshot(ctx, room.ID)
        if err != nil {
            return err
        }
        result = conflict.CheckNewBooking(bookings, holds, cand)
        if h.Desk.ValidateOnSave && req.Acknowledged < result.Severity {
            stale = true
            return nil
        }

        nights := conflict.Nights(cand.Range())
        if nights < 1 {
            nights = 1
        }
        status := model.StatusPaymentPending
        if req.Paid {
            status = model.StatusPaymentComplete
        }
        now := h.now()
        b := model.Booking{
            RoomID:      room.ID,
            CheckIn:     cand.CheckIn,
            CheckOut:    cand.CheckOut,
            GuestName:   strings.TrimSpace(req.GuestName),
            Phone:       strings.TrimSpace(req.Phone),
            GuestCount:  req.GuestCount,
            ExtraGuests: req.ExtraGuests,
            Amount:      room.PricePerNight * int64(nights),
            Status:      status,
            Channel:     model.ChannelManual,
            Source:      source,
            Memo:        strings.TrimSpace(req.Memo),
            CreatedAt:   now.UTC(),
        }
        year := now.In(h.location()).Year()
        for attempt := 0; attempt < maxIDAttempts; attempt++ {
            seq, err := h.Bookings.NextSequence(ctx, year)
            if err != nil {
                return err
            }
            b.ID = utils.BookingID(year, seq)
            err = h.Bookings.Create(ctx, b)
            if errors.Is(err, repository.ErrConflict) {
                continue
            }
            if err != nil {
                return err
            }
            created = b
            return nil
        }
        return repository.ErrConflict
    })
    if err != nil {
        return fail(c, err, "booking")
    }
    if stale {
        return c.JSON(http.StatusConflict, echo.Map{
            "error":      "overlap changed since it was acknowledged, review and submit again",
            "validation": result,
        })
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "booking":    viewBooking(created),
        "validation": result,
    })
}

type statusReq struct {
    Status string `json:"status" validate:"required"`
}

// UpdateBookingStatus handles PATCH /v1/bookings/:id/status and returns
// the booking together with its room's conflicts after the change.
func (h *DeskHandler) UpdateBookingStatus(c echo.Context) error {
    var req statusReq
    if ok, err := bindAndValidate(c, &req); !ok {
        return err
    }
    status := model.BookingStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
    if !status.Valid() {
        return errorJSON(c, http.StatusBadRequest, "unknown status")
    }

    ctx := c.Request().Context()
    b, err := h.Bookings.Get(ctx, c.Param("id"))
    if err != nil {
        return fail(c, err, "booking")
    }
    var records []conflict.Record
    err = h.withRoomLock(ctx, b.RoomID, func() error {
        if err := h.Bookings.UpdateStatus(ctx, b.ID, status); err != nil {
            return err
        }
        b.Status = status
        bookings, holds, err := h.snapshot(ctx, b.RoomID)
        if err != nil {
            return err
        }
        records = conflict.Classify(bookings, holds, b.RoomID)
        return nil
    })
    if err != nil {
        return fail(c, err, "booking")
    }
    return c.JSON(http.StatusOK, echo.Map{
        "booking":   viewBooking(b),
        "conflicts": records,
    })
}
