package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stayboard/internal/conflict"
    "github.com/iliyamo/stayboard/internal/middleware"
    "github.com/iliyamo/stayboard/internal/model"
    "github.com/iliyamo/stayboard/internal/queue"
    "github.com/iliyamo/stayboard/internal/repository"
    "github.com/iliyamo/stayboard/internal/utils"
)

type holdView struct {
    model.Hold
    ReasonLabel string `json:"reason_label"`
}

func viewHold(hd model.Hold) holdView {
    return holdView{Hold: hd, ReasonLabel: hd.Reason.Label()}
}

// ListHolds handles GET /v1/holds?room_id=.
func (h *DeskHandler) ListHolds(c echo.Context) error {
    _, holds, err := h.snapshot(c.Request().Context(), c.QueryParam("room_id"))
    if err != nil {
        return fail(c, err, "holds")
    }
    out := make([]holdView, 0, len(holds))
    for _, hd := range holds {
        out = append(out, viewHold(hd))
    }
    return c.JSON(http.StatusOK, out)
}

type createHoldReq struct {
    RoomID    string `json:"room_id" validate:"required,notblank"`
    StartDate string `json:"start_date" validate:"required,isodate"`
    EndDate   string `json:"end_date" validate:"required,isodate"`
    Reason    string `json:"reason" validate:"required,oneof=INSPECTION REPAIR EVENT DISCRETIONARY"`
    Memo      string `json:"memo"`
}

// CreateHold handles POST /v1/holds.  Holds are accepted even when they
// overlap bookings; the response carries the room's conflicts afterwards
// so the operator sees what the hold collides with.
func (h *DeskHandler) CreateHold(c echo.Context) error {
    var req createHoldReq
    if ok, err := bindAndValidate(c, &req); !ok {
        return err
    }
    span := conflict.Range{Start: req.StartDate, End: req.EndDate}
    if !span.Valid() {
        return errorJSON(c, http.StatusBadRequest, "start_date must be before end_date")
    }

    ctx := c.Request().Context()
    room, err := h.Rooms.Get(ctx, strings.TrimSpace(req.RoomID))
    if err != nil {
        return fail(c, err, "room")
    }

    hd := model.Hold{
        RoomID:    room.ID,
        StartDate: span.Start,
        EndDate:   span.End,
        Reason:    model.HoldReason(req.Reason),
        Memo:      strings.TrimSpace(req.Memo),
        CreatedBy: middleware.Actor(c),
        CreatedAt: h.now().UTC(),
    }
    var records []conflict.Record
    err = h.withRoomLock(ctx, room.ID, func() error {
        created := false
        for attempt := 0; attempt < maxIDAttempts && !created; attempt++ {
            seq, err := h.Holds.NextSequence(ctx)
            if err != nil {
                return err
            }
            hd.ID = utils.HoldID(seq)
            err = h.Holds.Create(ctx, hd)
            if errors.Is(err, repository.ErrConflict) {
                continue
            }
            if err != nil {
                return err
            }
            created = true
        }
        if !created {
            return repository.ErrConflict
        }
        bookings, holds, err := h.snapshot(ctx, room.ID)
        if err != nil {
            return err
        }
        records = conflict.Classify(bookings, holds, room.ID)
        return nil
    })
    if err != nil {
        return fail(c, err, "hold")
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "hold":      viewHold(hd),
        "conflicts": records,
    })
}

// ReleaseHold handles DELETE /v1/holds/:id.  Release is unconditional and
// needs no justification.
func (h *DeskHandler) ReleaseHold(c echo.Context) error {
    if _, err := h.releaseHold(c, c.Param("id"), ""); err != nil {
        return fail(c, err, "hold")
    }
    return c.NoContent(http.StatusNoContent)
}

// releaseHold removes the hold under its room's lock and announces it.  A
// failed announcement does not undo the release.
func (h *DeskHandler) releaseHold(c echo.Context, id, conflictKey string) (queue.HoldReleased, error) {
    ctx := c.Request().Context()
    hd, err := h.Holds.Get(ctx, id)
    if err != nil {
        return queue.HoldReleased{}, err
    }
    actor := middleware.Actor(c)
    err = h.withRoomLock(ctx, hd.RoomID, func() error {
        return h.Holds.Release(ctx, hd.ID, actor)
    })
    if err != nil {
        return queue.HoldReleased{}, err
    }

    ev := queue.HoldReleased{
        HoldID:      hd.ID,
        RoomID:      hd.RoomID,
        StartDate:   hd.StartDate,
        EndDate:     hd.EndDate,
        ReleasedBy:  actor,
        ReleasedAt:  h.now().UTC(),
        ConflictKey: conflictKey,
    }
    _ = h.publish(c, h.Queues.HoldsQueue, ev)
    return ev, nil
}
