package handler

import (
    "context"
    "net/http"
    "net/url"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stayboard/internal/calendar"
    "github.com/iliyamo/stayboard/internal/conflict"
    "github.com/iliyamo/stayboard/internal/middleware"
    "github.com/iliyamo/stayboard/internal/model"
    "github.com/iliyamo/stayboard/internal/queue"
    "github.com/iliyamo/stayboard/internal/resolution"
)

// ListConflicts handles GET /v1/conflicts?room_id=&level=&date=.  Every
// call classifies the current snapshot and reconciles tracked reviews with
// it, so conflicts that vanished are reported as resolved externally.
func (h *DeskHandler) ListConflicts(c echo.Context) error {
    roomID := c.QueryParam("room_id")
    if roomID == "" {
        roomID = calendar.AllRooms
    }
    level := conflict.LevelFilter(strings.ToLower(c.QueryParam("level")))
    if level == "" {
        level = conflict.LevelAll
    }
    if !level.Valid() {
        return errorJSON(c, http.StatusBadRequest, "level must be all, conflict, risk or hold")
    }
    date := c.QueryParam("date")
    if date != "" && !conflict.IsISODate(date) {
        return errorJSON(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
    }

    ctx := c.Request().Context()
    bookings, holds, err := h.snapshot(ctx, roomID)
    if err != nil {
        return fail(c, err, "conflicts")
    }
    records := classify(bookings, holds, roomID)
    now := h.now().UTC()
    reviews, err := h.syncReviews(ctx, roomID, records, now)
    if err != nil {
        return fail(c, err, "reviews")
    }

    shown := conflict.Filter{Level: level, Date: date}.Apply(records)
    return c.JSON(http.StatusOK, echo.Map{
        "total":     len(records),
        "highest":   conflict.Highest(records),
        "count":     len(shown),
        "conflicts": resolution.Join(shown, reviews, now),
    })
}

// syncReviews reconciles the reviews of roomID ("all" for every room) with
// records, stores the ones that changed and returns the scoped reviews.
func (h *DeskHandler) syncReviews(ctx context.Context, roomID string, records []conflict.Record, now time.Time) ([]resolution.Review, error) {
    tracked, err := h.Reviews.List(ctx)
    if err != nil {
        return nil, err
    }
    scoped := make([]resolution.Review, 0, len(tracked))
    for _, rv := range tracked {
        if roomID == calendar.AllRooms || rv.RoomID == roomID {
            scoped = append(scoped, rv)
        }
    }
    changed := resolution.Reconcile(scoped, records, now)
    updated := make(map[string]resolution.Review, len(changed))
    for _, rv := range changed {
        if err := h.Reviews.Put(ctx, rv); err != nil {
            return nil, err
        }
        updated[rv.Key] = rv
    }
    for i, rv := range scoped {
        if u, ok := updated[rv.Key]; ok {
            scoped[i] = u
        }
    }
    return scoped, nil
}

// conflictKey reads :key, which clients may send percent-encoded.
func conflictKey(c echo.Context) string {
    raw := c.Param("key")
    if k, err := url.PathUnescape(raw); err == nil {
        return k
    }
    return raw
}

// loadConflict classifies the room named in key and returns the record
// with that key.
func (h *DeskHandler) loadConflict(ctx context.Context, key string) (conflict.Record, error) {
    roomID := ""
    if i := strings.IndexByte(key, ':'); i > 0 {
        roomID = key[:i]
    }
    if roomID == "" {
        return conflict.Record{}, resolution.ErrUnknownConflict
    }
    bookings, holds, err := h.snapshot(ctx, roomID)
    if err != nil {
        return conflict.Record{}, err
    }
    return resolution.Find(conflict.Classify(bookings, holds, roomID), key)
}

// currentReview returns the stored review of rec brought up to date with
// rec, or a fresh detected review.
func (h *DeskHandler) currentReview(ctx context.Context, rec conflict.Record, now time.Time) (resolution.Review, error) {
    rv, ok, err := h.Reviews.Get(ctx, rec.Key())
    if err != nil {
        return resolution.Review{}, err
    }
    if !ok {
        return resolution.Detected(rec, now), nil
    }
    if changed := resolution.Reconcile([]resolution.Review{rv}, []conflict.Record{rec}, now); len(changed) == 1 {
        rv = changed[0]
    }
    return rv, nil
}

// ReviewConflict handles POST /v1/conflicts/:key/review.
func (h *DeskHandler) ReviewConflict(c echo.Context) error {
    ctx := c.Request().Context()
    rec, err := h.loadConflict(ctx, conflictKey(c))
    if err != nil {
        return fail(c, err, "conflict")
    }
    now := h.now().UTC()
    rv, err := h.currentReview(ctx, rec, now)
    if err != nil {
        return fail(c, err, "review")
    }
    if err := rv.Begin(middleware.Actor(c), now); err != nil {
        return fail(c, err, "review")
    }
    if err := h.Reviews.Put(ctx, rv); err != nil {
        return fail(c, err, "review")
    }
    return c.JSON(http.StatusOK, resolution.Entry{Key: rv.Key, Record: rec, Review: rv})
}

type actionView struct {
    Action  resolution.Action  `json:"action"`
    Label   string             `json:"label"`
    Payload resolution.Payload `json:"payload"`
}

// payloadFor builds the payload of action and, for a room reassignment,
// looks up the rooms that could take the stay.
func (h *DeskHandler) payloadFor(ctx context.Context, rec conflict.Record, action resolution.Action, actor string, now time.Time, rooms []model.Room) (resolution.Payload, error) {
    p, err := resolution.BuildPayload(rec, action, actor, now)
    if err != nil {
        return p, err
    }
    if action != resolution.ActionReassignRoom {
        return p, nil
    }
    if rooms == nil {
        if rooms, err = h.Rooms.List(ctx); err != nil {
            return p, err
        }
    }
    bookings, holds, err := h.snapshot(ctx, calendar.AllRooms)
    if err != nil {
        return p, err
    }
    p.Candidates = resolution.ReassignCandidates(rec, rooms, bookings, holds)
    return p, nil
}

// ListActions handles GET /v1/conflicts/:key/actions.
func (h *DeskHandler) ListActions(c echo.Context) error {
    ctx := c.Request().Context()
    rec, err := h.loadConflict(ctx, conflictKey(c))
    if err != nil {
        return fail(c, err, "conflict")
    }
    rooms, err := h.Rooms.List(ctx)
    if err != nil {
        return fail(c, err, "rooms")
    }
    actor, now := middleware.Actor(c), h.now()
    out := make([]actionView, 0, 5)
    for _, a := range resolution.Available(rec) {
        p, err := h.payloadFor(ctx, rec, a, actor, now, rooms)
        if err != nil {
            return fail(c, err, "action")
        }
        out = append(out, actionView{Action: a, Label: a.Label(), Payload: p})
    }
    return c.JSON(http.StatusOK, echo.Map{"conflict": rec, "actions": out})
}

// RunAction handles POST /v1/conflicts/:key/actions/:action.  Releasing a
// hold happens here; every other action is handed to the collaborator
// queue and answered with 202.  Nothing is marked resolved: the conflict
// disappears from the next classification once the collaborator acts.
func (h *DeskHandler) RunAction(c echo.Context) error {
    ctx := c.Request().Context()
    key := conflictKey(c)
    rec, err := h.loadConflict(ctx, key)
    if err != nil {
        return fail(c, err, "conflict")
    }
    action := resolution.Action(c.Param("action"))
    p, err := h.payloadFor(ctx, rec, action, middleware.Actor(c), h.now(), nil)
    if err != nil {
        return fail(c, err, "action")
    }

    if action == resolution.ActionReleaseHold {
        ev, err := h.releaseHold(c, rec.Hold.ID, key)
        if err != nil {
            return fail(c, err, "hold")
        }
        return c.JSON(http.StatusOK, echo.Map{"released": ev, "payload": p})
    }

    if err := h.publish(c, h.Queues.ActionsQueue, queue.ConflictActionRequested{Payload: p}); err != nil {
        return errorJSON(c, http.StatusBadGateway, "could not hand the action over, retry")
    }
    return c.JSON(http.StatusAccepted, p)
}

type forceApproveReq struct {
    Justification string `json:"justification"`
}

// ForceApprove handles POST /v1/conflicts/:key/force-approve.  The
// conflict must be under review.  Reading the review, storing the audit
// entry and writing the review back happen under the room lock, so two
// admins approving the same conflict record one override.  The overlap
// itself stays in place.
func (h *DeskHandler) ForceApprove(c echo.Context) error {
    var req forceApproveReq
    if err := c.Bind(&req); err != nil {
        return errorJSON(c, http.StatusBadRequest, errInvalidBody.Error())
    }
    ctx := c.Request().Context()
    key := conflictKey(c)
    roomID, _, _ := strings.Cut(key, ":")
    if roomID == "" {
        return fail(c, resolution.ErrUnknownConflict, "conflict")
    }

    var (
        rv    resolution.Review
        entry resolution.AuditEntry
        what  = "conflict"
    )
    err := h.withRoomLock(ctx, roomID, func() error {
        rec, err := h.loadConflict(ctx, key)
        if err != nil {
            return err
        }
        now := h.now().UTC()
        what = "review"
        if rv, err = h.currentReview(ctx, rec, now); err != nil {
            return err
        }
        what = "override"
        if entry, err = rv.ForceApprove(rec, middleware.Actor(c), req.Justification, now); err != nil {
            return err
        }
        what = "audit entry"
        if err := h.Audit.Append(ctx, entry); err != nil {
            return err
        }
        if err := h.Reviews.Put(ctx, rv); err != nil {
            c.Logger().Warnf("override %s stored but review not updated: %v", entry.ID, err)
        }
        return nil
    })
    if err != nil {
        return fail(c, err, what)
    }
    _ = h.publish(c, h.Queues.OverridesQueue, queue.OverrideAccepted{Entry: entry})

    return c.JSON(http.StatusCreated, echo.Map{"review": rv, "audit": entry})
}

// ListAudit handles GET /v1/audit?conflict_key=.
func (h *DeskHandler) ListAudit(c echo.Context) error {
    entries, err := h.Audit.List(c.Request().Context(), c.QueryParam("conflict_key"))
    if err != nil {
        return fail(c, err, "audit")
    }
    return c.JSON(http.StatusOK, entries)
}
