package handler

import (
    "net/http"
    "sort"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stayboard/internal/calendar"
    "github.com/iliyamo/stayboard/internal/conflict"
)

type dashboardResp struct {
    Today     string            `json:"today"`
    CheckIns  int               `json:"check_ins"`
    CheckOuts int               `json:"check_outs"`
    Conflicts int               `json:"conflicts"`
    Risks     int               `json:"risks"`
    Total     int               `json:"total_conflicts"`
    Highest   conflict.Severity `json:"highest"`
    Holds     int               `json:"holds"`
    Upcoming  []bookingView     `json:"upcoming_check_ins"`
}

// Dashboard handles GET /v1/dashboard?today=: the numbers on top of the
// desk and the arrivals due within the check-in-soon window.
func (h *DeskHandler) Dashboard(c echo.Context) error {
    today := h.today(c)
    bookings, holds, err := h.snapshot(c.Request().Context(), calendar.AllRooms)
    if err != nil {
        return fail(c, err, "dashboard")
    }
    records := conflict.ClassifyAll(bookings, holds)
    stats := conflict.TodayCheckInOut(bookings, today)

    resp := dashboardResp{
        Today:     today,
        CheckIns:  stats.CheckIns,
        CheckOuts: stats.CheckOuts,
        Total:     len(records),
        Highest:   conflict.Highest(records),
        Holds:     len(holds),
        Upcoming:  make([]bookingView, 0),
    }
    for _, r := range records {
        switch r.Severity {
        case conflict.Conflict:
            resp.Conflicts++
        case conflict.Risk:
            resp.Risks++
        }
    }
    for _, b := range bookings {
        if conflict.Active(b) && conflict.CheckInSoon(b, today, h.Desk.CheckInSoon) {
            resp.Upcoming = append(resp.Upcoming, viewBooking(b))
        }
    }
    sort.SliceStable(resp.Upcoming, func(i, j int) bool {
        return resp.Upcoming[i].CheckIn < resp.Upcoming[j].CheckIn
    })
    return c.JSON(http.StatusOK, resp)
}
