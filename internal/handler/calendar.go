package handler

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stayboard/internal/calendar"
)

type monthRef struct {
    Year  int `json:"year"`
    Month int `json:"month"`
}

// Calendar handles GET /v1/calendar?year=&month=&room_id=&channel=&today=.
// Year and month default to the month of today.
func (h *DeskHandler) Calendar(c echo.Context) error {
    today := h.today(c)
    year, _ := strconv.Atoi(today[:4])
    month, _ := strconv.Atoi(today[5:7])
    if v := c.QueryParam("year"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil {
            return errorJSON(c, http.StatusBadRequest, "invalid year")
        }
        year = n
    }
    if v := c.QueryParam("month"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil {
            return errorJSON(c, http.StatusBadRequest, "invalid month")
        }
        month = n
    }
    if err := calendar.ParseMonth(year, month); err != nil {
        return errorJSON(c, http.StatusBadRequest, err.Error())
    }

    roomID := c.QueryParam("room_id")
    if roomID == "" {
        roomID = calendar.AllRooms
    }
    view := calendar.ChannelView(strings.ToLower(c.QueryParam("channel")))
    if view == "" {
        view = calendar.ViewAll
    }
    if !view.Valid() {
        return errorJSON(c, http.StatusBadRequest, "channel must be all, auto or manual")
    }

    bookings, holds, err := h.snapshot(c.Request().Context(), roomID)
    if err != nil {
        return fail(c, err, "calendar")
    }
    days := calendar.Overlay(calendar.MonthDays(year, month), calendar.OverlayInput{
        Bookings:   bookings,
        Holds:      holds,
        Records:    classify(bookings, holds, roomID),
        RoomID:     roomID,
        Channel:    view,
        Today:      today,
        SoonWithin: h.Desk.CheckInSoon,
    })

    py, pm := calendar.Shift(year, month, -1)
    ny, nm := calendar.Shift(year, month, 1)
    return c.JSON(http.StatusOK, echo.Map{
        "year":    year,
        "month":   month,
        "room_id": roomID,
        "channel": view,
        "today":   today,
        "prev":    monthRef{Year: py, Month: pm},
        "next":    monthRef{Year: ny, Month: nm},
        "days":    days,
    })
}
