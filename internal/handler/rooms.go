package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stayboard/internal/model"
)

type roomView struct {
    model.Room
    CategoryLabel string `json:"category_label"`
}

func viewRoom(r model.Room) roomView {
    return roomView{Room: r, CategoryLabel: r.Category.Label()}
}

// ListRooms handles GET /v1/rooms.
func (h *DeskHandler) ListRooms(c echo.Context) error {
    rooms, err := h.Rooms.List(c.Request().Context())
    if err != nil {
        return fail(c, err, "rooms")
    }
    out := make([]roomView, 0, len(rooms))
    for _, r := range rooms {
        out = append(out, viewRoom(r))
    }
    return c.JSON(http.StatusOK, out)
}

// GetRoom handles GET /v1/rooms/:id.
func (h *DeskHandler) GetRoom(c echo.Context) error {
    r, err := h.Rooms.Get(c.Request().Context(), c.Param("id"))
    if err != nil {
        return fail(c, err, "room")
    }
    return c.JSON(http.StatusOK, viewRoom(r))
}
