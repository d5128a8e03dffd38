package model

// RoomCategory classifies a rentable unit.
type RoomCategory string

const (
	CategoryVilla           RoomCategory = "VILLA"
	CategoryHanok           RoomCategory = "HANOK"
	CategoryGlamping        RoomCategory = "GLAMPING"
	CategoryResort          RoomCategory = "RESORT"
	CategoryStandaloneHouse RoomCategory = "STANDALONE_HOUSE"
)

var roomCategoryLabels = map[RoomCategory]string{
	CategoryVilla:           "풀빌라",
	CategoryHanok:           "한옥",
	CategoryGlamping:        "글램핑",
	CategoryResort:          "리조트",
	CategoryStandaloneHouse: "독채",
}

// Label returns the dashboard label for the category.
func (c RoomCategory) Label() string { return roomCategoryLabels[c] }

// Valid reports whether c is a known category.
func (c RoomCategory) Valid() bool {
	_, ok := roomCategoryLabels[c]
	return ok
}

// Room is a unit of the accommodation inventory.  Rooms are reference
// data: they are created when the catalog is set up and never mutated
// by conflict detection.
//
// Fields:
//
//	ID            – human readable identifier (e.g. room-01).
//	Name          – display name.
//	Category      – villa, hanok, glamping, resort or standalone house.
//	MaxGuests     – maximum occupancy.
//	PricePerNight – nightly price in KRW.
type Room struct {
	ID            string       `json:"id"`              // rooms.id
	Name          string       `json:"name"`            // rooms.name
	Category      RoomCategory `json:"category"`        // rooms.category
	MaxGuests     int          `json:"max_guests"`      // rooms.max_guests
	PricePerNight int64        `json:"price_per_night"` // rooms.price_per_night
}
