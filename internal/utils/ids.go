package utils

import "fmt"

// BookingID formats a manual booking identifier, e.g. ACM-2026-00031.
func BookingID(year, seq int) string { return fmt.Sprintf("ACM-%04d-%05d", year, seq) }

// HoldID formats a hold identifier, e.g. HOLD-004.
func HoldID(seq int) string { return fmt.Sprintf("HOLD-%03d", seq) }
