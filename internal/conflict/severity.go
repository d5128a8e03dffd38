package conflict

import (
	"fmt"
	"strings"
)

// Severity grades an overlap.  The zero value Normal means no overlap;
// values are ordered so that a larger Severity is always worse.
type Severity int

const (
	Normal Severity = iota
	Risk
	Conflict
)

var severityNames = [...]string{"normal", "risk", "conflict"}

var severityLabels = [...]string{"정상", "위험", "충돌"}

func (s Severity) String() string {
	if s < Normal || s > Conflict {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// Label returns the dashboard label for the severity.
func (s Severity) Label() string {
	if s < Normal || s > Conflict {
		return ""
	}
	return severityLabels[s]
}

// MarshalText encodes the severity as its lower-case name.
func (s Severity) MarshalText() ([]byte, error) {
	if s < Normal || s > Conflict {
		return nil, fmt.Errorf("conflict: invalid severity %d", int(s))
	}
	return []byte(severityNames[s]), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSeverity maps a name ("normal", "risk", "conflict") to a Severity.
func ParseSeverity(name string) (Severity, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, v := range severityNames {
		if v == n {
			return Severity(i), nil
		}
	}
	return Normal, fmt.Errorf("conflict: unknown severity %q", name)
}

// Worst returns the higher of a and b.
func Worst(a, b Severity) Severity {
	if a > b {
		return a
	}
	return b
}
