// Package resolution tracks what operators do with the conflicts the
// classifier reports.
//
// Conflict records are recomputed on every run and never carry a resolved
// flag.  A Review is the only state kept about a conflict: it is keyed by
// conflict.Record.Key and moves through
//
//	detected -> under_review -> resolved_externally | override_accepted
//
// resolved_externally is never entered by an operator action.  It is
// observed by Reconcile when the conflict is missing from a fresh run.
package resolution

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/stayboard/internal/conflict"
)

var (
	// ErrBlankJustification is returned when a forced approval has no reason.
	ErrBlankJustification = errors.New("resolution: justification is required")
	// ErrInvalidTransition is returned when the review is in the wrong state.
	ErrInvalidTransition = errors.New("resolution: invalid state transition")
	// ErrUnknownConflict is returned when a key matches no current record.
	ErrUnknownConflict = errors.New("resolution: conflict not found")
	// ErrUnsupportedAction is returned for actions a record does not offer.
	ErrUnsupportedAction = errors.New("resolution: action not available for this conflict")
)

// State is the lifecycle position of one conflict.
type State string

const (
	StateDetected           State = "detected"
	StateUnderReview        State = "under_review"
	StateResolvedExternally State = "resolved_externally"
	StateOverrideAccepted   State = "override_accepted"
)

// Terminal reports whether no operator action can move the state further.
func (s State) Terminal() bool {
	return s == StateResolvedExternally || s == StateOverrideAccepted
}

// Review is the tracked state of a conflict.
type Review struct {
	Key       string            `json:"conflict_key"`
	RoomID    string            `json:"room_id"`
	Severity  conflict.Severity `json:"severity"`
	State     State             `json:"state"`
	Reviewer  string            `json:"reviewer,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Detected is the implicit review of a record nobody has touched yet.
func Detected(rec conflict.Record, now time.Time) Review {
	return Review{
		Key:       rec.Key(),
		RoomID:    rec.RoomID,
		Severity:  rec.Severity,
		State:     StateDetected,
		UpdatedAt: now,
	}
}

// Begin marks the conflict as selected for inspection by actor.  Selecting a
// conflict that is already under review hands it to the new reviewer.
func (r *Review) Begin(actor string, now time.Time) error {
	switch r.State {
	case StateDetected, StateUnderReview:
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.State, StateUnderReview)
	}
	r.State = StateUnderReview
	r.Reviewer = actor
	r.UpdatedAt = now
	return nil
}

// ForceApprove records an accepted-risk override for rec.  A blank
// justification fails before anything changes.  The review must be under
// review.  The returned entry is the audit record the caller must persist;
// the overlap itself is left untouched.
func (r *Review) ForceApprove(rec conflict.Record, actor, justification string, now time.Time) (AuditEntry, error) {
	if strings.TrimSpace(justification) == "" {
		return AuditEntry{}, ErrBlankJustification
	}
	if r.State != StateUnderReview {
		return AuditEntry{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.State, StateOverrideAccepted)
	}
	if rec.Key() != r.Key {
		return AuditEntry{}, fmt.Errorf("%w: record %s does not match review %s", ErrInvalidTransition, rec.Key(), r.Key)
	}
	entry := newAuditEntry(rec, actor, justification, now)
	r.State = StateOverrideAccepted
	r.Severity = rec.Severity
	r.Reviewer = actor
	r.UpdatedAt = now
	return entry, nil
}

// Reconcile compares tracked reviews with the latest classifier output and
// returns the reviews whose state changed.  Reviews missing from current
// become resolved_externally, except overrides, which stay accepted.  A
// conflict that was resolved but shows up again starts over as detected.
func Reconcile(tracked []Review, current []conflict.Record, now time.Time) []Review {
	live := make(map[string]conflict.Record, len(current))
	for _, rec := range current {
		live[rec.Key()] = rec
	}

	changed := make([]Review, 0)
	for _, rv := range tracked {
		rec, present := live[rv.Key]
		switch {
		case !present && (rv.State == StateDetected || rv.State == StateUnderReview):
			rv.State = StateResolvedExternally
			rv.UpdatedAt = now
			changed = append(changed, rv)
		case present && rv.State == StateResolvedExternally:
			rv.State = StateDetected
			rv.Severity = rec.Severity
			rv.Reviewer = ""
			rv.UpdatedAt = now
			changed = append(changed, rv)
		case present && rv.Severity != rec.Severity && !rv.State.Terminal():
			rv.Severity = rec.Severity
			rv.UpdatedAt = now
			changed = append(changed, rv)
		}
	}
	return changed
}

// Entry joins a current record with its review state.
type Entry struct {
	Key    string          `json:"conflict_key"`
	Record conflict.Record `json:"record"`
	Review Review          `json:"review"`
}

// Join attaches the tracked review to every current record, defaulting to
// detected for records nobody has touched.
func Join(current []conflict.Record, tracked []Review, now time.Time) []Entry {
	byKey := make(map[string]Review, len(tracked))
	for _, rv := range tracked {
		byKey[rv.Key] = rv
	}
	out := make([]Entry, 0, len(current))
	for _, rec := range current {
		k := rec.Key()
		rv, ok := byKey[k]
		if !ok {
			rv = Detected(rec, now)
		}
		out = append(out, Entry{Key: k, Record: rec, Review: rv})
	}
	return out
}

// Find returns the current record with the given key.
func Find(current []conflict.Record, key string) (conflict.Record, error) {
	for _, rec := range current {
		if rec.Key() == key {
			return rec, nil
		}
	}
	return conflict.Record{}, fmt.Errorf("%w: %s", ErrUnknownConflict, key)
}
