// Package allocation holds the percentage-share rules: the shares of all
// participants must sum to at most 100.
//
// Every check works on a snapshot of the current participants and has no
// side effects. Callers are responsible for making the read of the snapshot
// and the following write atomic.
package allocation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmynk/allotment/internal/models"
)

// Capacity is the total percentage that can be handed out.
const Capacity = 100.0

var (
	// ErrDuplicate is returned when a participant with the same first and
	// last name (case-insensitive) already exists.
	ErrDuplicate = errors.New("A participant with the same first name and last name already exists.")

	// ErrNotFound is returned when the participant being updated is not in the snapshot.
	ErrNotFound = errors.New("Participant not found")
)

// Target names who an over-allocation error was raised for.
type Target string

const (
	TargetNew     Target = "new"
	TargetUpdated Target = "updated"
)

// OverAllocationError reports that a proposed share would push the total past
// Capacity. Max is the largest share that would have been accepted.
type OverAllocationError struct {
	Max    float64
	Target Target
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf(
		"Total participation cannot exceed 100%%. Maximum allowed participation for %s participant is %s%%.",
		e.Target, FormatPercentage(e.Max),
	)
}

// FormatPercentage renders p with the fewest digits that round-trip.
func FormatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// Total sums the shares of all participants.
func Total(participants []models.Participant) float64 {
	var total float64
	for _, p := range participants {
		total += p.Percentage
	}
	return total
}

// TotalExcluding sums the shares of every participant except id.
func TotalExcluding(participants []models.Participant, id int64) float64 {
	var total float64
	for _, p := range participants {
		if p.ID != id {
			total += p.Percentage
		}
	}
	return total
}

// Remaining is the unallocated quota, floored at zero so a stored total over
// Capacity never shows as negative.
func Remaining(participants []models.Participant) float64 {
	remaining := Capacity - Total(participants)
	if remaining > 0 {
		return remaining
	}
	return 0
}

// FindDuplicate returns the participant whose first and last name both match
// case-insensitively. Names are compared as given, without trimming.
func FindDuplicate(participants []models.Participant, firstName, lastName string) (models.Participant, bool) {
	for _, p := range participants {
		if strings.EqualFold(p.FirstName, firstName) && strings.EqualFold(p.LastName, lastName) {
			return p, true
		}
	}
	return models.Participant{}, false
}

// CheckAdd validates adding a new participant to the snapshot.
// Duplicates are reported before over-allocation.
func CheckAdd(participants []models.Participant, firstName, lastName string, percentage float64) error {
	if _, dup := FindDuplicate(participants, firstName, lastName); dup {
		return ErrDuplicate
	}

	total := Total(participants)
	if total+percentage > Capacity {
		return &OverAllocationError{Max: Capacity - total, Target: TargetNew}
	}
	return nil
}

// CheckUpdate validates changing the share of participant id. The participant's
// current share does not count against its new one.
func CheckUpdate(participants []models.Participant, id int64, percentage float64) error {
	found := false
	for _, p := range participants {
		if p.ID == id {
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}

	maxAllowed := Capacity - TotalExcluding(participants, id)
	if percentage > maxAllowed {
		return &OverAllocationError{Max: maxAllowed, Target: TargetUpdated}
	}
	return nil
}
