// Package lifecycle is the status state machine shared by every command
// family. The bot treats any resource in a non-terminal status as
// actionable, so a transition into pending or running is itself a request
// for work; queue items only shorten the wait.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/dalemusser/guildhub/internal/domain/models"
)

// Event is something that happens to a resource.
type Event string

const (
	// Enqueue is the dashboard creating the resource.
	Enqueue Event = "enqueue"
	// Complete is the bot finishing the work successfully.
	Complete Event = "complete"
	// Fail is the bot giving up.
	Fail Event = "fail"
	// Reschedule is the bot arming a repeating message for its next run.
	Reschedule Event = "reschedule"
	// ReArm is the dashboard asking for the work to be done again.
	ReArm Event = "rearm"
)

var (
	// ErrInvalidTransition is returned when an event does not apply to the
	// current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrUnknownFamily is returned for a family without status rules.
	ErrUnknownFamily = errors.New("unknown command family")
)

// Rules are the per-family status choices.
type Rules struct {
	Initial    models.Status // status written on create
	Done       models.Status // status written by the bot on success
	Rearmed    models.Status // status written on re-arm
	Reschedule bool          // whether a completed item may be re-armed by the bot
}

var rules = map[models.Family]Rules{
	models.FamilyGiveaway:         {Initial: models.StatusRunning, Done: models.StatusEnded, Rearmed: models.StatusRunning},
	models.FamilyReactionRole:     {Initial: models.StatusPending, Done: models.StatusSent, Rearmed: models.StatusPending},
	models.FamilyScheduledMessage: {Initial: models.StatusPending, Done: models.StatusSent, Rearmed: models.StatusPending, Reschedule: true},
	// Subscriptions are polled for as long as they exist; there is no success state.
	models.FamilyYoutube: {Initial: models.StatusRunning, Rearmed: models.StatusRunning},
}

// For returns the rules for a family.
func For(f models.Family) (Rules, error) {
	r, ok := rules[f]
	if !ok {
		return Rules{}, fmt.Errorf("%w: %q", ErrUnknownFamily, f)
	}
	return r, nil
}

// Transition returns the status a resource of family f moves to when ev
// happens in status cur. Repeating an event that already took effect
// returns the same status without error, so consumers can apply outcomes
// more than once.
func Transition(f models.Family, cur models.Status, ev Event) (models.Status, error) {
	r, err := For(f)
	if err != nil {
		return cur, err
	}
	bad := func() (models.Status, error) {
		return cur, fmt.Errorf("%w: %s %s on %q", ErrInvalidTransition, f, ev, cur)
	}

	switch ev {
	case Enqueue:
		if cur != "" {
			return bad()
		}
		return r.Initial, nil

	case Complete:
		if r.Done == "" {
			return bad()
		}
		if cur == r.Done {
			return cur, nil
		}
		if cur.Terminal() || !cur.Valid() {
			return bad()
		}
		return r.Done, nil

	case Fail:
		if cur == models.StatusError {
			return cur, nil
		}
		if cur.Terminal() || !cur.Valid() {
			return bad()
		}
		return models.StatusError, nil

	case Reschedule:
		if !r.Reschedule {
			return bad()
		}
		switch cur {
		case r.Done, r.Rearmed:
			return r.Rearmed, nil
		}
		return bad()

	case ReArm:
		if !cur.Valid() {
			return bad()
		}
		if !cur.Terminal() {
			return cur, nil
		}
		return r.Rearmed, nil
	}
	return bad()
}

// Actionable reports whether the bot should pick up a resource in status s.
func Actionable(s models.Status) bool {
	return s.Valid() && !s.Terminal()
}
