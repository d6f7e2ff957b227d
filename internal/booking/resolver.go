// Package booking turns extracted appointment candidates and model
// completion sentinels into booking decisions: either a concrete confirmed
// appointment or the specific piece of information still missing.
package booking

import (
	"fmt"
	"time"

	"github.com/ninjas3242/truck-bot/internal/appointment"
)

// Status is the outcome of resolving one message against session memory.
type Status string

const (
	// StatusComplete means the booking has an email and a schedule.
	StatusComplete Status = "complete"
	// StatusNeedsEmail means a schedule was given but no contact email is
	// known, from this message or from session memory.
	StatusNeedsEmail Status = "needs_email"
	// StatusNeedsDateTime means an email is known but no date or time was
	// given.
	StatusNeedsDateTime Status = "needs_datetime"
	// StatusDeferred means the message carried neither signal; the
	// conversation continues without booking state changes.
	StatusDeferred Status = "deferred"
)

// DefaultTruckType is used when neither the message nor session memory
// names a truck type.
const DefaultTruckType = "general consultation"

// Remembered is the booking-relevant slice of session memory.
type Remembered struct {
	Email     string
	TruckType string
}

// Resolution is the decision for one message.
type Resolution struct {
	Status    Status
	TruckType string
	Email     string
	// Start is the confirmed appointment instant. Only set when Status is
	// StatusComplete.
	Start time.Time
	// DateTimeText is the human wording of the schedule, kept for
	// confirmation copy.
	DateTimeText string
}

// Resolver applies booking policy. The default hour fills in bookings whose
// schedule named a day but no clock time.
type Resolver struct {
	defaultHour int
}

func NewResolver(defaultHour int) *Resolver {
	if defaultHour < 0 || defaultHour > 23 {
		panic(fmt.Sprintf("booking: default hour %d out of range", defaultHour))
	}
	return &Resolver{defaultHour: defaultHour}
}

// Resolve merges the current message's candidate with session memory and an
// optional model sentinel. A sentinel always wins over local extraction: the
// model has seen the whole conversation, the extractor only this message.
func (r *Resolver) Resolve(now time.Time, cand appointment.Candidate, mem Remembered, sentinel *Completion) (Resolution, error) {
	email := cand.Email
	if email == "" {
		email = mem.Email
	}
	truckType := cand.TruckType
	if truckType == "" {
		truckType = mem.TruckType
	}
	if truckType == "" {
		truckType = DefaultTruckType
	}

	if sentinel != nil {
		return r.resolveFromSentinel(now, *sentinel, email, truckType)
	}

	switch {
	case email != "" && cand.HasSchedule():
		start, err := cand.StartInstant(now, r.defaultHour)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{
			Status:       StatusComplete,
			TruckType:    truckType,
			Email:        email,
			Start:        start,
			DateTimeText: cand.DatePhrase,
		}, nil

	case cand.HasSchedule():
		return Resolution{Status: StatusNeedsEmail, TruckType: truckType, DateTimeText: cand.DatePhrase}, nil

	case email != "":
		return Resolution{Status: StatusNeedsDateTime, TruckType: truckType, Email: email}, nil

	default:
		return Resolution{Status: StatusDeferred, TruckType: truckType}, nil
	}
}

// resolveFromSentinel completes a booking from the model's own summary. The
// date/time text is re-extracted to pin a concrete instant; if that fails
// the booking still completes with the text alone.
func (r *Resolver) resolveFromSentinel(now time.Time, s Completion, fallbackEmail, fallbackType string) (Resolution, error) {
	email := s.Email
	if email == "" {
		email = fallbackEmail
	}
	truckType := s.TruckType
	if truckType == "" {
		truckType = fallbackType
	}

	res := Resolution{
		Status:       StatusComplete,
		TruckType:    truckType,
		Email:        email,
		DateTimeText: s.DateTimeText,
	}

	cand, err := appointment.Extract(s.DateTimeText, now)
	if err != nil {
		return Resolution{}, err
	}
	if cand.HasSchedule() {
		start, err := cand.StartInstant(now, r.defaultHour)
		if err != nil {
			return Resolution{}, err
		}
		res.Start = start
	}
	return res, nil
}
