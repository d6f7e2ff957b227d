package booking

import (
	"errors"
	"strings"
)

// CompletionMarker is the machine-readable prefix the model emits when a
// conversation has gathered everything needed to book.
const CompletionMarker = "BOOKING_COMPLETE:"

// ErrMalformedSentinel is returned when a completion marker is present but
// its payload does not carry all three segments.
var ErrMalformedSentinel = errors.New("booking: malformed completion sentinel")

// Completion is the parsed payload of a completion sentinel:
// "BOOKING_COMPLETE: <truck type>|<date/time text>|<email>".
type Completion struct {
	TruckType    string
	DateTimeText string
	Email        string
}

// ParseCompletionSentinel scans model output for a completion marker. The
// second return is false when no marker is present at all; a present but
// underfilled marker is an error, never a silent partial booking.
func ParseCompletionSentinel(text string) (Completion, bool, error) {
	idx := strings.Index(text, CompletionMarker)
	if idx < 0 {
		return Completion{}, false, nil
	}

	payload := text[idx+len(CompletionMarker):]
	if nl := strings.IndexByte(payload, '\n'); nl >= 0 {
		payload = payload[:nl]
	}

	parts := strings.Split(payload, "|")
	if len(parts) < 3 {
		return Completion{}, true, ErrMalformedSentinel
	}

	c := Completion{
		TruckType:    strings.TrimSpace(parts[0]),
		DateTimeText: strings.TrimSpace(parts[1]),
		Email:        strings.TrimSpace(parts[2]),
	}
	if c.Email == "" || c.DateTimeText == "" {
		return Completion{}, true, ErrMalformedSentinel
	}
	return c, true, nil
}

// StripSentinel removes the sentinel line from model output so the marker
// never reaches the user.
func StripSentinel(text string) string {
	idx := strings.Index(text, CompletionMarker)
	if idx < 0 {
		return text
	}

	end := idx
	if nl := strings.IndexByte(text[idx:], '\n'); nl >= 0 {
		end = idx + nl + 1
	} else {
		end = len(text)
	}
	return strings.TrimSpace(text[:idx] + text[end:])
}
