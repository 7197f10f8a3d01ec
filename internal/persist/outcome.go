package persist

import "fmt"

// Reason explains why a value started from its default.
type Reason int

const (
	// ReasonAbsent - nothing was stored under the key.
	ReasonAbsent Reason = iota
	// ReasonCorrupt - the stored text could not be decoded and was deleted.
	ReasonCorrupt
	// ReasonUnavailable - the storage read itself failed.
	ReasonUnavailable
)

func (that Reason) String() string {
	switch that {
	case ReasonAbsent:
		return "absent"
	case ReasonCorrupt:
		return "corrupt"
	case ReasonUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("reason(%d)", int(that))
	}
}

// Outcome is the result of the initial load: either Loaded, or FellBackToDefault with a reason.
type Outcome struct {
	loaded bool
	reason Reason
	err    error
}

func Loaded() Outcome {
	return Outcome{loaded: true}
}

func FellBackToDefault(reason Reason, err error) Outcome {
	return Outcome{reason: reason, err: err}
}

func (that Outcome) IsLoaded() bool {
	return that.loaded
}

// Reason is only set when the value fell back to its default.
func (that Outcome) Reason() (Reason, bool) {
	if that.loaded {
		return 0, false
	}
	return that.reason, true
}

// Err is the decode or storage error behind a fallback, nil otherwise.
func (that Outcome) Err() error {
	return that.err
}

func (that Outcome) String() string {
	if that.loaded {
		return "loaded"
	}
	return "fell back to default: " + that.reason.String()
}
