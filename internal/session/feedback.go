package session

import "github.com/katrinawoods/rsc2/internal/model"

const (
	MessageSuccess = "Correct! Well done."
	MessageFailure = "Incorrect. Please try again."
)

// Feedback holds what is presented once an arrangement has been checked.
// The zero value is interactive mode with no markers.
type Feedback struct {
	active   bool
	markers  []model.Marker
	message  string
	allMatch bool
}

// Active reports whether feedback mode has been entered.
func (f *Feedback) Active() bool { return f.active }

// Apply enters feedback mode and presents r. Markers from an earlier
// application are replaced, never merged.
func (f *Feedback) Apply(r Result) {
	f.active = true
	f.markers = make([]model.Marker, len(r.Verdicts))
	for i, v := range r.Verdicts {
		f.markers[i] = model.MarkerFor(v)
	}
	f.allMatch = r.AllMatch
	if r.AllMatch {
		f.message = MessageSuccess
	} else {
		f.message = MessageFailure
	}
}

// Marker returns the indicator for a position.
func (f *Feedback) Marker(pos int) model.Marker {
	if pos < 0 || pos >= len(f.markers) {
		return model.MarkerNone
	}
	return f.markers[pos]
}

// Focusable reports whether cards still accept interaction.
func (f *Feedback) Focusable() bool { return !f.active }

// Message returns the aggregate outcome message, empty before a check.
func (f *Feedback) Message() string { return f.message }

// AllMatch reports the aggregate verdict of the last application.
func (f *Feedback) AllMatch() bool { return f.allMatch }
