package model

// Verdict classifies one position of an arrangement.
type Verdict string

const (
	Match    Verdict = "match"
	Mismatch Verdict = "mismatch"
)

// Marker is the per-card feedback indicator shown after a check.
type Marker string

const (
	MarkerNone     Marker = ""
	MarkerMatch    Marker = "match"
	MarkerMismatch Marker = "mismatch"
)

// MarkerFor maps a verdict to the indicator presented for it.
func MarkerFor(v Verdict) Marker {
	if v == Match {
		return MarkerMatch
	}
	return MarkerMismatch
}
