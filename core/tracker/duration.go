package tracker

import (
	"fmt"
	"time"
)

// Duration labels. An open session reads as PRESENT; a finish time before
// the start, or an unparsable stored timestamp, reads as Invalid duration.
// Bad historical rows degrade to the label instead of failing the listing.
const (
	DurationPresent = "PRESENT"
	DurationInvalid = "Invalid duration"
)

// DurationLabel computes the display duration for a session from its stored
// RFC3339 timestamps.
func DurationLabel(playedOn string, finishedOn *string) string {
	if finishedOn == nil {
		return DurationPresent
	}

	start, err := time.Parse(time.RFC3339, playedOn)
	if err != nil {
		return DurationInvalid
	}
	end, err := time.Parse(time.RFC3339, *finishedOn)
	if err != nil {
		return DurationInvalid
	}
	if end.Before(start) {
		return DurationInvalid
	}

	secs := int64(end.Sub(start) / time.Second)
	return fmt.Sprintf("%dhr, %dmin, %dsec", secs/3600, (secs%3600)/60, secs%60)
}
