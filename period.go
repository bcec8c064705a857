package main

import (
	"fmt"
	"time"

	"github.com/rshep3087/stuffer/engine"
)

// Period is the current pay cycle: bills due inside it are the ones the
// reserve warning checks against.
type Period struct {
	start time.Time
	end   time.Time
}

// payCycle builds the period starting now and running one cycle of the
// configured pay frequency.
func payCycle(now time.Time, frequency string) Period {
	return Period{
		start: now,
		end:   now.Add(engine.CycleLength(frequency)),
	}
}

func (p *Period) String() string {
	if p.start.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s - %s", p.startDate(), p.endDate())
}

func (p *Period) startDate() string {
	return p.start.Format("2006-01-02")
}

func (p *Period) endDate() string {
	return p.end.Format("2006-01-02")
}

// End is the due-date cutoff for the upcoming-bills query.
func (p *Period) End() time.Time {
	return p.end
}
