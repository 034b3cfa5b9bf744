package service

import (
	"time"

	"github.com/sangkips/salon-api/pkg/apperror"
)

const dateLayout = "2006-01-02"

// Period is an inclusive reporting window. Nil bounds are open.
type Period struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// NewPeriod builds a period from whole dates. The end date covers its full day.
func NewPeriod(start, end *time.Time) (Period, error) {
	p := Period{Start: start}
	if end != nil {
		e := end.Add(24*time.Hour - time.Nanosecond)
		p.End = &e
	}
	if p.Start != nil && p.End != nil && p.Start.After(*p.End) {
		return Period{}, apperror.NewBadRequestError("start_date must not be after end_date")
	}
	return p, nil
}

// Key identifies the period in cache keys and export file names
func (p Period) Key() string {
	if p.Start == nil && p.End == nil {
		return "all"
	}
	from, to := "all", "all"
	if p.Start != nil {
		from = p.Start.Format(dateLayout)
	}
	if p.End != nil {
		to = p.End.Format(dateLayout)
	}
	return from + "_" + to
}
