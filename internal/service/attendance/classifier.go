package attendance

import (
	"time"

	"github.com/dailylog/dailylog-backend-go/internal/config"
	"github.com/dailylog/dailylog-backend-go/internal/domain/attendance"
)

// Result is the derived state of one attendance day. Durations are
// non-negative and zero whenever the rule chain ends before they apply.
type Result struct {
	Status    attendance.Status
	Total     time.Duration
	Overtime  time.Duration
	Undertime time.Duration
}

// Classifier derives status and worked hours for a day record from its
// time-in/time-out pair under the office-hours policy. It is pure: the
// same pair and policy always produce the same Result.
type Classifier struct {
	workday config.WorkdayConfig
}

func NewClassifier(workday config.WorkdayConfig) *Classifier {
	return &Classifier{workday: workday}
}

// Classify applies the rule chain in fixed order. Later rules overwrite
// the label chosen by earlier ones; the order must not be changed.
//
//  1. no time-in: ABSENT, all durations zero
//  2. time-in at or past the absence-late threshold: ABSENT
//  3. base label: ON_TIME within the grace window, LATE after it
//  4. no time-out yet: keep base label, durations zero
//  5. total = timeOut - timeIn
//  6. time-out past office end: OVERTIME replaces the base label
//  7. time-out before office end: UNDERTIME replaces the base label
//  8. time-out exactly at office end: base label stands
func (c *Classifier) Classify(day time.Time, timeIn, timeOut *time.Time) Result {
	if timeIn == nil {
		return Result{Status: attendance.StatusAbsent}
	}

	officeStart := c.workday.OfficeStartOn(day)
	officeEnd := c.workday.OfficeEndOn(day)

	// Second precision is noise for attendance purposes; the original
	// system compares wall-clock minutes.
	in := truncateToMinute(timeIn.In(c.workday.Location()))

	if in.Sub(officeStart) >= c.workday.AbsenceLateThreshold {
		return Result{Status: attendance.StatusAbsent}
	}

	status := attendance.StatusLate
	if !in.After(officeStart.Add(c.workday.OnTimeGrace)) {
		status = attendance.StatusOnTime
	}

	if timeOut == nil {
		return Result{Status: status}
	}

	out := truncateToMinute(timeOut.In(c.workday.Location()))

	res := Result{
		Status: status,
		Total:  clampDuration(out.Sub(in)),
	}

	switch {
	case out.After(officeEnd):
		res.Status = attendance.StatusOvertime
		res.Overtime = out.Sub(officeEnd)
	case out.Before(officeEnd):
		res.Status = attendance.StatusUndertime
		res.Undertime = officeEnd.Sub(out)
	}

	return res
}

func truncateToMinute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

func clampDuration(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
