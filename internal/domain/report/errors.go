package report

import "errors"

var (
	ErrNoRecordsInPeriod = errors.New("no attendance records in the requested period")
)
