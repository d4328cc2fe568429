package loader

import (
	"fmt"
	"time"
)

// Status summarizes one release of a group.
type Status struct {
	GroupID  string
	Key      string
	Trigger  Trigger
	Records  int
	Rows     int64
	Duration time.Duration
}

func (s Status) String() string {
	return fmt.Sprintf(
		"Group: %s, Key: %s, Trigger: %s, Records: %d, Rows: %d, Took: %s",
		s.GroupID,
		s.Key,
		s.Trigger,
		s.Records,
		s.Rows,
		s.Duration,
	)
}
