package models

import "time"

// Session document statuses.
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// AttendanceSession is one calendar day's attendance window, keyed by its
// date string (YYYY-MM-DD). The same shape is mirrored into the singleton
// "current" pointer document for fast status lookup.
type AttendanceSession struct {
	Date      string    `bson:"date" json:"date"`
	Status    string    `bson:"status" json:"status"`
	EndTime   time.Time `bson:"endTime" json:"endTime"`
	Students  []string  `bson:"students" json:"students"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Open reports whether the session is open and not yet past its end time.
func (s AttendanceSession) Open(now time.Time) bool {
	return s.Status == SessionOpen && now.Before(s.EndTime)
}

// Expired reports whether the session still claims to be open but its end
// time has passed. Readers treat this as implicitly closed.
func (s AttendanceSession) Expired(now time.Time) bool {
	return s.Status == SessionOpen && !now.Before(s.EndTime)
}
