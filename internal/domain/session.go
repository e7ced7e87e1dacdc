package domain

import "time"

// Canonical column names. The header of every formatted dataset file is
// exactly these four, in this order; downstream consumers key on the names.
const (
	ColEVID          = "EV_id_x"
	ColStartDatetime = "start_datetime"
	ColEndDatetime   = "end_datetime"
	ColTotalEnergy   = "total_energy"
)

// RequiredColumns is the canonical column set in output order.
var RequiredColumns = []string{ColEVID, ColStartDatetime, ColEndDatetime, ColTotalEnergy}

// DatetimeLayout is the canonical serialization of the two naive local
// timestamp columns.
const DatetimeLayout = "2006-01-02 15:04:05"

// Session is one canonical charging session record: a vehicle identifier,
// naive local start/end timestamps, and the energy delivered in kWh.
type Session struct {
	EVID        string    `json:"ev_id"`
	Start       time.Time `json:"start_datetime"`
	End         time.Time `json:"end_datetime"`
	TotalEnergy float64   `json:"total_energy"`
}

// Duration returns the session length. Callers relying on this assume the
// end >= start invariant holds in the source data.
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}
