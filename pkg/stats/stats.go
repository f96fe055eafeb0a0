package stats

import "github.com/lineboard/lineboard/pkg/shift"

// DailySummaryRow is one day of the headline availability/TRS view. It is
// derived on every read and never persisted.
//
// Invariants: TotalWorkSeconds + TotalDowntimeSeconds == AvailableSeconds,
// and TrsPercentage is within [0, 100].
type DailySummaryRow struct {
	Day                  string // YYYY-MM-DD attribution day
	Shift                shift.Shift
	StopsCount           int
	TotalDowntimeSeconds int
	TrsDowntimeSeconds   int
	TotalWorkSeconds     int
	AvailableSeconds     int
	TrsPercentage        float64
}
