package cause

import "errors"

var (
	ErrCauseNotFound  = errors.New("cause not found")
	ErrCauseNameTaken = errors.New("cause name already exists")
	ErrInvalidCause   = errors.New("invalid cause")
)

// Cause categorizes machine stops. AffectsTrs controls whether downtime
// attributed to this cause counts against the TRS efficiency percentage.
// Causes are never deleted, only soft-disabled via IsActive, so historical
// stop associations stay intact.
type Cause struct {
	ID          int
	Name        string
	Description string
	AffectsTrs  bool
	IsActive    bool
}

// ListFilter narrows List queries. Nil boolean filters mean "any".
type ListFilter struct {
	Search     string
	IsActive   *bool
	AffectsTrs *bool
	Page       int
	Limit      int
}

// StatsRow is one row of the per-cause downtime aggregate. Causes with no
// matching stops in range are included with zero totals.
type StatsRow struct {
	CauseID              int
	Name                 string
	AffectsTrs           bool
	TotalDurationSeconds int
	StopCount            int
}

// Update carries partial changes for an existing cause; nil fields are left
// untouched.
type Update struct {
	Name        *string
	Description *string
	AffectsTrs  *bool
	IsActive    *bool
}
