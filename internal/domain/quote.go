package domain

// VehicleOption is one priced choice in a quote.
type VehicleOption struct {
	VehicleID     string
	Name          string
	RatePerMinute float64
	EstimatedCost float64
}

// Quote is a non-committing route and price computation.
// It contains no side effects and may go stale once the fleet or edges change.
type Quote struct {
	Source        Location
	Destination   Location
	Path          []Location
	TotalDuration int
	Options       []VehicleOption
}
