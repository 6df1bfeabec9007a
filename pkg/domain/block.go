package domain

// BlockType constants classify what a day of the trip is spent on.
const (
	// BlockArrival is the first day of the trip (always day 1).
	BlockArrival = "arrival"
	// BlockLogistics is the technical day consumed by settling into a new zone.
	BlockLogistics = "logistics"
	// BlockTransfer is the technical day consumed by moving between two
	// genuinely visited zones (the previous one was not transit-only).
	BlockTransfer = "transfer"
	// BlockExperience is a day with a bookable activity.
	BlockExperience = "experience"
	// BlockFree is a day deliberately left unplanned.
	BlockFree = "free"
	// BlockDeparture is never stored in a block list. It is synthesized at
	// presentation time as day == TotalDays.
	BlockDeparture = "departure"
)

// Experience is the activity payload a block may carry. Logistics, transfer
// and arrival blocks carry a synthetic experience too, so every day has a
// human-readable description even when nothing is bookable.
type Experience struct {
	Code        string  `json:"code" yaml:"code"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Price       float64 `json:"price,omitempty" yaml:"price,omitempty"`
	Duration    string  `json:"duration,omitempty" yaml:"duration,omitempty"`
	Difficulty  string  `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`

	// FreeDay marks the synthetic "free day" experience.
	FreeDay bool `json:"free_day,omitempty" yaml:"free_day,omitempty"`
}

// Block represents one calendar day of the trip.
//
// Day numbers are unique and contiguous starting at 1 once any block exists.
// The first block created for a trip is always an arrival on day 1.
type Block struct {
	Day  int    `json:"day"`
	Type string `json:"type"`

	// Zone the day takes place in. Empty only before the first zone is chosen.
	ZoneCode string `json:"zone_code,omitempty"`
	ZoneName string `json:"zone_name,omitempty"`

	Experience *Experience `json:"experience,omitempty"`

	// PackageName records which source package generated the block, if any.
	PackageName string `json:"package_name,omitempty"`
}

// Zone is one selected zone of the trip. Insertion order is visiting order.
type Zone struct {
	Code            string `json:"code" yaml:"code"`
	Name            string `json:"name" yaml:"name"`
	DaysRecommended int    `json:"days_recommended,omitempty" yaml:"days_recommended,omitempty"`

	// Transit marks a waypoint that consumes no allocatable days and must
	// not own an experience block.
	Transit bool `json:"transit,omitempty" yaml:"transit,omitempty"`

	// Stage is the progressive-unlock gate: the zone is offered once the
	// session's availability counter reaches it. Zero means always offered.
	Stage int `json:"stage,omitempty" yaml:"stage,omitempty"`

	// Order is 1-based and dense (no gaps) after any removal.
	Order int `json:"order"`
}

// HotelExtra is a per-night optional add-on for a hotel selection.
type HotelExtra struct {
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
}

// HotelSelection is the lodging pick for one zone. At most one per zone key.
type HotelSelection struct {
	ZoneKey string       `json:"zone_key"`
	Tier    string       `json:"tier"`
	Nights  int          `json:"nights"`
	Extras  []HotelExtra `json:"extras,omitempty"`
	Note    string       `json:"note,omitempty"`
}

// CostBreakdown is the derived cost view of a trip, recomputed on demand.
type CostBreakdown struct {
	Experiences float64 `json:"experiences"`
	Hotels      float64 `json:"hotels"`
	HotelExtras float64 `json:"hotel_extras"`
	Accessories float64 `json:"accessories"`
	Total       float64 `json:"total"`
}
