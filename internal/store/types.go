package store

// Run kinds.
const (
	KindToFlat    = "flat"
	KindToDecadal = "decadal"
	KindImport    = "import"
)

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run records one processed file.
type Run struct {
	ID      string `json:"id"`
	Seq     int64  `json:"seq"`
	Kind    string `json:"kind"`
	Input   string `json:"input"`
	Output  string `json:"output,omitempty"`
	Lines   int    `json:"lines"`
	Skipped int    `json:"skipped"`
	Records int    `json:"records"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// SeriesRecord is the stored summary of a series, without its widths.
type SeriesRecord struct {
	ID          string   `json:"id"`
	Seq         int64    `json:"seq"`
	CoreID      string   `json:"core_id"`
	StartYear   int      `json:"start_year"`
	Sentinel    int      `json:"sentinel"`
	Scale       string   `json:"scale"`
	Decades     []int    `json:"decades"`
	ExtendedIDs []string `json:"extended_ids"`
	RingCount   int      `json:"ring_count"`
}
