package lookup

// TypeEntry is one portfolio type: a stable key plus its display metadata.
type TypeEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}
