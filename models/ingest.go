package models

// IngestSummary describes one refresh of the demand history file.
type IngestSummary struct {
	Bytes    int `json:"bytes"`
	Rows     int `json:"rows"`
	Readings int `json:"readings"`
	Skipped  int `json:"skipped"`
}
