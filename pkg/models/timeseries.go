package models

import "time"

// GrowthPoint is one row of the account growth history.
// Rows are kept in file order, newest first.
type GrowthPoint struct {
	Date        time.Time `json:"date"`
	Followers   float64   `json:"followers"`
	Impressions float64   `json:"impressions"`
	Reach       float64   `json:"reach"`
}

// SeriesPoint is a dated follower count, used for both the to-date series
// and the forecast segment.
type SeriesPoint struct {
	Date      time.Time `json:"date"`
	Followers float64   `json:"followers"`
}
