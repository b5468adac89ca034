package service

import "time"

// MeasurementFilter bounds a history listing.
type MeasurementFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Limit int       // <= 0 means the repository default
}
