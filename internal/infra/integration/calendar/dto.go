package calendar

import "time"

type BusySlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AvailabilityResponse struct {
	Connected bool       `json:"connected"`
	Busy      []BusySlot `json:"busy"`
}
