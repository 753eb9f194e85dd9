package model

import "fmt"

// ClinicHours is the daily open/close bracket, in whole hours.
type ClinicHours struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

var DefaultClinicHours = ClinicHours{Start: 9, End: 18}

func NewClinicHours(start, end int) (ClinicHours, error) {
	h := ClinicHours{Start: start, End: end}
	if err := h.Validate(); err != nil {
		return ClinicHours{}, err
	}
	return h, nil
}

func (h ClinicHours) Validate() error {
	if h.Start < 0 || h.End > 24 || h.Start >= h.End {
		return fmt.Errorf("clinic hours must satisfy 0 <= start < end <= 24, got %d-%d", h.Start, h.End)
	}
	return nil
}

func (h ClinicHours) OpenMinute() int {
	return h.Start * 60
}

func (h ClinicHours) CloseMinute() int {
	return h.End * 60
}

func (h ClinicHours) String() string {
	return fmt.Sprintf("%d:00 - %d:00", h.Start, h.End)
}
