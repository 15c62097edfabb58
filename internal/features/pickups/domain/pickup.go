package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"parcel-portal/internal/core/apperror"
)

// DateTimeLayout is the format of the pickup window bounds sent upstream.
const DateTimeLayout = "2006-01-02 15:04"

// DefaultFailureMessage is reported when the API rejects a pickup without a message.
const DefaultFailureMessage = "pickup request failed"

var (
	// ErrPickupAlreadyConfirmed is returned when a confirmed pickup is submitted again.
	ErrPickupAlreadyConfirmed = errors.New("pickup already confirmed")
	// ErrInvalidTransition is returned for any state change the machine does not allow.
	ErrInvalidTransition = errors.New("invalid pickup state transition")
)

// Status is the pickup request state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// CanTransition reports whether the machine allows moving from one status to the next.
// success is terminal; error may be retried.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusIdle, StatusError:
		return to == StatusLoading || to == StatusError
	case StatusLoading:
		return to == StatusSuccess || to == StatusError
	default:
		return false
	}
}

// WindowForm is the pickup form: a date and a time range on that day.
type WindowForm struct {
	Waybill  string `json:"waybill"`
	Date     string `json:"date"`
	TimeFrom string `json:"timeFrom"`
	TimeTo   string `json:"timeTo"`
}

// Window is a validated pickup window.
type Window struct {
	Waybill string
	From    time.Time
	To      time.Time
}

// FromParam formats the lower bound for the API.
func (w Window) FromParam() string {
	return w.From.Format(DateTimeLayout)
}

// ToParam formats the upper bound for the API.
func (w Window) ToParam() string {
	return w.To.Format(DateTimeLayout)
}

// Parse checks the waybill and parses both bounds. Ordering of the bounds is
// checked separately by Validate.
func (f WindowForm) Parse() (Window, error) {
	wb := strings.TrimSpace(f.Waybill)
	if wb == "" {
		return Window{}, apperror.NewValidationError("a waybill is required to order a pickup",
			apperror.Field("waybill", "required"))
	}

	from, err := time.Parse(DateTimeLayout, f.Date+" "+f.TimeFrom)
	if err != nil {
		return Window{}, apperror.NewValidationError("invalid pickup window",
			apperror.Field("timeFrom", "expected YYYY-MM-DD HH:mm"))
	}
	to, err := time.Parse(DateTimeLayout, f.Date+" "+f.TimeTo)
	if err != nil {
		return Window{}, apperror.NewValidationError("invalid pickup window",
			apperror.Field("timeTo", "expected YYYY-MM-DD HH:mm"))
	}

	return Window{Waybill: wb, From: from, To: to}, nil
}

// Validate rejects windows whose end is not after their start.
func (w Window) Validate() error {
	if !w.To.After(w.From) {
		return apperror.NewValidationError("the end of the window must be later than its start",
			apperror.Field("timeTo", "must be later than timeFrom"))
	}
	return nil
}

// Confirmation is the API answer to an accepted pickup.
type Confirmation struct {
	ID       string   `json:"id"`
	Courier  string   `json:"courier"`
	Price    *float64 `json:"price,omitempty"`
	DateFrom string   `json:"pickupDateFrom"`
	DateTo   string   `json:"pickupDateTo"`
}

// PickupState is the stored state of the pickup request for one waybill.
type PickupState struct {
	Waybill      string        `json:"waybill"`
	Status       Status        `json:"status"`
	From         string        `json:"from,omitempty"`
	To           string        `json:"to,omitempty"`
	Simulated    bool          `json:"simulated"`
	Error        string        `json:"error,omitempty"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Idle returns the initial state for a waybill.
func Idle(waybill string) *PickupState {
	return &PickupState{Waybill: waybill, Status: StatusIdle}
}

// MoveTo changes the status if the machine allows it.
func (s *PickupState) MoveTo(next Status, now time.Time) error {
	if !CanTransition(s.Status, next) {
		if s.Status == StatusSuccess {
			return ErrPickupAlreadyConfirmed
		}
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, s.Status, next)
	}
	s.Status = next
	s.UpdatedAt = now
	if next != StatusError {
		s.Error = ""
	}
	return nil
}

// Slot is the courier working window for one day.
type Slot struct {
	Service  string `json:"service"`
	TimeFrom string `json:"timefrom"`
	TimeTo   string `json:"timeto"`
	// Interval is the minimum window length in hours.
	Interval int `json:"interval"`
}

// DayAvailability is one bookable day.
type DayAvailability struct {
	Date string `json:"date"`
	Slot
	// EarliestEnd is the earliest valid window end, e.g. "11:00".
	EarliestEnd string `json:"earliestEnd,omitempty"`
}

// SortAvailability flattens the per-date map into a list ordered by date.
func SortAvailability(slots map[string]Slot) []DayAvailability {
	dates := make([]string, 0, len(slots))
	for d := range slots {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	days := make([]DayAvailability, 0, len(dates))
	for _, d := range dates {
		slot := slots[d]
		days = append(days, DayAvailability{
			Date:        d,
			Slot:        slot,
			EarliestEnd: EarliestEnd(slot),
		})
	}
	return days
}

// EarliestEnd is the start hour plus the interval. It is empty when the start is unreadable.
func EarliestEnd(s Slot) string {
	hour, _, _ := strings.Cut(s.TimeFrom, ":")
	h, err := strconv.Atoi(strings.TrimSpace(hour))
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%02d:00", h+s.Interval)
}

// RejectedError is a pickup the API refused. Message is safe to show.
type RejectedError struct {
	Message string
	Err     error
}

func (e *RejectedError) Error() string {
	return "pickup rejected: " + e.Message
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}
