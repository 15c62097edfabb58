package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrTrackingNotFound is returned when the waybill is not known to the courier.
var ErrTrackingNotFound = errors.New("shipment not found")

// TrackingStatus represents the current global status of a shipment.
type TrackingStatus string

const (
	// TrackingStatusPending indicates the order has no server-issued waybill yet.
	TrackingStatusPending TrackingStatus = "PENDING"
	// TrackingStatusProcessing indicates the shipment is on its way.
	TrackingStatusProcessing TrackingStatus = "PROCESSING"
	// TrackingStatusCompleted indicates the shipment has been delivered.
	TrackingStatusCompleted TrackingStatus = "COMPLETED"
	// TrackingStatusReturn indicates the shipment is returning to the sender.
	TrackingStatusReturn TrackingStatus = "RETURN"
)

// TrackingHistory is the timeline of a shipment.
type TrackingHistory struct {
	Waybill string `json:"waybill"`
	// GlobalStatus is derived from the most recent event.
	GlobalStatus TrackingStatus `json:"global_status"`
	// Events are kept in the order the courier reports them.
	Events []TrackingEvent `json:"events"`
}

// TrackingEvent represents a single event in the shipment's tracking history.
type TrackingEvent struct {
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	// Date is kept as reported; couriers do not agree on a format.
	Date     string `json:"date"`
	Location string `json:"location,omitempty"`
}

var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate tries the known layouts.
func (e TrackingEvent) ParseDate() (time.Time, bool) {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(e.Date)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NewTrackingHistory builds the timeline and derives its global status.
func NewTrackingHistory(waybill string, events []TrackingEvent) *TrackingHistory {
	if events == nil {
		events = []TrackingEvent{}
	}
	return &TrackingHistory{
		Waybill:      waybill,
		GlobalStatus: deriveStatus(events),
		Events:       events,
	}
}

// Latest returns the event with the most recent date, or the first event when no date parses.
func Latest(events []TrackingEvent) (TrackingEvent, bool) {
	if len(events) == 0 {
		return TrackingEvent{}, false
	}

	latest := events[0]
	var latestAt time.Time
	found := false
	for _, e := range events {
		at, ok := e.ParseDate()
		if ok && (!found || at.After(latestAt)) {
			latest, latestAt, found = e, at, true
		}
	}
	return latest, true
}

var (
	deliveredMarkers = []string{"delivered", "doręczon", "dostarczon"}
	returnMarkers    = []string{"return", "zwrot"}
)

func deriveStatus(events []TrackingEvent) TrackingStatus {
	latest, ok := Latest(events)
	if !ok {
		return TrackingStatusProcessing
	}

	text := strings.ToLower(latest.Status + " " + latest.Description)
	for _, m := range returnMarkers {
		if strings.Contains(text, m) {
			return TrackingStatusReturn
		}
	}
	for _, m := range deliveredMarkers {
		if strings.Contains(text, m) {
			return TrackingStatusCompleted
		}
	}
	return TrackingStatusProcessing
}

// PendingHistory is the local timeline of a placeholder waybill.
func PendingHistory(waybill string, createdAt time.Time) *TrackingHistory {
	return &TrackingHistory{
		Waybill:      waybill,
		GlobalStatus: TrackingStatusPending,
		Events: []TrackingEvent{{
			Status:      "Order accepted",
			Description: "The courier has not issued a waybill yet.",
			Date:        createdAt.UTC().Format("2006-01-02 15:04"),
		}},
	}
}
