package models

import (
	"errors"
	"strings"
	"time"
)

// Event represents an event in the catalog
type Event struct {
	ID          int       `json:"id" db:"id"`
	OrganizerID int       `json:"organizer_id" db:"organizer_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	State       string    `json:"state" db:"state"`
	City        string    `json:"city" db:"city"`
	Venue       string    `json:"venue" db:"venue"`
	StartsAt    time.Time `json:"starts_at" db:"starts_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// EventCreateRequest represents the data needed to create a new event
type EventCreateRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	State       string    `json:"state"`
	City        string    `json:"city"`
	Venue       string    `json:"venue"`
	StartsAt    time.Time `json:"starts_at"`
}

// Validate validates event creation data
func (req *EventCreateRequest) Validate() error {
	if err := validateEventTitle(req.Title); err != nil {
		return err
	}

	if err := validateEventDescription(req.Description); err != nil {
		return err
	}

	if err := validateEventLocation(req.State, req.City); err != nil {
		return err
	}

	if req.StartsAt.IsZero() {
		return errors.New("event start date is required")
	}

	return nil
}

// validateEventTitle validates an event title
func validateEventTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("event title is required")
	}

	if len(title) > 255 {
		return errors.New("event title must be less than 255 characters")
	}

	return nil
}

// validateEventDescription validates an event description
func validateEventDescription(description string) error {
	// Description is optional, but if provided, it should not be too long
	if len(description) > 5000 {
		return errors.New("event description must be less than 5000 characters")
	}

	return nil
}

// validateEventLocation validates an event state/city pair
func validateEventLocation(state, city string) error {
	if state != "" && len(state) != 2 {
		return errors.New("state must be a two-letter abbreviation")
	}

	if len(city) > 100 {
		return errors.New("city must be less than 100 characters")
	}

	return nil
}

// HasStarted returns true if the event has already started
func (e *Event) HasStarted() bool {
	return time.Now().After(e.StartsAt)
}
