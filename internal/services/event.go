package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/models"
	"ingresso-platform/internal/repositories"
)

// EventRepository covers event catalog data operations
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	Search(ctx context.Context, filters repositories.EventSearchFilters) ([]*models.Event, error)
	ListByOrganizer(ctx context.Context, organizerID int) ([]*models.Event, error)
}

// EventTicketTypeRepository covers ticket type catalog operations
type EventTicketTypeRepository interface {
	Create(ctx context.Context, tt *models.TicketType) error
	ListByEvent(ctx context.Context, eventID int) ([]*models.TicketType, error)
}

// EventService handles the event catalog
type EventService struct {
	eventRepo      EventRepository
	ticketTypeRepo EventTicketTypeRepository
	logger         *logrus.Logger
}

// NewEventService creates a new event service
func NewEventService(eventRepo EventRepository, ticketTypeRepo EventTicketTypeRepository, logger *logrus.Logger) *EventService {
	if logger == nil {
		logger = logrus.New()
	}
	return &EventService{
		eventRepo:      eventRepo,
		ticketTypeRepo: ticketTypeRepo,
		logger:         logger,
	}
}

// EventWithTicketTypes is an event plus its purchasable ticket types
type EventWithTicketTypes struct {
	*models.Event
	TicketTypes []*models.TicketType `json:"ticket_types"`
}

// CreateEvent creates an event owned by the given organizer
func (s *EventService) CreateEvent(ctx context.Context, organizerID int, req *models.EventCreateRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRequest, err)
	}

	event := &models.Event{
		OrganizerID: organizerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		State:       strings.ToUpper(req.State),
		City:        req.City,
		Venue:       req.Venue,
		StartsAt:    req.StartsAt,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"event_id":     event.ID,
		"organizer_id": organizerID,
	}).Info("Event created")

	return event, nil
}

// SearchEvents lists events matching the public catalog filters
func (s *EventService) SearchEvents(ctx context.Context, filters repositories.EventSearchFilters) ([]*models.Event, error) {
	return s.eventRepo.Search(ctx, filters)
}

// GetEvent retrieves an event with its ticket types
func (s *EventService) GetEvent(ctx context.Context, id int) (*EventWithTicketTypes, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ticketTypes, err := s.ticketTypeRepo.ListByEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	return &EventWithTicketTypes{Event: event, TicketTypes: ticketTypes}, nil
}

// ListOrganizerEvents lists the events owned by an organizer
func (s *EventService) ListOrganizerEvents(ctx context.Context, organizerID int) ([]*models.Event, error) {
	return s.eventRepo.ListByOrganizer(ctx, organizerID)
}

// CreateTicketType adds a ticket type to an event the organizer owns
func (s *EventService) CreateTicketType(ctx context.Context, organizerID int, req *models.TicketTypeCreateRequest) (*models.TicketType, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRequest, err)
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, models.ErrForbidden
	}

	tt := &models.TicketType{
		EventID:          req.EventID,
		Name:             req.Name,
		PriceCents:       req.PriceCents,
		Available:        req.Quantity,
		PerIdentityLimit: req.PerIdentityLimit,
	}

	if err := s.ticketTypeRepo.Create(ctx, tt); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_type_id": tt.ID,
		"event_id":       tt.EventID,
		"available":      tt.Available,
	}).Info("Ticket type created")

	return tt, nil
}
