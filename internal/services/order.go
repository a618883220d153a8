package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/models"
	"ingresso-platform/internal/repositories"
)

// OrderRepository covers order retrieval and lifecycle operations
type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetByID(ctx context.Context, id int) (*models.Order, error)
	GetByIDForUpdate(ctx context.Context, id int) (*models.Order, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, orderID int, status models.OrderStatus) error
	ListSalesByOrganizer(ctx context.Context, organizerID int) ([]*repositories.OrganizerSale, error)
}

// OrderTicketTypeRepository restores inventory released by cancellations
type OrderTicketTypeRepository interface {
	IncrementAvailable(ctx context.Context, ticketTypeID, quantity int) error
}

// OrderService handles order retrieval and cancellation
type OrderService struct {
	orderRepo      OrderRepository
	ticketTypeRepo OrderTicketTypeRepository
	logger         *logrus.Logger
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo OrderRepository, ticketTypeRepo OrderTicketTypeRepository, logger *logrus.Logger) *OrderService {
	if logger == nil {
		logger = logrus.New()
	}
	return &OrderService{
		orderRepo:      orderRepo,
		ticketTypeRepo: ticketTypeRepo,
		logger:         logger,
	}
}

// GetOrder retrieves an order owned by the given user
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		// Report not-found rather than forbidden so order ids cannot be probed.
		return nil, models.ErrOrderNotFound
	}
	return order, nil
}

// ListUserOrders lists the user's orders, newest first
func (s *OrderService) ListUserOrders(ctx context.Context, userID int) ([]*models.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// CancelOrder cancels a pending order and returns its tickets to inventory.
// Status change and inventory restoration commit together or not at all.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID int) (*models.Order, error) {
	var cancelled *models.Order

	err := s.orderRepo.WithTx(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return models.ErrOrderNotFound
		}
		if !order.CanBeCancelled() {
			return fmt.Errorf("%w: only pending orders can be cancelled", models.ErrInvalidRequest)
		}

		if err := s.orderRepo.UpdateStatus(ctx, order.ID, models.OrderCancelled); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := s.ticketTypeRepo.IncrementAvailable(ctx, item.TicketTypeID, item.Quantity); err != nil {
				return err
			}
		}

		order.Status = models.OrderCancelled
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": cancelled.OrderNumber,
		"user_id":      userID,
	}).Info("Order cancelled")

	return cancelled, nil
}

// ListOrganizerSales lists sold line items across the organizer's events
func (s *OrderService) ListOrganizerSales(ctx context.Context, organizerID int) ([]*repositories.OrganizerSale, error) {
	return s.orderRepo.ListSalesByOrganizer(ctx, organizerID)
}
