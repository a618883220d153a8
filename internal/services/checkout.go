package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/models"
)

// CheckoutRepository covers the data operations the order placement
// transaction needs. Every method participates in the transaction opened by
// WithTx through the context it receives.
type CheckoutRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetTicketTypeForUpdate(ctx context.Context, id int) (*models.TicketType, error)
	SumPurchasedQuantity(ctx context.Context, taxID string, ticketTypeID int) (int, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItem(ctx context.Context, item *models.OrderItem) error
	DecrementAvailable(ctx context.Context, ticketTypeID, quantity int) error
}

// CheckoutUserRepository resolves the buyer placing the order
type CheckoutUserRepository interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// CheckoutService places orders. All inventory and limit decisions happen
// inside a single database transaction, so a committed order is fully
// consistent and a failed one leaves no trace.
type CheckoutService struct {
	repo     CheckoutRepository
	userRepo CheckoutUserRepository
	logger   *logrus.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(repo CheckoutRepository, userRepo CheckoutUserRepository, logger *logrus.Logger) *CheckoutService {
	if logger == nil {
		logger = logrus.New()
	}
	return &CheckoutService{
		repo:     repo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// PlaceOrder validates and commits a checkout for the given buyer.
//
// Items are processed in submission order; the first violation aborts the
// whole transaction and is reported with the offending ticket type. The
// order total is computed from catalog prices, never from the prices the
// client sent. Quantities for the same ticket type repeated across items
// accumulate against both availability and the per-identity limit.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID int, req *models.CheckoutRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRequest, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrUnknownIdentity
		}
		return nil, err
	}

	order := &models.Order{
		UserID:      user.ID,
		OrderNumber: models.GenerateOrderNumber(),
		Status:      models.OrderPending,
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		// Quantities already claimed earlier in this same request, keyed
		// by ticket type. SumPurchasedQuantity cannot see them because
		// nothing is inserted until every item has passed.
		requested := make(map[int]int)

		items := make([]models.OrderItem, 0, len(req.Items))
		var total int64

		for _, item := range req.Items {
			tt, err := s.repo.GetTicketTypeForUpdate(ctx, item.TicketTypeID)
			if err != nil {
				if errors.Is(err, models.ErrUnknownTicketType) {
					return &models.CheckoutError{TicketTypeID: item.TicketTypeID, Err: models.ErrUnknownTicketType}
				}
				return err
			}

			if tt.Available < requested[tt.ID]+item.Quantity {
				return &models.CheckoutError{TicketTypeID: tt.ID, Err: models.ErrInsufficientInventory}
			}

			if tt.HasPurchaseLimit() {
				purchased, err := s.repo.SumPurchasedQuantity(ctx, user.TaxID, tt.ID)
				if err != nil {
					return err
				}
				if purchased+requested[tt.ID]+item.Quantity > tt.PerIdentityLimit {
					return &models.CheckoutError{TicketTypeID: tt.ID, Err: models.ErrLimitExceeded}
				}
			}

			requested[tt.ID] += item.Quantity
			total += tt.PriceCents * int64(item.Quantity)
			items = append(items, models.OrderItem{
				TicketTypeID:   tt.ID,
				Quantity:       item.Quantity,
				UnitPriceCents: tt.PriceCents,
			})
		}

		order.TotalCents = total
		if err := s.repo.CreateOrder(ctx, order); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
			if err := s.repo.CreateOrderItem(ctx, &items[i]); err != nil {
				return err
			}
		}

		for ticketTypeID, quantity := range requested {
			if err := s.repo.DecrementAvailable(ctx, ticketTypeID, quantity); err != nil {
				return err
			}
		}

		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"user_id":      user.ID,
		"total_cents":  order.TotalCents,
		"items":        len(order.Items),
	}).Info("Order placed")

	return order, nil
}
