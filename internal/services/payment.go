package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/models"
)

// PaymentOrderRepository covers the order operations payment needs
type PaymentOrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetByID(ctx context.Context, id int) (*models.Order, error)
	GetByIDForUpdate(ctx context.Context, id int) (*models.Order, error)
	GetByPixTxID(ctx context.Context, txid string) (*models.Order, error)
	SetPixTxID(ctx context.Context, orderID int, txid string) error
	UpdateStatus(ctx context.Context, orderID int, status models.OrderStatus) error
}

// PixConfig holds the merchant fields embedded in every BR Code
type PixConfig struct {
	MerchantName string
	MerchantCity string
	Key          string
}

// PixService issues PIX charges for pending orders and settles them when the
// payment provider confirms.
type PixService struct {
	orderRepo PaymentOrderRepository
	config    PixConfig
	logger    *logrus.Logger
}

// NewPixService creates a new PIX payment service
func NewPixService(orderRepo PaymentOrderRepository, config PixConfig, logger *logrus.Logger) *PixService {
	if logger == nil {
		logger = logrus.New()
	}
	return &PixService{
		orderRepo: orderRepo,
		config:    config,
		logger:    logger,
	}
}

// PixCharge is a payable BR Code for one order
type PixCharge struct {
	TxID        string `json:"txid"`
	OrderID     int    `json:"order_id"`
	OrderNumber string `json:"order_number"`
	AmountCents int64  `json:"amount_cents"`
	BRCode      string `json:"br_code"`
}

// CreateCharge issues a PIX charge for a pending order owned by the user.
// Calling it again for the same order returns the existing charge instead of
// issuing a second txid.
func (s *PixService) CreateCharge(ctx context.Context, userID, orderID int) (*PixCharge, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, models.ErrOrderNotFound
	}
	if !order.CanBePaid() {
		return nil, models.ErrOrderNotPayable
	}

	if order.PixTxID != nil {
		return s.chargeFor(order, *order.PixTxID), nil
	}

	txid := newPixTxID()
	if err := s.orderRepo.SetPixTxID(ctx, order.ID, txid); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"txid":         txid,
	}).Info("PIX charge created")

	return s.chargeFor(order, txid), nil
}

// ConfirmCharge marks the order behind a txid as paid. Confirming an already
// paid charge succeeds without changing anything, so provider webhook
// retries are safe.
func (s *PixService) ConfirmCharge(ctx context.Context, txid string) (*models.Order, error) {
	var confirmed *models.Order

	err := s.orderRepo.WithTx(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetByPixTxID(ctx, txid)
		if err != nil {
			return err
		}

		order, err = s.orderRepo.GetByIDForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}

		if order.IsPaid() {
			confirmed = order
			return nil
		}
		if !order.CanBePaid() {
			return models.ErrOrderNotPayable
		}

		if err := s.orderRepo.UpdateStatus(ctx, order.ID, models.OrderPaid); err != nil {
			return err
		}

		order.Status = models.OrderPaid
		confirmed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": confirmed.OrderNumber,
		"txid":         txid,
	}).Info("PIX charge confirmed")

	return confirmed, nil
}

func (s *PixService) chargeFor(order *models.Order, txid string) *PixCharge {
	return &PixCharge{
		TxID:        txid,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		AmountCents: order.TotalCents,
		BRCode:      s.buildBRCode(txid, order.TotalCents),
	}
}

// PIX txids are limited to 25 alphanumeric characters.
func newPixTxID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:25]
}

// buildBRCode assembles the static EMV payload banks decode from PIX QR
// codes: TLV fields for the merchant account, currency 986 (BRL), amount,
// merchant identity and txid, closed by a CRC16 over the whole payload.
func (s *PixService) buildBRCode(txid string, amountCents int64) string {
	merchantAccount := emvField("00", "br.gov.bcb.pix") + emvField("01", s.config.Key)
	additionalData := emvField("05", txid)

	var b strings.Builder
	b.WriteString(emvField("00", "01"))
	b.WriteString(emvField("26", merchantAccount))
	b.WriteString(emvField("52", "0000"))
	b.WriteString(emvField("53", "986"))
	b.WriteString(emvField("54", fmt.Sprintf("%d.%02d", amountCents/100, amountCents%100)))
	b.WriteString(emvField("58", "BR"))
	b.WriteString(emvField("59", truncate(s.config.MerchantName, 25)))
	b.WriteString(emvField("60", truncate(s.config.MerchantCity, 15)))
	b.WriteString(emvField("62", additionalData))
	b.WriteString("6304")

	payload := b.String()
	return payload + fmt.Sprintf("%04X", crc16CCITT([]byte(payload)))
}

func emvField(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// crc16CCITT computes CRC16/CCITT-FALSE (poly 0x1021, init 0xFFFF), the
// checksum EMV payloads carry in field 63.
func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
