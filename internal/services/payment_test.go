package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/models"
	"ingresso-platform/internal/repositories"
)

// fakeOrderStore implements the order-facing repository interfaces the
// payment and order services consume.
type fakeOrderStore struct {
	orders    map[int]*models.Order
	inventory map[int]int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders:    make(map[int]*models.Order),
		inventory: make(map[int]int),
	}
}

func (f *fakeOrderStore) addOrder(order *models.Order) {
	copied := *order
	f.orders[order.ID] = &copied
}

func (f *fakeOrderStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[int]models.Order, len(f.orders))
	for id, o := range f.orders {
		snapshot[id] = *o
	}
	inv := make(map[int]int, len(f.inventory))
	for id, n := range f.inventory {
		inv[id] = n
	}

	if err := fn(ctx); err != nil {
		f.orders = make(map[int]*models.Order, len(snapshot))
		for id, o := range snapshot {
			copied := o
			f.orders[id] = &copied
		}
		f.inventory = inv
		return err
	}
	return nil
}

func (f *fakeOrderStore) GetByID(ctx context.Context, id int) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderStore) GetByIDForUpdate(ctx context.Context, id int) (*models.Order, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeOrderStore) GetByPixTxID(ctx context.Context, txid string) (*models.Order, error) {
	for _, order := range f.orders {
		if order.PixTxID != nil && *order.PixTxID == txid {
			copied := *order
			return &copied, nil
		}
	}
	return nil, models.ErrChargeNotFound
}

func (f *fakeOrderStore) ListByUser(ctx context.Context, userID int) ([]*models.Order, error) {
	var out []*models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) SetPixTxID(ctx context.Context, orderID int, txid string) error {
	order, ok := f.orders[orderID]
	if !ok || order.Status != models.OrderPending {
		return models.ErrOrderNotPayable
	}
	order.PixTxID = &txid
	return nil
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, orderID int, status models.OrderStatus) error {
	order, ok := f.orders[orderID]
	if !ok {
		return models.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (f *fakeOrderStore) ListSalesByOrganizer(ctx context.Context, organizerID int) ([]*repositories.OrganizerSale, error) {
	return nil, nil
}

func (f *fakeOrderStore) IncrementAvailable(ctx context.Context, ticketTypeID, quantity int) error {
	f.inventory[ticketTypeID] += quantity
	return nil
}

func newPixService(store *fakeOrderStore) *PixService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewPixService(store, PixConfig{
		MerchantName: "Ingresso Platform",
		MerchantCity: "SAO PAULO",
		Key:          "pix@ingresso.example.com",
	}, logger)
}

func pendingOrder(id, userID int, totalCents int64) *models.Order {
	return &models.Order{
		ID:          id,
		UserID:      userID,
		OrderNumber: "ORD-20260831-000001",
		TotalCents:  totalCents,
		Status:      models.OrderPending,
	}
}

func TestCreateCharge(t *testing.T) {
	store := newFakeOrderStore()
	store.addOrder(pendingOrder(1, 7, 15050))

	svc := newPixService(store)

	charge, err := svc.CreateCharge(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("CreateCharge() error = %v", err)
	}

	if len(charge.TxID) != 25 {
		t.Errorf("txid length = %d, want 25", len(charge.TxID))
	}
	if charge.AmountCents != 15050 {
		t.Errorf("amount = %d, want 15050", charge.AmountCents)
	}
	if !strings.HasPrefix(charge.BRCode, "000201") {
		t.Errorf("BR code should start with the payload format indicator, got %q", charge.BRCode[:10])
	}
	if !strings.Contains(charge.BRCode, "br.gov.bcb.pix") {
		t.Error("BR code missing the PIX GUI")
	}
	if !strings.Contains(charge.BRCode, "150.50") {
		t.Error("BR code missing the formatted amount")
	}
	if !strings.Contains(charge.BRCode, charge.TxID) {
		t.Error("BR code missing the txid")
	}
}

func TestCreateChargeIdempotent(t *testing.T) {
	store := newFakeOrderStore()
	store.addOrder(pendingOrder(1, 7, 5000))

	svc := newPixService(store)

	first, err := svc.CreateCharge(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("first CreateCharge() error = %v", err)
	}
	second, err := svc.CreateCharge(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("second CreateCharge() error = %v", err)
	}

	if first.TxID != second.TxID {
		t.Errorf("txids differ (%s vs %s), charge creation must be idempotent", first.TxID, second.TxID)
	}
}

func TestCreateChargeWrongOwner(t *testing.T) {
	store := newFakeOrderStore()
	store.addOrder(pendingOrder(1, 7, 5000))

	svc := newPixService(store)

	if _, err := svc.CreateCharge(context.Background(), 8, 1); !errors.Is(err, models.ErrOrderNotFound) {
		t.Errorf("error = %v, want ErrOrderNotFound for another user's order", err)
	}
}

func TestCreateChargeNotPayable(t *testing.T) {
	store := newFakeOrderStore()
	paid := pendingOrder(1, 7, 5000)
	paid.Status = models.OrderPaid
	store.addOrder(paid)

	svc := newPixService(store)

	if _, err := svc.CreateCharge(context.Background(), 7, 1); !errors.Is(err, models.ErrOrderNotPayable) {
		t.Errorf("error = %v, want ErrOrderNotPayable for a paid order", err)
	}
}

func TestConfirmCharge(t *testing.T) {
	store := newFakeOrderStore()
	store.addOrder(pendingOrder(1, 7, 5000))

	svc := newPixService(store)

	charge, err := svc.CreateCharge(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("CreateCharge() error = %v", err)
	}

	order, err := svc.ConfirmCharge(context.Background(), charge.TxID)
	if err != nil {
		t.Fatalf("ConfirmCharge() error = %v", err)
	}
	if !order.IsPaid() {
		t.Errorf("status = %s, want paid", order.Status)
	}

	// Webhook retry: confirming again succeeds and changes nothing.
	again, err := svc.ConfirmCharge(context.Background(), charge.TxID)
	if err != nil {
		t.Fatalf("repeat ConfirmCharge() error = %v", err)
	}
	if !again.IsPaid() {
		t.Errorf("status = %s, want paid after retry", again.Status)
	}
}

func TestConfirmChargeUnknownTxID(t *testing.T) {
	svc := newPixService(newFakeOrderStore())

	if _, err := svc.ConfirmCharge(context.Background(), "does-not-exist"); !errors.Is(err, models.ErrChargeNotFound) {
		t.Errorf("error = %v, want ErrChargeNotFound", err)
	}
}

func TestConfirmChargeCancelledOrder(t *testing.T) {
	store := newFakeOrderStore()
	order := pendingOrder(1, 7, 5000)
	txid := "abc123"
	order.PixTxID = &txid
	order.Status = models.OrderCancelled
	store.addOrder(order)

	svc := newPixService(store)

	if _, err := svc.ConfirmCharge(context.Background(), txid); !errors.Is(err, models.ErrOrderNotPayable) {
		t.Errorf("error = %v, want ErrOrderNotPayable for a cancelled order", err)
	}
}

func TestCRC16CCITT(t *testing.T) {
	// CRC-16/CCITT-FALSE check value for "123456789".
	if got := crc16CCITT([]byte("123456789")); got != 0x29B1 {
		t.Errorf("crc16CCITT() = %04X, want 29B1", got)
	}
}

func TestBuildBRCodeChecksum(t *testing.T) {
	svc := newPixService(newFakeOrderStore())

	code := svc.buildBRCode("abc123xyz", 10000)
	if len(code) < 8 {
		t.Fatalf("BR code too short: %q", code)
	}

	payload, checksum := code[:len(code)-4], code[len(code)-4:]
	if want := fmt.Sprintf("%04X", crc16CCITT([]byte(payload))); checksum != want {
		t.Errorf("checksum = %s, want %s", checksum, want)
	}
}
