package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/shakhawatmollah/paypal-rest-api/internal/constant/model/db"
	"github.com/shakhawatmollah/paypal-rest-api/internal/core"
	"github.com/shakhawatmollah/paypal-rest-api/internal/port/output"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedgerRepository is a secondary adapter that implements the
// LedgerRepository output port.
type GormLedgerRepository struct {
	gormDB *gorm.DB
}

// NewGormLedgerRepository creates a new GORM ledger repository
func NewGormLedgerRepository(gormDB *gorm.DB) output.LedgerRepository {
	return &GormLedgerRepository{gormDB: gormDB}
}

func orderToCore(o *db.Order) *core.Order {
	return &core.Order{
		OrderID:   o.OrderID,
		Status:    o.Status,
		Amount:    o.Amount,
		Currency:  o.Currency,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func captureFromCore(c *core.Capture) *db.Capture {
	return &db.Capture{
		CaptureID:     c.CaptureID,
		OrderID:       c.OrderID,
		Amount:        c.Amount,
		Currency:      c.Currency,
		Status:        c.Status,
		PayerEmail:    c.PayerEmail,
		PaymentMethod: c.PaymentMethod,
		UpdateTime:    c.UpdateTime,
	}
}

func refundFromCore(r *core.Refund) *db.Refund {
	return &db.Refund{
		RefundID:   r.RefundID,
		CaptureID:  r.CaptureID,
		Amount:     r.Amount,
		Currency:   r.Currency,
		Status:     r.Status,
		Reason:     r.Reason,
		CreateTime: r.CreateTime,
		UpdateTime: r.UpdateTime,
	}
}

// SaveOrder upserts an order row keyed by the processor-issued order id.
func (r *GormLedgerRepository) SaveOrder(order *core.Order) error {
	row := &db.Order{
		OrderID:  order.OrderID,
		Status:   order.Status,
		Amount:   order.Amount,
		Currency: order.Currency,
	}
	err := r.gormDB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

// GetOrder retrieves an order by id; absence is not an error.
func (r *GormLedgerRepository) GetOrder(orderID string) (*core.Order, error) {
	var row db.Order
	if err := r.gormDB.Where("order_id = ?", orderID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return orderToCore(&row), nil
}

// SaveCapture upserts a capture row. ON CONFLICT DO NOTHING makes concurrent
// duplicate webhook deliveries race-free: the first writer wins and later
// inserts are no-ops. When an order row exists for the capture, its
// amount/currency are backfilled.
func (r *GormLedgerRepository) SaveCapture(capture *core.Capture) error {
	row := captureFromCore(capture)
	err := r.gormDB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "capture_id"}},
		DoNothing: true,
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to save capture: %w", err)
	}

	// Best-effort order backfill: absence of the order row is not an error.
	updates := map[string]interface{}{
		"amount":     capture.Amount,
		"currency":   capture.Currency,
		"updated_at": time.Now(),
	}
	if err := r.gormDB.Model(&db.Order{}).
		Where("order_id = ?", capture.OrderID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to backfill order amount: %w", err)
	}
	return nil
}

// CaptureExists checks whether a capture row with the id is present.
func (r *GormLedgerRepository) CaptureExists(captureID string) (bool, error) {
	var count int64
	if err := r.gormDB.Model(&db.Capture{}).
		Where("capture_id = ?", captureID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check capture: %w", err)
	}
	return count > 0, nil
}

// SaveRefund upserts a refund row keyed by refund id. The conflict update
// list excludes capture_id, so the refund's originating capture link is
// written once and never overwritten by later deliveries.
func (r *GormLedgerRepository) SaveRefund(refund *core.Refund) error {
	row := refundFromCore(refund)
	err := r.gormDB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "refund_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"amount",
			"currency",
			"status",
			"reason",
			"create_time",
			"update_time",
		}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to save refund: %w", err)
	}

	// A delivery may carry a capture reference the stored row lacks. The
	// guard keeps the first recorded link authoritative.
	if refund.CaptureID != "" {
		if err := r.gormDB.Model(&db.Refund{}).
			Where("refund_id = ? AND (capture_id IS NULL OR capture_id = '')", refund.RefundID).
			Update("capture_id", refund.CaptureID).Error; err != nil {
			return fmt.Errorf("failed to link refund capture: %w", err)
		}
	}
	return nil
}

// SaveWebhookEvent appends one row to the webhook delivery log.
func (r *GormLedgerRepository) SaveWebhookEvent(eventType, eventData string) (*core.WebhookEvent, error) {
	row := &db.WebhookEvent{
		EventType:  eventType,
		EventData:  eventData,
		ReceivedAt: time.Now(),
	}
	if err := r.gormDB.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to save webhook event: %w", err)
	}
	return &core.WebhookEvent{
		ID:         row.ID,
		EventType:  row.EventType,
		EventData:  row.EventData,
		ReceivedAt: row.ReceivedAt,
	}, nil
}
