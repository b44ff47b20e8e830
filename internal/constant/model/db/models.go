package db

import (
	"time"

	"gorm.io/gorm"
)

// Order represents a processor checkout order in the database. The primary
// key is the processor-issued order id. Amount and currency are nullable:
// order rows created before capture carry no amount yet.
type Order struct {
	OrderID   string    `gorm:"primaryKey;size:64" json:"order_id"`
	Status    string    `gorm:"size:32;index" json:"status"`
	Amount    *float64  `gorm:"type:decimal(15,2)" json:"amount"`
	Currency  *string   `gorm:"size:8" json:"currency"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Order) TableName() string {
	return "paypal_orders"
}

// BeforeCreate is a GORM hook that runs before creating a record
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = now
	}
	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a record
func (o *Order) BeforeUpdate(tx *gorm.DB) error {
	o.UpdatedAt = time.Now()
	return nil
}

// Capture represents a captured payment. Linked to Order by order id without
// a foreign-key constraint: webhook deliveries may record a capture before
// the order row exists.
type Capture struct {
	CaptureID     string  `gorm:"primaryKey;size:64" json:"capture_id"`
	OrderID       string  `gorm:"size:64;index" json:"order_id"`
	Amount        float64 `gorm:"type:decimal(15,2)" json:"amount"`
	Currency      string  `gorm:"size:8" json:"currency"`
	Status        string  `gorm:"size:32" json:"status"`
	PayerEmail    string  `gorm:"size:255" json:"payer_email"`
	PaymentMethod string  `gorm:"size:32" json:"payment_method"`
	UpdateTime    string  `gorm:"size:64" json:"update_time"`
}

// TableName specifies the table name for GORM
func (Capture) TableName() string {
	return "paypal_captures"
}

// Refund represents a full or partial reversal of a capture.
type Refund struct {
	RefundID   string  `gorm:"primaryKey;size:64" json:"refund_id"`
	CaptureID  string  `gorm:"size:64;index" json:"capture_id"`
	Amount     float64 `gorm:"type:decimal(15,2)" json:"amount"`
	Currency   string  `gorm:"size:8" json:"currency"`
	Status     string  `gorm:"size:32" json:"status"`
	Reason     string  `gorm:"size:255" json:"reason"`
	CreateTime string  `gorm:"size:64" json:"create_time"`
	UpdateTime string  `gorm:"size:64" json:"update_time"`
}

// TableName specifies the table name for GORM
func (Refund) TableName() string {
	return "paypal_refunds"
}

// WebhookEvent is one row of the append-only webhook delivery log.
type WebhookEvent struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EventType  string    `gorm:"size:64;index" json:"event_type"`
	EventData  string    `gorm:"type:text" json:"event_data"`
	ReceivedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"received_at"`
}

// TableName specifies the table name for GORM
func (WebhookEvent) TableName() string {
	return "paypal_webhook_events"
}
