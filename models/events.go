package models

import "time"

// OrderEvent is published to Kafka on order creation and on every status
// transition. Kitchen and courier displays consume it.
type OrderEvent struct {
	Event       string    `json:"event"` // "order.created" | "order.status_changed"
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	OrderType   string    `json:"order_type"`
	Status      string    `json:"status"`
	PrevStatus  string    `json:"prev_status,omitempty"`
	Total       string    `json:"total"`
	Timestamp   time.Time `json:"timestamp"`
}

// ComplaintEvent is published to SNS when an administrator responds to a
// complaint, feeding the customer notification pipeline.
type ComplaintEvent struct {
	Event       string    `json:"event"` // "complaint.responded"
	ComplaintID string    `json:"complaint_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}
