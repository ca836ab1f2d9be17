package domain

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending           OrderStatus = "Pending"
	StatusProcessing        OrderStatus = "Processing"
	StatusShipped           OrderStatus = "Shipped"
	StatusDelivered         OrderStatus = "Delivered"
	StatusCancelled         OrderStatus = "Cancelled"
	StatusReturnRequested   OrderStatus = "Return Requested"
	StatusExchangeRequested OrderStatus = "Exchange Requested"
	StatusReturned          OrderStatus = "Returned"
	StatusExchanged         OrderStatus = "Exchanged"
)

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled,
		StatusReturnRequested, StatusExchangeRequested, StatusReturned, StatusExchanged:
		return true
	default:
		return false
	}
}

type RefundStatus string

const (
	RefundPending   RefundStatus = "Pending"
	RefundProcessed RefundStatus = "Processed"
	RefundFailed    RefundStatus = "Failed"
)

func IsValidRefundStatus(status RefundStatus) bool {
	switch status {
	case RefundPending, RefundProcessed, RefundFailed:
		return true
	default:
		return false
	}
}

type ReturnKind string

const (
	ReturnKindReturn   ReturnKind = "return"
	ReturnKindExchange ReturnKind = "exchange"
)

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode"`
}

type OrderLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"lineTotal"`
}

type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "online"
	PaymentCOD    PaymentMethod = "cod"
)

type PaymentInfo struct {
	Method    PaymentMethod `json:"method"`
	Reference string        `json:"reference,omitempty"`
	PaymentID string        `json:"paymentId,omitempty"`
}

type ReturnRequest struct {
	Kind        ReturnKind `json:"type"`
	Reason      string     `json:"reason"`
	RequestedAt time.Time  `json:"requestedAt"`
}

type Order struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId,omitempty"`
	Customer      Customer       `json:"customer"`
	Items         []OrderLine    `json:"items"`
	ItemsSummary  string         `json:"itemsSummary"`
	Subtotal      int64          `json:"subtotal"`
	Discount      int64          `json:"discount"`
	Total         int64          `json:"total"`
	CouponCode    string         `json:"couponCode,omitempty"`
	Payment       PaymentInfo    `json:"payment"`
	Status        OrderStatus    `json:"status"`
	RefundStatus  RefundStatus   `json:"refundStatus,omitempty"`
	ReturnRequest *ReturnRequest `json:"returnRequest,omitempty"`
	DeliveredAt   *time.Time     `json:"deliveredAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// SummarizeItems renders lines the way the order list displays them:
// "Banarasi Silk (x2), Kanjivaram (x1)".
func SummarizeItems(lines []OrderLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%s (x%d)", l.Name, l.Quantity))
	}
	return strings.Join(parts, ", ")
}

// AdminSetStatus applies a status selected in the back office. Any valid
// status may be chosen; side effects follow the target and source status.
func (o *Order) AdminSetStatus(status OrderStatus, now time.Time) error {
	if !IsValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}
	previous := o.Status
	o.Status = status
	o.UpdatedAt = now

	switch {
	case status == StatusDelivered && previous != StatusDelivered:
		delivered := now
		o.DeliveredAt = &delivered
	case status == StatusCancelled && o.RefundStatus == "":
		o.RefundStatus = RefundPending
	}
	if previous == StatusCancelled && status != StatusCancelled {
		o.RefundStatus = RefundPending
	}
	return nil
}

func (o *Order) CanCancel() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

// Cancel is the customer cancellation path.
func (o *Order) Cancel(now time.Time) error {
	if !o.CanCancel() {
		return fmt.Errorf("%w: cannot cancel an order in status %q", ErrInvalidTransition, o.Status)
	}
	o.Status = StatusCancelled
	o.RefundStatus = RefundPending
	o.UpdatedAt = now
	return nil
}

// RequestReturn opens a return or exchange on a delivered order within window
// of its delivery date.
func (o *Order) RequestReturn(kind ReturnKind, reason string, now time.Time, window time.Duration) error {
	if o.Status != StatusDelivered {
		return fmt.Errorf("%w: only delivered orders can be returned, order is %q", ErrInvalidTransition, o.Status)
	}
	if o.DeliveredAt == nil || now.Sub(*o.DeliveredAt) > window {
		return ErrReturnWindowClosed
	}
	switch kind {
	case ReturnKindReturn:
		o.Status = StatusReturnRequested
	case ReturnKindExchange:
		o.Status = StatusExchangeRequested
	default:
		return NewValidationError("type", "must be return or exchange")
	}
	o.ReturnRequest = &ReturnRequest{Kind: kind, Reason: strings.TrimSpace(reason), RequestedAt: now}
	o.UpdatedAt = now
	return nil
}

func (o *Order) SetRefundStatus(status RefundStatus, now time.Time) error {
	if !IsValidRefundStatus(status) {
		return NewValidationError("refundStatus", fmt.Sprintf("unknown refund status %q", status))
	}
	o.RefundStatus = status
	o.UpdatedAt = now
	return nil
}
