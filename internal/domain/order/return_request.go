package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReturnStatus represents the status of a return request
type ReturnStatus string

const (
	ReturnStatusRequested   ReturnStatus = "REQUESTED"
	ReturnStatusApproved    ReturnStatus = "APPROVED"
	ReturnStatusRejected    ReturnStatus = "REJECTED"
	ReturnStatusShippedBack ReturnStatus = "ITEM_SHIPPED_BACK"
	ReturnStatusReceived    ReturnStatus = "RECEIVED"
	ReturnStatusRefunded    ReturnStatus = "REFUNDED"
	ReturnStatusClosed      ReturnStatus = "CLOSED"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusRequested, ReturnStatusApproved, ReturnStatusRejected,
		ReturnStatusShippedBack, ReturnStatusReceived, ReturnStatusRefunded,
		ReturnStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of ReturnStatus
func (s ReturnStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	switch s {
	case ReturnStatusRequested:
		return target == ReturnStatusApproved || target == ReturnStatusRejected
	case ReturnStatusApproved:
		return target == ReturnStatusShippedBack || target == ReturnStatusClosed
	case ReturnStatusRejected:
		return target == ReturnStatusClosed
	case ReturnStatusShippedBack:
		return target == ReturnStatusReceived
	case ReturnStatusReceived:
		return target == ReturnStatusRefunded
	case ReturnStatusRefunded, ReturnStatusClosed:
		return false // Terminal states
	}
	return false
}

// ReturnWindow is how long after delivery a buyer may open a return
const ReturnWindow = 30 * 24 * time.Hour

// MessageAuthorRole identifies who wrote a return thread message
type MessageAuthorRole string

const (
	MessageAuthorBuyer  MessageAuthorRole = "BUYER"
	MessageAuthorSeller MessageAuthorRole = "SELLER"
	MessageAuthorAdmin  MessageAuthorRole = "ADMIN"
)

// ReturnMessage is a message in a return request's discussion thread
type ReturnMessage struct {
	ID         uuid.UUID
	ReturnID   uuid.UUID
	AuthorID   uuid.UUID
	AuthorRole MessageAuthorRole
	Body       string
	CreatedAt  time.Time
}

// ReturnRequest is the aggregate root for a buyer's return of one order
// line. The refund amount is the line's unit price times the returned
// quantity; completing the flow triggers a payment refund.
type ReturnRequest struct {
	shared.BaseAggregateRoot
	OrderID      uuid.UUID
	OrderItemID  uuid.UUID
	BuyerID      uuid.UUID
	SellerID     uuid.UUID
	Quantity     int
	UnitPrice    decimal.Decimal
	RefundAmount decimal.Decimal
	Reason       string
	Status       ReturnStatus
	RejectReason string
	Messages     []ReturnMessage
	ApprovedAt   *time.Time
	ReceivedAt   *time.Time
	RefundedAt   *time.Time
	ClosedAt     *time.Time
}

// NewReturnRequest opens a return for a delivered order line.
// deliveredAt is the order's delivery timestamp; requests outside the
// return window are rejected.
func NewReturnRequest(o *Order, itemID uuid.UUID, qty int, reason string, deliveredAt time.Time) (*ReturnRequest, error) {
	if o.Status != OrderStatusDelivered && o.Status != OrderStatusCompleted {
		return nil, shared.NewDomainError("INVALID_STATE", "Returns are only allowed for delivered orders")
	}
	if time.Since(deliveredAt) > ReturnWindow {
		return nil, shared.NewDomainError("RETURN_WINDOW_CLOSED", "The return window for this order has closed")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Return reason is required")
	}

	item := o.GetItem(itemID)
	if item == nil {
		return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	if qty < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be at least 1")
	}
	if qty > item.RemainingQty() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity exceeds remaining quantity")
	}

	refundAmount := item.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))

	r := &ReturnRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           o.ID,
		OrderItemID:       itemID,
		BuyerID:           o.BuyerID,
		SellerID:          item.SellerID,
		Quantity:          qty,
		UnitPrice:         item.UnitPrice,
		RefundAmount:      refundAmount,
		Reason:            strings.TrimSpace(reason),
		Status:            ReturnStatusRequested,
		Messages:          make([]ReturnMessage, 0),
	}

	r.AddDomainEvent(NewReturnRequestedEvent(r))

	return r, nil
}

// Approve lets the seller accept the return
func (r *ReturnRequest) Approve() error {
	if !r.Status.CanTransitionTo(ReturnStatusApproved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve return in %s status", r.Status))
	}

	now := time.Now()
	r.Status = ReturnStatusApproved
	r.ApprovedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewReturnApprovedEvent(r))

	return nil
}

// Reject lets the seller decline the return with a reason
func (r *ReturnRequest) Reject(reason string) error {
	if !r.Status.CanTransitionTo(ReturnStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject return in %s status", r.Status))
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Reject reason is required")
	}

	r.Status = ReturnStatusRejected
	r.RejectReason = strings.TrimSpace(reason)
	r.UpdatedAt = time.Now()

	r.AddDomainEvent(NewReturnRejectedEvent(r))

	return nil
}

// MarkShippedBack records that the buyer sent the item back
func (r *ReturnRequest) MarkShippedBack() error {
	if !r.Status.CanTransitionTo(ReturnStatusShippedBack) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark return shipped in %s status", r.Status))
	}

	r.Status = ReturnStatusShippedBack
	r.UpdatedAt = time.Now()

	return nil
}

// ConfirmReceived records that the seller received the returned item.
// This is what makes the refund eligible for processing.
func (r *ReturnRequest) ConfirmReceived() error {
	if !r.Status.CanTransitionTo(ReturnStatusReceived) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm receipt in %s status", r.Status))
	}

	now := time.Now()
	r.Status = ReturnStatusReceived
	r.ReceivedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewReturnReceivedEvent(r))

	return nil
}

// MarkRefunded records that the refund has been issued
func (r *ReturnRequest) MarkRefunded() error {
	if !r.Status.CanTransitionTo(ReturnStatusRefunded) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark return refunded in %s status", r.Status))
	}

	now := time.Now()
	r.Status = ReturnStatusRefunded
	r.RefundedAt = &now
	r.UpdatedAt = now

	return nil
}

// Close closes a rejected or stalled-approved return without a refund
func (r *ReturnRequest) Close() error {
	if !r.Status.CanTransitionTo(ReturnStatusClosed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot close return in %s status", r.Status))
	}

	now := time.Now()
	r.Status = ReturnStatusClosed
	r.ClosedAt = &now
	r.UpdatedAt = now

	return nil
}

// AddMessage appends a message to the return's discussion thread.
// Buyers, the line's seller, and admins may post; terminal returns
// remain readable but closed to new messages.
func (r *ReturnRequest) AddMessage(authorID uuid.UUID, role MessageAuthorRole, body string) (*ReturnMessage, error) {
	if r.Status == ReturnStatusClosed {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot post to a closed return")
	}
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Author ID cannot be empty")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message body cannot be empty")
	}
	if len(body) > 2000 {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message body cannot exceed 2000 characters")
	}

	switch role {
	case MessageAuthorBuyer:
		if authorID != r.BuyerID {
			return nil, shared.ErrForbidden
		}
	case MessageAuthorSeller:
		if authorID != r.SellerID {
			return nil, shared.ErrForbidden
		}
	case MessageAuthorAdmin:
		// Admin authorization is checked at the application layer.
	default:
		return nil, shared.NewDomainError("INVALID_AUTHOR_ROLE", "Unknown message author role")
	}

	msg := ReturnMessage{
		ID:         uuid.New(),
		ReturnID:   r.ID,
		AuthorID:   authorID,
		AuthorRole: role,
		Body:       body,
		CreatedAt:  time.Now(),
	}
	r.Messages = append(r.Messages, msg)
	r.UpdatedAt = msg.CreatedAt

	return &r.Messages[len(r.Messages)-1], nil
}

// IsTerminal returns true if the return is refunded or closed
func (r *ReturnRequest) IsTerminal() bool {
	return r.Status == ReturnStatusRefunded || r.Status == ReturnStatusClosed
}
