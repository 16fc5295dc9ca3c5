package models

import "github.com/shopspring/decimal"

// ParticipantStatus is the payment state of one bill participant.
type ParticipantStatus string

const (
	ParticipantPending ParticipantStatus = "pending"
	ParticipantPaid    ParticipantStatus = "paid"
)

// SharedBill is a group expense split equally among its participants.
// There is no stored "settled" flag; settlement is derived by scanning the
// participant statuses.
type SharedBill struct {
	// ID is the unique identifier (UUID format).
	ID string

	// CreatorID is the user who opened the bill.
	CreatorID int64

	// CreatorUsername is the creator's platform handle at creation time.
	CreatorUsername string

	// GroupRef is the chat/group the bill originated from.
	GroupRef int64

	// SummaryRef optionally points at the rendered summary message so the
	// transport can re-render it after payments.
	SummaryRef *int64

	// Description is what the bill was for.
	Description string

	// TotalAmount is the full bill value.
	TotalAmount decimal.Decimal

	// Status is "open" for the bill's whole stored lifetime; settlement is
	// derived, not stored.
	Status string

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64
}

// BillParticipant is one person's share of a shared bill. A participant may
// be username-only until their identity is resolved on first payment.
type BillParticipant struct {
	// ID is the unique identifier (UUID format).
	ID string

	// BillID is the owning bill.
	BillID string

	// UserID is the resolved user identity, nil while username-only.
	UserID *int64

	// Username is the platform handle the participant was mentioned by.
	Username string

	// AmountDue is this participant's equal share of the total.
	AmountDue decimal.Decimal

	// Status is pending until the participant confirms payment.
	Status ParticipantStatus
}

// BillStatus is a bill together with its participants.
type BillStatus struct {
	Bill         SharedBill
	Participants []BillParticipant
}

// Settled reports whether every participant has paid.
func (b *BillStatus) Settled() bool {
	if len(b.Participants) == 0 {
		return false
	}
	for _, p := range b.Participants {
		if p.Status != ParticipantPaid {
			return false
		}
	}
	return true
}
