package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/savieapp/savie/internal/metrics"
	"github.com/savieapp/savie/internal/models"
	"github.com/savieapp/savie/internal/money"
	"github.com/savieapp/savie/internal/storage"
)

// ErrNotYourShare is returned when a payment confirmation arrives from a user
// other than the participant the share belongs to.
var ErrNotYourShare = errors.New("this share belongs to someone else")

// BillService splits group expenses into equal shares and tracks who paid.
type BillService struct {
	store storage.Store
}

// NewBillService creates a BillService with the given storage backend.
func NewBillService(store storage.Store) *BillService {
	return &BillService{store: store}
}

// SplitBill opens a bill in the group and splits the total equally among the
// creator and the mentioned usernames. The creator is included automatically
// unless their own handle appears among the mentions. Mentioned users with a
// known account are resolved to their identity immediately; the rest stay
// username-only until they first confirm a payment. The whole bill commits
// as one unit.
func (s *BillService) SplitBill(ctx context.Context, creator *models.User, groupRef int64, description string, total decimal.Decimal, usernames []string) (*models.BillStatus, error) {
	if !total.IsPositive() {
		return nil, fmt.Errorf("bill total %s must be positive: %w", total, ErrInvalidInput)
	}
	if len(usernames) == 0 {
		return nil, fmt.Errorf("a bill needs someone to split with: %w", ErrInvalidInput)
	}

	handles := make([]string, 0, len(usernames)+1)
	creatorMentioned := false
	for _, username := range usernames {
		username = strings.TrimPrefix(strings.TrimSpace(username), "@")
		if username == "" {
			continue
		}
		if strings.EqualFold(username, creator.Username) {
			creatorMentioned = true
		}
		handles = append(handles, username)
	}
	if !creatorMentioned {
		handles = append([]string{creator.Username}, handles...)
	}
	if len(handles) < 2 {
		return nil, fmt.Errorf("a bill needs someone to split with: %w", ErrInvalidInput)
	}

	share := money.EqualShare(total, len(handles))
	participants := make([]*models.BillParticipant, len(handles))
	for i, handle := range handles {
		p := &models.BillParticipant{Username: handle, AmountDue: share}
		if strings.EqualFold(handle, creator.Username) {
			id := creator.ID
			p.UserID = &id
		} else if user, err := s.store.GetUserByUsername(ctx, handle); err != nil {
			return nil, fmt.Errorf("failed to resolve participant %s: %w", handle, err)
		} else if user != nil {
			id := user.ID
			p.UserID = &id
		}
		participants[i] = p
	}

	bill := &models.SharedBill{
		CreatorID:       creator.ID,
		CreatorUsername: creator.Username,
		GroupRef:        groupRef,
		Description:     description,
		TotalAmount:     total,
	}
	if err := s.store.CreateSharedBill(ctx, bill, participants); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	metrics.BillsCreated.Inc()
	slog.Info("bill created",
		"bill_id", bill.ID,
		"creator", creator.ID,
		"total", total.String(),
		"participants", len(participants),
	)
	return s.Status(ctx, bill.ID)
}

// AddParticipant appends one more person to an open bill at the same
// per-head share the existing participants owe. Earlier shares are not
// rebalanced.
func (s *BillService) AddParticipant(ctx context.Context, billID, username string) (*models.BillParticipant, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, fmt.Errorf("participant handle is empty: %w", ErrInvalidInput)
	}

	status, err := s.Status(ctx, billID)
	if err != nil {
		return nil, err
	}
	for _, p := range status.Participants {
		if strings.EqualFold(p.Username, username) {
			return nil, fmt.Errorf("%s is already on the bill: %w", username, ErrInvalidInput)
		}
	}

	participant := &models.BillParticipant{
		BillID:    billID,
		Username:  username,
		AmountDue: status.Participants[0].AmountDue,
	}
	if user, err := s.store.GetUserByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to resolve participant %s: %w", username, err)
	} else if user != nil {
		id := user.ID
		participant.UserID = &id
	}

	if err := s.store.AddBillParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}
	return participant, nil
}

// MarkPaid records the payer's confirmation for one share and returns the
// refreshed bill. The identity is backfilled for username-only shares;
// confirming someone else's share is rejected.
func (s *BillService) MarkPaid(ctx context.Context, participantID string, payerID int64) (*models.BillStatus, error) {
	billID, err := s.store.MarkParticipantPaid(ctx, participantID, payerID)
	if errors.Is(err, storage.ErrPayerMismatch) {
		return nil, fmt.Errorf("participant %s: %w", participantID, ErrNotYourShare)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("participant %s: %w", participantID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark share paid: %w", err)
	}

	status, err := s.Status(ctx, billID)
	if err != nil {
		return nil, err
	}
	if status.Settled() {
		slog.Info("bill settled", "bill_id", billID)
	}
	return status, nil
}

// Status fetches a bill with its participants.
func (s *BillService) Status(ctx context.Context, billID string) (*models.BillStatus, error) {
	status, err := s.store.GetBillStatus(ctx, billID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("bill %s: %w", billID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return status, nil
}

// SetSummaryRef stores the reference of the rendered summary message so the
// transport can re-render it after each payment.
func (s *BillService) SetSummaryRef(ctx context.Context, billID string, ref int64) error {
	err := s.store.SetBillSummaryRef(ctx, billID, ref)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("bill %s: %w", billID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to set summary ref: %w", err)
	}
	return nil
}

// DeleteBill removes a bill. Only the creator may delete it.
func (s *BillService) DeleteBill(ctx context.Context, billID string, requesterID int64) error {
	status, err := s.Status(ctx, billID)
	if err != nil {
		return err
	}
	if status.Bill.CreatorID != requesterID {
		return fmt.Errorf("only the bill creator can delete it: %w", ErrInvalidInput)
	}

	if err := s.store.DeleteBill(ctx, billID); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return nil
}
