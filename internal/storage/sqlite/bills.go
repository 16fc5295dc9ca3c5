package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/savieapp/savie/internal/models"
	"github.com/savieapp/savie/internal/storage"
)

// CreateSharedBill persists the bill and its participants in one
// transaction; partial creation is never observable.
func (s *SQLiteStore) CreateSharedBill(ctx context.Context, bill *models.SharedBill, participants []*models.BillParticipant) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Status == "" {
		bill.Status = "open"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO shared_bills (id, creator_user_id, creator_username, group_ref, description, total_amount, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		bill.ID,
		bill.CreatorID,
		bill.CreatorUsername,
		bill.GroupRef,
		bill.Description,
		bill.TotalAmount.String(),
		bill.Status,
		bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for _, p := range participants {
		p.BillID = bill.ID
		if err := execInsertParticipant(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddBillParticipant appends one participant to an existing bill.
func (s *SQLiteStore) AddBillParticipant(ctx context.Context, participant *models.BillParticipant) error {
	return execInsertParticipant(ctx, s.db, participant)
}

func execInsertParticipant(ctx context.Context, db execer, p *models.BillParticipant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = models.ParticipantPending
	}

	var userID any
	if p.UserID != nil {
		userID = *p.UserID
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO bill_participants (id, bill_id, user_id, username, amount_due, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.BillID, userID, p.Username, p.AmountDue.String(), p.Status)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

// SetBillSummaryRef records the rendered summary message reference.
func (s *SQLiteStore) SetBillSummaryRef(ctx context.Context, billID string, ref int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE shared_bills SET summary_ref = ? WHERE id = ?",
		ref, billID,
	)
	if err != nil {
		return fmt.Errorf("failed to set summary ref: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	return nil
}

// MarkParticipantPaid marks the participant paid when the row is unresolved
// or already belongs to the payer, backfilling the identity in the former
// case. Returns the owning bill id.
func (s *SQLiteStore) MarkParticipantPaid(ctx context.Context, participantID string, payerID int64) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var billID string
	var userID sql.NullInt64
	err = tx.QueryRowContext(ctx,
		"SELECT bill_id, user_id FROM bill_participants WHERE id = ?",
		participantID,
	).Scan(&billID, &userID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get participant: %w", err)
	}

	if userID.Valid && userID.Int64 != payerID {
		return "", storage.ErrPayerMismatch
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE bill_participants SET status = ?, user_id = ? WHERE id = ?",
		models.ParticipantPaid, payerID, participantID,
	)
	if err != nil {
		return "", fmt.Errorf("failed to mark participant paid: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return billID, nil
}

// GetBillStatus fetches a bill with its participants.
func (s *SQLiteStore) GetBillStatus(ctx context.Context, billID string) (*models.BillStatus, error) {
	status := &models.BillStatus{}
	var summaryRef sql.NullInt64
	var total string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, creator_user_id, creator_username, group_ref, summary_ref, description, total_amount, status, created_at
		FROM shared_bills
		WHERE id = ?
	`, billID).Scan(
		&status.Bill.ID,
		&status.Bill.CreatorID,
		&status.Bill.CreatorUsername,
		&status.Bill.GroupRef,
		&summaryRef,
		&status.Bill.Description,
		&total,
		&status.Bill.Status,
		&status.Bill.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	status.Bill.SummaryRef = nullableInt64(summaryRef)
	if status.Bill.TotalAmount, err = parseStoredAmount(total); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, bill_id, user_id, username, amount_due, status
		FROM bill_participants
		WHERE bill_id = ?
		ORDER BY rowid
	`, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.BillParticipant
		var userID sql.NullInt64
		var due string
		if err := rows.Scan(&p.ID, &p.BillID, &userID, &p.Username, &due, &p.Status); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.UserID = nullableInt64(userID)
		if p.AmountDue, err = parseStoredAmount(due); err != nil {
			return nil, err
		}
		status.Participants = append(status.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return status, nil
}

// DeleteBill removes a bill; its participants go with it by cascade.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM shared_bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	return nil
}
