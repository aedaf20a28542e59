package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jask/rentdesk/internal/database/repository"
	"github.com/jask/rentdesk/internal/payments"
)

// duplicateWindowDays is how close two payments on the same lease with the
// same amount must be to be flagged as a possible duplicate.
const duplicateWindowDays = 3

// PaymentService persists drafts from the record-payment form and serves the
// payments listing.
type PaymentService struct {
	Payments *repository.PaymentRepo
	Log      logrus.FieldLogger
}

// RecordResult is the outcome of Record.
type RecordResult struct {
	// Payment is the stored row joined with tenant, property and unit labels.
	Payment repository.PaymentView
	// DuplicateOf holds the id of an earlier payment that looks the same.
	DuplicateOf string
}

// Record validates and stores a draft.
func (s *PaymentService) Record(ctx context.Context, d payments.PaymentDraft) (RecordResult, error) {
	if err := payments.ValidateDraft(d); err != nil {
		return RecordResult{}, err
	}
	paidOn, err := time.Parse(time.DateOnly, d.Date)
	if err != nil {
		return RecordResult{}, fmt.Errorf("%w: %q", payments.ErrInvalidDate, d.Date)
	}

	dup, err := s.findDuplicate(ctx, d, paidOn)
	if err != nil {
		return RecordResult{}, err
	}

	p := repository.Payment{
		ID:         uuid.NewString(),
		LeaseID:    d.LeaseID,
		TenantID:   d.TenantID,
		PropertyID: d.PropertyID,
		UnitID:     d.UnitID,
		Amount:     d.Amount,
		PaidOn:     paidOn,
		Method:     d.Method,
		Notes:      d.Notes,
		Status:     repository.PaymentCompleted,
	}
	if err := s.Payments.Insert(ctx, p); err != nil {
		return RecordResult{}, fmt.Errorf("insert payment: %w", err)
	}
	stored, err := s.Payments.Get(ctx, p.ID)
	if err != nil {
		return RecordResult{}, fmt.Errorf("reload payment: %w", err)
	}
	if stored == nil {
		return RecordResult{}, fmt.Errorf("reload payment: %s not found after insert", p.ID)
	}

	entry := s.logger().WithFields(logrus.Fields{
		"payment_id": p.ID,
		"lease_id":   p.LeaseID,
		"amount":     p.Amount.StringFixed(2),
		"method":     p.Method,
		"tenant":     stored.TenantName,
	})
	if dup != "" {
		entry.WithField("duplicate_of", dup).Warn("payment recorded, possible duplicate")
	} else {
		entry.Info("payment recorded")
	}
	return RecordResult{Payment: *stored, DuplicateOf: dup}, nil
}

// List returns every payment, newest first.
func (s *PaymentService) List(ctx context.Context) ([]repository.PaymentView, error) {
	return s.Payments.ListViews(ctx, repository.PaymentFilters{})
}

func (s *PaymentService) findDuplicate(ctx context.Context, d payments.PaymentDraft, paidOn time.Time) (string, error) {
	window := time.Duration(duplicateWindowDays) * 24 * time.Hour
	existing, err := s.Payments.ListViews(ctx, repository.PaymentFilters{
		LeaseID: d.LeaseID,
		From:    paidOn.Add(-window),
		To:      paidOn.Add(window),
	})
	if err != nil {
		return "", fmt.Errorf("duplicate check: %w", err)
	}
	for _, p := range existing {
		if p.Amount.Equal(d.Amount) && daysApart(p.PaidOn, paidOn) <= duplicateWindowDays {
			return p.ID, nil
		}
	}
	return "", nil
}

func (s *PaymentService) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

func daysApart(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
