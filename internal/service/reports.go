package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jask/rentdesk/internal/database/repository"
	"github.com/jask/rentdesk/internal/reports"
)

// ReportService feeds stored payments to a report generator.
type ReportService struct {
	Payments  *repository.PaymentRepo
	Generator reports.Generator
	Log       logrus.FieldLogger
}

// Export generates a report for req.
func (s *ReportService) Export(ctx context.Context, req reports.Request) (reports.Artifact, error) {
	if err := req.Validate(); err != nil {
		return reports.Artifact{}, err
	}
	if s.Generator == nil {
		return reports.Artifact{}, fmt.Errorf("export: no report generator configured")
	}
	views, err := s.Payments.ListViews(ctx, repository.PaymentFilters{From: req.DateFrom, To: req.DateTo})
	if err != nil {
		return reports.Artifact{}, fmt.Errorf("export: load payments: %w", err)
	}
	art, err := s.Generator.Generate(ctx, req, Rows(views))
	if err != nil {
		return reports.Artifact{}, err
	}
	log := s.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithFields(logrus.Fields{
		"format": art.Format,
		"rows":   art.Rows,
		"path":   art.Path,
	}).Info("report exported")
	return art, nil
}

// Rows converts listing views to report rows.
func Rows(views []repository.PaymentView) []reports.Row {
	out := make([]reports.Row, 0, len(views))
	for _, v := range views {
		out = append(out, reports.Row{
			Date:     v.PaidOn,
			Tenant:   v.TenantName,
			Property: v.PropertyName,
			Unit:     v.UnitNumber,
			Amount:   v.Amount,
			Method:   v.Method,
			Status:   v.Status,
			Notes:    v.Notes,
		})
	}
	return out
}
