package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/dto"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/notify"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrReportNotFound = errors.New("report not found")

// ReportService drives the content report lifecycle. Transitions always
// stamp handler id and handled-at together; terminal statuses overwrite
// last-write-wins with no reopen action.
type ReportService struct {
	db       *gorm.DB
	filter   *ContentFilter
	notifier notify.Notifier
}

func NewReportService(db *gorm.DB, filter *ContentFilter, notifier notify.Notifier) *ReportService {
	return &ReportService{db: db, filter: filter, notifier: notifier}
}

// Submit files a report against a supplier. When the reporter is an
// authenticated supplier its name/email are snapshotted onto the row so the
// report stays attributable even if the account later disappears.
func (s *ReportService) Submit(reporter *uuid.UUID, req *dto.CreateReportRequest) (*models.ContentReport, error) {
	fields := map[string]string{}
	if strings.TrimSpace(req.ReportType) == "" {
		fields["report_type"] = "report type is required"
	}
	if reporter == nil && req.ReportedByName == "" {
		fields["reported_by_name"] = "reporter name is required for public reports"
	}
	if ok, reason := s.filter.Check(req.Details); !ok {
		fields["details"] = s.filter.Message(reason)
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var target models.Supplier
	if err := s.db.First(&target, "id = ?", req.TargetSupplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to load supplier: %w", err)
	}

	name := req.ReportedByName
	email := req.ReportedByEmail
	if reporter != nil {
		var acct models.Supplier
		if err := s.db.First(&acct, "id = ?", *reporter).Error; err == nil {
			name = acct.Name
			email = acct.Email
		}
	}

	report := models.ContentReport{
		ID:                 uuid.New(),
		TargetSupplierID:   req.TargetSupplierID,
		ReporterSupplierID: reporter,
		ReportedByName:     name,
		ReportedByEmail:    email,
		ReportType:         req.ReportType,
		TargetType:         req.TargetType,
		TargetID:           req.TargetID,
		Status:             models.ReportPending,
		Reason:             req.Reason,
		Details:            req.Details,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

func (s *ReportService) Approve(adminID, reportID uuid.UUID, notes string) (*models.ContentReport, error) {
	return s.transition(adminID, reportID, models.ReportApproved, notes)
}

func (s *ReportService) Dismiss(adminID, reportID uuid.UUID, notes string) (*models.ContentReport, error) {
	return s.transition(adminID, reportID, models.ReportDismissed, notes)
}

func (s *ReportService) Takedown(adminID, reportID uuid.UUID, notes string) (*models.ContentReport, error) {
	return s.transition(adminID, reportID, models.ReportTakedown, notes)
}

// UpdateStatus is the enum-driven variant of the three named transitions.
func (s *ReportService) UpdateStatus(adminID, reportID uuid.UUID, status string, notes string) (*models.ContentReport, error) {
	parsed, err := models.ParseReportStatus(status)
	if err != nil {
		return nil, invalid("status", err.Error())
	}
	return s.transition(adminID, reportID, parsed, notes)
}

func (s *ReportService) transition(adminID, reportID uuid.UUID, target models.ReportStatus, notes string) (*models.ContentReport, error) {
	var report models.ContentReport
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&report, "id = ?", reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return err
		}
		if _, err := models.ParseReportStatus(string(report.Status)); err != nil {
			return err
		}

		// Notes fall back to the prior resolution notes when none supplied.
		if notes == "" {
			notes = report.ResolutionNotes
		}

		now := time.Now().UTC()
		report.Status = target
		report.HandledBy = &adminID
		report.HandledAt = &now
		report.ResolutionNotes = notes
		return tx.Model(&models.ContentReport{}).Where("id = ?", reportID).Updates(map[string]interface{}{
			"status":           target,
			"handled_by":       adminID,
			"handled_at":       now,
			"resolution_notes": notes,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	go s.notifier.ReportHandled(&report)
	return &report, nil
}

// List returns reports for the admin panel, optionally filtered by status.
func (s *ReportService) List(status string, limit, offset int) ([]models.ContentReport, int64, error) {
	var reports []models.ContentReport
	var total int64

	query := s.db.Model(&models.ContentReport{})
	if status != "" {
		parsed, err := models.ParseReportStatus(status)
		if err != nil {
			return nil, 0, invalid("status", err.Error())
		}
		query = query.Where("status = ?", parsed)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}
