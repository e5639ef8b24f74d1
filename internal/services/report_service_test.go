package services

import (
	"testing"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/dto"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReportService(t *testing.T) (*ReportService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewReportService(db, NewContentFilter(), testNotifier()), db
}

func TestReportSubmitValidation(t *testing.T) {
	svc, db := newReportService(t)
	target := createSupplier(t, db, models.SupplierActive)

	_, err := svc.Submit(nil, &dto.CreateReportRequest{TargetSupplierID: target.ID})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "report_type")
	assert.Contains(t, verr.Fields, "reported_by_name")

	_, err = svc.Submit(nil, &dto.CreateReportRequest{
		TargetSupplierID: target.ID,
		ReportType:       "spam",
		ReportedByName:   "Concerned Buyer",
		Details:          "call me at 555-123-4567",
	})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "details")
}

func TestReportSubmitUnknownSupplier(t *testing.T) {
	svc, _ := newReportService(t)
	_, err := svc.Submit(nil, &dto.CreateReportRequest{
		TargetSupplierID: uuid.New(),
		ReportType:       "spam",
		ReportedByName:   "Someone",
	})
	require.ErrorIs(t, err, ErrSupplierNotFound)
}

func TestReportSubmitSnapshotsReporter(t *testing.T) {
	svc, db := newReportService(t)
	target := createSupplier(t, db, models.SupplierActive)
	reporter := createSupplier(t, db, models.SupplierActive)

	report, err := svc.Submit(&reporter.ID, &dto.CreateReportRequest{
		TargetSupplierID: target.ID,
		ReportType:       "fake_profile",
		Reason:           "impersonation",
	})
	require.NoError(t, err)
	require.NotNil(t, report.ReporterSupplierID)
	assert.Equal(t, reporter.ID, *report.ReporterSupplierID)

	// The account's current name/email are copied onto the row.
	assert.Equal(t, reporter.Name, report.ReportedByName)
	assert.Equal(t, reporter.Email, report.ReportedByEmail)
	assert.Equal(t, models.ReportPending, report.Status)
}

func TestReportTransitionStampsHandler(t *testing.T) {
	svc, db := newReportService(t)
	target := createSupplier(t, db, models.SupplierActive)
	admin := uuid.New()

	report, err := svc.Submit(nil, &dto.CreateReportRequest{
		TargetSupplierID: target.ID,
		ReportType:       "abuse",
		ReportedByName:   "Buyer",
	})
	require.NoError(t, err)

	handled, err := svc.Approve(admin, report.ID, "verified the claim")
	require.NoError(t, err)
	assert.Equal(t, models.ReportApproved, handled.Status)
	assert.Equal(t, "verified the claim", handled.ResolutionNotes)

	// Handler id and timestamp always land together.
	require.NotNil(t, handled.HandledBy)
	require.NotNil(t, handled.HandledAt)
	assert.Equal(t, admin, *handled.HandledBy)
}

func TestReportNotesFallBackToPrior(t *testing.T) {
	svc, db := newReportService(t)
	target := createSupplier(t, db, models.SupplierActive)
	admin := uuid.New()

	report, err := svc.Submit(nil, &dto.CreateReportRequest{
		TargetSupplierID: target.ID,
		ReportType:       "abuse",
		ReportedByName:   "Buyer",
	})
	require.NoError(t, err)

	_, err = svc.Dismiss(admin, report.ID, "no evidence found")
	require.NoError(t, err)

	// A later transition without notes keeps the earlier resolution notes.
	redone, err := svc.Takedown(admin, report.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.ReportTakedown, redone.Status)
	assert.Equal(t, "no evidence found", redone.ResolutionNotes)
}

func TestReportTerminalOverwrite(t *testing.T) {
	// Terminal statuses are last-write-wins; there is no reopen step.
	svc, db := newReportService(t)
	target := createSupplier(t, db, models.SupplierActive)
	first := uuid.New()
	second := uuid.New()

	report, err := svc.Submit(nil, &dto.CreateReportRequest{
		TargetSupplierID: target.ID,
		ReportType:       "counterfeit",
		ReportedByName:   "Buyer",
	})
	require.NoError(t, err)

	_, err = svc.Dismiss(first, report.ID, "looked fine")
	require.NoError(t, err)

	redone, err := svc.Takedown(second, report.ID, "new evidence")
	require.NoError(t, err)
	assert.Equal(t, models.ReportTakedown, redone.Status)
	require.NotNil(t, redone.HandledBy)
	assert.Equal(t, second, *redone.HandledBy)
	assert.Equal(t, "new evidence", redone.ResolutionNotes)
}

func TestReportUpdateStatus(t *testing.T) {
	svc, db := newReportService(t)
	target := createSupplier(t, db, models.SupplierActive)
	admin := uuid.New()

	report, err := svc.Submit(nil, &dto.CreateReportRequest{
		TargetSupplierID: target.ID,
		ReportType:       "abuse",
		ReportedByName:   "Buyer",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(admin, report.ID, "takedown", "removing listing")
	require.NoError(t, err)
	assert.Equal(t, models.ReportTakedown, updated.Status)

	_, err = svc.UpdateStatus(admin, report.ID, "reopened", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "status")
}

func TestReportTransitionNotFound(t *testing.T) {
	svc, _ := newReportService(t)
	_, err := svc.Approve(uuid.New(), uuid.New(), "")
	require.ErrorIs(t, err, ErrReportNotFound)
}

func TestReportListFiltersByStatus(t *testing.T) {
	svc, db := newReportService(t)
	target := createSupplier(t, db, models.SupplierActive)

	r1, err := svc.Submit(nil, &dto.CreateReportRequest{
		TargetSupplierID: target.ID, ReportType: "abuse", ReportedByName: "Buyer",
	})
	require.NoError(t, err)
	_, err = svc.Submit(nil, &dto.CreateReportRequest{
		TargetSupplierID: target.ID, ReportType: "spam", ReportedByName: "Buyer",
	})
	require.NoError(t, err)
	_, err = svc.Dismiss(uuid.New(), r1.ID, "")
	require.NoError(t, err)

	pending, total, err := svc.List("pending", 50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, pending, 1)

	_, _, err = svc.List("weird", 50, 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}
