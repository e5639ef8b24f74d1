package notify

import (
	"log/slog"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
)

// Notifier dispatches moderation outcome notifications. Calls are
// fire-and-forget; moderation logic never waits on delivery.
type Notifier interface {
	DocumentReviewed(doc *models.Document)
	RatingModerated(rating *models.Rating)
	ReportHandled(report *models.ContentReport)
}

// LogNotifier writes notification events to the structured log. It stands in
// for the mail dispatcher in environments without one configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) DocumentReviewed(doc *models.Document) {
	slog.Info("notify: document reviewed",
		"document_id", doc.ID,
		"supplier_id", doc.SupplierID,
		"status", string(doc.Status),
	)
}

func (n *LogNotifier) RatingModerated(rating *models.Rating) {
	slog.Info("notify: rating moderated",
		"rating_id", rating.ID,
		"rated_supplier_id", rating.RatedSupplierID,
		"status", string(rating.Status),
	)
}

func (n *LogNotifier) ReportHandled(report *models.ContentReport) {
	slog.Info("notify: report handled",
		"report_id", report.ID,
		"target_supplier_id", report.TargetSupplierID,
		"status", string(report.Status),
	)
}
