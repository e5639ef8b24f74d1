package services

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/notify"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrSupplierNotFound  = errors.New("supplier not found")
	ErrDocumentFinalized = errors.New("document already reviewed")
)

var mimeByExt = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// DocumentService drives the supplier verification document lifecycle.
// A supplier holds at most one document of record: submitting a new one
// supersedes and removes the old. Approval activates the supplier account.
type DocumentService struct {
	db       *gorm.DB
	store    storage.Store
	settings *SettingsService
	notifier notify.Notifier
}

func NewDocumentService(db *gorm.DB, store storage.Store, settings *SettingsService, notifier notify.Notifier) *DocumentService {
	return &DocumentService{db: db, store: store, settings: settings, notifier: notifier}
}

func (s *DocumentService) validateFile(fileName string, size int64) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	allowed := false
	for _, a := range s.settings.AllowedFileExts() {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return invalid("file", fmt.Sprintf("file type %q is not allowed", ext))
	}
	if size == 0 {
		return invalid("file", "file is empty")
	}
	if max := s.settings.MaxUploadBytes(); size > max {
		return invalid("file", fmt.Sprintf("file exceeds the %d MB limit", max/(1024*1024)))
	}
	return nil
}

// Submit stores a new verification document. Prior documents for the
// supplier are superseded: rows go in the same transaction, files
// afterwards best-effort. The supplier account drops back to pending while
// verification is in progress.
func (s *DocumentService) Submit(supplierID uuid.UUID, fileName string, data []byte) (*models.Document, error) {
	if err := s.validateFile(fileName, int64(len(data))); err != nil {
		return nil, err
	}

	var supplier models.Supplier
	if err := s.db.First(&supplier, "id = ?", supplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to load supplier: %w", err)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	storedName := uuid.New().String() + "." + ext
	path, err := s.store.Save("documents", storedName, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	var oldPaths []string
	doc := models.Document{
		ID:         uuid.New(),
		SupplierID: supplierID,
		FilePath:   path,
		FileName:   fileName,
		MimeType:   mimeByExt[ext],
		SizeBytes:  int64(len(data)),
		Status:     models.DocumentPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var old []models.Document
		if err := tx.Where("supplier_id = ?", supplierID).Find(&old).Error; err != nil {
			return err
		}
		for _, o := range old {
			oldPaths = append(oldPaths, o.FilePath)
		}
		if len(old) > 0 {
			if err := tx.Where("supplier_id = ?", supplierID).Delete(&models.Document{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}
		return tx.Model(&models.Supplier{}).Where("id = ?", supplierID).
			Update("status", models.SupplierPending).Error
	})
	if err != nil {
		s.removeFile(path)
		return nil, fmt.Errorf("failed to submit document: %w", err)
	}

	for _, p := range oldPaths {
		s.removeFile(p)
	}
	return &doc, nil
}

// Approve marks the document verified and activates the owning supplier if
// it is not active already.
func (s *DocumentService) Approve(adminID, docID uuid.UUID, notes string) (*models.Document, error) {
	return s.review(adminID, docID, models.DocumentVerified, notes, true)
}

// Reject marks the document rejected. The supplier status is untouched.
func (s *DocumentService) Reject(adminID, docID uuid.UUID, notes string) (*models.Document, error) {
	return s.review(adminID, docID, models.DocumentRejected, notes, false)
}

// RequestResubmission sends the document back to pending so the supplier
// re-uploads; the review stamp records who asked and why.
func (s *DocumentService) RequestResubmission(adminID, docID uuid.UUID, notes string) (*models.Document, error) {
	return s.review(adminID, docID, models.DocumentPending, notes, false)
}

func (s *DocumentService) review(adminID, docID uuid.UUID, target models.DocumentStatus, notes string, activateSupplier bool) (*models.Document, error) {
	var doc models.Document
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&doc, "id = ?", docID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDocumentNotFound
			}
			return err
		}
		if _, err := models.ParseDocumentStatus(string(doc.Status)); err != nil {
			return err
		}

		now := time.Now().UTC()
		doc.Status = target
		doc.Notes = notes
		doc.ReviewedBy = &adminID
		doc.ReviewedAt = &now
		if err := tx.Model(&models.Document{}).Where("id = ?", docID).Updates(map[string]interface{}{
			"status":      target,
			"notes":       notes,
			"reviewed_by": adminID,
			"reviewed_at": now,
		}).Error; err != nil {
			return err
		}

		if !activateSupplier {
			return nil
		}
		var supplier models.Supplier
		if err := tx.First(&supplier, "id = ?", doc.SupplierID).Error; err != nil {
			return fmt.Errorf("failed to load supplier: %w", err)
		}
		if _, err := models.ParseSupplierStatus(string(supplier.Status)); err != nil {
			return err
		}
		if supplier.Status == models.SupplierActive {
			return nil
		}
		return tx.Model(&models.Supplier{}).Where("id = ?", supplier.ID).
			Update("status", models.SupplierActive).Error
	})
	if err != nil {
		return nil, err
	}

	go s.notifier.DocumentReviewed(&doc)
	return &doc, nil
}

// Resubmit replaces the file of a still-pending document and clears the
// prior review stamp.
func (s *DocumentService) Resubmit(supplierID, docID uuid.UUID, fileName string, data []byte) (*models.Document, error) {
	var doc models.Document
	if err := s.db.First(&doc, "id = ? AND supplier_id = ?", docID, supplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if _, err := models.ParseDocumentStatus(string(doc.Status)); err != nil {
		return nil, err
	}
	if doc.Status != models.DocumentPending {
		return nil, ErrDocumentFinalized
	}
	if err := s.validateFile(fileName, int64(len(data))); err != nil {
		return nil, err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	storedName := uuid.New().String() + "." + ext
	path, err := s.store.Save("documents", storedName, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	oldPath := doc.FilePath
	err = s.db.Model(&models.Document{}).Where("id = ?", doc.ID).Updates(map[string]interface{}{
		"file_path":   path,
		"file_name":   fileName,
		"mime_type":   mimeByExt[ext],
		"size_bytes":  int64(len(data)),
		"status":      models.DocumentPending,
		"notes":       "",
		"reviewed_by": nil,
		"reviewed_at": nil,
	}).Error
	if err != nil {
		s.removeFile(path)
		return nil, fmt.Errorf("failed to resubmit document: %w", err)
	}

	s.removeFile(oldPath)

	doc.FilePath = path
	doc.FileName = fileName
	doc.MimeType = mimeByExt[ext]
	doc.SizeBytes = int64(len(data))
	doc.Status = models.DocumentPending
	doc.Notes = ""
	doc.ReviewedBy = nil
	doc.ReviewedAt = nil
	return &doc, nil
}

// Destroy removes a not-yet-finalized document, file and row.
func (s *DocumentService) Destroy(supplierID, docID uuid.UUID) error {
	var doc models.Document
	if err := s.db.First(&doc, "id = ? AND supplier_id = ?", docID, supplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to load document: %w", err)
	}
	if _, err := models.ParseDocumentStatus(string(doc.Status)); err != nil {
		return err
	}
	if doc.Status != models.DocumentPending {
		return ErrDocumentFinalized
	}

	if err := s.db.Delete(&models.Document{}, "id = ?", doc.ID).Error; err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	s.removeFile(doc.FilePath)
	return nil
}

// ListForSupplier returns the supplier's own documents.
func (s *DocumentService) ListForSupplier(supplierID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	if err := s.db.Where("supplier_id = ?", supplierID).Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// List returns documents for the admin panel, optionally filtered by status.
func (s *DocumentService) List(status string, limit, offset int) ([]models.Document, int64, error) {
	var docs []models.Document
	var total int64

	query := s.db.Model(&models.Document{})
	if status != "" {
		parsed, err := models.ParseDocumentStatus(status)
		if err != nil {
			return nil, 0, invalid("status", err.Error())
		}
		query = query.Where("status = ?", parsed)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&docs).Error; err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// DeleteAllForSupplier removes every document row and file for a supplier.
// Used by account deletion.
func (s *DocumentService) DeleteAllForSupplier(tx *gorm.DB, supplierID uuid.UUID) error {
	var docs []models.Document
	if err := tx.Where("supplier_id = ?", supplierID).Find(&docs).Error; err != nil {
		return err
	}
	if err := tx.Where("supplier_id = ?", supplierID).Delete(&models.Document{}).Error; err != nil {
		return err
	}
	for _, d := range docs {
		s.removeFile(d.FilePath)
	}
	return nil
}

// removeFile is best-effort: storage failures are logged, never fatal to the
// row-level change that already happened.
func (s *DocumentService) removeFile(path string) {
	if path == "" {
		return
	}
	if err := s.store.Delete(path); err != nil {
		slog.Error("failed to delete document file", "path", path, "error", err)
	}
}
