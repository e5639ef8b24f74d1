package services

import (
	"os"
	"testing"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDocumentService(t *testing.T) (*DocumentService, *testDocEnv) {
	t.Helper()
	db := newTestDB(t)
	root := t.TempDir()
	store, err := storage.NewLocalStore(root)
	require.NoError(t, err)
	settings := NewSettingsService(db)
	require.NoError(t, settings.SeedDefaults())
	svc := NewDocumentService(db, store, settings, testNotifier())
	return svc, &testDocEnv{db: db, root: root, settings: settings}
}

type testDocEnv struct {
	db       *gorm.DB
	root     string
	settings *SettingsService
}

func (e *testDocEnv) fileExists(t *testing.T, stored string) bool {
	t.Helper()
	abs, err := storage.Resolve(e.root, stored)
	require.NoError(t, err)
	_, err = os.Stat(abs)
	if err == nil {
		return true
	}
	require.True(t, os.IsNotExist(err))
	return false
}

func TestDocumentSubmitSupersedesPrior(t *testing.T) {
	svc, env := newDocumentService(t)
	supplier := createSupplier(t, env.db, models.SupplierActive)

	first, err := svc.Submit(supplier.ID, "license.pdf", []byte("first"))
	require.NoError(t, err)
	require.True(t, env.fileExists(t, first.FilePath))

	second, err := svc.Submit(supplier.ID, "license-v2.pdf", []byte("second"))
	require.NoError(t, err)

	var docs []models.Document
	require.NoError(t, env.db.Where("supplier_id = ?", supplier.ID).Find(&docs).Error)
	require.Len(t, docs, 1)
	assert.Equal(t, second.ID, docs[0].ID)
	assert.Equal(t, models.DocumentPending, docs[0].Status)

	// Superseded file is gone, replacement is on disk.
	assert.False(t, env.fileExists(t, first.FilePath))
	assert.True(t, env.fileExists(t, second.FilePath))

	// A fresh submission parks the supplier back in pending.
	var reloaded models.Supplier
	require.NoError(t, env.db.First(&reloaded, "id = ?", supplier.ID).Error)
	assert.Equal(t, models.SupplierPending, reloaded.Status)
}

func TestDocumentSubmitValidation(t *testing.T) {
	svc, env := newDocumentService(t)
	supplier := createSupplier(t, env.db, models.SupplierPending)

	_, err := svc.Submit(supplier.ID, "malware.exe", []byte("data"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "file")

	_, err = svc.Submit(supplier.ID, "empty.pdf", nil)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["file"], "empty")

	// Shrink the upload ceiling and verify it is enforced.
	_, err = env.settings.Set(SettingMaxUploadMB, "0", "int")
	require.NoError(t, err)
	_, err = svc.Submit(supplier.ID, "big.pdf", []byte("over the limit"))
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["file"], "limit")

	// No rows or supplier changes from failed submissions.
	var count int64
	env.db.Model(&models.Document{}).Count(&count)
	assert.Zero(t, count)
}

func TestDocumentSubmitUnknownSupplier(t *testing.T) {
	svc, _ := newDocumentService(t)
	_, err := svc.Submit(uuid.New(), "license.pdf", []byte("data"))
	require.ErrorIs(t, err, ErrSupplierNotFound)
}

func TestDocumentApproveActivatesSupplier(t *testing.T) {
	svc, env := newDocumentService(t)
	supplier := createSupplier(t, env.db, models.SupplierPending)
	admin := uuid.New()

	doc, err := svc.Submit(supplier.ID, "license.pdf", []byte("data"))
	require.NoError(t, err)

	reviewed, err := svc.Approve(admin, doc.ID, "looks good")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentVerified, reviewed.Status)
	assert.Equal(t, "looks good", reviewed.Notes)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, admin, *reviewed.ReviewedBy)
	assert.NotNil(t, reviewed.ReviewedAt)

	var reloaded models.Supplier
	require.NoError(t, env.db.First(&reloaded, "id = ?", supplier.ID).Error)
	assert.Equal(t, models.SupplierActive, reloaded.Status)
}

func TestDocumentApproveAlreadyActiveSupplier(t *testing.T) {
	// An already-active supplier stays active; approval never downgrades.
	svc, env := newDocumentService(t)
	supplier := createSupplier(t, env.db, models.SupplierPending)

	doc, err := svc.Submit(supplier.ID, "license.pdf", []byte("data"))
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&models.Supplier{}).
		Where("id = ?", supplier.ID).Update("status", models.SupplierActive).Error)

	_, err = svc.Approve(uuid.New(), doc.ID, "")
	require.NoError(t, err)

	var reloaded models.Supplier
	require.NoError(t, env.db.First(&reloaded, "id = ?", supplier.ID).Error)
	assert.Equal(t, models.SupplierActive, reloaded.Status)
}

func TestDocumentRejectKeepsSupplierPending(t *testing.T) {
	svc, env := newDocumentService(t)
	supplier := createSupplier(t, env.db, models.SupplierPending)

	doc, err := svc.Submit(supplier.ID, "license.pdf", []byte("data"))
	require.NoError(t, err)

	rejected, err := svc.Reject(uuid.New(), doc.ID, "unreadable scan")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentRejected, rejected.Status)

	var reloaded models.Supplier
	require.NoError(t, env.db.First(&reloaded, "id = ?", supplier.ID).Error)
	assert.Equal(t, models.SupplierPending, reloaded.Status)
}

func TestDocumentRequestResubmission(t *testing.T) {
	svc, env := newDocumentService(t)
	supplier := createSupplier(t, env.db, models.SupplierPending)
	admin := uuid.New()

	doc, err := svc.Submit(supplier.ID, "license.pdf", []byte("data"))
	require.NoError(t, err)

	back, err := svc.RequestResubmission(admin, doc.ID, "please upload page two")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentPending, back.Status)
	assert.Equal(t, "please upload page two", back.Notes)
	require.NotNil(t, back.ReviewedBy)
	assert.Equal(t, admin, *back.ReviewedBy)
}

func TestDocumentReviewNotFound(t *testing.T) {
	svc, _ := newDocumentService(t)
	_, err := svc.Approve(uuid.New(), uuid.New(), "")
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentResubmitClearsReviewStamp(t *testing.T) {
	svc, env := newDocumentService(t)
	supplier := createSupplier(t, env.db, models.SupplierPending)

	doc, err := svc.Submit(supplier.ID, "license.pdf", []byte("v1"))
	require.NoError(t, err)
	_, err = svc.RequestResubmission(uuid.New(), doc.ID, "page two missing")
	require.NoError(t, err)
	oldPath := doc.FilePath

	fresh, err := svc.Resubmit(supplier.ID, doc.ID, "license-full.pdf", []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, models.DocumentPending, fresh.Status)
	assert.Empty(t, fresh.Notes)
	assert.Nil(t, fresh.ReviewedBy)
	assert.Nil(t, fresh.ReviewedAt)
	assert.Equal(t, "license-full.pdf", fresh.FileName)

	assert.False(t, env.fileExists(t, oldPath))
	assert.True(t, env.fileExists(t, fresh.FilePath))
}

func TestDocumentResubmitRejectedIsFinal(t *testing.T) {
	svc, env := newDocumentService(t)
	supplier := createSupplier(t, env.db, models.SupplierPending)

	doc, err := svc.Submit(supplier.ID, "license.pdf", []byte("v1"))
	require.NoError(t, err)
	_, err = svc.Reject(uuid.New(), doc.ID, "forged")
	require.NoError(t, err)

	_, err = svc.Resubmit(supplier.ID, doc.ID, "license-v2.pdf", []byte("v2"))
	require.ErrorIs(t, err, ErrDocumentFinalized)
}

func TestDocumentDestroy(t *testing.T) {
	svc, env := newDocumentService(t)
	supplier := createSupplier(t, env.db, models.SupplierPending)

	doc, err := svc.Submit(supplier.ID, "license.pdf", []byte("data"))
	require.NoError(t, err)

	require.NoError(t, svc.Destroy(supplier.ID, doc.ID))
	assert.False(t, env.fileExists(t, doc.FilePath))

	var count int64
	env.db.Model(&models.Document{}).Count(&count)
	assert.Zero(t, count)

	// A reviewed document cannot be destroyed by the supplier.
	doc2, err := svc.Submit(supplier.ID, "license-v2.pdf", []byte("data"))
	require.NoError(t, err)
	_, err = svc.Approve(uuid.New(), doc2.ID, "")
	require.NoError(t, err)
	require.ErrorIs(t, svc.Destroy(supplier.ID, doc2.ID), ErrDocumentFinalized)
}

func TestDocumentListFiltersByStatus(t *testing.T) {
	svc, env := newDocumentService(t)
	s1 := createSupplier(t, env.db, models.SupplierPending)
	s2 := createSupplier(t, env.db, models.SupplierPending)

	d1, err := svc.Submit(s1.ID, "a.pdf", []byte("a"))
	require.NoError(t, err)
	_, err = svc.Submit(s2.ID, "b.pdf", []byte("b"))
	require.NoError(t, err)
	_, err = svc.Approve(uuid.New(), d1.ID, "")
	require.NoError(t, err)

	verified, total, err := svc.List("verified", 50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, verified, 1)
	assert.Equal(t, d1.ID, verified[0].ID)

	_, _, err = svc.List("bogus", 50, 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	all, total, err := svc.List("", 50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)
}
