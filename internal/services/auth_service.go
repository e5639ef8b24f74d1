package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/config"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/dto"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
)

const (
	ActorTypeSupplier = "supplier"
	ActorTypeAdmin    = "admin"
)

type AuthService struct {
	db   *gorm.DB
	cfg  *config.Config
	docs *DocumentService
}

func NewAuthService(db *gorm.DB, cfg *config.Config, docs *DocumentService) *AuthService {
	return &AuthService{db: db, cfg: cfg, docs: docs}
}

// RegisterSupplier creates a supplier account in pending status; the account
// activates once a verification document is approved.
func (s *AuthService) RegisterSupplier(req *dto.RegisterSupplierRequest) (*dto.AuthResponse, error) {
	fields := map[string]string{}
	if req.Name == "" {
		fields["name"] = "name is required"
	}
	if req.Email == "" {
		fields["email"] = "email is required"
	}
	if len(req.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var existing models.Supplier
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	supplier := models.Supplier{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Phone:    req.Phone,
		Status:   models.SupplierPending,
	}
	if err := s.db.Create(&supplier).Error; err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	return s.generateTokenPair(ActorTypeSupplier, supplier.ID, supplier.Email, supplier.Name)
}

// Login authenticates a supplier or admin by email. Suppliers are checked
// first; the issued token carries the actor type in its claims.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var supplier models.Supplier
	if err := s.db.Where("email = ?", req.Email).First(&supplier).Error; err == nil {
		if bcrypt.CompareHashAndPassword([]byte(supplier.Password), []byte(req.Password)) != nil {
			return nil, ErrInvalidCredentials
		}
		return s.generateTokenPair(ActorTypeSupplier, supplier.ID, supplier.Email, supplier.Name)
	}

	var admin models.Admin
	if err := s.db.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.generateTokenPair(ActorTypeAdmin, admin.ID, admin.Email, admin.Name)
}

// Refresh rotates the refresh token: the presented token is revoked and a
// fresh pair issued.
func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	switch stored.ActorType {
	case ActorTypeSupplier:
		var supplier models.Supplier
		if err := s.db.First(&supplier, "id = ?", stored.ActorID).Error; err != nil {
			return nil, fmt.Errorf("supplier not found: %w", err)
		}
		return s.generateTokenPair(ActorTypeSupplier, supplier.ID, supplier.Email, supplier.Name)
	case ActorTypeAdmin:
		var admin models.Admin
		if err := s.db.First(&admin, "id = ?", stored.ActorID).Error; err != nil {
			return nil, fmt.Errorf("admin not found: %w", err)
		}
		return s.generateTokenPair(ActorTypeAdmin, admin.ID, admin.Email, admin.Name)
	}
	return nil, ErrInvalidToken
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// UpdateProfile is the self-service carve-out: any authenticated supplier
// may change its own display fields.
func (s *AuthService) UpdateProfile(supplierID uuid.UUID, req *dto.UpdateProfileRequest) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.First(&supplier, "id = ?", supplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if len(updates) == 0 {
		return &supplier, nil
	}
	if err := s.db.Model(&supplier).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &supplier, nil
}

// DeleteAccount removes a supplier and everything hanging off it: refresh
// tokens, documents (rows and files), ratings in both directions, reports.
func (s *AuthService) DeleteAccount(supplierID uuid.UUID, password string) error {
	var supplier models.Supplier
	if err := s.db.First(&supplier, "id = ?", supplierID).Error; err != nil {
		return ErrSupplierNotFound
	}

	if password == "" {
		return invalid("password", "password is required")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(supplier.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("actor_type = ? AND actor_id = ?", ActorTypeSupplier, supplierID).Delete(&models.RefreshToken{})
		if err := s.docs.DeleteAllForSupplier(tx, supplierID); err != nil {
			return err
		}
		tx.Where("rater_supplier_id = ? OR rated_supplier_id = ?", supplierID, supplierID).Delete(&models.Rating{})
		tx.Where("reporter_supplier_id = ? OR target_supplier_id = ?", supplierID, supplierID).Delete(&models.ContentReport{})
		return tx.Delete(&supplier).Error
	})
}

func (s *AuthService) generateTokenPair(actorType string, id uuid.UUID, email, name string) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(actorType, id, email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(actorType, id)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Actor: dto.ActorSummary{
			ID:    id,
			Type:  actorType,
			Email: email,
			Name:  name,
		},
	}, nil
}

func (s *AuthService) generateAccessToken(actorType string, id uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   id.String(),
		"email": email,
		"typ":   actorType,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(actorType string, id uuid.UUID) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	stored := models.RefreshToken{
		ID:        uuid.New(),
		ActorType: actorType,
		ActorID:   id,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.db.Create(&stored).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return token, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum)
}
