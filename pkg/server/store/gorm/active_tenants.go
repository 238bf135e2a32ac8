package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/iam-in-go/pkg/identity"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/store"
)

// Ensure ActiveTenantStore implements store.ActiveTenantStore
var _ store.ActiveTenantStore = (*ActiveTenantStore)(nil)

// ActiveTenantStore implements store.ActiveTenantStore using GORM
type ActiveTenantStore struct {
	db *gorm.DB
}

// NewActiveTenantStore creates a new ActiveTenantStore
func NewActiveTenantStore(db *gorm.DB) *ActiveTenantStore {
	return &ActiveTenantStore{db: db}
}

// GetByUser lists the active tenant records of a user
func (s *ActiveTenantStore) GetByUser(ctx context.Context, userID int64) ([]model.ActiveTenant, error) {
	var rows []model.ActiveTenant
	err := s.db.WithContext(ctx).Raw(`
		SELECT id, user_id, tenant_id, is_tenant_active, create_user, last_update_user, create_date, last_update
		FROM active_tenants
		WHERE user_id = ?
		ORDER BY id
	`, userID).Scan(&rows).Error
	return rows, err
}

// Exists reports whether the user has a record for the tenant
func (s *ActiveTenantStore) Exists(ctx context.Context, userID, tenantID int64) (bool, error) {
	var exists bool
	err := s.db.WithContext(ctx).
		Raw(`SELECT EXISTS(SELECT 1 FROM active_tenants WHERE user_id = ? AND tenant_id = ?)`, userID, tenantID).
		Scan(&exists).Error
	return exists, err
}

// Create stores a new record
func (s *ActiveTenantStore) Create(ctx context.Context, at *model.ActiveTenant) error {
	at.Touch(identity.UserID(ctx), time.Now().UTC())

	var id int64
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO active_tenants (user_id, tenant_id, is_tenant_active, create_user, last_update_user, create_date, last_update)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, at.UserID, at.TenantID, at.IsTenantActive, at.CreateUser, at.LastUpdateUser, at.CreateDate, at.LastUpdate).Scan(&id).Error
	if err != nil {
		return translateError(err)
	}
	at.ID = &id
	return nil
}

// DeleteByUserAndTenant removes the user's record for the tenant
func (s *ActiveTenantStore) DeleteByUserAndTenant(ctx context.Context, userID, tenantID int64) (bool, error) {
	res := s.db.WithContext(ctx).Exec(`DELETE FROM active_tenants WHERE user_id = ? AND tenant_id = ?`, userID, tenantID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
