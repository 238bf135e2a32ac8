package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/identity"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/store"
)

// Ensure TenantStore implements store.TenantStore
var _ store.TenantStore = (*TenantStore)(nil)

// TenantStore implements store.TenantStore using GORM
type TenantStore struct {
	db *gorm.DB
}

// NewTenantStore creates a new TenantStore
func NewTenantStore(db *gorm.DB) *TenantStore {
	return &TenantStore{db: db}
}

// Get retrieves a tenant by id
func (s *TenantStore) Get(ctx context.Context, id int64) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errdefs.NotFound("tenant %d", id)
		}
		return nil, err
	}
	return &tenant, nil
}

// GetByIDs returns the tenants with the given ids
func (s *TenantStore) GetByIDs(ctx context.Context, ids []int64) ([]model.Tenant, error) {
	if len(ids) == 0 {
		return []model.Tenant{}, nil
	}
	var tenants []model.Tenant
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// Exists reports whether a tenant exists
func (s *TenantStore) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.WithContext(ctx).Raw(`SELECT EXISTS(SELECT 1 FROM tenants WHERE id = ?)`, id).Scan(&exists).Error
	return exists, err
}

// Create validates and stores a tenant
func (s *TenantStore) Create(ctx context.Context, tenant *model.Tenant) error {
	if err := tenant.Validate(); err != nil {
		return err
	}
	if err := s.validateHierarchy(ctx, tenant); err != nil {
		return err
	}

	var nameTaken bool
	if err := s.db.WithContext(ctx).Raw(`SELECT EXISTS(SELECT 1 FROM tenants WHERE name = ?)`, tenant.Name).Scan(&nameTaken).Error; err != nil {
		return err
	}
	if nameTaken {
		return errdefs.UniquenessConflict("tenant name %q is taken", tenant.Name)
	}

	tenant.Touch(identity.UserID(ctx), time.Now().UTC())

	var id int64
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO tenants (
			name, tenant_key, tenant_type, tenant_start, tenant_end,
			client_address, client_zip_code, client_city, client_country, client_phone_number, client_email,
			parent_id, client_id, create_user, last_update_user, create_date, last_update
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		tenant.Name, tenant.TenantKey, tenant.TenantType.String(), tenant.TenantStart, tenant.TenantEnd,
		tenant.ClientAddress, tenant.ClientZipCode, tenant.ClientCity, tenant.ClientCountry, tenant.ClientPhoneNumber, tenant.ClientEmail,
		tenant.ParentID, tenant.ClientID, tenant.CreateUser, tenant.LastUpdateUser, tenant.CreateDate, tenant.LastUpdate,
	).Scan(&id).Error
	if err != nil {
		return translateError(err)
	}
	tenant.ID = &id
	return nil
}

func (s *TenantStore) validateHierarchy(ctx context.Context, tenant *model.Tenant) error {
	switch tenant.TenantType {
	case model.TenantTypeRoot:
		var rootExists bool
		err := s.db.WithContext(ctx).
			Raw(`SELECT EXISTS(SELECT 1 FROM tenants WHERE tenant_type = ?)`, model.TenantTypeRoot.String()).
			Scan(&rootExists).Error
		if err != nil {
			return err
		}
		if rootExists {
			return errdefs.InvalidArgument("a root tenant already exists")
		}
	case model.TenantTypeClient:
		parent, err := s.parent(ctx, *tenant.ParentID)
		if err != nil {
			return err
		}
		if parent.TenantType == model.TenantTypeSub {
			return errdefs.InvalidArgument("client tenant %q cannot have a sub tenant as parent", tenant.Name)
		}
	case model.TenantTypeSub:
		if _, err := s.parent(ctx, *tenant.ParentID); err != nil {
			return err
		}
		client, err := s.Get(ctx, *tenant.ClientID)
		if errors.Is(err, errdefs.ErrNotFound) {
			return errdefs.InvalidArgument("client tenant %d not found", *tenant.ClientID)
		}
		if err != nil {
			return err
		}
		if client.TenantType != model.TenantTypeClient {
			return errdefs.InvalidArgument("tenant %d is not a client tenant", *tenant.ClientID)
		}
	}
	return nil
}

func (s *TenantStore) parent(ctx context.Context, id int64) (*model.Tenant, error) {
	parent, err := s.Get(ctx, id)
	if errors.Is(err, errdefs.ErrNotFound) {
		return nil, errdefs.InvalidArgument("parent tenant %d not found", id)
	}
	return parent, err
}
