package gorm

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/identity"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/store"
)

// Ensure RoleStore implements store.RoleStore
var _ store.RoleStore = (*RoleStore)(nil)

// RoleStore implements store.RoleStore using GORM
type RoleStore struct {
	db *gorm.DB
}

// NewRoleStore creates a new RoleStore
func NewRoleStore(db *gorm.DB) *RoleStore {
	return &RoleStore{db: db}
}

// Get retrieves a role by id
func (s *RoleStore) Get(ctx context.Context, id int64) (*model.Role, error) {
	var role model.Role
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errdefs.NotFound("role %d", id)
		}
		return nil, err
	}
	return &role, nil
}

// GetByIDs returns the roles with the given ids
func (s *RoleStore) GetByIDs(ctx context.Context, ids []int64) ([]model.Role, error) {
	if len(ids) == 0 {
		return []model.Role{}, nil
	}
	var roles []model.Role
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// Exists reports whether a role exists
func (s *RoleStore) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.WithContext(ctx).Raw(`SELECT EXISTS(SELECT 1 FROM roles WHERE id = ?)`, id).Scan(&exists).Error
	return exists, err
}

// Create stores a role with a unique name
func (s *RoleStore) Create(ctx context.Context, role *model.Role) error {
	if strings.TrimSpace(role.Name) == "" {
		return errdefs.InvalidArgument("role name is required")
	}

	var nameTaken bool
	if err := s.db.WithContext(ctx).Raw(`SELECT EXISTS(SELECT 1 FROM roles WHERE name = ?)`, role.Name).Scan(&nameTaken).Error; err != nil {
		return err
	}
	if nameTaken {
		return errdefs.UniquenessConflict("role name %q is taken", role.Name)
	}

	role.Touch(identity.UserID(ctx), time.Now().UTC())

	var id int64
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO roles (name, description, create_user, last_update_user, create_date, last_update)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, role.Name, role.Description, role.CreateUser, role.LastUpdateUser, role.CreateDate, role.LastUpdate).Scan(&id).Error
	if err != nil {
		return translateError(err)
	}
	role.ID = &id
	return nil
}
