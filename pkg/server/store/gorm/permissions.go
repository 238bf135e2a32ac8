package gorm

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/identity"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/store"
)

// Ensure PermissionStore implements store.PermissionStore
var _ store.PermissionStore = (*PermissionStore)(nil)

// PermissionStore implements store.PermissionStore using GORM
type PermissionStore struct {
	db *gorm.DB
}

// NewPermissionStore creates a new PermissionStore
func NewPermissionStore(db *gorm.DB) *PermissionStore {
	return &PermissionStore{db: db}
}

const permissionColumns = `id, name, action_id, resource_id, create_user, last_update_user, create_date, last_update`

// GetAll returns one page of permissions, optionally narrowed by name
func (s *PermissionStore) GetAll(ctx context.Context, search string, pageNo, pageSize int) (*model.Page[model.Permission], error) {
	if err := store.ValidatePaging(pageNo, pageSize); err != nil {
		return nil, err
	}

	var where string
	var args []interface{}
	if search = strings.TrimSpace(search); search != "" {
		where = ` WHERE name ILIKE ?`
		args = append(args, "%"+escapeLike(search)+"%")
	}

	var total int64
	if err := s.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM permissions`+where, args...).Scan(&total).Error; err != nil {
		return nil, err
	}

	var rows []model.Permission
	query := `SELECT ` + permissionColumns + ` FROM permissions` + where + ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, pageSize, store.Offset(pageNo, pageSize))
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return model.NewPage(rows, pageNo, pageSize, total), nil
}

// escapeLike quotes the LIKE wildcards of s
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// GetByIDs returns the permissions with the given ids
func (s *PermissionStore) GetByIDs(ctx context.Context, ids []int64) ([]model.Permission, error) {
	var permissions []model.Permission
	return permissions, s.findByIDs(ctx, ids, &permissions)
}

// GetActionsByIDs returns the actions with the given ids
func (s *PermissionStore) GetActionsByIDs(ctx context.Context, ids []int64) ([]model.Action, error) {
	var actions []model.Action
	return actions, s.findByIDs(ctx, ids, &actions)
}

// GetResourcesByIDs returns the resources with the given ids
func (s *PermissionStore) GetResourcesByIDs(ctx context.Context, ids []int64) ([]model.Resource, error) {
	var resources []model.Resource
	return resources, s.findByIDs(ctx, ids, &resources)
}

func (s *PermissionStore) findByIDs(ctx context.Context, ids []int64, dest interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(dest).Error
}

// Create stores a permission with a unique name
func (s *PermissionStore) Create(ctx context.Context, permission *model.Permission) error {
	if strings.TrimSpace(permission.Name) == "" {
		return errdefs.InvalidArgument("permission name is required")
	}

	var nameTaken bool
	err := s.db.WithContext(ctx).
		Raw(`SELECT EXISTS(SELECT 1 FROM permissions WHERE name = ?)`, permission.Name).
		Scan(&nameTaken).Error
	if err != nil {
		return err
	}
	if nameTaken {
		return errdefs.UniquenessConflict("permission name %q is taken", permission.Name)
	}

	permission.Touch(identity.UserID(ctx), time.Now().UTC())

	var id int64
	err = s.db.WithContext(ctx).Raw(`
		INSERT INTO permissions (name, action_id, resource_id, create_user, last_update_user, create_date, last_update)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		permission.Name, permission.ActionID, permission.ResourceID,
		permission.CreateUser, permission.LastUpdateUser, permission.CreateDate, permission.LastUpdate,
	).Scan(&id).Error
	if err != nil {
		return translateError(err)
	}
	permission.ID = &id
	return nil
}
