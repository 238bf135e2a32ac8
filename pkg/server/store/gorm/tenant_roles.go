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

// Ensure TenantRoleStore implements store.TenantRoleStore
var _ store.TenantRoleStore = (*TenantRoleStore)(nil)

const tenantRoleColumns = `id, tenant_id, role_id, create_user, last_update_user, create_date, last_update`

// TenantRoleStore implements store.TenantRoleStore using GORM
type TenantRoleStore struct {
	db *gorm.DB
}

// NewTenantRoleStore creates a new TenantRoleStore
func NewTenantRoleStore(db *gorm.DB) *TenantRoleStore {
	return &TenantRoleStore{db: db}
}

// GetAll returns one page of tenant roles ordered by id
func (s *TenantRoleStore) GetAll(ctx context.Context, filter store.TenantRoleFilter, pageNo, pageSize int) (*model.Page[model.TenantRole], error) {
	if err := store.ValidatePaging(pageNo, pageSize); err != nil {
		return nil, err
	}

	where, args := tenantRoleWhere(filter.TenantID, filter.RoleID, true)

	var total int64
	if err := s.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM tenant_roles`+where, args...).Scan(&total).Error; err != nil {
		return nil, err
	}

	var rows []model.TenantRole
	query := `SELECT ` + tenantRoleColumns + ` FROM tenant_roles` + where + ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, pageSize, store.Offset(pageNo, pageSize))
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return model.NewPage(rows, pageNo, pageSize, total), nil
}

// Get retrieves a tenant role by id
func (s *TenantRoleStore) Get(ctx context.Context, id int64) (*model.TenantRole, error) {
	var tr model.TenantRole
	res := s.db.WithContext(ctx).Raw(`SELECT `+tenantRoleColumns+` FROM tenant_roles WHERE id = ?`, id).Scan(&tr)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errdefs.NotFound("tenant role %d", id)
	}
	return &tr, nil
}

// Search returns the tenant roles matching the filter
func (s *TenantRoleStore) Search(ctx context.Context, filter store.TenantRoleSearch) ([]model.TenantRole, error) {
	where, args := tenantRoleWhere(filter.TenantID, filter.RoleID, filter.IsLogicalConjunction)

	var rows []model.TenantRole
	err := s.db.WithContext(ctx).
		Raw(`SELECT `+tenantRoleColumns+` FROM tenant_roles`+where+` ORDER BY id`, args...).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Save inserts or updates a tenant role
func (s *TenantRoleStore) Save(ctx context.Context, tr *model.TenantRole) error {
	duplicated, err := s.isDuplicated(ctx, tr)
	if err != nil {
		return err
	}
	if duplicated {
		return errdefs.UniquenessConflict("tenant %d already has role %d", tr.TenantID, tr.RoleID)
	}

	userID, now := identity.UserID(ctx), time.Now().UTC()

	if tr.ID == nil {
		tr.Touch(userID, now)
		var id int64
		err := s.db.WithContext(ctx).Raw(`
			INSERT INTO tenant_roles (tenant_id, role_id, create_user, last_update_user, create_date, last_update)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id
		`, tr.TenantID, tr.RoleID, tr.CreateUser, tr.LastUpdateUser, tr.CreateDate, tr.LastUpdate).Scan(&id).Error
		if err != nil {
			return translateError(err)
		}
		tr.ID = &id
		return nil
	}

	tr.Modified(userID, now)
	found, err := updateAudited(ctx, s.db, &tr.Audit, `
		UPDATE tenant_roles
		SET tenant_id = ?, role_id = ?, last_update_user = ?, last_update = ?
		WHERE id = ?`, tr.TenantID, tr.RoleID, tr.LastUpdateUser, tr.LastUpdate, *tr.ID)
	if err != nil {
		return err
	}
	if !found {
		return errdefs.NotFound("tenant role %d", *tr.ID)
	}
	return nil
}

func (s *TenantRoleStore) isDuplicated(ctx context.Context, tr *model.TenantRole) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tenant_roles WHERE tenant_id = ? AND role_id = ?`
	args := []interface{}{tr.TenantID, tr.RoleID}
	if tr.ID != nil {
		query += ` AND id <> ?`
		args = append(args, *tr.ID)
	}
	query += `)`

	var exists bool
	err := s.db.WithContext(ctx).Raw(query, args...).Scan(&exists).Error
	return exists, err
}

// IsAssociationAlreadyExistent reports whether the tenant already has the role
func (s *TenantRoleStore) IsAssociationAlreadyExistent(ctx context.Context, roleID, tenantID int64) (bool, error) {
	var exists bool
	err := s.db.WithContext(ctx).
		Raw(`SELECT EXISTS(SELECT 1 FROM tenant_roles WHERE tenant_id = ? AND role_id = ?)`, tenantID, roleID).
		Scan(&exists).Error
	return exists, err
}

// Delete removes a tenant role that no user or permission references
func (s *TenantRoleStore) Delete(ctx context.Context, id int64) (bool, error) {
	db := s.db.WithContext(ctx)

	var hasUsers bool
	if err := db.Raw(`SELECT EXISTS(SELECT 1 FROM tenant_role_users WHERE tenant_role_id = ?)`, id).Scan(&hasUsers).Error; err != nil {
		return false, err
	}
	if hasUsers {
		return false, errdefs.DependencyConflict("tenant role %d is still assigned to users", id)
	}

	var hasPermissions bool
	if err := db.Raw(`SELECT EXISTS(SELECT 1 FROM tenant_role_permissions WHERE tenant_role_id = ?)`, id).Scan(&hasPermissions).Error; err != nil {
		return false, err
	}
	if hasPermissions {
		return false, errdefs.DependencyConflict("tenant role %d still has permissions", id)
	}

	res := db.Exec(`DELETE FROM tenant_roles WHERE id = ?`, id)
	if res.Error != nil {
		// A grant created after the checks above is caught by the foreign keys
		if pgErrorCode(res.Error) == pgForeignKeyViolation {
			return false, errdefs.DependencyConflict("tenant role %d is still referenced", id)
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GetTenantRoleID resolves the id registered for (tenantId, roleId)
func (s *TenantRoleStore) GetTenantRoleID(ctx context.Context, tenantID, roleID int64) (int64, bool, error) {
	var rows []idRow
	err := s.db.WithContext(ctx).
		Raw(`SELECT id FROM tenant_roles WHERE tenant_id = ? AND role_id = ?`, tenantID, roleID).
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return 0, false, err
	}
	return rows[0].ID, true, nil
}

// Count returns the number of tenant roles
func (s *TenantRoleStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM tenant_roles`).Scan(&count).Error
	return count, err
}

// GetRoleIDsForUserTenant lists the roles a user holds
func (s *TenantRoleStore) GetRoleIDsForUserTenant(ctx context.Context, userID int64, tenantID *int64) ([]int64, error) {
	query := `
		SELECT DISTINCT tr.role_id AS id
		FROM tenant_roles tr
		JOIN tenant_role_users tru ON tru.tenant_role_id = tr.id
		WHERE tru.user_id = ?`
	args := []interface{}{userID}
	if tenantID != nil {
		query += ` AND tr.tenant_id = ?`
		args = append(args, *tenantID)
	}
	return s.scanIDs(ctx, query+` ORDER BY id`, args...)
}

// GetTenantIDs lists the tenants a user holds a role in
func (s *TenantRoleStore) GetTenantIDs(ctx context.Context, userID int64, roleID *int64) ([]int64, error) {
	query := `
		SELECT DISTINCT tr.tenant_id AS id
		FROM tenant_roles tr
		JOIN tenant_role_users tru ON tru.tenant_role_id = tr.id
		WHERE tru.user_id = ?`
	args := []interface{}{userID}
	if roleID != nil {
		query += ` AND tr.role_id = ?`
		args = append(args, *roleID)
	}
	return s.scanIDs(ctx, query+` ORDER BY id`, args...)
}

// GetPermissionIDs lists the permissions granted inside a tenant
func (s *TenantRoleStore) GetPermissionIDs(ctx context.Context, tenantID int64, roleID, userID *int64) ([]int64, error) {
	query := `
		SELECT DISTINCT trp.permission_id AS id
		FROM tenant_role_permissions trp
		JOIN tenant_roles tr ON tr.id = trp.tenant_role_id`
	if userID != nil {
		query += `
		JOIN tenant_role_users tru ON tru.tenant_role_id = tr.id`
	}
	query += `
		WHERE tr.tenant_id = ?`
	args := []interface{}{tenantID}
	if roleID != nil {
		query += ` AND tr.role_id = ?`
		args = append(args, *roleID)
	}
	if userID != nil {
		query += ` AND tru.user_id = ?`
		args = append(args, *userID)
	}
	return s.scanIDs(ctx, query+` ORDER BY id`, args...)
}

// HasPermission reports whether a user is granted a permission
func (s *TenantRoleStore) HasPermission(ctx context.Context, userID, permissionID int64, tenantID *int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM tenant_role_permissions trp
			JOIN tenant_roles tr ON tr.id = trp.tenant_role_id
			JOIN tenant_role_users tru ON tru.tenant_role_id = tr.id
			WHERE tru.user_id = ? AND trp.permission_id = ?`
	args := []interface{}{userID, permissionID}
	if tenantID != nil {
		query += ` AND tr.tenant_id = ?`
		args = append(args, *tenantID)
	}
	query += `)`

	var exists bool
	err := s.db.WithContext(ctx).Raw(query, args...).Scan(&exists).Error
	return exists, err
}

// HasAnyRole reports whether a user holds any of the named roles
func (s *TenantRoleStore) HasAnyRole(ctx context.Context, userID int64, roleNames []string, tenantID *int64) (bool, error) {
	if len(roleNames) == 0 {
		return false, errdefs.InvalidArgument("at least one role name is required")
	}

	query := `
		SELECT EXISTS(
			SELECT 1
			FROM tenant_roles tr
			JOIN roles r ON r.id = tr.role_id
			JOIN tenant_role_users tru ON tru.tenant_role_id = tr.id
			WHERE tru.user_id = ? AND r.name IN ?`
	args := []interface{}{userID, roleNames}
	if tenantID != nil {
		query += ` AND tr.tenant_id = ?`
		args = append(args, *tenantID)
	}
	query += `)`

	var exists bool
	err := s.db.WithContext(ctx).Raw(query, args...).Scan(&exists).Error
	return exists, err
}

func (s *TenantRoleStore) scanIDs(ctx context.Context, query string, args ...interface{}) ([]int64, error) {
	var rows []idRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return idsOf(rows), nil
}

func tenantRoleWhere(tenantID, roleID *int64, conjunction bool) (string, []interface{}) {
	var predicates []string
	var args []interface{}
	if tenantID != nil {
		predicates = append(predicates, "tenant_id = ?")
		args = append(args, *tenantID)
	}
	if roleID != nil {
		predicates = append(predicates, "role_id = ?")
		args = append(args, *roleID)
	}
	if len(predicates) == 0 {
		return "", nil
	}
	sep := " OR "
	if conjunction {
		sep = " AND "
	}
	return " WHERE " + strings.Join(predicates, sep), args
}
