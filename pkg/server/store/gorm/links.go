package gorm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/identity"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/store"
)

// linkTable holds the queries shared by the tables linking a tenant role to
// another party (a permission or a user).
type linkTable[T any] struct {
	db     *gorm.DB
	table  string
	column string
	noun   string
}

func (l linkTable[T]) columns() string {
	return "id, tenant_role_id, " + l.column + ", create_user, last_update_user, create_date, last_update"
}

func (l linkTable[T]) getAll(ctx context.Context, tenantRoleID, otherID *int64, pageNo, pageSize int) (*model.Page[T], error) {
	if err := store.ValidatePaging(pageNo, pageSize); err != nil {
		return nil, err
	}

	var predicates []string
	var args []interface{}
	if tenantRoleID != nil {
		predicates = append(predicates, "tenant_role_id = ?")
		args = append(args, *tenantRoleID)
	}
	if otherID != nil {
		predicates = append(predicates, l.column+" = ?")
		args = append(args, *otherID)
	}
	where := ""
	if len(predicates) > 0 {
		where = " WHERE " + strings.Join(predicates, " AND ")
	}

	var total int64
	if err := l.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM `+l.table+where, args...).Scan(&total).Error; err != nil {
		return nil, err
	}

	var rows []T
	query := `SELECT ` + l.columns() + ` FROM ` + l.table + where + ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, pageSize, store.Offset(pageNo, pageSize))
	if err := l.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return model.NewPage(rows, pageNo, pageSize, total), nil
}

func (l linkTable[T]) get(ctx context.Context, id int64) (*T, error) {
	var row T
	res := l.db.WithContext(ctx).Raw(`SELECT `+l.columns()+` FROM `+l.table+` WHERE id = ?`, id).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errdefs.NotFound("%s %d", l.noun, id)
	}
	return &row, nil
}

// save inserts (id == nil) or updates a link and returns its id
func (l linkTable[T]) save(ctx context.Context, id *int64, tenantRoleID, otherID int64, audit *model.Audit) (int64, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ` + l.table + ` WHERE tenant_role_id = ? AND ` + l.column + ` = ?`
	args := []interface{}{tenantRoleID, otherID}
	if id != nil {
		query += ` AND id <> ?`
		args = append(args, *id)
	}
	query += `)`

	var duplicated bool
	if err := l.db.WithContext(ctx).Raw(query, args...).Scan(&duplicated).Error; err != nil {
		return 0, err
	}
	if duplicated {
		return 0, errdefs.UniquenessConflict("%s (tenant role %d, %s %d) already exists", l.noun, tenantRoleID, l.column, otherID)
	}

	userID, now := identity.UserID(ctx), time.Now().UTC()

	if id == nil {
		audit.Touch(userID, now)
		var newID int64
		insert := fmt.Sprintf(`
			INSERT INTO %s (tenant_role_id, %s, create_user, last_update_user, create_date, last_update)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id
		`, l.table, l.column)
		err := l.db.WithContext(ctx).
			Raw(insert, tenantRoleID, otherID, audit.CreateUser, audit.LastUpdateUser, audit.CreateDate, audit.LastUpdate).
			Scan(&newID).Error
		if err != nil {
			return 0, translateError(err)
		}
		return newID, nil
	}

	audit.Modified(userID, now)
	update := fmt.Sprintf(`
		UPDATE %s
		SET tenant_role_id = ?, %s = ?, last_update_user = ?, last_update = ?
		WHERE id = ?`, l.table, l.column)
	found, err := updateAudited(ctx, l.db, audit, update, tenantRoleID, otherID, audit.LastUpdateUser, audit.LastUpdate, *id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errdefs.NotFound("%s %d", l.noun, *id)
	}
	return *id, nil
}

func (l linkTable[T]) delete(ctx context.Context, id int64) (bool, error) {
	res := l.db.WithContext(ctx).Exec(`DELETE FROM `+l.table+` WHERE id = ?`, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (l linkTable[T]) exists(ctx context.Context, tenantRoleID, otherID int64) (bool, error) {
	var exists bool
	err := l.db.WithContext(ctx).
		Raw(`SELECT EXISTS(SELECT 1 FROM `+l.table+` WHERE tenant_role_id = ? AND `+l.column+` = ?)`, tenantRoleID, otherID).
		Scan(&exists).Error
	return exists, err
}

func (l linkTable[T]) associationID(ctx context.Context, tenantRoleID, otherID int64) (int64, bool, error) {
	var rows []idRow
	err := l.db.WithContext(ctx).
		Raw(`SELECT id FROM `+l.table+` WHERE tenant_role_id = ? AND `+l.column+` = ?`, tenantRoleID, otherID).
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return 0, false, err
	}
	return rows[0].ID, true, nil
}

// Ensure TenantRolePermissionStore implements store.TenantRolePermissionStore
var _ store.TenantRolePermissionStore = (*TenantRolePermissionStore)(nil)

// TenantRolePermissionStore implements store.TenantRolePermissionStore using GORM
type TenantRolePermissionStore struct {
	links linkTable[model.TenantRolePermission]
}

// NewTenantRolePermissionStore creates a new TenantRolePermissionStore
func NewTenantRolePermissionStore(db *gorm.DB) *TenantRolePermissionStore {
	return &TenantRolePermissionStore{
		links: linkTable[model.TenantRolePermission]{
			db:     db,
			table:  "tenant_role_permissions",
			column: "permission_id",
			noun:   "tenant role permission",
		},
	}
}

func (s *TenantRolePermissionStore) GetAll(ctx context.Context, filter store.TenantRolePermissionFilter, pageNo, pageSize int) (*model.Page[model.TenantRolePermission], error) {
	return s.links.getAll(ctx, filter.TenantRoleID, filter.PermissionID, pageNo, pageSize)
}

func (s *TenantRolePermissionStore) Get(ctx context.Context, id int64) (*model.TenantRolePermission, error) {
	return s.links.get(ctx, id)
}

func (s *TenantRolePermissionStore) Save(ctx context.Context, link *model.TenantRolePermission) error {
	id, err := s.links.save(ctx, link.ID, link.TenantRoleID, link.PermissionID, &link.Audit)
	if err != nil {
		return err
	}
	link.ID = &id
	return nil
}

func (s *TenantRolePermissionStore) Delete(ctx context.Context, id int64) (bool, error) {
	return s.links.delete(ctx, id)
}

func (s *TenantRolePermissionStore) IsAssociationAlreadyExistent(ctx context.Context, tenantRoleID, permissionID int64) (bool, error) {
	return s.links.exists(ctx, tenantRoleID, permissionID)
}

func (s *TenantRolePermissionStore) GetAssociationID(ctx context.Context, tenantRoleID, permissionID int64) (int64, bool, error) {
	return s.links.associationID(ctx, tenantRoleID, permissionID)
}

// Ensure TenantRoleUserStore implements store.TenantRoleUserStore
var _ store.TenantRoleUserStore = (*TenantRoleUserStore)(nil)

// TenantRoleUserStore implements store.TenantRoleUserStore using GORM
type TenantRoleUserStore struct {
	links linkTable[model.TenantRoleUser]
}

// NewTenantRoleUserStore creates a new TenantRoleUserStore
func NewTenantRoleUserStore(db *gorm.DB) *TenantRoleUserStore {
	return &TenantRoleUserStore{
		links: linkTable[model.TenantRoleUser]{
			db:     db,
			table:  "tenant_role_users",
			column: "user_id",
			noun:   "tenant role user",
		},
	}
}

func (s *TenantRoleUserStore) GetAll(ctx context.Context, filter store.TenantRoleUserFilter, pageNo, pageSize int) (*model.Page[model.TenantRoleUser], error) {
	return s.links.getAll(ctx, filter.TenantRoleID, filter.UserID, pageNo, pageSize)
}

func (s *TenantRoleUserStore) Get(ctx context.Context, id int64) (*model.TenantRoleUser, error) {
	return s.links.get(ctx, id)
}

func (s *TenantRoleUserStore) Save(ctx context.Context, link *model.TenantRoleUser) error {
	id, err := s.links.save(ctx, link.ID, link.TenantRoleID, link.UserID, &link.Audit)
	if err != nil {
		return err
	}
	link.ID = &id
	return nil
}

func (s *TenantRoleUserStore) Delete(ctx context.Context, id int64) (bool, error) {
	return s.links.delete(ctx, id)
}

func (s *TenantRoleUserStore) IsAssociationAlreadyExistent(ctx context.Context, tenantRoleID, userID int64) (bool, error) {
	return s.links.exists(ctx, tenantRoleID, userID)
}

func (s *TenantRoleUserStore) GetAssociationID(ctx context.Context, tenantRoleID, userID int64) (int64, bool, error) {
	return s.links.associationID(ctx, tenantRoleID, userID)
}

// IsUserAssociatedWithTenant reports whether the user holds any role in the tenant
func (s *TenantRoleUserStore) IsUserAssociatedWithTenant(ctx context.Context, userID, tenantID int64) (bool, error) {
	var exists bool
	err := s.links.db.WithContext(ctx).Raw(`
		SELECT EXISTS(
			SELECT 1
			FROM tenant_role_users tru
			JOIN tenant_roles tr ON tr.id = tru.tenant_role_id
			WHERE tru.user_id = ? AND tr.tenant_id = ?
		)`, userID, tenantID).Scan(&exists).Error
	return exists, err
}
