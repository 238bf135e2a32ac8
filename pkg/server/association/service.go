package association

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/iam-in-go/pkg/audit"
	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/identity"
	"github.com/doodlesbykumbi/iam-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/store"
)

const (
	kindPermission = "permission"
	kindUser       = "user"

	opAssign   = "assign"
	opUnassign = "unassign"
)

// Stores groups the stores the Service works on
type Stores struct {
	TenantRoles           store.TenantRoleStore
	TenantRolePermissions store.TenantRolePermissionStore
	TenantRoleUsers       store.TenantRoleUserStore
	ActiveTenants         store.ActiveTenantStore
	Tenants               store.TenantStore
	Roles                 store.RoleStore
}

// Service links permissions and users to (tenant, role) pairs
type Service struct {
	tenantRoles   store.TenantRoleStore
	permissions   store.TenantRolePermissionStore
	users         store.TenantRoleUserStore
	activeTenants store.ActiveTenantStore
	tenants       store.TenantStore
	roles         store.RoleStore
	logger        *zap.Logger
}

// NewService creates a Service. A nil logger discards log output.
func NewService(stores Stores, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tenantRoles:   stores.TenantRoles,
		permissions:   stores.TenantRolePermissions,
		users:         stores.TenantRoleUsers,
		activeTenants: stores.ActiveTenants,
		tenants:       stores.Tenants,
		roles:         stores.Roles,
		logger:        logger.Named("association"),
	}
}

// AssignPermission grants permissionID to roleID inside tenantID. The tenant
// role is created when missing. Assigning twice returns the existing link.
func (s *Service) AssignPermission(ctx context.Context, tenantID, roleID, permissionID int64) (link *model.TenantRolePermission, err error) {
	defer s.record(ctx, kindPermission, opAssign, tenantID, roleID, permissionID, &err)

	tenantRoleID, err := s.ensureTenantRole(ctx, tenantID, roleID)
	if err != nil {
		return nil, err
	}

	if link, err = s.existingPermission(ctx, tenantRoleID, permissionID); link != nil || err != nil {
		return link, err
	}

	link = &model.TenantRolePermission{TenantRoleID: tenantRoleID, PermissionID: permissionID}
	if err = s.permissions.Save(ctx, link); err != nil {
		if !errors.Is(err, errdefs.ErrUniquenessConflict) {
			return nil, err
		}
		// concurrent assignment of the same permission
		if link, err = s.existingPermission(ctx, tenantRoleID, permissionID); link != nil || err != nil {
			return link, err
		}
		return nil, errdefs.UniquenessConflict("permission %d on tenant role %d", permissionID, tenantRoleID)
	}
	return link, nil
}

// UnassignPermission removes the permission link. The tenant role stays.
func (s *Service) UnassignPermission(ctx context.Context, tenantID, roleID, permissionID int64) (err error) {
	defer s.record(ctx, kindPermission, opUnassign, tenantID, roleID, permissionID, &err)

	tenantRoleID, err := s.tenantRoleID(ctx, tenantID, roleID)
	if err != nil {
		return err
	}
	linkID, found, err := s.permissions.GetAssociationID(ctx, tenantRoleID, permissionID)
	if err != nil {
		return err
	}
	if !found {
		return errdefs.NotFound("permission %d is not assigned to role %d in tenant %d", permissionID, roleID, tenantID)
	}

	deleted, err := s.permissions.Delete(ctx, linkID)
	if err != nil {
		return err
	}
	if !deleted {
		return errdefs.NotFound("permission %d is not assigned to role %d in tenant %d", permissionID, roleID, tenantID)
	}
	return nil
}

// AssignUser grants roleID inside tenantID to userID and makes the tenant
// available to the user. The first tenant a user receives is flagged active.
func (s *Service) AssignUser(ctx context.Context, tenantID, roleID, userID int64) (link *model.TenantRoleUser, err error) {
	defer s.record(ctx, kindUser, opAssign, tenantID, roleID, userID, &err)

	tenantRoleID, err := s.ensureTenantRole(ctx, tenantID, roleID)
	if err != nil {
		return nil, err
	}

	link, err = s.existingUser(ctx, tenantRoleID, userID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		link = &model.TenantRoleUser{TenantRoleID: tenantRoleID, UserID: userID}
		if err = s.users.Save(ctx, link); err != nil {
			if !errors.Is(err, errdefs.ErrUniquenessConflict) {
				return nil, err
			}
			if link, err = s.existingUser(ctx, tenantRoleID, userID); err != nil {
				return nil, err
			}
			if link == nil {
				return nil, errdefs.UniquenessConflict("user %d on tenant role %d", userID, tenantRoleID)
			}
		}
	}

	if err = s.ensureActiveTenant(ctx, userID, tenantID); err != nil {
		return nil, err
	}
	return link, nil
}

// UnassignUser removes the user link. Once the user holds no role in the
// tenant anymore its active tenant record is removed too. The tenant role
// stays.
func (s *Service) UnassignUser(ctx context.Context, tenantID, roleID, userID int64) (err error) {
	defer s.record(ctx, kindUser, opUnassign, tenantID, roleID, userID, &err)

	tenantRoleID, err := s.tenantRoleID(ctx, tenantID, roleID)
	if err != nil {
		return err
	}
	linkID, found, err := s.users.GetAssociationID(ctx, tenantRoleID, userID)
	if err != nil {
		return err
	}
	if !found {
		return errdefs.NotFound("user %d is not assigned to role %d in tenant %d", userID, roleID, tenantID)
	}

	deleted, err := s.users.Delete(ctx, linkID)
	if err != nil {
		return err
	}
	if !deleted {
		return errdefs.NotFound("user %d is not assigned to role %d in tenant %d", userID, roleID, tenantID)
	}

	return s.dropActiveTenant(ctx, userID, tenantID)
}

// dropActiveTenant forgets tenantID as an active tenant of userID once the
// user holds no role in it anymore
func (s *Service) dropActiveTenant(ctx context.Context, userID, tenantID int64) error {
	if s.activeTenants == nil {
		return nil
	}
	associated, err := s.users.IsUserAssociatedWithTenant(ctx, userID, tenantID)
	if err != nil {
		return err
	}
	if associated {
		return nil
	}
	_, err = s.activeTenants.DeleteByUserAndTenant(ctx, userID, tenantID)
	return err
}

// DeleteTenantRole removes a tenant role that no permission or user
// references anymore.
func (s *Service) DeleteTenantRole(ctx context.Context, id int64) (err error) {
	defer func() {
		userID, clientIP := actor(ctx)
		event := audit.TenantRoleDeleteEvent{
			UserID:       userID,
			ClientIP:     clientIP,
			TenantRoleID: id,
			Success:      err == nil,
		}
		if err != nil {
			event.ErrorMessage = err.Error()
		}
		audit.Log(event)
	}()

	deleted, err := s.tenantRoles.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errdefs.NotFound("tenant role %d", id)
	}
	s.logger.Info("tenant role deleted", zap.Int64("tenantRoleId", id))
	return nil
}

// GetPermissions lists the permission ids granted inside tenantID,
// optionally narrowed to a role and a user.
func (s *Service) GetPermissions(ctx context.Context, tenantID int64, roleID, userID *int64) ([]int64, error) {
	return s.tenantRoles.GetPermissionIDs(ctx, tenantID, roleID, userID)
}

// GetTenants lists the tenants userID holds a role in
func (s *Service) GetTenants(ctx context.Context, userID int64, roleID *int64) ([]int64, error) {
	return s.tenantRoles.GetTenantIDs(ctx, userID, roleID)
}

// GetRolesForUserTenant lists the roles userID holds, in one tenant or in all
func (s *Service) GetRolesForUserTenant(ctx context.Context, userID int64, tenantID *int64) ([]int64, error) {
	return s.tenantRoles.GetRoleIDsForUserTenant(ctx, userID, tenantID)
}

// IsRoleExistentForUser reports whether userID holds the role named roleName
func (s *Service) IsRoleExistentForUser(ctx context.Context, userID int64, roleName string, tenantID *int64) (bool, error) {
	return s.tenantRoles.HasAnyRole(ctx, userID, []string{roleName}, tenantID)
}

// IsAnyRoleExistentForUser reports whether userID holds any of roleNames
func (s *Service) IsAnyRoleExistentForUser(ctx context.Context, userID int64, roleNames []string, tenantID *int64) (bool, error) {
	return s.tenantRoles.HasAnyRole(ctx, userID, roleNames, tenantID)
}

// IsPermissionExistentForUser reports whether userID is granted permissionID
func (s *Service) IsPermissionExistentForUser(ctx context.Context, userID, permissionID int64, tenantID *int64) (bool, error) {
	return s.tenantRoles.HasPermission(ctx, userID, permissionID, tenantID)
}

func (s *Service) ensureTenantRole(ctx context.Context, tenantID, roleID int64) (int64, error) {
	id, found, err := s.tenantRoles.GetTenantRoleID(ctx, tenantID, roleID)
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}

	if err := s.checkParties(ctx, tenantID, roleID); err != nil {
		return 0, err
	}

	tenantRole := &model.TenantRole{TenantID: tenantID, RoleID: roleID}
	err = s.tenantRoles.Save(ctx, tenantRole)
	if err == nil {
		s.logger.Debug("tenant role created",
			zap.Int64("tenantRoleId", *tenantRole.ID),
			zap.Int64("tenantId", tenantID),
			zap.Int64("roleId", roleID),
		)
		return *tenantRole.ID, nil
	}
	if !errors.Is(err, errdefs.ErrUniquenessConflict) {
		return 0, err
	}

	// created concurrently by another request
	id, found, rerr := s.tenantRoles.GetTenantRoleID(ctx, tenantID, roleID)
	if rerr != nil {
		return 0, rerr
	}
	if !found {
		return 0, err
	}
	return id, nil
}

func (s *Service) checkParties(ctx context.Context, tenantID, roleID int64) error {
	if s.tenants != nil {
		exists, err := s.tenants.Exists(ctx, tenantID)
		if err != nil {
			return err
		}
		if !exists {
			return errdefs.NotFound("tenant %d", tenantID)
		}
	}
	if s.roles != nil {
		exists, err := s.roles.Exists(ctx, roleID)
		if err != nil {
			return err
		}
		if !exists {
			return errdefs.NotFound("role %d", roleID)
		}
	}
	return nil
}

func (s *Service) tenantRoleID(ctx context.Context, tenantID, roleID int64) (int64, error) {
	id, found, err := s.tenantRoles.GetTenantRoleID(ctx, tenantID, roleID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errdefs.NotFound("role %d is not registered in tenant %d", roleID, tenantID)
	}
	return id, nil
}

func (s *Service) existingPermission(ctx context.Context, tenantRoleID, permissionID int64) (*model.TenantRolePermission, error) {
	id, found, err := s.permissions.GetAssociationID(ctx, tenantRoleID, permissionID)
	if err != nil || !found {
		return nil, err
	}
	return s.permissions.Get(ctx, id)
}

func (s *Service) existingUser(ctx context.Context, tenantRoleID, userID int64) (*model.TenantRoleUser, error) {
	id, found, err := s.users.GetAssociationID(ctx, tenantRoleID, userID)
	if err != nil || !found {
		return nil, err
	}
	return s.users.Get(ctx, id)
}

func (s *Service) ensureActiveTenant(ctx context.Context, userID, tenantID int64) error {
	if s.activeTenants == nil {
		return nil
	}
	records, err := s.activeTenants.GetByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.TenantID == tenantID {
			return nil
		}
	}
	return s.activeTenants.Create(ctx, &model.ActiveTenant{
		UserID:         userID,
		TenantID:       tenantID,
		IsTenantActive: len(records) == 0,
	})
}

func (s *Service) record(ctx context.Context, kind, operation string, tenantID, roleID, targetID int64, errp *error) {
	err := *errp
	metrics.AssignmentsTotal.WithLabelValues(kind, operation, metrics.Result(err)).Inc()

	fields := []zap.Field{
		zap.String("kind", kind),
		zap.String("operation", operation),
		zap.Int64("tenantId", tenantID),
		zap.Int64("roleId", roleID),
		zap.Int64(kind+"Id", targetID),
	}
	if err != nil {
		s.logger.Warn("assignment failed", append(fields, zap.Error(err))...)
	} else {
		s.logger.Info("assignment applied", fields...)
	}

	userID, clientIP := actor(ctx)
	event := audit.AssignmentEvent{
		UserID:    userID,
		ClientIP:  clientIP,
		Operation: operation,
		Kind:      kind,
		TenantID:  tenantID,
		RoleID:    roleID,
		TargetID:  targetID,
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)
}

// actor returns the authenticated user and client address for audit records.
// Calls without an identity, such as manifest applies, are attributed to
// "system".
func actor(ctx context.Context) (string, string) {
	id, ok := identity.Get(ctx)
	if !ok || id == nil {
		return "system", ""
	}
	clientIP := ""
	if id.RemoteIP != nil {
		clientIP = id.RemoteIP.String()
	}
	return id.Subject, clientIP
}
