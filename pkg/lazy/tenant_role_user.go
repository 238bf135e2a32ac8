package lazy

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

// TenantRoleUserSource pages the users holding tenant roles
type TenantRoleUserSource interface {
	GetAll(ctx context.Context, tenantRoleID, userID *int64, pageNo, pageSize int) (*model.Page[model.TenantRoleUser], error)
}

// UserSource resolves users by id
type UserSource interface {
	GetByIDs(ctx context.Context, ids []int64) ([]model.User, error)
}

// TenantRoleUserDataModel lists the users holding one tenant role, or all
// assignments while no tenant role is selected. Users display by full name.
type TenantRoleUserDataModel struct {
	*Loader[model.TenantRoleUser]
	users *Names

	mu           sync.RWMutex
	tenantRoleID *int64
}

// NewTenantRoleUserDataModel creates a TenantRoleUserDataModel
func NewTenantRoleUserDataModel(source TenantRoleUserSource, users UserSource, logger *zap.Logger) *TenantRoleUserDataModel {
	m := &TenantRoleUserDataModel{
		users: NewNames("user", ResolveBy(users.GetByIDs,
			func(u model.User) *int64 { return u.ID },
			model.User.DisplayName)),
	}

	fetch := func(ctx context.Context, req Request) (*model.Page[model.TenantRoleUser], error) {
		userID, err := filterID(req.Filter, "userId")
		if err != nil {
			return nil, err
		}
		return source.GetAll(ctx, m.TenantRoleID(), userID, req.PageNo, req.PageSize)
	}

	m.Loader = NewLoader("tenant_role_user", fetch, func(u model.TenantRoleUser) *int64 { return u.ID }, logger,
		func(ctx context.Context, rows []model.TenantRoleUser) error {
			ids := make([]int64, 0, len(rows))
			for _, u := range rows {
				ids = append(ids, u.UserID)
			}
			return m.users.Prefetch(ctx, ids)
		},
	)
	return m
}

// SetTenantRoleID selects the tenant role whose users are listed
func (m *TenantRoleUserDataModel) SetTenantRoleID(id *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenantRoleID = id
}

// TenantRoleID returns the selected tenant role
func (m *TenantRoleUserDataModel) TenantRoleID() *int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tenantRoleID
}

// UserName returns the display name of userID, or Unknown
func (m *TenantRoleUserDataModel) UserName(userID int64) string {
	return m.users.Name(userID)
}
