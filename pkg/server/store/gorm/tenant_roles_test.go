package gorm

import (
	"context"
	"database/sql/driver"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/identity"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/store"
)

var tenantRoleCols = []string{"id", "tenant_id", "role_id", "create_user", "last_update_user", "create_date", "last_update"}

func TestTenantRoleStore_GetAll(t *testing.T) {
	t.Run("filters and pages", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tenant_roles WHERE tenant_id = \$1 AND role_id = \$2`).
			WithArgs(5, 9).
			WillReturnRows(countRows(23))
		mock.ExpectQuery(`SELECT id, tenant_id, role_id, .* FROM tenant_roles WHERE tenant_id = \$1 AND role_id = \$2 ORDER BY id LIMIT \$3 OFFSET \$4`).
			WithArgs(5, 9, 10, 20).
			WillReturnRows(sqlmock.NewRows(tenantRoleCols).
				AddRow(21, 5, 9, nil, nil, nil, nil).
				AddRow(22, 5, 9, 1, 1, nil, nil))

		page, err := s.GetAll(context.Background(), store.TenantRoleFilter{
			TenantID: model.Ptr(int64(5)),
			RoleID:   model.Ptr(int64(9)),
		}, 3, 10)
		require.NoError(t, err)

		assert.Equal(t, 3, page.CurrentPage)
		assert.Equal(t, 3, page.TotalPages)
		assert.EqualValues(t, 23, page.TotalResults)
		require.Len(t, page.Results, 2)
		assert.EqualValues(t, 21, *page.Results[0].ID)
		assert.Nil(t, page.Results[0].CreateUser)
		assert.EqualValues(t, 1, *page.Results[1].CreateUser)
	})

	t.Run("no filter", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tenant_roles$`).
			WillReturnRows(countRows(0))
		mock.ExpectQuery(`FROM tenant_roles ORDER BY id LIMIT \$1 OFFSET \$2`).
			WithArgs(10, 0).
			WillReturnRows(sqlmock.NewRows(tenantRoleCols))

		page, err := s.GetAll(context.Background(), store.TenantRoleFilter{}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 0, page.TotalPages)
		assert.Empty(t, page.Results)
	})

	t.Run("rejects bad paging", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := NewTenantRoleStore(db)

		_, err := s.GetAll(context.Background(), store.TenantRoleFilter{}, 1, 0)
		assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))

		_, err = s.GetAll(context.Background(), store.TenantRoleFilter{}, 0, 10)
		assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))

		// the offset of this page does not fit in an int, no query may run
		_, err = s.GetAll(context.Background(), store.TenantRoleFilter{}, math.MaxInt/500, 1000)
		assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))
	})
}

func TestTenantRoleStore_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`FROM tenant_roles WHERE id = \$1`).
			WithArgs(4).
			WillReturnRows(sqlmock.NewRows(tenantRoleCols).AddRow(4, 5, 9, nil, nil, nil, nil))

		tr, err := s.Get(context.Background(), 4)
		require.NoError(t, err)
		assert.EqualValues(t, 5, tr.TenantID)
		assert.EqualValues(t, 9, tr.RoleID)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`FROM tenant_roles WHERE id = \$1`).
			WithArgs(4).
			WillReturnRows(sqlmock.NewRows(tenantRoleCols))

		_, err := s.Get(context.Background(), 4)
		assert.True(t, errors.Is(err, errdefs.ErrNotFound))
	})
}

func TestTenantRoleStore_Search(t *testing.T) {
	tests := []struct {
		name   string
		filter store.TenantRoleSearch
		query  string
		args   []driver.Value
	}{
		{
			name:   "conjunction",
			filter: store.TenantRoleSearch{TenantID: model.Ptr(int64(5)), RoleID: model.Ptr(int64(9)), IsLogicalConjunction: true},
			query:  `FROM tenant_roles WHERE tenant_id = \$1 AND role_id = \$2 ORDER BY id`,
			args:   []driver.Value{5, 9},
		},
		{
			name:   "disjunction",
			filter: store.TenantRoleSearch{TenantID: model.Ptr(int64(5)), RoleID: model.Ptr(int64(9))},
			query:  `FROM tenant_roles WHERE tenant_id = \$1 OR role_id = \$2 ORDER BY id`,
			args:   []driver.Value{5, 9},
		},
		{
			name:   "no fields",
			filter: store.TenantRoleSearch{IsLogicalConjunction: true},
			query:  `FROM tenant_roles ORDER BY id`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			s := NewTenantRoleStore(db)

			expectation := mock.ExpectQuery(tt.query)
			if len(tt.args) > 0 {
				expectation = expectation.WithArgs(tt.args...)
			}
			expectation.WillReturnRows(sqlmock.NewRows(tenantRoleCols).AddRow(1, 5, 9, nil, nil, nil, nil))

			rows, err := s.Search(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Len(t, rows, 1)
		})
	}
}

func TestTenantRoleStore_Save(t *testing.T) {
	t.Run("inserts a new association", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM tenant_roles WHERE tenant_id = \$1 AND role_id = \$2\)`).
			WithArgs(5, 9).
			WillReturnRows(existsRows(false))
		mock.ExpectQuery(`INSERT INTO tenant_roles`).
			WithArgs(append([]driver.Value{5, 9}, auditArgs()...)...).
			WillReturnRows(idRows(11))

		ctx := identity.Set(context.Background(), &identity.Identity{UserID: 3})
		tr := &model.TenantRole{TenantID: 5, RoleID: 9}
		require.NoError(t, s.Save(ctx, tr))

		require.NotNil(t, tr.ID)
		assert.EqualValues(t, 11, *tr.ID)
		assert.EqualValues(t, 3, *tr.CreateUser)
		assert.NotNil(t, tr.CreateDate)
	})

	t.Run("rejects a duplicate pair", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM tenant_roles WHERE tenant_id = \$1 AND role_id = \$2\)`).
			WithArgs(5, 9).
			WillReturnRows(existsRows(true))

		err := s.Save(context.Background(), &model.TenantRole{TenantID: 5, RoleID: 9})
		assert.True(t, errors.Is(err, errdefs.ErrUniquenessConflict))
	})

	t.Run("concurrent insert hits the unique constraint", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM tenant_roles`).
			WillReturnRows(existsRows(false))
		mock.ExpectQuery(`INSERT INTO tenant_roles`).
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

		err := s.Save(context.Background(), &model.TenantRole{TenantID: 5, RoleID: 9})
		assert.True(t, errors.Is(err, errdefs.ErrUniquenessConflict))
	})

	t.Run("updates in place excluding its own id", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM tenant_roles WHERE tenant_id = \$1 AND role_id = \$2 AND id <> \$3\)`).
			WithArgs(5, 10, 11).
			WillReturnRows(existsRows(false))
		created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		mock.ExpectQuery(`UPDATE tenant_roles .* WHERE id = \$5 RETURNING create_user, create_date`).
			WithArgs(5, 10, sqlmock.AnyArg(), sqlmock.AnyArg(), 11).
			WillReturnRows(sqlmock.NewRows([]string{"create_user", "create_date"}).AddRow(1, created))

		ctx := identity.Set(context.Background(), &identity.Identity{UserID: 3})
		tr := &model.TenantRole{ID: model.Ptr(int64(11)), TenantID: 5, RoleID: 10}
		require.NoError(t, s.Save(ctx, tr))

		// creation columns come from the stored row, not from this request
		require.NotNil(t, tr.CreateUser)
		assert.EqualValues(t, 1, *tr.CreateUser)
		assert.True(t, created.Equal(*tr.CreateDate))
		assert.EqualValues(t, 3, *tr.LastUpdateUser)
		assert.NotNil(t, tr.LastUpdate)
	})

	t.Run("update of a missing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(existsRows(false))
		mock.ExpectQuery(`UPDATE tenant_roles`).WillReturnRows(sqlmock.NewRows([]string{"create_user", "create_date"}))

		err := s.Save(context.Background(), &model.TenantRole{ID: model.Ptr(int64(11)), TenantID: 5, RoleID: 10})
		assert.True(t, errors.Is(err, errdefs.ErrNotFound))
	})
}

func TestTenantRoleStore_IsAssociationAlreadyExistent(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewTenantRoleStore(db)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM tenant_roles WHERE tenant_id = \$1 AND role_id = \$2\)`).
		WithArgs(5, 9).
		WillReturnRows(existsRows(true))

	exists, err := s.IsAssociationAlreadyExistent(context.Background(), 9, 5)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTenantRoleStore_Delete(t *testing.T) {
	t.Run("users still assigned", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`FROM tenant_role_users WHERE tenant_role_id = \$1`).
			WithArgs(3).
			WillReturnRows(existsRows(true))

		deleted, err := s.Delete(context.Background(), 3)
		assert.False(t, deleted)
		assert.True(t, errors.Is(err, errdefs.ErrDependencyConflict))
	})

	t.Run("permissions still granted", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`FROM tenant_role_users WHERE tenant_role_id = \$1`).
			WithArgs(3).
			WillReturnRows(existsRows(false))
		mock.ExpectQuery(`FROM tenant_role_permissions WHERE tenant_role_id = \$1`).
			WithArgs(3).
			WillReturnRows(existsRows(true))

		_, err := s.Delete(context.Background(), 3)
		assert.True(t, errors.Is(err, errdefs.ErrDependencyConflict))
	})

	t.Run("no dependents", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`FROM tenant_role_users`).WithArgs(3).WillReturnRows(existsRows(false))
		mock.ExpectQuery(`FROM tenant_role_permissions`).WithArgs(3).WillReturnRows(existsRows(false))
		mock.ExpectExec(`DELETE FROM tenant_roles WHERE id = \$1`).
			WithArgs(3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		deleted, err := s.Delete(context.Background(), 3)
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("dependent created concurrently", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`FROM tenant_role_users`).WillReturnRows(existsRows(false))
		mock.ExpectQuery(`FROM tenant_role_permissions`).WillReturnRows(existsRows(false))
		mock.ExpectExec(`DELETE FROM tenant_roles`).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		_, err := s.Delete(context.Background(), 3)
		assert.True(t, errors.Is(err, errdefs.ErrDependencyConflict))
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`FROM tenant_role_users`).WillReturnRows(existsRows(false))
		mock.ExpectQuery(`FROM tenant_role_permissions`).WillReturnRows(existsRows(false))
		mock.ExpectExec(`DELETE FROM tenant_roles`).WillReturnResult(sqlmock.NewResult(0, 0))

		deleted, err := s.Delete(context.Background(), 3)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestTenantRoleStore_GetTenantRoleID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`SELECT id FROM tenant_roles WHERE tenant_id = \$1 AND role_id = \$2`).
			WithArgs(5, 9).
			WillReturnRows(idRows(12))

		id, found, err := s.GetTenantRoleID(context.Background(), 5, 9)
		require.NoError(t, err)
		assert.True(t, found)
		assert.EqualValues(t, 12, id)
	})

	t.Run("absent", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`SELECT id FROM tenant_roles`).WillReturnRows(idRows())

		_, found, err := s.GetTenantRoleID(context.Background(), 5, 9)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestTenantRoleStore_Lookups(t *testing.T) {
	t.Run("count", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tenant_roles`).WillReturnRows(countRows(4))

		count, err := s.Count(context.Background())
		require.NoError(t, err)
		assert.EqualValues(t, 4, count)
	})

	t.Run("roles of a user in a tenant", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`SELECT DISTINCT tr.role_id AS id .* WHERE tru.user_id = \$1 AND tr.tenant_id = \$2`).
			WithArgs(7, 5).
			WillReturnRows(idRows(9, 10))

		ids, err := s.GetRoleIDsForUserTenant(context.Background(), 7, model.Ptr(int64(5)))
		require.NoError(t, err)
		assert.Equal(t, []int64{9, 10}, ids)
	})

	t.Run("tenants of a user", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`SELECT DISTINCT tr.tenant_id AS id`).
			WithArgs(7).
			WillReturnRows(idRows(5))

		ids, err := s.GetTenantIDs(context.Background(), 7, nil)
		require.NoError(t, err)
		assert.Equal(t, []int64{5}, ids)
	})

	t.Run("permissions of a user in a tenant role", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`SELECT DISTINCT trp.permission_id AS id .* JOIN tenant_role_users .* WHERE tr.tenant_id = \$1 AND tr.role_id = \$2 AND tru.user_id = \$3`).
			WithArgs(5, 9, 7).
			WillReturnRows(idRows(42))

		ids, err := s.GetPermissionIDs(context.Background(), 5, model.Ptr(int64(9)), model.Ptr(int64(7)))
		require.NoError(t, err)
		assert.Equal(t, []int64{42}, ids)
	})

	t.Run("has permission", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`WHERE tru.user_id = \$1 AND trp.permission_id = \$2 AND tr.tenant_id = \$3`).
			WithArgs(7, 42, 5).
			WillReturnRows(existsRows(true))

		ok, err := s.HasPermission(context.Background(), 7, 42, model.Ptr(int64(5)))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("has any role", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTenantRoleStore(db)

		mock.ExpectQuery(`r.name IN \(?\$2,\$3\)?`).
			WithArgs(7, "admin", "auditor").
			WillReturnRows(existsRows(false))

		ok, err := s.HasAnyRole(context.Background(), 7, []string{"admin", "auditor"}, nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("has any role needs names", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := NewTenantRoleStore(db)

		_, err := s.HasAnyRole(context.Background(), 7, nil, nil)
		assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))
	})
}
