package gorm

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
)

var permissionCols = []string{"id", "name", "action_id", "resource_id", "create_user", "last_update_user", "create_date", "last_update"}

func TestPermissionStore_GetAll(t *testing.T) {
	t.Run("searches by name", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPermissionStore(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM permissions WHERE name ILIKE \$1`).
			WithArgs(`%tenant\_role%`).
			WillReturnRows(countRows(12))
		mock.ExpectQuery(`SELECT id, name, action_id, resource_id, .* FROM permissions WHERE name ILIKE \$1 ORDER BY id LIMIT \$2 OFFSET \$3`).
			WithArgs(`%tenant\_role%`, 5, 10).
			WillReturnRows(sqlmock.NewRows(permissionCols).
				AddRow(11, "tenant_role.read", 1, 2, nil, nil, nil, nil).
				AddRow(12, "tenant_role.write", 3, nil, nil, nil, nil, nil))

		page, err := s.GetAll(context.Background(), " tenant_role ", 3, 5)
		require.NoError(t, err)

		assert.Equal(t, 3, page.TotalPages)
		require.Len(t, page.Results, 2)
		assert.EqualValues(t, 1, *page.Results[0].ActionID)
		assert.EqualValues(t, 2, *page.Results[0].ResourceID)
		assert.Nil(t, page.Results[1].ResourceID)
	})

	t.Run("without search", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPermissionStore(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM permissions$`).WillReturnRows(countRows(0))
		mock.ExpectQuery(`FROM permissions ORDER BY id LIMIT \$1 OFFSET \$2`).
			WithArgs(10, 0).
			WillReturnRows(sqlmock.NewRows(permissionCols))

		page, err := s.GetAll(context.Background(), "", 1, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Results)
	})

	t.Run("rejects bad paging", func(t *testing.T) {
		db, _ := newMockDB(t)
		_, err := NewPermissionStore(db).GetAll(context.Background(), "", 0, 10)
		assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
}
