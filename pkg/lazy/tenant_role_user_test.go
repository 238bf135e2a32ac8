package lazy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/iam-in-go/pkg/client"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

var (
	_ TenantRoleUserSource = (*client.TenantRoleUserClient)(nil)
	_ UserSource           = (*client.UserClient)(nil)
)

type mockUserLinks struct{ mock.Mock }

func (m *mockUserLinks) GetAll(ctx context.Context, tenantRoleID, userID *int64, pageNo, pageSize int) (*model.Page[model.TenantRoleUser], error) {
	args := m.Called(ctx, tenantRoleID, userID, pageNo, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.TenantRoleUser]), args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func TestTenantRoleUserDataModel_Load(t *testing.T) {
	source := new(mockUserLinks)
	users := new(mockUsers)

	tenantRoleID := model.Ptr(int64(12))
	page := model.NewPage([]model.TenantRoleUser{
		{ID: model.Ptr(int64(40)), TenantRoleID: 12, UserID: 7},
		{ID: model.Ptr(int64(41)), TenantRoleID: 12, UserID: 8},
		{ID: model.Ptr(int64(42)), TenantRoleID: 12, UserID: 7},
	}, 2, 3, 6)
	source.On("GetAll", mock.Anything, tenantRoleID, (*int64)(nil), 2, 3).Return(page, nil)
	users.On("GetByIDs", mock.Anything, []int64{7, 8}).Return([]model.User{
		{ID: model.Ptr(int64(7)), Logon: "ada", FirstName: "Ada", LastName: "Lovelace"},
		{ID: model.Ptr(int64(8)), Logon: "grace"},
	}, nil).Once()

	m := NewTenantRoleUserDataModel(source, users, nil)
	m.SetTenantRoleID(tenantRoleID)

	rows, err := m.Load(context.Background(), 3, 3, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.EqualValues(t, 6, m.RowCount())
	assert.Equal(t, "Ada Lovelace", m.UserName(7))
	assert.Equal(t, "grace", m.UserName(8))
	assert.Equal(t, Unknown, m.UserName(9))

	row, found := m.RowData("41")
	require.True(t, found)
	assert.EqualValues(t, 8, row.UserID)

	_, found = m.RowData(NullKey)
	assert.False(t, found)

	users.AssertExpectations(t)
}

func TestTenantRoleUserDataModel_UserFilter(t *testing.T) {
	source := new(mockUserLinks)
	users := new(mockUsers)

	source.On("GetAll", mock.Anything, (*int64)(nil), model.Ptr(int64(7)), 1, 10).
		Return(model.NewPage([]model.TenantRoleUser{}, 1, 10, 0), nil)

	m := NewTenantRoleUserDataModel(source, users, nil)
	rows, err := m.Load(context.Background(), 0, 10, nil, Filter{"userId": "7"})
	require.NoError(t, err)
	assert.Empty(t, rows)
	users.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}

func TestTenantRoleUserDataModel_RemoteFailure(t *testing.T) {
	source := new(mockUserLinks)
	source.On("GetAll", mock.Anything, (*int64)(nil), (*int64)(nil), 1, 10).Return(nil, errors.New("connection refused"))

	m := NewTenantRoleUserDataModel(source, new(mockUsers), nil)
	rows, err := m.Load(context.Background(), 0, 10, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, found := m.RowData("40")
	assert.False(t, found)
}
