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
	_ PermissionPageSource = (*client.PermissionClient)(nil)
	_ ActionSource         = (*client.ActionClient)(nil)
	_ ResourceSource       = (*client.ResourceClient)(nil)
)

type mockPermissionPages struct{ mock.Mock }

func (m *mockPermissionPages) GetAll(ctx context.Context, search string, pageNo, pageSize int) (*model.Page[model.Permission], error) {
	args := m.Called(ctx, search, pageNo, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.Permission]), args.Error(1)
}

type mockActions struct{ mock.Mock }

func (m *mockActions) GetByIDs(ctx context.Context, ids []int64) ([]model.Action, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Action), args.Error(1)
}

type mockResources struct{ mock.Mock }

func (m *mockResources) GetByIDs(ctx context.Context, ids []int64) ([]model.Resource, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Resource), args.Error(1)
}

func permission(id int64, name string, actionID, resourceID *int64) model.Permission {
	return model.Permission{ID: model.Ptr(id), Name: name, ActionID: actionID, ResourceID: resourceID}
}

func TestPermissionDataModel_Load(t *testing.T) {
	source := new(mockPermissionPages)
	actions := new(mockActions)
	resources := new(mockResources)

	page := model.NewPage([]model.Permission{
		permission(1, "report.read", model.Ptr(int64(1)), model.Ptr(int64(4))),
		permission(2, "report.write", model.Ptr(int64(2)), model.Ptr(int64(4))),
		permission(3, "login", nil, nil),
	}, 1, 10, 3)
	source.On("GetAll", mock.Anything, "report", 1, 10).Return(page, nil).Twice()
	actions.On("GetByIDs", mock.Anything, []int64{1, 2}).
		Return([]model.Action{{ID: model.Ptr(int64(1)), Name: "read"}, {ID: model.Ptr(int64(2)), Name: "write"}}, nil).Once()
	resources.On("GetByIDs", mock.Anything, []int64{4}).
		Return([]model.Resource{{ID: model.Ptr(int64(4)), Name: "report"}}, nil).Once()

	m := NewPermissionDataModel(source, actions, resources, nil)
	rows, err := m.Load(context.Background(), 0, 10, nil, Filter{"name": "report"})
	require.NoError(t, err)

	assert.Len(t, rows, 3)
	assert.EqualValues(t, 3, m.RowCount())
	assert.Equal(t, "read", m.ActionName(1))
	assert.Equal(t, "write", m.ActionName(2))
	assert.Equal(t, "report", m.ResourceName(4))
	assert.Equal(t, Unknown, m.ActionName(100000))
	assert.Equal(t, Unknown, m.ResourceName(111111))

	// names are cached, the second load only pages
	_, err = m.Load(context.Background(), 0, 10, nil, Filter{"name": "report"})
	require.NoError(t, err)

	row, found := m.RowData("2")
	require.True(t, found)
	assert.Equal(t, "report.write", row.Name)

	_, found = m.RowData(NullKey)
	assert.False(t, found)

	source.AssertExpectations(t)
	actions.AssertExpectations(t)
	resources.AssertExpectations(t)
}

func TestPermissionDataModel_ActionLookupFailure(t *testing.T) {
	source := new(mockPermissionPages)
	actions := new(mockActions)
	resources := new(mockResources)

	source.On("GetAll", mock.Anything, "", 1, 1).
		Return(model.NewPage([]model.Permission{permission(1, "report.read", model.Ptr(int64(1)), model.Ptr(int64(1)))}, 1, 1, 1), nil)
	actions.On("GetByIDs", mock.Anything, []int64{1}).Return(nil, errors.New("communication breakdown"))

	m := NewPermissionDataModel(source, actions, resources, nil)
	rows, err := m.Load(context.Background(), 0, 1, nil, nil)
	require.NoError(t, err)

	assert.Len(t, rows, 1)
	assert.Equal(t, Unknown, m.ActionName(1))
	assert.Equal(t, Unknown, m.ResourceName(1))
	resources.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}

func TestPermissionDataModel_RowKeyWithoutID(t *testing.T) {
	m := NewPermissionDataModel(new(mockPermissionPages), new(mockActions), new(mockResources), nil)
	assert.Equal(t, NullKey, m.RowKey(model.Permission{Name: "draft"}))
}
