package lazy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

type row struct {
	ID *int64
}

func rowID(r row) *int64 { return r.ID }

func TestLoader_Load(t *testing.T) {
	tests := []struct {
		name       string
		offset     int
		pageSize   int
		wantPageNo int
	}{
		{"first page", 0, 10, 1},
		{"offset inside third page", 23, 10, 3},
		{"offset on page boundary", 20, 10, 3},
		{"page size one", 4, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Request
			fetch := func(ctx context.Context, req Request) (*model.Page[row], error) {
				got = req
				return model.NewPage([]row{{ID: model.Ptr(int64(1))}}, req.PageNo, req.PageSize, 23), nil
			}
			l := NewLoader("test", fetch, rowID, nil)

			rows, err := l.Load(context.Background(), tt.offset, tt.pageSize, nil, nil)
			require.NoError(t, err)
			assert.Len(t, rows, 1)
			assert.Equal(t, tt.wantPageNo, got.PageNo)
			assert.Equal(t, tt.pageSize, got.PageSize)
			assert.EqualValues(t, 23, l.RowCount())
		})
	}
}

func TestLoader_InvalidPageSize(t *testing.T) {
	for _, size := range []int{0, -5} {
		called := false
		fetch := func(ctx context.Context, req Request) (*model.Page[row], error) {
			called = true
			return nil, nil
		}
		l := NewLoader("test", fetch, rowID, nil)

		_, err := l.Load(context.Background(), 0, size, nil, nil)
		assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))
		assert.False(t, called, "no remote call for pageSize %d", size)
	}
}

func TestLoader_FailureKeepsRowCount(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	fail := false
	fetch := func(ctx context.Context, req Request) (*model.Page[row], error) {
		if fail {
			return nil, errors.New("connection refused")
		}
		return model.NewPage([]row{{ID: model.Ptr(int64(4))}}, req.PageNo, req.PageSize, 42), nil
	}
	l := NewLoader("test", fetch, rowID, zap.New(core))

	_, err := l.Load(context.Background(), 0, 10, nil, nil)
	require.NoError(t, err)
	require.EqualValues(t, 42, l.RowCount())

	fail = true
	rows, err := l.Load(context.Background(), 10, 10, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.EqualValues(t, 42, l.RowCount())
	assert.Equal(t, 1, logs.Len())

	_, found := l.RowData("4")
	assert.False(t, found)
}

func TestLoader_RowKeyAndData(t *testing.T) {
	fetch := func(ctx context.Context, req Request) (*model.Page[row], error) {
		return model.NewPage([]row{{ID: model.Ptr(int64(7))}, {ID: model.Ptr(int64(8))}}, 1, 10, 2), nil
	}
	l := NewLoader("test", fetch, rowID, nil)
	_, err := l.Load(context.Background(), 0, 10, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "7", l.RowKey(row{ID: model.Ptr(int64(7))}))
	assert.Equal(t, NullKey, l.RowKey(row{}))

	r, found := l.RowData("8")
	require.True(t, found)
	assert.EqualValues(t, 8, *r.ID)

	_, found = l.RowData("null")
	assert.False(t, found)
	_, found = l.RowData("99")
	assert.False(t, found)
	_, found = l.RowData("abc")
	assert.False(t, found)
}

func TestNames(t *testing.T) {
	var calls [][]int64
	names := NewNames("test", func(ctx context.Context, ids []int64) (map[int64]string, error) {
		calls = append(calls, ids)
		out := map[int64]string{}
		for _, id := range ids {
			if id != 3 {
				out[id] = "name-" + key(id)
			}
		}
		return out, nil
	})

	require.NoError(t, names.Prefetch(context.Background(), []int64{1, 2, 1, 3}))
	require.NoError(t, names.Prefetch(context.Background(), []int64{1, 2}))

	assert.Equal(t, [][]int64{{1, 2, 3}}, calls)
	assert.Equal(t, "name-1", names.Name(1))
	assert.Equal(t, Unknown, names.Name(3))
	assert.Equal(t, Unknown, names.Name(99))
	assert.Equal(t, 2, names.Len())
}
