package lazy

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

// NullKey is the row key of a row without an id
const NullKey = "null"

// SortOrder of a sort field
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// SortField is one column of a table sort
type SortField struct {
	Field string
	Order SortOrder
}

// Filter holds column filters keyed by field name
type Filter map[string]string

// Request is the page a Fetch has to return
type Request struct {
	PageNo   int
	PageSize int
	Sort     []SortField
	Filter   Filter
}

// Fetch retrieves one page from the remote service
type Fetch[T any] func(ctx context.Context, req Request) (*model.Page[T], error)

// Enrich runs after a successful fetch, typically to resolve display names
// for the ids found in rows
type Enrich[T any] func(ctx context.Context, rows []T) error

// Loader serves a table one page at a time. It remembers the total row
// count and the rows of the last page it loaded.
type Loader[T any] struct {
	name   string
	fetch  Fetch[T]
	id     func(T) *int64
	enrich []Enrich[T]
	logger *zap.Logger

	mu       sync.RWMutex
	rowCount int64
	rows     []T
}

// NewLoader creates a Loader. name labels logs and metrics, id extracts the
// row key.
func NewLoader[T any](name string, fetch Fetch[T], id func(T) *int64, logger *zap.Logger, enrich ...Enrich[T]) *Loader[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader[T]{
		name:   name,
		fetch:  fetch,
		id:     id,
		enrich: enrich,
		logger: logger.With(zap.String("model", name)),
	}
}

// Load returns the page holding row offset. pageSize must be positive; that
// is the only error Load reports. A failed fetch is logged and yields an
// empty page while RowCount keeps its previous value.
func (l *Loader[T]) Load(ctx context.Context, offset, pageSize int, sort []SortField, filter Filter) ([]T, error) {
	if pageSize <= 0 {
		return nil, errdefs.InvalidArgument("pageSize must be positive, got %d", pageSize)
	}
	if offset < 0 {
		return nil, errdefs.InvalidArgument("offset must not be negative, got %d", offset)
	}

	pageNo := offset/pageSize + 1
	page, err := l.fetch(ctx, Request{PageNo: pageNo, PageSize: pageSize, Sort: sort, Filter: filter})
	if err != nil {
		metrics.PageLoadsTotal.WithLabelValues(l.name, "failure").Inc()
		l.logger.Error("failed to load page",
			zap.Int("pageNo", pageNo),
			zap.Int("pageSize", pageSize),
			zap.Error(err),
		)
		l.mu.Lock()
		l.rows = nil
		l.mu.Unlock()
		return []T{}, nil
	}
	metrics.PageLoadsTotal.WithLabelValues(l.name, "success").Inc()

	rows := page.Results
	if rows == nil {
		rows = []T{}
	}
	for _, enrich := range l.enrich {
		if err := enrich(ctx, rows); err != nil {
			l.logger.Warn("failed to resolve display names", zap.Int("pageNo", pageNo), zap.Error(err))
		}
	}

	l.mu.Lock()
	l.rowCount = page.TotalResults
	l.rows = rows
	l.mu.Unlock()

	return rows, nil
}

// RowCount is the total number of rows reported by the last successful load
func (l *Loader[T]) RowCount() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rowCount
}

// RowKey is the decimal id of row, or NullKey when it has none
func (l *Loader[T]) RowKey(row T) string {
	id := l.id(row)
	if id == nil {
		return NullKey
	}
	return strconv.FormatInt(*id, 10)
}

// RowData finds a row of the last loaded page by key
func (l *Loader[T]) RowData(key string) (T, bool) {
	var zero T
	if key == NullKey {
		return zero, false
	}
	want, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return zero, false
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, row := range l.rows {
		if id := l.id(row); id != nil && *id == want {
			return row, true
		}
	}
	return zero, false
}
