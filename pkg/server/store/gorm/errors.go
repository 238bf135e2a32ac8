package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

// PostgreSQL error codes the stores react to
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// translateError maps driver errors onto the errdefs taxonomy
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errdefs.ErrNotFound
	}
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return errdefs.UniquenessConflict("%v", err)
	case pgForeignKeyViolation:
		return errdefs.NotFound("referenced row does not exist: %v", err)
	}
	return err
}

type idRow struct {
	ID int64 `gorm:"column:id"`
}

func idsOf(rows []idRow) []int64 {
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids
}

// creation holds the creation columns an update leaves untouched
type creation struct {
	CreateUser *int64
	CreateDate *time.Time
}

// updateAudited runs an UPDATE and copies the stored creation columns into
// audit. It reports false when no row matched.
func updateAudited(ctx context.Context, db *gorm.DB, audit *model.Audit, update string, args ...interface{}) (bool, error) {
	var rows []creation
	err := db.WithContext(ctx).Raw(update+` RETURNING create_user, create_date`, args...).Scan(&rows).Error
	if err != nil {
		return false, translateError(err)
	}
	if len(rows) == 0 {
		return false, nil
	}
	audit.CreateUser = rows[0].CreateUser
	audit.CreateDate = rows[0].CreateDate
	return true, nil
}
