package store

import (
	"math"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
)

// ValidatePaging rejects page numbers below 1, non-positive page sizes and
// pages whose row offset does not fit in an int.
func ValidatePaging(pageNo, pageSize int) error {
	if pageNo < 1 {
		return errdefs.InvalidArgument("pageNo must be at least 1, got %d", pageNo)
	}
	if pageSize < 1 {
		return errdefs.InvalidArgument("pageSize must be at least 1, got %d", pageSize)
	}
	if pageNo > math.MaxInt/pageSize {
		return errdefs.InvalidArgument("pageNo %d is out of range for pageSize %d", pageNo, pageSize)
	}
	return nil
}

// Offset returns the row offset of a 1-based page. Callers validate the page
// with ValidatePaging first.
func Offset(pageNo, pageSize int) int {
	return (pageNo - 1) * pageSize
}
