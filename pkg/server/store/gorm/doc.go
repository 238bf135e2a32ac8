// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// Queries are written as raw SQL against PostgreSQL. Uniqueness is checked
// before every write and backed by UNIQUE constraints in the schema; a
// unique violation raised by a concurrent writer is reported as
// errdefs.ErrUniquenessConflict as well.
package gorm
