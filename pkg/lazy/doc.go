// Package lazy loads paginated listings from the remote IAM service one
// page at a time, the way a data table asks for them.
//
// A Loader translates a row offset into a page number
// (offset/pageSize + 1), remembers the total row count, and keeps the rows
// of the last page so they can be looked up by key. Ids found on a page are
// resolved to display names once and cached for the life of the data model;
// ids that cannot be resolved display as Unknown.
package lazy
