// Package errdefs defines the error taxonomy shared by the server and the
// remote client.
//
// Errors are plain sentinels matched with errors.Is. Helpers such as
// InvalidArgument and NotFound wrap a sentinel with context:
//
//	if pageSize <= 0 {
//	    return errdefs.InvalidArgument("pageSize must be positive, got %d", pageSize)
//	}
//
// A failed remote call is a *RemoteCallError. It matches ErrRemoteCall and
// unwraps to the cause reported by the server, so both of these hold for a
// 404 returned by a remote endpoint:
//
//	errors.Is(err, errdefs.ErrRemoteCall)
//	errors.Is(err, errdefs.ErrNotFound)
package errdefs
