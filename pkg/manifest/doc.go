// Package manifest applies declarative tenant role assignments.
//
// A manifest is a YAML document listing, per (tenant, role) pair, the users
// and permissions that should be assigned or removed:
//
//	assignments:
//	  - tenant: 1
//	    role: 4
//	    users: [17, 18]
//	    permissions: [2, 3]
//	    unassign:
//	      users: [12]
//
// Loading a manifest goes through the association service, so applying the
// same document twice leaves the database unchanged. Assignments are applied
// before removals.
//
//	loader := manifest.NewLoader(service, logger)
//	result, err := loader.LoadFile(ctx, "assignments.yml")
package manifest
