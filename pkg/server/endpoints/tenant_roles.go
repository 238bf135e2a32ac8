package endpoints

import (
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/association"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/store"
)

// RegisterTenantRoleEndpoints registers the /tenantrole routes
func RegisterTenantRoleEndpoints(s *server.Server) {
	tenantRoles := s.TenantRoleStore
	associations := s.Associations
	pageSizeMax := s.Config.PageSizeMax

	r := newProtectedRoutes(s, "/tenantrole")

	// {id} only matches digits so the fixed paths never collide with it
	r.handle("GET", "/exists", handleTenantRoleExists(tenantRoles))
	r.handle("GET", "/exists/role", handleUserHasRole(associations))
	r.handle("GET", "/exists/permission", handleUserHasPermission(associations))
	r.handle("GET", "/find", handleSearchTenantRoles(tenantRoles))
	r.handle("GET", "/id", handleGetTenantRoleID(tenantRoles))
	r.handle("GET", "/count", handleCountTenantRoles(tenantRoles))
	r.handle("GET", "/permissions", handleGetPermissionIDs(associations))
	r.handle("GET", "/tenants", handleGetTenantIDs(associations))
	r.handle("GET", "/roles", handleGetRoleIDs(associations))

	r.handle("GET", "", handleListTenantRoles(tenantRoles, pageSizeMax))
	r.handle("POST", "", handleSaveTenantRole(tenantRoles))
	r.handle("GET", "/{id:[0-9]+}", handleGetTenantRole(tenantRoles))
	r.handle("DELETE", "/{id:[0-9]+}", handleDeleteTenantRole(associations))
}

func handleListTenantRoles(tenantRoles store.TenantRoleStore, pageSizeMax int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageNo, pageSize, err := paging(r, pageSizeMax)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		var filter store.TenantRoleFilter
		if filter.TenantID, err = optionalID(r, "tenantId"); err != nil {
			respondWithError(w, r, err)
			return
		}
		if filter.RoleID, err = optionalID(r, "roleId"); err != nil {
			respondWithError(w, r, err)
			return
		}

		page, err := tenantRoles.GetAll(r.Context(), filter, pageNo, pageSize)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, page)
	}
}

func handleGetTenantRole(tenantRoles store.TenantRoleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		tenantRole, err := tenantRoles.Get(r.Context(), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, tenantRole)
	}
}

func handleSaveTenantRole(tenantRoles store.TenantRoleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var tenantRole model.TenantRole
		if err := decodeBody(r, &tenantRole); err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := tenantRoles.Save(r.Context(), &tenantRole); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, tenantRole)
	}
}

func handleDeleteTenantRole(associations *association.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := associations.DeleteTenantRole(r.Context(), id); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, true)
	}
}

func handleTenantRoleExists(tenantRoles store.TenantRoleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := requiredID(r, "tenantId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		roleID, err := requiredID(r, "roleId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		exists, err := tenantRoles.IsAssociationAlreadyExistent(r.Context(), roleID, tenantID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, exists)
	}
}

func handleSearchTenantRoles(tenantRoles store.TenantRoleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter store.TenantRoleSearch
		var err error
		if filter.TenantID, err = optionalID(r, "tenantId"); err != nil {
			respondWithError(w, r, err)
			return
		}
		if filter.RoleID, err = optionalID(r, "roleId"); err != nil {
			respondWithError(w, r, err)
			return
		}
		filter.IsLogicalConjunction = boolParam(r, "isLogicalConjunction")

		found, err := tenantRoles.Search(r.Context(), filter)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if found == nil {
			found = []model.TenantRole{}
		}
		respondWithJSON(w, http.StatusOK, found)
	}
}

func handleGetTenantRoleID(tenantRoles store.TenantRoleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := requiredID(r, "tenantId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		roleID, err := requiredID(r, "roleId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		id, found, err := tenantRoles.GetTenantRoleID(r.Context(), tenantID, roleID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if !found {
			respondWithError(w, r, errdefs.NotFound("role %d is not registered in tenant %d", roleID, tenantID))
			return
		}
		respondWithJSON(w, http.StatusOK, id)
	}
}

func handleCountTenantRoles(tenantRoles store.TenantRoleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := tenantRoles.Count(r.Context())
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, count)
	}
}

func handleGetPermissionIDs(associations *association.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := requiredID(r, "tenantId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		roleID, err := optionalID(r, "roleId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		userID, err := optionalID(r, "userId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		ids, err := associations.GetPermissions(r.Context(), tenantID, roleID, userID)
		respondWithIDs(w, r, ids, err)
	}
}

func handleGetTenantIDs(associations *association.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requiredID(r, "userId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		roleID, err := optionalID(r, "roleId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		ids, err := associations.GetTenants(r.Context(), userID, roleID)
		respondWithIDs(w, r, ids, err)
	}
}

func handleGetRoleIDs(associations *association.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requiredID(r, "userId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		tenantID, err := optionalID(r, "tenantId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		ids, err := associations.GetRolesForUserTenant(r.Context(), userID, tenantID)
		respondWithIDs(w, r, ids, err)
	}
}

// GET /tenantrole/exists/role?userId=&roleName=&tenantId= or with
// roleNames=a,b to match any of several roles
func handleUserHasRole(associations *association.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requiredID(r, "userId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		tenantID, err := optionalID(r, "tenantId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		var exists bool
		if name := r.URL.Query().Get("roleName"); name != "" {
			exists, err = associations.IsRoleExistentForUser(r.Context(), userID, name, tenantID)
		} else {
			var names []string
			for _, n := range strings.Split(r.URL.Query().Get("roleNames"), ",") {
				if n = strings.TrimSpace(n); n != "" {
					names = append(names, n)
				}
			}
			exists, err = associations.IsAnyRoleExistentForUser(r.Context(), userID, names, tenantID)
		}
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, exists)
	}
}

func handleUserHasPermission(associations *association.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requiredID(r, "userId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		permissionID, err := requiredID(r, "permissionId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		tenantID, err := optionalID(r, "tenantId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		exists, err := associations.IsPermissionExistentForUser(r.Context(), userID, permissionID, tenantID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, exists)
	}
}

func respondWithIDs(w http.ResponseWriter, r *http.Request, ids []int64, err error) {
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	respondWithJSON(w, http.StatusOK, ids)
}
