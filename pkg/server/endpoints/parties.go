package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/store"
)

// RegisterPartyEndpoints registers the read and create routes of the
// tenants, roles, permissions and active tenants that tenant roles refer to
func RegisterPartyEndpoints(s *server.Server) {
	r := newProtectedRoutes(s, "")

	r.handle("GET", "/tenant", handleGetTenants(s.TenantStore))
	r.handle("POST", "/tenant", handleCreateTenant(s.TenantStore))
	r.handle("GET", "/tenant/{id:[0-9]+}", handleGetTenant(s.TenantStore))

	r.handle("GET", "/role", handleGetRoles(s.RoleStore))
	r.handle("POST", "/role", handleCreateRole(s.RoleStore))
	r.handle("GET", "/role/{id:[0-9]+}", handleGetRole(s.RoleStore))

	r.handle("GET", "/permission", handleGetPermissions(s.PermissionStore, s.Config.PageSizeMax))
	r.handle("POST", "/permission", handleCreatePermission(s.PermissionStore))
	r.handle("GET", "/action", handleGetActions(s.PermissionStore))
	r.handle("GET", "/resource", handleGetResources(s.PermissionStore))

	r.handle("GET", "/activetenant", handleGetActiveTenants(s.ActiveTenantStore))
}

func handleGetTenants(tenants store.TenantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := requiredIDs(r, "ids")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		found, err := tenants.GetByIDs(r.Context(), ids)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if found == nil {
			found = []model.Tenant{}
		}
		respondWithJSON(w, http.StatusOK, found)
	}
}

func handleGetTenant(tenants store.TenantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		tenant, err := tenants.Get(r.Context(), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, tenant)
	}
}

func handleCreateTenant(tenants store.TenantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var tenant model.Tenant
		if err := decodeBody(r, &tenant); err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := tenants.Create(r.Context(), &tenant); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, tenant)
	}
}

func handleGetRoles(roles store.RoleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := requiredIDs(r, "ids")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		found, err := roles.GetByIDs(r.Context(), ids)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if found == nil {
			found = []model.Role{}
		}
		respondWithJSON(w, http.StatusOK, found)
	}
}

func handleGetRole(roles store.RoleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		role, err := roles.Get(r.Context(), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, role)
	}
}

func handleCreateRole(roles store.RoleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var role model.Role
		if err := decodeBody(r, &role); err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := roles.Create(r.Context(), &role); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, role)
	}
}

// handleGetPermissions resolves the ids of the ids parameter, or pages
// through all permissions when it is absent
func handleGetPermissions(permissions store.PermissionStore, pageSizeMax int) http.HandlerFunc {
	list := handleListPermissions(permissions, pageSizeMax)
	return func(w http.ResponseWriter, r *http.Request) {
		if !r.URL.Query().Has("ids") {
			list(w, r)
			return
		}
		ids, err := requiredIDs(r, "ids")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		found, err := permissions.GetByIDs(r.Context(), ids)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if found == nil {
			found = []model.Permission{}
		}
		respondWithJSON(w, http.StatusOK, found)
	}
}

func handleListPermissions(permissions store.PermissionStore, pageSizeMax int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageNo, pageSize, err := paging(r, pageSizeMax)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		page, err := permissions.GetAll(r.Context(), r.URL.Query().Get("search"), pageNo, pageSize)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, page)
	}
}

func handleCreatePermission(permissions store.PermissionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var permission model.Permission
		if err := decodeBody(r, &permission); err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := permissions.Create(r.Context(), &permission); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, permission)
	}
}

func handleGetActions(permissions store.PermissionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := requiredIDs(r, "ids")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		found, err := permissions.GetActionsByIDs(r.Context(), ids)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if found == nil {
			found = []model.Action{}
		}
		respondWithJSON(w, http.StatusOK, found)
	}
}

func handleGetResources(permissions store.PermissionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := requiredIDs(r, "ids")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		found, err := permissions.GetResourcesByIDs(r.Context(), ids)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if found == nil {
			found = []model.Resource{}
		}
		respondWithJSON(w, http.StatusOK, found)
	}
}

func handleGetActiveTenants(activeTenants store.ActiveTenantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requiredID(r, "userId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		found, err := activeTenants.GetByUser(r.Context(), userID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if found == nil {
			found = []model.ActiveTenant{}
		}
		respondWithJSON(w, http.StatusOK, found)
	}
}
