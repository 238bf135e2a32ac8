package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/association"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/store"
)

// RegisterTenantRolePermissionEndpoints registers the /tenantrolepermission routes
func RegisterTenantRolePermissionEndpoints(s *server.Server) {
	links := s.TenantRolePermissionStore
	associations := s.Associations

	r := newProtectedRoutes(s, "/tenantrolepermission")

	r.handle("GET", "/exists", handlePermissionLinkExists(links))
	r.handle("POST", "/assign", handleAssignPermission(associations))
	r.handle("DELETE", "/unassign", handleUnassignPermission(associations))
	r.handle("GET", "", handleListPermissionLinks(links, s.Config.PageSizeMax))
	r.handle("POST", "", handleSavePermissionLink(links))
	r.handle("GET", "/{id:[0-9]+}", handleGetPermissionLink(links))
	r.handle("DELETE", "/{id:[0-9]+}", handleDeletePermissionLink(links))
}

// RegisterTenantRoleUserEndpoints registers the /tenantroleuser routes
func RegisterTenantRoleUserEndpoints(s *server.Server) {
	links := s.TenantRoleUserStore
	associations := s.Associations

	r := newProtectedRoutes(s, "/tenantroleuser")

	r.handle("GET", "/exists", handleUserLinkExists(links))
	r.handle("POST", "/assign", handleAssignUser(associations))
	r.handle("DELETE", "/unassign", handleUnassignUser(associations))
	r.handle("GET", "", handleListUserLinks(links, s.Config.PageSizeMax))
	r.handle("POST", "", handleSaveUserLink(links))
	r.handle("GET", "/{id:[0-9]+}", handleGetUserLink(links))
	r.handle("DELETE", "/{id:[0-9]+}", handleDeleteUserLink(links))
}

// assignment holds the tenantId, roleId and target id of an assign or
// unassign request
type assignment struct {
	tenantID, roleID, targetID int64
}

func parseAssignment(r *http.Request, target string) (assignment, error) {
	var a assignment
	var err error
	if a.tenantID, err = requiredID(r, "tenantId"); err != nil {
		return a, err
	}
	if a.roleID, err = requiredID(r, "roleId"); err != nil {
		return a, err
	}
	a.targetID, err = requiredID(r, target)
	return a, err
}

func handleAssignPermission(associations *association.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := parseAssignment(r, "permissionId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		link, err := associations.AssignPermission(r.Context(), a.tenantID, a.roleID, a.targetID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, link)
	}
}

func handleUnassignPermission(associations *association.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := parseAssignment(r, "permissionId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := associations.UnassignPermission(r.Context(), a.tenantID, a.roleID, a.targetID); err != nil {
			respondWithError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAssignUser(associations *association.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := parseAssignment(r, "userId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		link, err := associations.AssignUser(r.Context(), a.tenantID, a.roleID, a.targetID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, link)
	}
}

func handleUnassignUser(associations *association.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := parseAssignment(r, "userId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := associations.UnassignUser(r.Context(), a.tenantID, a.roleID, a.targetID); err != nil {
			respondWithError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleListPermissionLinks(links store.TenantRolePermissionStore, pageSizeMax int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageNo, pageSize, err := paging(r, pageSizeMax)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		var filter store.TenantRolePermissionFilter
		if filter.TenantRoleID, err = optionalID(r, "tenantRoleId"); err != nil {
			respondWithError(w, r, err)
			return
		}
		if filter.PermissionID, err = optionalID(r, "permissionId"); err != nil {
			respondWithError(w, r, err)
			return
		}
		page, err := links.GetAll(r.Context(), filter, pageNo, pageSize)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, page)
	}
}

func handleGetPermissionLink(links store.TenantRolePermissionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		link, err := links.Get(r.Context(), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, link)
	}
}

func handleSavePermissionLink(links store.TenantRolePermissionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var link model.TenantRolePermission
		if err := decodeBody(r, &link); err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := links.Save(r.Context(), &link); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, link)
	}
}

func handleDeletePermissionLink(links store.TenantRolePermissionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		deleted, err := links.Delete(r.Context(), id)
		respondWithDeleted(w, r, "tenant role permission", id, deleted, err)
	}
}

func handlePermissionLinkExists(links store.TenantRolePermissionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantRoleID, err := requiredID(r, "tenantRoleId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		permissionID, err := requiredID(r, "permissionId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		exists, err := links.IsAssociationAlreadyExistent(r.Context(), tenantRoleID, permissionID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, exists)
	}
}

func handleListUserLinks(links store.TenantRoleUserStore, pageSizeMax int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageNo, pageSize, err := paging(r, pageSizeMax)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		var filter store.TenantRoleUserFilter
		if filter.TenantRoleID, err = optionalID(r, "tenantRoleId"); err != nil {
			respondWithError(w, r, err)
			return
		}
		if filter.UserID, err = optionalID(r, "userId"); err != nil {
			respondWithError(w, r, err)
			return
		}
		page, err := links.GetAll(r.Context(), filter, pageNo, pageSize)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, page)
	}
}

func handleGetUserLink(links store.TenantRoleUserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		link, err := links.Get(r.Context(), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, link)
	}
}

func handleSaveUserLink(links store.TenantRoleUserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var link model.TenantRoleUser
		if err := decodeBody(r, &link); err != nil {
			respondWithError(w, r, err)
			return
		}
		if err := links.Save(r.Context(), &link); err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, link)
	}
}

func handleDeleteUserLink(links store.TenantRoleUserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		deleted, err := links.Delete(r.Context(), id)
		respondWithDeleted(w, r, "tenant role user", id, deleted, err)
	}
}

func handleUserLinkExists(links store.TenantRoleUserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantRoleID, err := requiredID(r, "tenantRoleId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		userID, err := requiredID(r, "userId")
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		exists, err := links.IsAssociationAlreadyExistent(r.Context(), tenantRoleID, userID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, exists)
	}
}
