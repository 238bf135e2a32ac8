package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

// Client is the entry point to the remote IAM service. It is safe for
// concurrent use.
type Client struct {
	retrier   *Retrier
	transport *transport
}

// New creates a Client for the service at baseURL. Every call presents the
// holder's access token and refreshes it once on expiry.
func New(baseURL string, holder TokenHolder, opts ...Option) *Client {
	o := newOptions(opts)
	return &Client{
		retrier:   NewRetrier(baseURL, holder, opts...),
		transport: &transport{http: o.httpClient, logger: o.logger},
	}
}

func (c *Client) TenantRoles() *TenantRoleClient { return &TenantRoleClient{c: c} }

func (c *Client) TenantRolePermissions() *TenantRolePermissionClient {
	return &TenantRolePermissionClient{c: c}
}

func (c *Client) TenantRoleUsers() *TenantRoleUserClient { return &TenantRoleUserClient{c: c} }

func (c *Client) Tenants() *TenantClient { return &TenantClient{c: c} }

func (c *Client) Roles() *RoleClient { return &RoleClient{c: c} }

func (c *Client) Permissions() *PermissionClient { return &PermissionClient{c: c} }

func (c *Client) Actions() *ActionClient { return &ActionClient{c: c} }

func (c *Client) Resources() *ResourceClient { return &ResourceClient{c: c} }

// Users reads the user service. The client has to point at that service.
func (c *Client) Users() *UserClient { return &UserClient{c: c} }

// send runs one JSON request through the retrier
func send[T any](ctx context.Context, c *Client, operation, method, path string, in interface{}) (T, error) {
	return Call(ctx, c.retrier, operation, path, func(ctx context.Context, endpoint *url.URL, token string) (T, error) {
		var out T
		err := c.transport.do(ctx, method, endpoint, token, in, &out)
		return out, err
	})
}

// query builds a relative path with the non-nil parameters
type query struct {
	values url.Values
}

func newQuery() *query { return &query{values: url.Values{}} }

func (q *query) num(key string, v int) *query {
	q.values.Set(key, strconv.Itoa(v))
	return q
}

func (q *query) id(key string, v int64) *query {
	q.values.Set(key, strconv.FormatInt(v, 10))
	return q
}

func (q *query) optID(key string, v *int64) *query {
	if v != nil {
		q.id(key, *v)
	}
	return q
}

func (q *query) flag(key string, v bool) *query {
	q.values.Set(key, strconv.FormatBool(v))
	return q
}

func (q *query) ids(key string, ids []int64) *query {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	q.values.Set(key, strings.Join(parts, ","))
	return q
}

func (q *query) path(p string) string {
	if len(q.values) == 0 {
		return p
	}
	return p + "?" + q.values.Encode()
}

func itemPath(collection string, id int64) string {
	return collection + "/" + strconv.FormatInt(id, 10)
}

// TenantRoleClient manages (tenant, role) associations
type TenantRoleClient struct {
	c *Client
}

// TenantRoleQuery narrows GetAll
type TenantRoleQuery struct {
	TenantID *int64
	RoleID   *int64
}

func (t *TenantRoleClient) Get(ctx context.Context, id int64) (*model.TenantRole, error) {
	return send[*model.TenantRole](ctx, t.c, "get tenant role", http.MethodGet, itemPath("tenantrole", id), nil)
}

func (t *TenantRoleClient) GetAll(ctx context.Context, filter TenantRoleQuery, pageNo, pageSize int) (*model.Page[model.TenantRole], error) {
	path := newQuery().
		num("pageNo", pageNo).
		num("pageSize", pageSize).
		optID("tenantId", filter.TenantID).
		optID("roleId", filter.RoleID).
		path("tenantrole")
	return send[*model.Page[model.TenantRole]](ctx, t.c, "list tenant roles", http.MethodGet, path, nil)
}

func (t *TenantRoleClient) Save(ctx context.Context, tr *model.TenantRole) (*model.TenantRole, error) {
	return send[*model.TenantRole](ctx, t.c, "save tenant role", http.MethodPost, "tenantrole", tr)
}

func (t *TenantRoleClient) Delete(ctx context.Context, id int64) (bool, error) {
	return send[bool](ctx, t.c, "delete tenant role", http.MethodDelete, itemPath("tenantrole", id), nil)
}

func (t *TenantRoleClient) Exists(ctx context.Context, tenantID, roleID int64) (bool, error) {
	path := newQuery().id("tenantId", tenantID).id("roleId", roleID).path("tenantrole/exists")
	return send[bool](ctx, t.c, "check tenant role", http.MethodGet, path, nil)
}

func (t *TenantRoleClient) Search(ctx context.Context, tenantID, roleID *int64, conjunction bool) ([]model.TenantRole, error) {
	path := newQuery().
		optID("tenantId", tenantID).
		optID("roleId", roleID).
		flag("isLogicalConjunction", conjunction).
		path("tenantrole/find")
	return send[[]model.TenantRole](ctx, t.c, "find tenant roles", http.MethodGet, path, nil)
}

func (t *TenantRoleClient) GetID(ctx context.Context, tenantID, roleID int64) (int64, error) {
	path := newQuery().id("tenantId", tenantID).id("roleId", roleID).path("tenantrole/id")
	return send[int64](ctx, t.c, "get tenant role id", http.MethodGet, path, nil)
}

func (t *TenantRoleClient) Count(ctx context.Context) (int64, error) {
	return send[int64](ctx, t.c, "count tenant roles", http.MethodGet, "tenantrole/count", nil)
}

func (t *TenantRoleClient) GetPermissionIDs(ctx context.Context, tenantID int64, roleID, userID *int64) ([]int64, error) {
	path := newQuery().id("tenantId", tenantID).optID("roleId", roleID).optID("userId", userID).path("tenantrole/permissions")
	return send[[]int64](ctx, t.c, "list permission ids", http.MethodGet, path, nil)
}

func (t *TenantRoleClient) GetTenantIDs(ctx context.Context, userID int64, roleID *int64) ([]int64, error) {
	path := newQuery().id("userId", userID).optID("roleId", roleID).path("tenantrole/tenants")
	return send[[]int64](ctx, t.c, "list tenant ids", http.MethodGet, path, nil)
}

func (t *TenantRoleClient) GetRoleIDs(ctx context.Context, userID int64, tenantID *int64) ([]int64, error) {
	path := newQuery().id("userId", userID).optID("tenantId", tenantID).path("tenantrole/roles")
	return send[[]int64](ctx, t.c, "list role ids", http.MethodGet, path, nil)
}

// TenantRolePermissionClient manages the permissions granted to tenant roles
type TenantRolePermissionClient struct {
	c *Client
}

func (t *TenantRolePermissionClient) Get(ctx context.Context, id int64) (*model.TenantRolePermission, error) {
	return send[*model.TenantRolePermission](ctx, t.c, "get tenant role permission", http.MethodGet, itemPath("tenantrolepermission", id), nil)
}

func (t *TenantRolePermissionClient) GetAll(ctx context.Context, tenantRoleID, permissionID *int64, pageNo, pageSize int) (*model.Page[model.TenantRolePermission], error) {
	path := newQuery().
		num("pageNo", pageNo).
		num("pageSize", pageSize).
		optID("tenantRoleId", tenantRoleID).
		optID("permissionId", permissionID).
		path("tenantrolepermission")
	return send[*model.Page[model.TenantRolePermission]](ctx, t.c, "list tenant role permissions", http.MethodGet, path, nil)
}

func (t *TenantRolePermissionClient) Save(ctx context.Context, link *model.TenantRolePermission) (*model.TenantRolePermission, error) {
	return send[*model.TenantRolePermission](ctx, t.c, "save tenant role permission", http.MethodPost, "tenantrolepermission", link)
}

func (t *TenantRolePermissionClient) Delete(ctx context.Context, id int64) (bool, error) {
	return send[bool](ctx, t.c, "delete tenant role permission", http.MethodDelete, itemPath("tenantrolepermission", id), nil)
}

func (t *TenantRolePermissionClient) Exists(ctx context.Context, tenantRoleID, permissionID int64) (bool, error) {
	path := newQuery().id("tenantRoleId", tenantRoleID).id("permissionId", permissionID).path("tenantrolepermission/exists")
	return send[bool](ctx, t.c, "check tenant role permission", http.MethodGet, path, nil)
}

// Assign grants permissionID to roleID inside tenantID. Granting twice is not an error.
func (t *TenantRolePermissionClient) Assign(ctx context.Context, tenantID, roleID, permissionID int64) (*model.TenantRolePermission, error) {
	path := newQuery().id("tenantId", tenantID).id("roleId", roleID).id("permissionId", permissionID).path("tenantrolepermission/assign")
	return send[*model.TenantRolePermission](ctx, t.c, "assign permission", http.MethodPost, path, nil)
}

// Unassign revokes the grant, failing with ErrNotFound when there is none
func (t *TenantRolePermissionClient) Unassign(ctx context.Context, tenantID, roleID, permissionID int64) error {
	path := newQuery().id("tenantId", tenantID).id("roleId", roleID).id("permissionId", permissionID).path("tenantrolepermission/unassign")
	_, err := send[json.RawMessage](ctx, t.c, "unassign permission", http.MethodDelete, path, nil)
	return err
}

// TenantRoleUserClient manages the users holding tenant roles
type TenantRoleUserClient struct {
	c *Client
}

func (t *TenantRoleUserClient) Get(ctx context.Context, id int64) (*model.TenantRoleUser, error) {
	return send[*model.TenantRoleUser](ctx, t.c, "get tenant role user", http.MethodGet, itemPath("tenantroleuser", id), nil)
}

func (t *TenantRoleUserClient) GetAll(ctx context.Context, tenantRoleID, userID *int64, pageNo, pageSize int) (*model.Page[model.TenantRoleUser], error) {
	path := newQuery().
		num("pageNo", pageNo).
		num("pageSize", pageSize).
		optID("tenantRoleId", tenantRoleID).
		optID("userId", userID).
		path("tenantroleuser")
	return send[*model.Page[model.TenantRoleUser]](ctx, t.c, "list tenant role users", http.MethodGet, path, nil)
}

func (t *TenantRoleUserClient) Save(ctx context.Context, link *model.TenantRoleUser) (*model.TenantRoleUser, error) {
	return send[*model.TenantRoleUser](ctx, t.c, "save tenant role user", http.MethodPost, "tenantroleuser", link)
}

func (t *TenantRoleUserClient) Delete(ctx context.Context, id int64) (bool, error) {
	return send[bool](ctx, t.c, "delete tenant role user", http.MethodDelete, itemPath("tenantroleuser", id), nil)
}

func (t *TenantRoleUserClient) Exists(ctx context.Context, tenantRoleID, userID int64) (bool, error) {
	path := newQuery().id("tenantRoleId", tenantRoleID).id("userId", userID).path("tenantroleuser/exists")
	return send[bool](ctx, t.c, "check tenant role user", http.MethodGet, path, nil)
}

// Assign gives userID the role roleID inside tenantID. Assigning twice is not an error.
func (t *TenantRoleUserClient) Assign(ctx context.Context, tenantID, roleID, userID int64) (*model.TenantRoleUser, error) {
	path := newQuery().id("tenantId", tenantID).id("roleId", roleID).id("userId", userID).path("tenantroleuser/assign")
	return send[*model.TenantRoleUser](ctx, t.c, "assign user", http.MethodPost, path, nil)
}

// Unassign removes the user from the role, failing with ErrNotFound when
// the user does not hold it
func (t *TenantRoleUserClient) Unassign(ctx context.Context, tenantID, roleID, userID int64) error {
	path := newQuery().id("tenantId", tenantID).id("roleId", roleID).id("userId", userID).path("tenantroleuser/unassign")
	_, err := send[json.RawMessage](ctx, t.c, "unassign user", http.MethodDelete, path, nil)
	return err
}

// TenantClient reads tenants
type TenantClient struct {
	c *Client
}

func (t *TenantClient) Get(ctx context.Context, id int64) (*model.Tenant, error) {
	return send[*model.Tenant](ctx, t.c, "get tenant", http.MethodGet, itemPath("tenant", id), nil)
}

func (t *TenantClient) GetByIDs(ctx context.Context, ids []int64) ([]model.Tenant, error) {
	return send[[]model.Tenant](ctx, t.c, "get tenants", http.MethodGet, newQuery().ids("ids", ids).path("tenant"), nil)
}

// RoleClient reads roles
type RoleClient struct {
	c *Client
}

func (r *RoleClient) Get(ctx context.Context, id int64) (*model.Role, error) {
	return send[*model.Role](ctx, r.c, "get role", http.MethodGet, itemPath("role", id), nil)
}

func (r *RoleClient) GetByIDs(ctx context.Context, ids []int64) ([]model.Role, error) {
	return send[[]model.Role](ctx, r.c, "get roles", http.MethodGet, newQuery().ids("ids", ids).path("role"), nil)
}

// PermissionClient reads permissions
type PermissionClient struct {
	c *Client
}

// GetAll pages through the permissions whose name contains search
func (p *PermissionClient) GetAll(ctx context.Context, search string, pageNo, pageSize int) (*model.Page[model.Permission], error) {
	q := newQuery().num("pageNo", pageNo).num("pageSize", pageSize)
	if search != "" {
		q.values.Set("search", search)
	}
	return send[*model.Page[model.Permission]](ctx, p.c, "list permissions", http.MethodGet, q.path("permission"), nil)
}

func (p *PermissionClient) GetByIDs(ctx context.Context, ids []int64) ([]model.Permission, error) {
	return send[[]model.Permission](ctx, p.c, "get permissions", http.MethodGet, newQuery().ids("ids", ids).path("permission"), nil)
}

// ActionClient reads the actions permissions refer to
type ActionClient struct {
	c *Client
}

func (a *ActionClient) GetByIDs(ctx context.Context, ids []int64) ([]model.Action, error) {
	return send[[]model.Action](ctx, a.c, "get actions", http.MethodGet, newQuery().ids("ids", ids).path("action"), nil)
}

// ResourceClient reads the resources permissions refer to
type ResourceClient struct {
	c *Client
}

func (r *ResourceClient) GetByIDs(ctx context.Context, ids []int64) ([]model.Resource, error) {
	return send[[]model.Resource](ctx, r.c, "get resources", http.MethodGet, newQuery().ids("ids", ids).path("resource"), nil)
}

// UserClient reads user accounts
type UserClient struct {
	c *Client
}

func (u *UserClient) GetByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	return send[[]model.User](ctx, u.c, "get users", http.MethodGet, newQuery().ids("ids", ids).path("user"), nil)
}
