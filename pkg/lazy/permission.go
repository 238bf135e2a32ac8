package lazy

import (
	"context"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

// PermissionPageSource pages permissions, optionally narrowed by name
type PermissionPageSource interface {
	GetAll(ctx context.Context, search string, pageNo, pageSize int) (*model.Page[model.Permission], error)
}

// ActionSource resolves actions by id
type ActionSource interface {
	GetByIDs(ctx context.Context, ids []int64) ([]model.Action, error)
}

// ResourceSource resolves resources by id
type ResourceSource interface {
	GetByIDs(ctx context.Context, ids []int64) ([]model.Resource, error)
}

// PermissionDataModel lists permissions with the names of the action and
// resource each one refers to. Filter "name" narrows the listing.
type PermissionDataModel struct {
	*Loader[model.Permission]
	actions   *Names
	resources *Names
}

// NewPermissionDataModel creates a PermissionDataModel
func NewPermissionDataModel(source PermissionPageSource, actions ActionSource, resources ResourceSource, logger *zap.Logger) *PermissionDataModel {
	m := &PermissionDataModel{
		actions: NewNames("action", ResolveBy(actions.GetByIDs,
			func(a model.Action) *int64 { return a.ID },
			func(a model.Action) string { return a.Name })),
		resources: NewNames("resource", ResolveBy(resources.GetByIDs,
			func(r model.Resource) *int64 { return r.ID },
			func(r model.Resource) string { return r.Name })),
	}

	fetch := func(ctx context.Context, req Request) (*model.Page[model.Permission], error) {
		return source.GetAll(ctx, req.Filter["name"], req.PageNo, req.PageSize)
	}

	m.Loader = NewLoader("permission", fetch, func(p model.Permission) *int64 { return p.ID }, logger,
		func(ctx context.Context, rows []model.Permission) error {
			var actionIDs, resourceIDs []int64
			for _, p := range rows {
				if p.ActionID != nil {
					actionIDs = append(actionIDs, *p.ActionID)
				}
				if p.ResourceID != nil {
					resourceIDs = append(resourceIDs, *p.ResourceID)
				}
			}
			if err := m.actions.Prefetch(ctx, actionIDs); err != nil {
				return err
			}
			return m.resources.Prefetch(ctx, resourceIDs)
		},
	)
	return m
}

// ActionName returns the name of actionID, or Unknown
func (m *PermissionDataModel) ActionName(actionID int64) string {
	return m.actions.Name(actionID)
}

// ResourceName returns the name of resourceID, or Unknown
func (m *PermissionDataModel) ResourceName(resourceID int64) string {
	return m.resources.Name(resourceID)
}
