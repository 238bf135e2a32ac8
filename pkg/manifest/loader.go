package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
	"github.com/doodlesbykumbi/iam-in-go/pkg/model"
)

// Applier performs single assignments. *association.Service implements it.
type Applier interface {
	AssignPermission(ctx context.Context, tenantID, roleID, permissionID int64) (*model.TenantRolePermission, error)
	AssignUser(ctx context.Context, tenantID, roleID, userID int64) (*model.TenantRoleUser, error)
	UnassignPermission(ctx context.Context, tenantID, roleID, permissionID int64) error
	UnassignUser(ctx context.Context, tenantID, roleID, userID int64) error
}

// Result counts the operations performed by a load
type Result struct {
	Assigned   int `json:"assigned"`
	Unassigned int `json:"unassigned"`
	// Skipped removals whose link did not exist
	Skipped int `json:"skipped"`
}

// Loader applies manifests
type Loader struct {
	applier Applier
	logger  *zap.Logger
	dryRun  bool
}

// NewLoader creates a Loader. A nil logger discards log output.
func NewLoader(applier Applier, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{applier: applier, logger: logger.Named("manifest")}
}

// WithDryRun sets whether to validate only without applying changes.
func (l *Loader) WithDryRun(dryRun bool) *Loader {
	l.dryRun = dryRun
	return l
}

// LoadFile parses and applies the manifest at path
func (l *Loader) LoadFile(ctx context.Context, path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	return l.LoadFromReader(ctx, file)
}

// LoadFromReader parses and applies a manifest from an io.Reader
func (l *Loader) LoadFromReader(ctx context.Context, r io.Reader) (*Result, error) {
	m, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, m)
}

// Load applies every assignment of m, then every removal. It stops at the
// first failure; operations already applied stay applied.
func (l *Loader) Load(ctx context.Context, m *Manifest) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	result := &Result{}
	if l.dryRun {
		for _, a := range m.Assignments {
			result.Assigned += len(a.Users) + len(a.Permissions)
			result.Unassigned += len(a.Unassign.Users) + len(a.Unassign.Permissions)
		}
		return result, nil
	}

	for _, a := range m.Assignments {
		for _, permissionID := range a.Permissions {
			if _, err := l.applier.AssignPermission(ctx, a.Tenant, a.Role, permissionID); err != nil {
				return result, fmt.Errorf("assign permission %d to role %d in tenant %d: %w", permissionID, a.Role, a.Tenant, err)
			}
			result.Assigned++
		}
		for _, userID := range a.Users {
			if _, err := l.applier.AssignUser(ctx, a.Tenant, a.Role, userID); err != nil {
				return result, fmt.Errorf("assign user %d to role %d in tenant %d: %w", userID, a.Role, a.Tenant, err)
			}
			result.Assigned++
		}
	}

	for _, a := range m.Assignments {
		for _, permissionID := range a.Unassign.Permissions {
			if err := l.countRemoval(result, l.applier.UnassignPermission(ctx, a.Tenant, a.Role, permissionID)); err != nil {
				return result, fmt.Errorf("unassign permission %d from role %d in tenant %d: %w", permissionID, a.Role, a.Tenant, err)
			}
		}
		for _, userID := range a.Unassign.Users {
			if err := l.countRemoval(result, l.applier.UnassignUser(ctx, a.Tenant, a.Role, userID)); err != nil {
				return result, fmt.Errorf("unassign user %d from role %d in tenant %d: %w", userID, a.Role, a.Tenant, err)
			}
		}
	}

	l.logger.Info("manifest applied",
		zap.Int("assigned", result.Assigned),
		zap.Int("unassigned", result.Unassigned),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// countRemoval treats a missing link as already removed
func (l *Loader) countRemoval(result *Result, err error) error {
	switch {
	case err == nil:
		result.Unassigned++
	case errors.Is(err, errdefs.ErrNotFound):
		result.Skipped++
	default:
		return err
	}
	return nil
}
