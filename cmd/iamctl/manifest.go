package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/iam-in-go/pkg/config"
	"github.com/doodlesbykumbi/iam-in-go/pkg/db"
	"github.com/doodlesbykumbi/iam-in-go/pkg/manifest"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server/association"
	gormstore "github.com/doodlesbykumbi/iam-in-go/pkg/server/store/gorm"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Apply assignment manifests",
	Long: `Apply YAML manifests that assign permissions and users to tenant roles.

A manifest looks like:

  assignments:
    - tenant: 1
      role: 2
      permissions: [10, 11]
      users: [7]
      unassign:
        users: [8]`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'manifest' requires a subcommand (apply, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)
}

// newAssociationService builds the assignment service on the gorm stores
func newAssociationService(database *gorm.DB, logger *zap.Logger) *association.Service {
	return association.NewService(association.Stores{
		TenantRoles:           gormstore.NewTenantRoleStore(database),
		TenantRolePermissions: gormstore.NewTenantRolePermissionStore(database),
		TenantRoleUsers:       gormstore.NewTenantRoleUserStore(database),
		ActiveTenants:         gormstore.NewActiveTenantStore(database),
		Tenants:               gormstore.NewTenantStore(database),
		Roles:                 gormstore.NewRoleStore(database),
	}, logger)
}

// newManifestLoader connects to the database and returns a loader applying
// manifests through the association service
func newManifestLoader(dryRun bool) (*manifest.Loader, *zap.Logger, error) {
	cfg := config.Get()
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	database, err := db.Connect(db.Config{LogLevel: cfg.LogLevel})
	if err != nil {
		return nil, nil, err
	}

	loader := manifest.NewLoader(newAssociationService(database, logger), logger).WithDryRun(dryRun)
	return loader, logger, nil
}

func printResult(cmd *cobra.Command, result *manifest.Result) {
	fmt.Fprintf(cmd.OutOrStdout(), "assigned: %d, unassigned: %d, skipped: %d\n",
		result.Assigned, result.Unassigned, result.Skipped)
}
