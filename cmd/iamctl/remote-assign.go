package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/iam-in-go/pkg/client"
)

var remoteAssignCmd = &cobra.Command{
	Use:   "assign <user|permission> <tenantId> <roleId> <id>",
	Short: "Assign a user or a permission to the role of a tenant",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAssignment(cmd, args, true)
	},
}

var remoteUnassignCmd = &cobra.Command{
	Use:   "unassign <user|permission> <tenantId> <roleId> <id>",
	Short: "Remove a user or a permission from the role of a tenant",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAssignment(cmd, args, false)
	},
}

func init() {
	remoteCmd.AddCommand(remoteAssignCmd)
	remoteCmd.AddCommand(remoteUnassignCmd)
}

// assignment is one parsed assign or unassign request
type assignment struct {
	Kind     string
	TenantID int64
	RoleID   int64
	ID       int64
}

func parseAssignment(args []string) (assignment, error) {
	a := assignment{Kind: args[0]}
	if a.Kind != "user" && a.Kind != "permission" {
		return a, fmt.Errorf("cannot assign %q, expected user or permission", a.Kind)
	}
	var err error
	if a.TenantID, err = parseID("tenantId", args[1]); err != nil {
		return a, err
	}
	if a.RoleID, err = parseID("roleId", args[2]); err != nil {
		return a, err
	}
	if a.ID, err = parseID(a.Kind+"Id", args[3]); err != nil {
		return a, err
	}
	return a, nil
}

func runAssignment(cmd *cobra.Command, args []string, assign bool) error {
	a, err := parseAssignment(args)
	if err != nil {
		return err
	}
	clients, logger, err := remoteSetup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return applyAssignment(cmd.Context(), cmd.OutOrStdout(), clients.IAM, a, assign)
}

func applyAssignment(ctx context.Context, out io.Writer, c *client.Client, a assignment, assign bool) error {
	switch {
	case a.Kind == "user" && assign:
		link, err := c.TenantRoleUsers().Assign(ctx, a.TenantID, a.RoleID, a.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "user %d assigned to tenant %d role %d (tenant role %d)\n", a.ID, a.TenantID, a.RoleID, link.TenantRoleID)
	case a.Kind == "user":
		if err := c.TenantRoleUsers().Unassign(ctx, a.TenantID, a.RoleID, a.ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "user %d unassigned from tenant %d role %d\n", a.ID, a.TenantID, a.RoleID)
	case assign:
		link, err := c.TenantRolePermissions().Assign(ctx, a.TenantID, a.RoleID, a.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "permission %d assigned to tenant %d role %d (tenant role %d)\n", a.ID, a.TenantID, a.RoleID, link.TenantRoleID)
	default:
		if err := c.TenantRolePermissions().Unassign(ctx, a.TenantID, a.RoleID, a.ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "permission %d unassigned from tenant %d role %d\n", a.ID, a.TenantID, a.RoleID)
	}
	return nil
}
