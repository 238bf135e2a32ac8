package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/iam-in-go/pkg/lazy"
)

var remoteTenantRolesCmd = &cobra.Command{
	Use:   "tenant-roles",
	Short: "List tenant roles with their tenant and role names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		clients, logger, err := remoteSetup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		filter := lazy.Filter{}
		for _, name := range []string{"tenant-id", "role-id"} {
			if v, _ := cmd.Flags().GetString(name); v != "" {
				filter[filterField(name)] = v
			}
		}
		m := lazy.NewTenantRoleDataModel(clients.IAM.TenantRoles(), clients.IAM.Tenants(), clients.IAM.Roles(), logger)
		return printTenantRoles(cmd.Context(), cmd.OutOrStdout(), m, pageFlags(cmd), filter)
	},
}

var remotePermissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "List permissions with their action and resource names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		clients, logger, err := remoteSetup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		filter := lazy.Filter{}
		if v, _ := cmd.Flags().GetString("name"); v != "" {
			filter["name"] = v
		}
		m := lazy.NewPermissionDataModel(clients.IAM.Permissions(), clients.IAM.Actions(), clients.IAM.Resources(), logger)
		return printPermissions(cmd.Context(), cmd.OutOrStdout(), m, pageFlags(cmd), filter)
	},
}

var remoteUsersCmd = &cobra.Command{
	Use:   "users <tenantRoleId>",
	Short: "List the users holding a tenant role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tenantRoleID, err := parseID("tenantRoleId", args[0])
		if err != nil {
			return err
		}
		clients, logger, err := remoteSetup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		m := lazy.NewTenantRoleUserDataModel(clients.IAM.TenantRoleUsers(), clients.Users.Users(), logger)
		m.SetTenantRoleID(&tenantRoleID)
		return printTenantRoleUsers(cmd.Context(), cmd.OutOrStdout(), m, pageFlags(cmd))
	},
}

func init() {
	for _, c := range []*cobra.Command{remoteTenantRolesCmd, remotePermissionsCmd, remoteUsersCmd} {
		c.Flags().Int("page", 1, "page to show")
		c.Flags().Int("page-size", 20, "rows per page")
		remoteCmd.AddCommand(c)
	}
	remoteTenantRolesCmd.Flags().String("tenant-id", "", "only tenant roles of this tenant")
	remoteTenantRolesCmd.Flags().String("role-id", "", "only tenant roles of this role")
	remotePermissionsCmd.Flags().String("name", "", "only permissions whose name contains this text")
}

// tablePage is the window of rows a listing shows
type tablePage struct {
	Page int
	Size int
}

func (p tablePage) offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Size
}

func pageFlags(cmd *cobra.Command) tablePage {
	page, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("page-size")
	return tablePage{Page: page, Size: size}
}

func filterField(flag string) string {
	switch flag {
	case "tenant-id":
		return "tenantId"
	case "role-id":
		return "roleId"
	}
	return flag
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

func footer(w io.Writer, page tablePage, shown int, total int64) {
	fmt.Fprintf(w, "\npage %d, %d of %d rows\n", max(page.Page, 1), shown, total)
}

func printTenantRoles(ctx context.Context, out io.Writer, m *lazy.TenantRoleDataModel, page tablePage, filter lazy.Filter) error {
	rows, err := m.Load(ctx, page.offset(), page.Size, nil, filter)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTENANT\tROLE")
	for _, tr := range rows {
		fmt.Fprintf(tw, "%s\t%s (%d)\t%s (%d)\n", m.RowKey(tr), m.TenantName(tr.TenantID), tr.TenantID, m.RoleName(tr.RoleID), tr.RoleID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	footer(out, page, len(rows), m.RowCount())
	return nil
}

func printPermissions(ctx context.Context, out io.Writer, m *lazy.PermissionDataModel, page tablePage, filter lazy.Filter) error {
	rows, err := m.Load(ctx, page.offset(), page.Size, nil, filter)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tACTION\tRESOURCE")
	for _, p := range rows {
		action, resource := "-", "-"
		if p.ActionID != nil {
			action = m.ActionName(*p.ActionID)
		}
		if p.ResourceID != nil {
			resource = m.ResourceName(*p.ResourceID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.RowKey(p), p.Name, action, resource)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	footer(out, page, len(rows), m.RowCount())
	return nil
}

func printTenantRoleUsers(ctx context.Context, out io.Writer, m *lazy.TenantRoleUserDataModel, page tablePage) error {
	rows, err := m.Load(ctx, page.offset(), page.Size, nil, nil)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER")
	for _, u := range rows {
		fmt.Fprintf(tw, "%s\t%s (%d)\n", m.RowKey(u), m.UserName(u.UserID), u.UserID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	footer(out, page, len(rows), m.RowCount())
	return nil
}
