package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/deppfellow/netanomics/internal/database"
	"github.com/deppfellow/netanomics/internal/errs"
	"github.com/deppfellow/netanomics/internal/lib/email"
	"github.com/deppfellow/netanomics/internal/lib/utils"
	"github.com/deppfellow/netanomics/internal/model"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations",
	Long:  "Apply the embedded database migrations. --to moves the schema to a specific version, rolling back when it is lower than the current one.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		target, err := cmd.Flags().GetInt32("to")
		if err != nil {
			return err
		}

		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.loggerService.Shutdown()

		return database.MigrateTo(cmd.Context(), rt.logger, rt.cfg, target)
	},
}

func init() {
	migrateCmd.Flags().Int32("to", database.LatestVersion, "target schema version (default: latest)")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert the master list of constituencies",
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		result, err := a.services.Seed.Seed(cmd.Context())
		if err != nil {
			return err
		}
		return utils.PrintJSON(cmd.OutOrStdout(), result)
	}),
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process every report waiting in the inbox once",
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		result, err := a.services.Processor.ProcessInbox(cmd.Context())
		if err != nil {
			return err
		}
		return utils.PrintJSON(cmd.OutOrStdout(), result)
	}),
}

var auditCmd = &cobra.Command{
	Use:   "audit <constituency-id>",
	Short: "Rerun the audit agents for one constituency",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid constituency id %q", args[0])
		}

		req := &model.AuditRequest{ConstituencyID: id}
		if err := req.Validate(); err != nil {
			return errs.ValidationError(err)
		}

		result, err := a.services.Audit.Audit(cmd.Context(), req)
		if err != nil {
			return err
		}
		return utils.PrintJSON(cmd.OutOrStdout(), result)
	}),
}

// emailPreviewCmd needs no configuration, so templates can be checked
// without a database.
var emailPreviewCmd = &cobra.Command{
	Use:   "email-preview [template]",
	Short: "Render an email template with sample data to stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := email.TemplateAuditAlert
		if len(args) == 1 {
			name = email.Template(args[0])
		}

		data, ok := email.PreviewData[name]
		if !ok {
			return fmt.Errorf("no preview data for template %q", name)
		}

		html, err := email.Render(name, data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), html)
		return err
	},
}
