package cli

import (
	"fmt"

	"github.com/alexanderramin/curricula/internal/cli/formatter"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/spf13/cobra"
)

var auditEntityTypes = map[string]domain.EntityType{
	"topic":         domain.EntityTopic,
	"course":        domain.EntityCourse,
	"path":          domain.EntityLearningPath,
	"learning_path": domain.EntityLearningPath,
	"enrollment":    domain.EntityEnrollment,
}

func newAuditCmd(app *App) *cobra.Command {
	var entity, id string
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recorded recalculations",
		Long: `Show the audit log. With --entity and --id, lists every entry for one
entity oldest first; otherwise the most recent entries, newest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var entries []*domain.AuditEntry
			var err error
			if entity != "" {
				et, ok := auditEntityTypes[entity]
				if !ok {
					return fmt.Errorf("invalid entity %q: must be one of topic, course, path, enrollment", entity)
				}
				if id == "" {
					return fmt.Errorf("--id is required with --entity")
				}
				entries, err = app.Audit.ListByEntity(ctx, et, id)
			} else {
				entries, err = app.Audit.ListRecent(ctx, limit)
			}
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAuditLog(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "Entity type: topic, course, path or enrollment")
	cmd.Flags().StringVar(&id, "id", "", "Entity ID")
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of recent entries")

	return cmd
}
