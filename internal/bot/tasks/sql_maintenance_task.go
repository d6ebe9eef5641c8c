package tasks

import (
	"context"
	"fmt"
)

// newSQLMaintenanceTask builds the periodic event-log maintenance task.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		if err := deps.Events.RunMaintenance(ctx); err != nil {
			return fmt.Errorf("database maintenance failed: %w", err)
		}
		log.InfoContext(ctx, "Database maintenance finished")
		return nil
	}
}
