package tasks

import "context"

// ScheduledTaskFunc defines the standard signature for all scheduled tasks.
// The context provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// ScheduledTask pairs a task function with its cron schedule.
type ScheduledTask struct {
	Schedule string
	Run      ScheduledTaskFunc
}

// RegisterAllTasks initializes and returns a map of all scheduled tasks keyed
// by task name, with schedules taken from configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTask {
	deps = deps.withDefaults()

	tasks := map[string]ScheduledTask{
		"proactive_tick": {
			Schedule: deps.Config.ProactiveCron,
			Run:      newProactiveTickTask(deps),
		},
		"sql_maintenance": {
			Schedule: deps.Config.MaintenanceCron,
			Run:      newSQLMaintenanceTask(deps),
		},
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
