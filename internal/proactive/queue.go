package proactive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Queue submits a single future invocation of the deferred-send endpoint.
// The queue owns the task from submission until it executes; delivery is
// at-least-once, so duplicate invocations are possible and accepted.
type Queue interface {
	// EnqueueSend schedules one POST to the deferred endpoint at now+delay.
	EnqueueSend(ctx context.Context, delay time.Duration) error
}

// CloudTasksQueue is a Queue backed by Google Cloud Tasks.
type CloudTasksQueue struct {
	client    *cloudtasks.Client
	queuePath string
	targetURL string
	log       *slog.Logger
}

// NewCloudTasksQueue creates a queue client. queuePath is the full queue
// resource name (projects/<p>/locations/<l>/queues/<q>) and targetURL the
// deferred-send endpoint.
func NewCloudTasksQueue(ctx context.Context, queuePath, targetURL string, log *slog.Logger) (*CloudTasksQueue, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}
	return &CloudTasksQueue{
		client:    client,
		queuePath: queuePath,
		targetURL: targetURL,
		log:       log.With("component", "task_queue"),
	}, nil
}

func (q *CloudTasksQueue) EnqueueSend(ctx context.Context, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}
	scheduleTime := time.Now().Add(delay)

	req := &taskspb.CreateTaskRequest{
		Parent: q.queuePath,
		Task: &taskspb.Task{
			MessageType: &taskspb.Task_HttpRequest{
				HttpRequest: &taskspb.HttpRequest{
					HttpMethod: taskspb.HttpMethod_POST,
					Url:        q.targetURL,
				},
			},
			ScheduleTime: timestamppb.New(scheduleTime),
		},
	}

	task, err := q.client.CreateTask(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to enqueue deferred send: %w", err)
	}

	q.log.InfoContext(ctx, "Deferred send enqueued",
		"task", task.GetName(),
		"delay", delay,
		"schedule_time", scheduleTime.Format(time.RFC3339))
	return nil
}

// Close releases the underlying client connection.
func (q *CloudTasksQueue) Close() error {
	return q.client.Close()
}
