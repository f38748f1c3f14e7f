package queue

import (
	"fmt"
	"strconv"
)

type TaskType string

const (
	TaskReviewReported TaskType = "review.reported"
	TaskPurgeImages    TaskType = "review.purge_images"
	TaskReportsSweep   TaskType = "reports.sweep"
)

// Task is one message on the moderation stream.
type Task struct {
	Type     TaskType
	ReviewID int64
	ModelID  int64
	// Objects lists bucket/key pairs for TaskPurgeImages, as "bucket/key".
	Objects []string
}

func (t Task) values() map[string]any {
	values := map[string]any{
		"type": string(t.Type),
	}
	if t.ReviewID != 0 {
		values["reviewId"] = strconv.FormatInt(t.ReviewID, 10)
	}
	if t.ModelID != 0 {
		values["modelId"] = strconv.FormatInt(t.ModelID, 10)
	}
	for i, obj := range t.Objects {
		values[fmt.Sprintf("object.%d", i)] = obj
	}
	return values
}

// DecodeTask rebuilds a task from stream message values.
func DecodeTask(values map[string]any) (Task, error) {
	var task Task

	typ, _ := values["type"].(string)
	if typ == "" {
		return Task{}, fmt.Errorf("missing task type")
	}
	task.Type = TaskType(typ)

	var err error
	if task.ReviewID, err = intValue(values, "reviewId"); err != nil {
		return Task{}, err
	}
	if task.ModelID, err = intValue(values, "modelId"); err != nil {
		return Task{}, err
	}
	for i := 0; ; i++ {
		obj, ok := values[fmt.Sprintf("object.%d", i)].(string)
		if !ok {
			break
		}
		task.Objects = append(task.Objects, obj)
	}
	return task, nil
}

func intValue(values map[string]any, key string) (int64, error) {
	raw, ok := values[key].(string)
	if !ok || raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
