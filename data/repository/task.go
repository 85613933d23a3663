// Package repository provides MongoDB-backed task persistence.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ncobase/remind/logging/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection holding task documents.
const CollectionName = "tasks"

var (
	// ErrNotFound is returned when no task matches the id or the id is malformed.
	ErrNotFound = errors.New("task not found")
	// ErrStepNotFound is returned when a patch marks a step the task no longer has.
	ErrStepNotFound = errors.New("step not found")
)

// Step is one checklist item of a task.
type Step struct {
	Title     string `bson:"title" json:"title"`
	Completed bool   `bson:"completed" json:"completed"`
}

// Task represents a task entity.
type Task struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description" json:"description"`
	DueDate          *time.Time         `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	Completed        bool               `bson:"completed" json:"completed"`
	Steps            []Step             `bson:"steps" json:"steps"`
	Recipients       []string           `bson:"recipients" json:"recipients"`
	ReminderSchedule []int              `bson:"reminder_schedule" json:"reminderSchedule"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
}

// TaskPatch lists the fields an update changes. Nil fields are left as stored.
type TaskPatch struct {
	Title            *string
	Description      *string
	DueDate          *time.Time
	Completed        *bool
	Steps            *[]Step
	Recipients       *[]string
	ReminderSchedule *[]int
	// CompletedSteps marks steps complete by position without rewriting the list.
	CompletedSteps []int
}

// Filter selects tasks by completion and due date. Any due bound excludes
// tasks without a due date.
type Filter struct {
	Completed *bool
	DueFrom   *time.Time // due_date >= DueFrom
	DueBefore *time.Time // due_date < DueBefore
	DueUntil  *time.Time // due_date <= DueUntil
}

// Matches reports whether t satisfies the filter.
func (f Filter) Matches(t *Task) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.DueFrom == nil && f.DueBefore == nil && f.DueUntil == nil {
		return true
	}
	if t.DueDate == nil {
		return false
	}
	due := *t.DueDate
	if f.DueFrom != nil && due.Before(*f.DueFrom) {
		return false
	}
	if f.DueBefore != nil && !due.Before(*f.DueBefore) {
		return false
	}
	if f.DueUntil != nil && due.After(*f.DueUntil) {
		return false
	}
	return true
}

func (f Filter) toBSON() bson.M {
	q := bson.M{}
	if f.Completed != nil {
		q["completed"] = *f.Completed
	}
	due := bson.M{}
	if f.DueFrom != nil {
		due["$gte"] = *f.DueFrom
	}
	if f.DueBefore != nil {
		due["$lt"] = *f.DueBefore
	}
	if f.DueUntil != nil {
		due["$lte"] = *f.DueUntil
	}
	if len(due) > 0 {
		q["due_date"] = due
	}
	return q
}

// TaskRepository defines the interface for task data operations.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) (*Task, error)
	FindByID(ctx context.Context, id string) (*Task, error)
	Find(ctx context.Context, filter Filter) ([]*Task, error)
	Update(ctx context.Context, id string, patch *TaskPatch) (*Task, error)
	Delete(ctx context.Context, id string) error
}

type taskRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewTaskRepository creates a new task repository instance.
func NewTaskRepository(db *mongo.Database, logger *logger.Logger) TaskRepository {
	return &taskRepository{
		collection: db.Collection(CollectionName),
		logger:     logger,
	}
}

// EnsureIndexes creates the index backing the reminder window query.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "completed", Value: 1}, {Key: "due_date", Value: 1}},
	})
	return err
}

// Create inserts a new task. Nil slices are stored as empty arrays.
func (r *taskRepository) Create(ctx context.Context, task *Task) (*Task, error) {
	now := time.Now().UTC()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now
	normalize(task)

	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		r.logger.Error(ctx, "failed to create task", "error", err)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	r.logger.Info(ctx, "task created", "id", task.ID.Hex())
	return task, nil
}

// FindByID retrieves a task by ID.
func (r *taskRepository) FindByID(ctx context.Context, id string) (*Task, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var task Task
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to find task", "id", id, "error", err)
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	normalize(&task)
	return &task, nil
}

// Find retrieves tasks matching filter in natural order.
func (r *taskRepository) Find(ctx context.Context, filter Filter) ([]*Task, error) {
	cursor, err := r.collection.Find(ctx, filter.toBSON())
	if err != nil {
		r.logger.Error(ctx, "failed to find tasks", "error", err)
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := make([]*Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		r.logger.Error(ctx, "failed to decode tasks", "error", err)
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	for _, t := range tasks {
		normalize(t)
	}

	return tasks, nil
}

// Update applies patch and returns the stored document after the write.
func (r *taskRepository) Update(ctx context.Context, id string, patch *TaskPatch) (*Task, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := r.collection.FindOneAndUpdate(
		ctx,
		patch.filter(objectID),
		bson.M{"$set": patch.toSet(time.Now().UTC())},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.missing(ctx, objectID, patch)
		}
		r.logger.Error(ctx, "failed to update task", "id", id, "error", err)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	var updated Task
	if err := result.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated task: %w", err)
	}

	normalize(&updated)
	r.logger.Info(ctx, "task updated", "id", id)
	return &updated, nil
}

// Delete deletes a task by ID.
func (r *taskRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		r.logger.Error(ctx, "failed to delete task", "id", id, "error", err)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	r.logger.Info(ctx, "task deleted", "id", id)
	return nil
}

// toSet builds the $set document for the patch.
// missing tells a vanished task from a step the task no longer has after
// an update matched nothing.
func (r *taskRepository) missing(ctx context.Context, id primitive.ObjectID, patch *TaskPatch) error {
	if patch == nil || len(patch.CompletedSteps) == 0 {
		return ErrNotFound
	}
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrStepNotFound
}

// filter matches the task only while every step the patch marks still
// exists, so a positional $set never pads a shrunken steps array.
func (p *TaskPatch) filter(id primitive.ObjectID) bson.M {
	f := bson.M{"_id": id}
	if p == nil {
		return f
	}
	for _, i := range p.CompletedSteps {
		f["steps."+strconv.Itoa(i)] = bson.M{"$exists": true}
	}
	return f
}

// StepsExist reports whether t has every step the patch marks complete.
func (p *TaskPatch) StepsExist(t *Task) bool {
	if p == nil {
		return true
	}
	for _, i := range p.CompletedSteps {
		if i < 0 || i >= len(t.Steps) {
			return false
		}
	}
	return true
}

func (p *TaskPatch) toSet(now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if p == nil {
		return set
	}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.DueDate != nil {
		set["due_date"] = *p.DueDate
	}
	if p.Completed != nil {
		set["completed"] = *p.Completed
	}
	if p.Steps != nil {
		set["steps"] = nonNil(*p.Steps)
	}
	if p.Recipients != nil {
		set["recipients"] = nonNil(*p.Recipients)
	}
	if p.ReminderSchedule != nil {
		set["reminder_schedule"] = nonNil(*p.ReminderSchedule)
	}
	for _, i := range p.CompletedSteps {
		set["steps."+strconv.Itoa(i)+".completed"] = true
	}
	return set
}

// Apply applies the patch to t in memory, mirroring Update.
func (p *TaskPatch) Apply(t *Task, now time.Time) {
	t.UpdatedAt = now
	if p == nil {
		return
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Steps != nil {
		t.Steps = append([]Step{}, *p.Steps...)
	}
	if p.Recipients != nil {
		t.Recipients = append([]string{}, *p.Recipients...)
	}
	if p.ReminderSchedule != nil {
		t.ReminderSchedule = append([]int{}, *p.ReminderSchedule...)
	}
	for _, i := range p.CompletedSteps {
		if i >= 0 && i < len(t.Steps) {
			t.Steps[i].Completed = true
		}
	}
}

func normalize(t *Task) {
	t.Steps = nonNil(t.Steps)
	t.Recipients = nonNil(t.Recipients)
	t.ReminderSchedule = nonNil(t.ReminderSchedule)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
