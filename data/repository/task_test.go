package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ncobase/remind/logging/logger"
	"github.com/ncobase/remind/logging/logger/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func quietLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, cleanup, err := logger.NewLogger(config.Default())
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	t.Cleanup(cleanup)
	l.SetOutput(io.Discard)
	return l
}

func taskDoc(id primitive.ObjectID, title string, due time.Time, completed bool) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "description", Value: "desc"},
		{Key: "due_date", Value: primitive.NewDateTimeFromTime(due)},
		{Key: "completed", Value: completed},
		{Key: "steps", Value: bson.A{
			bson.D{{Key: "title", Value: "a"}, {Key: "completed", Value: false}},
		}},
		{Key: "recipients", Value: bson.A{"bob@example.com"}},
		{Key: "reminder_schedule", Value: bson.A{int32(1), int32(3)}},
	}
}

func TestTaskRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	due := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewTaskRepository(mt.DB, quietLogger(mt.T))

		task, err := repo.Create(ctx, &Task{Title: "Taxes"})
		if err != nil {
			mt.Fatalf("Create() error = %v", err)
		}
		if task.ID.IsZero() {
			mt.Error("Create() should assign an id")
		}
		if task.CreatedAt.IsZero() || !task.CreatedAt.Equal(task.UpdatedAt) {
			mt.Errorf("timestamps = %v / %v", task.CreatedAt, task.UpdatedAt)
		}
		if task.Steps == nil || task.Recipients == nil || task.ReminderSchedule == nil {
			mt.Error("Create() should store empty arrays for nil slices")
		}
	})

	mt.Run("create error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "boom"}))
		repo := NewTaskRepository(mt.DB, quietLogger(mt.T))

		if _, err := repo.Create(ctx, &Task{Title: "x"}); err == nil {
			mt.Error("Create() should propagate the store error")
		}
	})

	mt.Run("find by id", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + CollectionName
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, taskDoc(id, "Taxes", due, false)))
		repo := NewTaskRepository(mt.DB, quietLogger(mt.T))

		task, err := repo.FindByID(ctx, id.Hex())
		if err != nil {
			mt.Fatalf("FindByID() error = %v", err)
		}
		if task.Title != "Taxes" || task.DueDate == nil || !task.DueDate.Equal(due) {
			mt.Errorf("FindByID() = %+v", task)
		}
		if len(task.ReminderSchedule) != 2 || task.ReminderSchedule[1] != 3 {
			mt.Errorf("ReminderSchedule = %v, want [1 3]", task.ReminderSchedule)
		}
		if len(task.Steps) != 1 || task.Steps[0].Title != "a" {
			mt.Errorf("Steps = %+v", task.Steps)
		}
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + CollectionName
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewTaskRepository(mt.DB, quietLogger(mt.T))

		if _, err := repo.FindByID(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
			mt.Errorf("FindByID() error = %v, want ErrNotFound", err)
		}
	})

	mt.Run("malformed ids", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.DB, quietLogger(mt.T))

		if _, err := repo.FindByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			mt.Errorf("FindByID() error = %v, want ErrNotFound", err)
		}
		if _, err := repo.Update(ctx, "nope", &TaskPatch{}); !errors.Is(err, ErrNotFound) {
			mt.Errorf("Update() error = %v, want ErrNotFound", err)
		}
		if err := repo.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			mt.Errorf("Delete() error = %v, want ErrNotFound", err)
		}
	})

	mt.Run("find", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + CollectionName
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			taskDoc(primitive.NewObjectID(), "one", due, false),
			taskDoc(primitive.NewObjectID(), "two", due, false))
		last := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, last)
		repo := NewTaskRepository(mt.DB, quietLogger(mt.T))

		incomplete := false
		tasks, err := repo.Find(ctx, Filter{Completed: &incomplete})
		if err != nil {
			mt.Fatalf("Find() error = %v", err)
		}
		if len(tasks) != 2 || tasks[0].Title != "one" || tasks[1].Title != "two" {
			mt.Errorf("Find() = %v, want store order one, two", tasks)
		}
	})

	mt.Run("find empty", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + CollectionName
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewTaskRepository(mt.DB, quietLogger(mt.T))

		tasks, err := repo.Find(ctx, Filter{})
		if err != nil {
			mt.Fatalf("Find() error = %v", err)
		}
		if tasks == nil || len(tasks) != 0 {
			mt.Errorf("Find() = %v, want empty non-nil slice", tasks)
		}
	})

	mt.Run("update", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: taskDoc(id, "renamed", due, true)}))
		repo := NewTaskRepository(mt.DB, quietLogger(mt.T))

		title := "renamed"
		task, err := repo.Update(ctx, id.Hex(), &TaskPatch{Title: &title})
		if err != nil {
			mt.Fatalf("Update() error = %v", err)
		}
		if task.Title != "renamed" || task.ID != id {
			mt.Errorf("Update() = %+v", task)
		}
	})

	mt.Run("update missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))
		repo := NewTaskRepository(mt.DB, quietLogger(mt.T))

		if _, err := repo.Update(ctx, primitive.NewObjectID().Hex(), &TaskPatch{}); !errors.Is(err, ErrNotFound) {
			mt.Errorf("Update() error = %v, want ErrNotFound", err)
		}
	})

	mt.Run("update step removed concurrently", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + CollectionName
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: 1}}),
		)
		repo := NewTaskRepository(mt.DB, quietLogger(mt.T))

		_, err := repo.Update(ctx, id.Hex(), &TaskPatch{CompletedSteps: []int{2}})
		if !errors.Is(err, ErrStepNotFound) {
			mt.Fatalf("Update() error = %v, want ErrStepNotFound", err)
		}

		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "findAndModify" {
			mt.Fatalf("first command = %+v, want findAndModify", started)
		}
		exists, ok := started.Command.Lookup("query", "steps.2", "$exists").BooleanOK()
		if !ok || !exists {
			mt.Errorf("query = %v, want steps.2 $exists guard", started.Command.Lookup("query"))
		}
	})

	mt.Run("update step task deleted", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + CollectionName
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)
		repo := NewTaskRepository(mt.DB, quietLogger(mt.T))

		_, err := repo.Update(ctx, primitive.NewObjectID().Hex(), &TaskPatch{CompletedSteps: []int{0}})
		if !errors.Is(err, ErrNotFound) {
			mt.Errorf("Update() error = %v, want ErrNotFound", err)
		}
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		repo := NewTaskRepository(mt.DB, quietLogger(mt.T))

		if err := repo.Delete(ctx, primitive.NewObjectID().Hex()); err != nil {
			mt.Errorf("Delete() error = %v", err)
		}
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		repo := NewTaskRepository(mt.DB, quietLogger(mt.T))

		if err := repo.Delete(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
			mt.Errorf("Delete() error = %v, want ErrNotFound", err)
		}
	})
}

func TestFilterToBSON(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	later := now.Add(30 * 24 * time.Hour)
	incomplete := false

	q := Filter{Completed: &incomplete, DueFrom: &now, DueUntil: &later}.toBSON()
	if q["completed"] != false {
		t.Errorf("completed = %v, want false", q["completed"])
	}
	due, ok := q["due_date"].(bson.M)
	if !ok {
		t.Fatalf("due_date = %T, want bson.M", q["due_date"])
	}
	if due["$gte"] != now || due["$lte"] != later {
		t.Errorf("due_date = %v", due)
	}
	if _, ok := due["$lt"]; ok {
		t.Error("$lt should be absent")
	}

	if q := (Filter{}).toBSON(); len(q) != 0 {
		t.Errorf("empty filter = %v, want {}", q)
	}
}

func TestFilterMatches(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	incomplete, complete := false, true

	tests := []struct {
		name   string
		filter Filter
		task   *Task
		want   bool
	}{
		{"no bounds", Filter{}, &Task{}, true},
		{"completed mismatch", Filter{Completed: &complete}, &Task{}, false},
		{"pending", Filter{Completed: &incomplete, DueFrom: &now}, &Task{DueDate: &future}, true},
		{"pending at boundary", Filter{DueFrom: &now}, &Task{DueDate: &now}, true},
		{"pending past", Filter{DueFrom: &now}, &Task{DueDate: &past}, false},
		{"overdue", Filter{DueBefore: &now}, &Task{DueDate: &past}, true},
		{"overdue boundary", Filter{DueBefore: &now}, &Task{DueDate: &now}, false},
		{"until", Filter{DueUntil: &now}, &Task{DueDate: &future}, false},
		{"no due date with bound", Filter{DueFrom: &now}, &Task{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.task); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPatchSetAndApply(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	done := true
	steps := []Step{{Title: "a"}, {Title: "b"}}
	patch := &TaskPatch{Completed: &done, Steps: &steps, CompletedSteps: []int{1}}

	set := patch.toSet(now)
	if set["completed"] != true || set["steps.1.completed"] != true || set["updated_at"] != now {
		t.Errorf("toSet() = %v", set)
	}
	if _, ok := set["title"]; ok {
		t.Error("toSet() should omit unset fields")
	}

	task := &Task{Title: "keep"}
	patch.Apply(task, now)
	if task.Title != "keep" || !task.Completed {
		t.Errorf("Apply() = %+v", task)
	}
	if task.Steps[0].Completed || !task.Steps[1].Completed {
		t.Errorf("Apply() steps = %+v, want only index 1 completed", task.Steps)
	}
	if steps[1].Completed {
		t.Error("Apply() should not alias the patch slice")
	}
}

func TestPatchFilter(t *testing.T) {
	id := primitive.NewObjectID()

	f := (&TaskPatch{}).filter(id)
	if len(f) != 1 || f["_id"] != id {
		t.Errorf("filter() = %v, want only _id", f)
	}

	f = (&TaskPatch{CompletedSteps: []int{1, 3}}).filter(id)
	for _, key := range []string{"steps.1", "steps.3"} {
		guard, ok := f[key].(bson.M)
		if !ok || guard["$exists"] != true {
			t.Errorf("filter()[%q] = %v, want $exists guard", key, f[key])
		}
	}
}

func TestPatchStepsExist(t *testing.T) {
	task := &Task{Steps: []Step{{Title: "a"}, {Title: "b"}}}
	tests := []struct {
		steps []int
		want  bool
	}{
		{nil, true},
		{[]int{0, 1}, true},
		{[]int{2}, false},
		{[]int{-1}, false},
	}
	for _, tt := range tests {
		p := &TaskPatch{CompletedSteps: tt.steps}
		if got := p.StepsExist(task); got != tt.want {
			t.Errorf("StepsExist(%v) = %v, want %v", tt.steps, got, tt.want)
		}
	}
}
