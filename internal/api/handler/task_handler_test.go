package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

type stubTaskService struct {
	ports.TaskService
	createFn  func(ctx context.Context, p *domain.User, projectID string, in ports.CreateTaskInput) (*ports.TaskView, error)
	updateFn  func(ctx context.Context, p *domain.User, taskID string, in ports.UpdateTaskInput) (*ports.TaskView, error)
	myTasksFn func(ctx context.Context, p *domain.User, q ports.TaskQuery) ([]ports.TaskView, error)
}

func (s *stubTaskService) Create(ctx context.Context, p *domain.User, projectID string, in ports.CreateTaskInput) (*ports.TaskView, error) {
	return s.createFn(ctx, p, projectID, in)
}

func (s *stubTaskService) Update(ctx context.Context, p *domain.User, taskID string, in ports.UpdateTaskInput) (*ports.TaskView, error) {
	return s.updateFn(ctx, p, taskID, in)
}

func (s *stubTaskService) MyTasks(ctx context.Context, p *domain.User, q ports.TaskQuery) ([]ports.TaskView, error) {
	return s.myTasksFn(ctx, p, q)
}

func TestTaskHandler_Create(t *testing.T) {
	stub := &stubTaskService{
		createFn: func(_ context.Context, _ *domain.User, projectID string, in ports.CreateTaskInput) (*ports.TaskView, error) {
			if projectID != "p1" || in.Title != "Write docs" || in.Priority != domain.PriorityHigh {
				t.Fatalf("unexpected args: %s %+v", projectID, in)
			}
			if in.DueDate == nil || in.DueDate.Year() != 2026 {
				t.Fatalf("due date not parsed: %v", in.DueDate)
			}
			return &ports.TaskView{
				ID:       "t1",
				Title:    in.Title,
				Status:   domain.TaskTodo,
				Priority: in.Priority,
				Project:  ports.ProjectRef{ID: projectID, Title: "Apollo"},
			}, nil
		},
	}
	c, rec := newRequest(http.MethodPost, "/api/projects/p1/tasks",
		`{"title":"Write docs","priority":"high","dueDate":"2026-03-01T00:00:00Z"}`, member)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := NewTaskHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	task := decode(t, rec)["task"].(map[string]any)
	if task["assignedTo"] != nil {
		t.Fatalf("expected null assignee, got %v", task["assignedTo"])
	}
	if task["project"].(map[string]any)["title"] != "Apollo" {
		t.Fatalf("unexpected project: %v", task["project"])
	}
}

func TestTaskHandler_Create_RejectsUnknownStatus(t *testing.T) {
	stub := &stubTaskService{}
	c, _ := newRequest(http.MethodPost, "/api/projects/p1/tasks", `{"title":"Write docs","status":"done"}`, member)

	expectKind(t, NewTaskHandler(stub).Create(c), domain.KindValidation)
}

func TestTaskHandler_Update_TriStateFields(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		assignSet  bool
		assignNil  bool
		dueSet     bool
		dueNil     bool
		wantStatus *domain.TaskStatus
	}{
		{name: "absent", body: `{}`},
		{name: "explicit null", body: `{"assignedTo":null,"dueDate":null}`, assignSet: true, assignNil: true, dueSet: true, dueNil: true},
		{name: "values", body: `{"assignedTo":"m1","dueDate":"2026-01-02T15:04:05Z"}`, assignSet: true, dueSet: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubTaskService{
				updateFn: func(_ context.Context, _ *domain.User, taskID string, in ports.UpdateTaskInput) (*ports.TaskView, error) {
					if in.AssignedTo.Set != tc.assignSet || (in.AssignedTo.Value == nil) != (tc.assignNil || !tc.assignSet) {
						t.Fatalf("assignedTo: got %+v", in.AssignedTo)
					}
					if in.DueDate.Set != tc.dueSet || (in.DueDate.Value == nil) != (tc.dueNil || !tc.dueSet) {
						t.Fatalf("dueDate: got %+v", in.DueDate)
					}
					return &ports.TaskView{ID: taskID}, nil
				},
			}
			c, _ := newRequest(http.MethodPut, "/api/tasks/t1", tc.body, member)
			c.SetParamNames("id")
			c.SetParamValues("t1")

			if err := NewTaskHandler(stub).Update(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
		})
	}
}

func TestTaskHandler_Update_StatusOnly(t *testing.T) {
	stub := &stubTaskService{
		updateFn: func(_ context.Context, _ *domain.User, _ string, in ports.UpdateTaskInput) (*ports.TaskView, error) {
			if in.Status == nil || *in.Status != domain.TaskCompleted {
				t.Fatalf("expected completed status, got %v", in.Status)
			}
			if in.Title != nil || in.Priority != nil {
				t.Fatalf("untouched fields must stay nil")
			}
			return &ports.TaskView{ID: "t1", Status: *in.Status, UpdatedAt: time.Now()}, nil
		},
	}
	c, rec := newRequest(http.MethodPut, "/api/tasks/t1", `{"status":"completed"}`, member)

	if err := NewTaskHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if decode(t, rec)["task"].(map[string]any)["status"] != "completed" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestTaskHandler_MyTasks_IgnoresAssigneeFilter(t *testing.T) {
	stub := &stubTaskService{
		myTasksFn: func(_ context.Context, _ *domain.User, q ports.TaskQuery) ([]ports.TaskView, error) {
			if q.AssignedTo != "" || q.Status != domain.TaskReview {
				t.Fatalf("unexpected query: %+v", q)
			}
			return []ports.TaskView{{ID: "t1"}, {ID: "t2"}}, nil
		},
	}
	c, rec := newRequest(http.MethodGet, "/api/tasks/my-tasks?status=review&assignedTo=someone", "", member)

	if err := NewTaskHandler(stub).MyTasks(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if tasks := decode(t, rec)["tasks"].([]any); len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
}

func TestTaskHandler_Update_ExposesCommentIDs(t *testing.T) {
	stub := &stubTaskService{
		updateFn: func(_ context.Context, _ *domain.User, taskID string, _ ports.UpdateTaskInput) (*ports.TaskView, error) {
			return &ports.TaskView{ID: taskID, CommentIDs: []string{"c1", "c2"}, CommentCount: 2}, nil
		},
	}
	c, rec := newRequest(http.MethodPut, "/api/tasks/t1", `{"title":"Renamed"}`, member)
	c.SetParamNames("id")
	c.SetParamValues("t1")

	if err := NewTaskHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	task := decode(t, rec)["task"].(map[string]any)
	comments, _ := task["comments"].([]any)
	if len(comments) != 2 || comments[0] != "c1" || comments[1] != "c2" {
		t.Fatalf("expected ordered comment ids, got %v", task["comments"])
	}
}

func TestToTask_EmptyCommentsRenderAsArray(t *testing.T) {
	if resp := toTask(ports.TaskView{ID: "t1"}); resp.Comments == nil {
		t.Fatal("comments must encode as [] not null")
	}
}
