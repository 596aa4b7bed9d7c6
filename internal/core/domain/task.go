package domain

import "time"

// TaskStatus is the board column a task sits in.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskDiscovery  TaskStatus = "discovery"
	TaskInProgress TaskStatus = "in-progress"
	TaskReview     TaskStatus = "review"
	TaskTesting    TaskStatus = "testing"
	TaskCompleted  TaskStatus = "completed"
	TaskHold       TaskStatus = "hold"
	TaskCancelled  TaskStatus = "cancelled"
)

// TaskStatuses lists every status in board order.
var TaskStatuses = []TaskStatus{
	TaskTodo, TaskDiscovery, TaskInProgress, TaskReview,
	TaskTesting, TaskCompleted, TaskHold, TaskCancelled,
}

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// TaskPriority ranks how urgent a task is.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// TaskPriorities lists every priority from lowest to highest.
var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work inside a project. AssignedTo, when set, must be a
// member of the owning project.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	AssignedTo  string     // empty = unassigned
	DueDate     *time.Time // optional
	ProjectID   string
	CreatedBy   string
	Comments    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAssignedTo reports whether userID is the task's assignee.
func (t *Task) IsAssignedTo(userID string) bool {
	return userID != "" && t.AssignedTo == userID
}

// TaskStats aggregates the tasks of a project.
type TaskStats struct {
	Total      int64
	ByStatus   map[TaskStatus]int64
	ByPriority map[TaskPriority]int64
}

// NewTaskStats returns stats with every status and priority present at zero.
func NewTaskStats() TaskStats {
	s := TaskStats{
		ByStatus:   make(map[TaskStatus]int64, len(TaskStatuses)),
		ByPriority: make(map[TaskPriority]int64, len(TaskPriorities)),
	}
	for _, st := range TaskStatuses {
		s.ByStatus[st] = 0
	}
	for _, p := range TaskPriorities {
		s.ByPriority[p] = 0
	}
	return s
}
