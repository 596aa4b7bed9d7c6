package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

func TestObjectID_MalformedIsAbsent(t *testing.T) {
	_, ok := objectID("not-a-hex-id")
	assert.False(t, ok)

	oid := primitive.NewObjectID()
	got, ok := objectID(oid.Hex())
	assert.True(t, ok)
	assert.Equal(t, oid, got)
}

func TestObjectIDs_FailsOnMalformed(t *testing.T) {
	_, err := objectIDs([]string{primitive.NewObjectID().Hex(), "bad"})
	assert.Error(t, err)

	assert.Len(t, validObjectIDs([]string{primitive.NewObjectID().Hex(), "bad"}), 1)
}

func TestOptionalObjectID(t *testing.T) {
	oid, err := optionalObjectID("")
	require.NoError(t, err)
	assert.Nil(t, oid)
	assert.Equal(t, "", optionalHex(nil))

	id := primitive.NewObjectID().Hex()
	oid, err = optionalObjectID(id)
	require.NoError(t, err)
	assert.Equal(t, id, optionalHex(oid))
}

func TestTaskDocument_RoundTripsThroughDomain(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	task := &domain.Task{
		Title:      "Write docs",
		Status:     domain.TaskInProgress,
		Priority:   domain.PriorityHigh,
		AssignedTo: primitive.NewObjectID().Hex(),
		DueDate:    &due,
		ProjectID:  primitive.NewObjectID().Hex(),
		CreatedBy:  primitive.NewObjectID().Hex(),
	}

	doc, err := newTaskDocument(task)
	require.NoError(t, err)
	got := doc.toDomain()

	assert.Equal(t, task.AssignedTo, got.AssignedTo)
	assert.Equal(t, task.ProjectID, got.ProjectID)
	assert.Equal(t, task.Status, got.Status)
	assert.Equal(t, &due, got.DueDate)
	assert.Empty(t, got.Comments)
}

func TestNewTaskDocument_RejectsMalformedProject(t *testing.T) {
	_, err := newTaskDocument(&domain.Task{ProjectID: "x", CreatedBy: primitive.NewObjectID().Hex()})
	assert.Error(t, err)
}

func TestProjectFilter(t *testing.T) {
	member := primitive.NewObjectID()

	f, ok := projectFilter(ports.ProjectFilter{MemberID: member.Hex(), Status: domain.ProjectActive})
	require.True(t, ok)
	assert.Equal(t, member, f["members"])
	assert.Equal(t, "active", f["status"])

	_, ok = projectFilter(ports.ProjectFilter{MemberID: "bad"})
	assert.False(t, ok)
}

func TestTaskFilter(t *testing.T) {
	f, ok := taskFilter(ports.TaskFilter{Priority: domain.PriorityLow})
	require.True(t, ok)
	assert.Equal(t, "low", f["priority"])
	assert.NotContains(t, f, "project_id")

	_, ok = taskFilter(ports.TaskFilter{AssignedTo: "bad"})
	assert.False(t, ok)
}
