package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

const collectionTasks = "tasks"

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

type taskDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Status      string               `bson:"status"`
	Priority    string               `bson:"priority"`
	AssignedTo  *primitive.ObjectID  `bson:"assigned_to"`
	DueDate     *time.Time           `bson:"due_date"`
	ProjectID   primitive.ObjectID   `bson:"project_id"`
	CreatedBy   primitive.ObjectID   `bson:"created_by"`
	Comments    []primitive.ObjectID `bson:"comments"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

func (d taskDocument) toDomain() *domain.Task {
	return &domain.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.TaskStatus(d.Status),
		Priority:    domain.TaskPriority(d.Priority),
		AssignedTo:  optionalHex(d.AssignedTo),
		DueDate:     d.DueDate,
		ProjectID:   d.ProjectID.Hex(),
		CreatedBy:   d.CreatedBy.Hex(),
		Comments:    hexIDs(d.Comments),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func newTaskDocument(t *domain.Task) (taskDocument, error) {
	projectID, err := primitive.ObjectIDFromHex(t.ProjectID)
	if err != nil {
		return taskDocument{}, fmt.Errorf("invalid project id %q: %w", t.ProjectID, err)
	}
	createdBy, err := primitive.ObjectIDFromHex(t.CreatedBy)
	if err != nil {
		return taskDocument{}, fmt.Errorf("invalid creator id %q: %w", t.CreatedBy, err)
	}
	assignee, err := optionalObjectID(t.AssignedTo)
	if err != nil {
		return taskDocument{}, err
	}
	comments, err := objectIDs(t.Comments)
	if err != nil {
		return taskDocument{}, err
	}
	return taskDocument{
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		AssignedTo:  assignee,
		DueDate:     t.DueDate,
		ProjectID:   projectID,
		CreatedBy:   createdBy,
		Comments:    comments,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	doc, err := newTaskDocument(t)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc taskDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) List(ctx context.Context, f ports.TaskFilter) ([]*domain.Task, error) {
	filter, ok := taskFilter(f)
	if !ok {
		return nil, nil
	}

	sort := bson.D{{Key: "created_at", Value: -1}}
	if f.ByDueDate {
		sort = bson.D{{Key: "due_date", Value: 1}, {Key: "created_at", Value: -1}}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	tasks := make([]*domain.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.toDomain())
	}
	return tasks, nil
}

// taskFilter builds the query for f. It reports false when a malformed id
// means nothing can match.
func taskFilter(f ports.TaskFilter) (bson.M, bool) {
	filter := bson.M{}
	if f.ProjectID != "" {
		oid, ok := objectID(f.ProjectID)
		if !ok {
			return nil, false
		}
		filter["project_id"] = oid
	}
	if f.AssignedTo != "" {
		oid, ok := objectID(f.AssignedTo)
		if !ok {
			return nil, false
		}
		filter["assigned_to"] = oid
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Priority != "" {
		filter["priority"] = string(f.Priority)
	}
	return filter, true
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	oid, ok := objectID(t.ID)
	if !ok {
		return domain.ErrTaskNotFound
	}
	assignee, err := optionalObjectID(t.AssignedTo)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, oid, bson.M{"$set": bson.M{
		"title":       t.Title,
		"description": t.Description,
		"status":      string(t.Status),
		"priority":    string(t.Priority),
		"assigned_to": assignee,
		"due_date":    t.DueDate,
		"updated_at":  t.UpdatedAt,
	}})
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrTaskNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) PushComment(ctx context.Context, taskID, commentID string) error {
	return r.changeComments(ctx, taskID, commentID, "$push")
}

func (r *TaskRepository) PullComment(ctx context.Context, taskID, commentID string) error {
	return r.changeComments(ctx, taskID, commentID, "$pull")
}

func (r *TaskRepository) changeComments(ctx context.Context, taskID, commentID, op string) error {
	oid, ok := objectID(taskID)
	if !ok {
		return domain.ErrTaskNotFound
	}
	cid, ok := objectID(commentID)
	if !ok {
		return domain.ErrCommentNotFound
	}
	return r.updateOne(ctx, oid, bson.M{op: bson.M{"comments": cid}})
}

func (r *TaskRepository) updateOne(ctx context.Context, oid primitive.ObjectID, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

type countBucket struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

type statsFacets struct {
	ByStatus   []countBucket `bson:"by_status"`
	ByPriority []countBucket `bson:"by_priority"`
}

// Stats counts a project's tasks by status and by priority in one aggregation.
func (r *TaskRepository) Stats(ctx context.Context, projectID string) (domain.TaskStats, error) {
	stats := domain.NewTaskStats()
	oid, ok := objectID(projectID)
	if !ok {
		return stats, nil
	}

	group := func(field string) bson.A {
		return bson.A{bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "project_id", Value: oid}}}},
		{{Key: "$facet", Value: bson.D{
			{Key: "by_status", Value: group("status")},
			{Key: "by_priority", Value: group("priority")},
		}}},
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return stats, fmt.Errorf("aggregate task stats: %w", err)
	}
	var facets []statsFacets
	if err := cur.All(ctx, &facets); err != nil {
		return stats, fmt.Errorf("decode task stats: %w", err)
	}
	if len(facets) == 0 {
		return stats, nil
	}

	for _, b := range facets[0].ByStatus {
		stats.ByStatus[domain.TaskStatus(b.Key)] = b.Count
		stats.Total += b.Count
	}
	for _, b := range facets[0].ByPriority {
		stats.ByPriority[domain.TaskPriority(b.Key)] = b.Count
	}
	return stats, nil
}

// EnsureIndexes creates the listing indexes on the tasks collection.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}, {Key: "due_date", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
