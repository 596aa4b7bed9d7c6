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

const collectionProjects = "projects"

type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionProjects)}
}

type projectDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Members     []primitive.ObjectID `bson:"members"`
	CreatedBy   primitive.ObjectID   `bson:"created_by"`
	Status      string               `bson:"status"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

func (d projectDocument) toDomain() *domain.Project {
	return &domain.Project{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Members:     hexIDs(d.Members),
		CreatedBy:   d.CreatedBy.Hex(),
		Status:      domain.ProjectStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func newProjectDocument(p *domain.Project) (projectDocument, error) {
	creator, err := primitive.ObjectIDFromHex(p.CreatedBy)
	if err != nil {
		return projectDocument{}, fmt.Errorf("invalid creator id %q: %w", p.CreatedBy, err)
	}
	members, err := objectIDs(p.Members)
	if err != nil {
		return projectDocument{}, err
	}
	return projectDocument{
		Title:       p.Title,
		Description: p.Description,
		Members:     members,
		CreatedBy:   creator,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	doc, err := newProjectDocument(p)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc projectDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns matching projects, most recently updated first.
func (r *ProjectRepository) List(ctx context.Context, f ports.ProjectFilter) ([]*domain.Project, error) {
	filter, ok := projectFilter(f)
	if !ok {
		return nil, nil
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
}

func (r *ProjectRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Project, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *ProjectRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find projects: %w", err)
	}
	var docs []projectDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	projects := make([]*domain.Project, 0, len(docs))
	for _, d := range docs {
		projects = append(projects, d.toDomain())
	}
	return projects, nil
}

// projectFilter builds the query for f. It reports false when the filter can
// match nothing (a malformed member id).
func projectFilter(f ports.ProjectFilter) (bson.M, bool) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.MemberID != "" {
		oid, ok := objectID(f.MemberID)
		if !ok {
			return nil, false
		}
		filter["members"] = oid
	}
	return filter, true
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	oid, ok := objectID(p.ID)
	if !ok {
		return domain.ErrProjectNotFound
	}
	members, err := objectIDs(p.Members)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, oid, bson.M{"$set": bson.M{
		"title":       p.Title,
		"description": p.Description,
		"members":     members,
		"status":      string(p.Status),
		"updated_at":  p.UpdatedAt,
	}})
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProjectNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// AddMembers uses $addToSet so concurrent adds never duplicate a member.
func (r *ProjectRepository) AddMembers(ctx context.Context, projectID string, ids []string) error {
	oid, ok := objectID(projectID)
	if !ok {
		return domain.ErrProjectNotFound
	}
	members, err := objectIDs(ids)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, oid, bson.M{
		"$addToSet": bson.M{"members": bson.M{"$each": members}},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *ProjectRepository) RemoveMembers(ctx context.Context, projectID string, ids []string) error {
	oid, ok := objectID(projectID)
	if !ok {
		return domain.ErrProjectNotFound
	}
	return r.updateOne(ctx, oid, bson.M{
		"$pull": bson.M{"members": bson.M{"$in": validObjectIDs(ids)}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *ProjectRepository) updateOne(ctx context.Context, oid primitive.ObjectID, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) Count(ctx context.Context, f ports.ProjectFilter) (int64, error) {
	filter, ok := projectFilter(f)
	if !ok {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the membership and listing indexes on the projects collection.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "members", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "updated_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
