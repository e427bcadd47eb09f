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

	"accessaudit/domain/entity/project"
	"accessaudit/domain/observability"
	"accessaudit/domain/repository"
)

type ProjectRepository struct {
	col     *mongo.Collection
	logger  observability.Logger
	metrics observability.Metrics
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	r.metrics.IncrementCounter("repository.projects.create", nil)
	return nil
}

func (r *ProjectRepository) Get(ctx context.Context, id primitive.ObjectID) (*project.Project, error) {
	var p project.Project
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepository) ListByCustomer(ctx context.Context, customerID string) ([]*project.Project, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err := r.col.Find(ctx, bson.M{"customerId": customerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer cur.Close(ctx)

	var out []*project.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return out, nil
}

// statusUpdate is the shared $set/$push pair of every status change: the
// new status and exactly one appended history entry, in one atomic update.
func statusUpdate(to project.Status, change project.StatusChange) bson.M {
	return bson.M{
		"$set":  bson.M{"status": to, "updatedAt": time.Now().UTC()},
		"$push": bson.M{"statusHistory": change},
	}
}

func (r *ProjectRepository) SetStatus(ctx context.Context, id primitive.ObjectID, to project.Status, change project.StatusChange) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, statusUpdate(to, change))
	if err != nil {
		return fmt.Errorf("set project status: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) SetStatusIf(ctx context.Context, id primitive.ObjectID, expected, to project.Status, change project.StatusChange) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": expected},
		statusUpdate(to, change))
	if err != nil {
		return fmt.Errorf("set project status: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missedGuard(ctx, id, project.ErrPreconditionFailed)
	}
	return nil
}

func (r *ProjectRepository) AddAssignment(ctx context.Context, id primitive.ObjectID, a project.Assignment) error {
	// The uniqueness guard is part of the filter: match only when no
	// active entry exists for this tester.
	filter := bson.M{
		"_id": id,
		"assignedTesters": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"testerId":   a.TesterID,
			"workStatus": bson.M{"$ne": project.WorkRemoved},
		}}},
	}
	update := bson.M{
		"$push": bson.M{"assignedTesters": a},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("add assignment: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missedGuard(ctx, id, project.ErrAlreadyAssigned)
	}
	r.metrics.IncrementCounter("repository.projects.assignments", nil)
	return nil
}

func (r *ProjectRepository) UpdateAssignment(ctx context.Context, id primitive.ObjectID, testerID string, from project.WorkStatus, upd repository.AssignmentUpdate) error {
	filter := bson.M{
		"_id": id,
		"assignedTesters": bson.M{"$elemMatch": bson.M{
			"testerId":   testerID,
			"workStatus": from,
		}},
	}
	set := bson.M{
		"assignedTesters.$.workStatus": upd.WorkStatus,
		"updatedAt":                    time.Now().UTC(),
	}
	if upd.AcceptedAt != nil {
		set["assignedTesters.$.acceptedAt"] = upd.AcceptedAt
	}
	if upd.CompletedAt != nil {
		set["assignedTesters.$.completedAt"] = upd.CompletedAt
	}
	if upd.Note != nil {
		set["assignedTesters.$.note"] = *upd.Note
	}

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missedGuard(ctx, id, project.ErrPreconditionFailed)
	}
	return nil
}

func (r *ProjectRepository) RemoveAssignment(ctx context.Context, id primitive.ObjectID, testerID, note string) error {
	filter := bson.M{
		"_id": id,
		"assignedTesters": bson.M{"$elemMatch": bson.M{
			"testerId":   testerID,
			"workStatus": bson.M{"$ne": project.WorkRemoved},
		}},
	}
	set := bson.M{
		"assignedTesters.$.workStatus": project.WorkRemoved,
		"updatedAt":                    time.Now().UTC(),
	}
	if note != "" {
		set["assignedTesters.$.note"] = note
	}

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("remove assignment: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missedGuard(ctx, id, project.ErrNotAssigned)
	}
	return nil
}

func (r *ProjectRepository) SetAssignmentProgress(ctx context.Context, id primitive.ObjectID, testerID string, percent int) error {
	filter := bson.M{
		"_id": id,
		"assignedTesters": bson.M{"$elemMatch": bson.M{
			"testerId":   testerID,
			"workStatus": bson.M{"$ne": project.WorkRemoved},
		}},
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"assignedTesters.$.progressPercent": percent,
		"updatedAt":                         time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("set assignment progress: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missedGuard(ctx, id, project.ErrNotAssigned)
	}
	return nil
}

// missedGuard distinguishes "document missing" from "guard failed" after a
// conditional update matched nothing.
func (r *ProjectRepository) missedGuard(ctx context.Context, id primitive.ObjectID, guardErr error) error {
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Err(); errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return guardErr
}
