package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"accessaudit/domain/entity/scenario"
	"accessaudit/domain/observability"
	"accessaudit/domain/repository"
)

type ScenarioRepository struct {
	col     *mongo.Collection
	logger  observability.Logger
	metrics observability.Metrics
}

func (r *ScenarioRepository) Create(ctx context.Context, s *scenario.Scenario) error {
	res, err := r.col.InsertOne(ctx, s)
	if err != nil {
		return fmt.Errorf("insert scenario: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid
	}
	r.metrics.IncrementCounter("repository.scenarios.create", nil)
	return nil
}

func (r *ScenarioRepository) Get(ctx context.Context, id primitive.ObjectID) (*scenario.Scenario, error) {
	var s scenario.Scenario
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find scenario: %w", err)
	}
	return &s, nil
}

func (r *ScenarioRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]*scenario.Scenario, error) {
	cur, err := r.col.Find(ctx, bson.M{"auditRequestId": projectID})
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer cur.Close(ctx)

	var out []*scenario.Scenario
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}
	return out, nil
}

func (r *ScenarioRepository) Update(ctx context.Context, s *scenario.Scenario) error {
	s.UpdatedAt = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": s.ID}, bson.M{"$set": bson.M{
		"title":            s.Title,
		"description":      s.Description,
		"assignedTesterId": s.AssignedTesterID,
		"order":            s.Order,
		"updatedAt":        s.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update scenario: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ScenarioRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	r.metrics.IncrementCounter("repository.scenarios.delete", nil)
	return nil
}
