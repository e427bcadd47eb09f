package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"accessaudit/domain/entity/testcase"
	"accessaudit/domain/observability"
	"accessaudit/domain/repository"
)

type TestCaseRepository struct {
	col     *mongo.Collection
	logger  observability.Logger
	metrics observability.Metrics
}

func (r *TestCaseRepository) Create(ctx context.Context, tc *testcase.TestCase) error {
	res, err := r.col.InsertOne(ctx, tc)
	if err != nil {
		return fmt.Errorf("insert test case: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		tc.ID = oid
	}
	r.metrics.IncrementCounter("repository.testcases.create", nil)
	return nil
}

func (r *TestCaseRepository) Get(ctx context.Context, id primitive.ObjectID) (*testcase.TestCase, error) {
	var tc testcase.TestCase
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&tc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find test case: %w", err)
	}
	return &tc, nil
}

func (r *TestCaseRepository) ListByScenario(ctx context.Context, scenarioID primitive.ObjectID) ([]*testcase.TestCase, error) {
	return r.list(ctx, bson.M{"scenarioId": scenarioID})
}

func (r *TestCaseRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]*testcase.TestCase, error) {
	return r.list(ctx, bson.M{"auditRequestId": projectID})
}

func (r *TestCaseRepository) list(ctx context.Context, filter bson.M) ([]*testcase.TestCase, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list test cases: %w", err)
	}
	defer cur.Close(ctx)

	var out []*testcase.TestCase
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode test cases: %w", err)
	}
	return out, nil
}

func (r *TestCaseRepository) Update(ctx context.Context, tc *testcase.TestCase) error {
	tc.UpdatedAt = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": tc.ID}, bson.M{"$set": bson.M{
		"title":          tc.Title,
		"description":    tc.Description,
		"steps":          tc.Steps,
		"expectedResult": tc.ExpectedResult,
		"priority":       tc.Priority,
		"order":          tc.Order,
		"wcagCriteria":   tc.WCAGCriteria,
		"updatedAt":      tc.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update test case: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TestCaseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete test case: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TestCaseRepository) DeleteByScenario(ctx context.Context, scenarioID primitive.ObjectID) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"scenarioId": scenarioID}); err != nil {
		return fmt.Errorf("delete scenario test cases: %w", err)
	}
	return nil
}

// SetResult upserts the caller's result entry. Two conditional updates
// cover the find-or-create: first update the existing entry, then push a
// new one guarded by its absence. A concurrent insert between the two
// steps makes the push miss, so the update is retried once.
func (r *TestCaseRepository) SetResult(ctx context.Context, id primitive.ObjectID, testerID string, upd repository.ResultUpdate) error {
	set := bson.M{"$set": bson.M{
		"results.$.status":   upd.Status,
		"results.$.note":     upd.Note,
		"results.$.testedAt": upd.TestedAt,
		"updatedAt":          time.Now().UTC(),
	}}
	existing := bson.M{"_id": id, "results.testerId": testerID}

	res, err := r.col.UpdateOne(ctx, existing, set)
	if err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	push := bson.M{
		"$push": bson.M{"results": testcase.Result{
			TesterID:    testerID,
			Status:      upd.Status,
			Note:        upd.Note,
			Attachments: []testcase.Attachment{},
			TestedAt:    &upd.TestedAt,
		}},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err = r.col.UpdateOne(ctx, bson.M{"_id": id, "results.testerId": bson.M{"$ne": testerID}}, push)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	if res.MatchedCount > 0 {
		r.metrics.IncrementCounter("repository.testcases.results", nil)
		return nil
	}

	// Lost the race to a concurrent insert for the same tester.
	res, err = r.col.UpdateOne(ctx, existing, set)
	if err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddAttachment appends the attachment to the tester's result entry,
// creating the entry as pending first when absent.
func (r *TestCaseRepository) AddAttachment(ctx context.Context, id primitive.ObjectID, testerID string, att testcase.Attachment) error {
	// Ensure an entry exists; a miss here means one is already present.
	ensure := bson.M{"$push": bson.M{"results": testcase.Result{
		TesterID:    testerID,
		Status:      testcase.ResultPending,
		Attachments: []testcase.Attachment{},
	}}}
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": id, "results.testerId": bson.M{"$ne": testerID}}, ensure); err != nil {
		return fmt.Errorf("ensure result entry: %w", err)
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "results.testerId": testerID},
		bson.M{
			"$push": bson.M{"results.$.attachments": att},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return fmt.Errorf("add attachment: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TestCaseRepository) AddRecommendation(ctx context.Context, id primitive.ObjectID, rec testcase.Recommendation) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"recommendations": rec},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("add recommendation: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TestCaseRepository) UpdateRecommendation(ctx context.Context, id primitive.ObjectID, rec testcase.Recommendation) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "recommendations._id": rec.ID},
		bson.M{"$set": bson.M{
			"recommendations.$": rec,
			"updatedAt":         time.Now().UTC(),
		}})
	if err != nil {
		return fmt.Errorf("update recommendation: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TestCaseRepository) RemoveRecommendation(ctx context.Context, id, recID primitive.ObjectID) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"recommendations": bson.M{"_id": recID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("remove recommendation: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
