// Package mongo implements the entity-store ports on MongoDB. Every state
// transition is a single conditional update: the precondition lives in the
// query filter, so a guard that no longer holds at write time matches zero
// documents and the transition fails without writing.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"accessaudit/config"
	"accessaudit/domain/observability"
)

const (
	projectsCollection  = "audit_requests"
	scenariosCollection = "scenarios"
	testCasesCollection = "test_cases"
	usersCollection     = "users"
)

// Store bundles the Mongo-backed repositories over one client.
type Store struct {
	db      *mongo.Database
	client  *mongo.Client
	logger  observability.Logger
	metrics observability.Metrics
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, cfg *config.MongoConfig, logger observability.Logger, metrics observability.Metrics) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("MongoDB connected", "database", cfg.Database)
	return &Store{
		db:      client.Database(cfg.Database),
		client:  client,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Projects() *ProjectRepository {
	return &ProjectRepository{col: s.db.Collection(projectsCollection), logger: s.logger, metrics: s.metrics}
}

func (s *Store) Scenarios() *ScenarioRepository {
	return &ScenarioRepository{col: s.db.Collection(scenariosCollection), logger: s.logger, metrics: s.metrics}
}

func (s *Store) TestCases() *TestCaseRepository {
	return &TestCaseRepository{col: s.db.Collection(testCasesCollection), logger: s.logger, metrics: s.metrics}
}

func (s *Store) Users() *UserDirectory {
	return &UserDirectory{col: s.db.Collection(usersCollection)}
}
