// Package memory implements the entity-store ports in process memory with
// the same conditional-update semantics as the MongoDB adapter: every guard
// is re-checked under the store lock at the point of write. Used by tests
// and local development.
package memory

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"accessaudit/domain/entity/project"
	"accessaudit/domain/entity/scenario"
	"accessaudit/domain/entity/testcase"
	"accessaudit/domain/entity/user"
)

// Store holds all collections behind one lock. Each accessor returns a
// repository view over the same data.
type Store struct {
	mu        sync.RWMutex
	projects  map[primitive.ObjectID]*project.Project
	scenarios map[primitive.ObjectID]*scenario.Scenario
	testcases map[primitive.ObjectID]*testcase.TestCase
	users     map[string]*user.User
}

func NewStore() *Store {
	return &Store{
		projects:  make(map[primitive.ObjectID]*project.Project),
		scenarios: make(map[primitive.ObjectID]*scenario.Scenario),
		testcases: make(map[primitive.ObjectID]*testcase.TestCase),
		users:     make(map[string]*user.User),
	}
}

func (s *Store) Projects() *ProjectRepository   { return &ProjectRepository{store: s} }
func (s *Store) Scenarios() *ScenarioRepository { return &ScenarioRepository{store: s} }
func (s *Store) TestCases() *TestCaseRepository { return &TestCaseRepository{store: s} }
func (s *Store) Users() *UserDirectory          { return &UserDirectory{store: s} }

// AddUser seeds a directory entry. Test helper.
func (s *Store) AddUser(u user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
}

func copyProject(p *project.Project) *project.Project {
	cp := *p
	cp.AssignedTesters = append([]project.Assignment{}, p.AssignedTesters...)
	cp.StatusHistory = append([]project.StatusChange{}, p.StatusHistory...)
	return &cp
}

func copyTestCase(tc *testcase.TestCase) *testcase.TestCase {
	cp := *tc
	cp.Steps = append([]testcase.Step{}, tc.Steps...)
	cp.Results = make([]testcase.Result, len(tc.Results))
	for i, r := range tc.Results {
		r.Attachments = append([]testcase.Attachment{}, r.Attachments...)
		cp.Results[i] = r
	}
	cp.Recommendations = append([]testcase.Recommendation{}, tc.Recommendations...)
	cp.WCAGCriteria = append([]string{}, tc.WCAGCriteria...)
	return &cp
}
