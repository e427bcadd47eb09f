// Package engagement implements the project-level and per-tester
// work-status state machines: project lifecycle, tester assignment and
// removal, and the four tester work actions.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"accessaudit/domain/auth"
	"accessaudit/domain/entity/project"
	"accessaudit/domain/fault"
	"accessaudit/domain/observability"
	"accessaudit/domain/repository"
)

type Service struct {
	projects repository.ProjectRepository
	users    repository.UserDirectory
	logger   observability.Logger
	metrics  observability.Metrics
}

func NewService(projects repository.ProjectRepository, users repository.UserDirectory, logger observability.Logger, metrics observability.Metrics) *Service {
	return &Service{
		projects: projects,
		users:    users,
		logger:   logger,
		metrics:  metrics,
	}
}

// CreateProjectInput is the customer's audit request submission.
type CreateProjectInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SiteURL     string `json:"siteUrl"`
	Standard    string `json:"standard"`
}

// CreateProject records a new engagement in status pending.
func (s *Service) CreateProject(ctx context.Context, caller auth.Identity, in CreateProjectInput) (*project.Project, error) {
	if err := caller.Require(auth.RoleCustomer); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, fault.Validation("title is required")
	}

	p := project.New(caller.ID, in.Title, in.Description, in.SiteURL, in.Standard)
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fault.Internal("create project", err)
	}

	s.logger.Info("Project created", "project_id", p.ID.Hex(), "customer_id", caller.ID)
	s.metrics.IncrementCounter("engagement.projects.created", nil)
	return p, nil
}

// GetProject loads a project for any authenticated caller.
func (s *Service) GetProject(ctx context.Context, caller auth.Identity, projectID string) (*project.Project, error) {
	if caller.ID == "" {
		return nil, fault.Unauthorized("missing caller identity")
	}
	return s.loadProject(ctx, projectID)
}

// ListProjects returns a customer's own engagements newest first. Admins
// may list on behalf of any customer by passing the customer id explicitly.
func (s *Service) ListProjects(ctx context.Context, caller auth.Identity, customerID string) ([]*project.Project, error) {
	if caller.ID == "" {
		return nil, fault.Unauthorized("missing caller identity")
	}
	if customerID == "" {
		customerID = caller.ID
	}
	if customerID != caller.ID && caller.Role != auth.RoleAdmin {
		return nil, fault.Forbidden("cannot list another customer's projects")
	}

	list, err := s.projects.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fault.Internal("list projects", err)
	}
	return list, nil
}

// UpdateStatusInput is an admin-driven project status change.
type UpdateStatusInput struct {
	ProjectID string `json:"projectId"`
	Status    string `json:"status"`
	Note      string `json:"note"`
}

// UpdateProjectStatus applies an admin-driven status change. Any target
// value in the enumeration is accepted; only the pending-to-open transition
// is system-enforced (see AssignTester). Every change appends exactly one
// status-history entry.
func (s *Service) UpdateProjectStatus(ctx context.Context, caller auth.Identity, in UpdateStatusInput) (*project.Project, error) {
	if err := caller.Require(auth.RoleAdmin); err != nil {
		return nil, err
	}
	to := project.Status(in.Status)
	if !to.Valid() {
		return nil, fault.Validation("status %q is not one of pending, open, in_review, scheduled, completed, cancelled", in.Status)
	}

	p, err := s.loadProject(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}

	change := project.StatusChange{
		From:      p.Status,
		To:        to,
		ChangedAt: time.Now().UTC(),
		ChangedBy: caller.ID,
		Note:      in.Note,
	}
	if err := s.projects.SetStatus(ctx, p.ID, to, change); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fault.NotFound("project", in.ProjectID)
		}
		return nil, fault.Internal("update project status", err)
	}

	s.logger.Info("Project status changed",
		"project_id", p.ID.Hex(),
		"from", string(change.From),
		"to", string(change.To),
		"changed_by", caller.ID)
	s.metrics.IncrementCounter("engagement.status.changed", map[string]string{"to": string(to)})

	return s.projects.Get(ctx, p.ID)
}

// AssignTesterInput names the tester and role to add to a project.
type AssignTesterInput struct {
	ProjectID string `json:"projectId"`
	TesterID  string `json:"testerId"`
	Role      string `json:"role"`
}

// AssignTester adds a tester assignment. The first assignment on a pending
// project auto-opens it, with its own history entry. Rejected when the
// target already holds an active assignment or is not a tester.
func (s *Service) AssignTester(ctx context.Context, caller auth.Identity, in AssignTesterInput) (*project.Project, error) {
	if err := caller.Require(auth.RoleAdmin); err != nil {
		return nil, err
	}
	role := project.TesterRole(in.Role)
	if !role.Valid() {
		return nil, fault.Validation("role %q is not one of lead, member, reviewer", in.Role)
	}

	target, err := s.users.Get(ctx, in.TesterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fault.NotFound("tester", in.TesterID)
		}
		return nil, fault.Internal("lookup tester", err)
	}
	if target.Role != auth.RoleTester {
		return nil, fault.NotFound("tester", in.TesterID)
	}

	p, err := s.loadProject(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}

	a := project.Assignment{
		TesterID:   in.TesterID,
		Role:       role,
		WorkStatus: project.WorkAssigned,
		AssignedAt: time.Now().UTC(),
		AssignedBy: caller.ID,
	}
	if err := s.projects.AddAssignment(ctx, p.ID, a); err != nil {
		switch {
		case errors.Is(err, project.ErrAlreadyAssigned):
			return nil, fault.Conflict("tester %q already has an active assignment", in.TesterID)
		case errors.Is(err, repository.ErrNotFound):
			return nil, fault.NotFound("project", in.ProjectID)
		default:
			return nil, fault.Internal("assign tester", err)
		}
	}

	s.logger.Info("Tester assigned",
		"project_id", p.ID.Hex(),
		"tester_id", in.TesterID,
		"role", string(role))
	s.metrics.IncrementCounter("engagement.testers.assigned", map[string]string{"role": string(role)})

	s.autoOpen(ctx, p, caller)

	return s.projects.Get(ctx, p.ID)
}

// autoOpen flips a pending project to open after its first assignment. The
// write is guarded by the pending status; losing the race to a concurrent
// assignment is fine, someone else already opened it.
func (s *Service) autoOpen(ctx context.Context, p *project.Project, caller auth.Identity) {
	if p.Status != project.StatusPending {
		return
	}
	change := project.StatusChange{
		From:      project.StatusPending,
		To:        project.StatusOpen,
		ChangedAt: time.Now().UTC(),
		ChangedBy: caller.ID,
		Note:      project.AutoOpenNote,
	}
	err := s.projects.SetStatusIf(ctx, p.ID, project.StatusPending, project.StatusOpen, change)
	switch {
	case err == nil:
		s.logger.Info("Project auto-opened", "project_id", p.ID.Hex())
		s.metrics.IncrementCounter("engagement.status.changed", map[string]string{"to": string(project.StatusOpen)})
	case errors.Is(err, project.ErrPreconditionFailed):
		// already opened concurrently
	default:
		s.logger.Error("Auto-open failed", "project_id", p.ID.Hex(), "error", err)
	}
}

// RemoveTesterInput names the active assignment to remove.
type RemoveTesterInput struct {
	ProjectID string `json:"projectId"`
	TesterID  string `json:"testerId"`
	Note      string `json:"note"`
}

// RemoveTester marks the tester's active assignment removed. The entry is
// preserved for audit history, never deleted.
func (s *Service) RemoveTester(ctx context.Context, caller auth.Identity, in RemoveTesterInput) (*project.Project, error) {
	if err := caller.Require(auth.RoleAdmin); err != nil {
		return nil, err
	}

	p, err := s.loadProject(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}

	if err := s.projects.RemoveAssignment(ctx, p.ID, in.TesterID, in.Note); err != nil {
		switch {
		case errors.Is(err, project.ErrNotAssigned):
			return nil, fault.NotFound("active assignment for tester", in.TesterID)
		case errors.Is(err, repository.ErrNotFound):
			return nil, fault.NotFound("project", in.ProjectID)
		default:
			return nil, fault.Internal("remove tester", err)
		}
	}

	s.logger.Info("Tester removed", "project_id", p.ID.Hex(), "tester_id", in.TesterID)
	s.metrics.IncrementCounter("engagement.testers.removed", nil)

	return s.projects.Get(ctx, p.ID)
}

// WorkActionInput is one of the four tester transitions on their own
// assignment.
type WorkActionInput struct {
	ProjectID string `json:"projectId"`
	Action    string `json:"action"`
}

// ApplyWorkAction runs a tester work-status transition. The precondition is
// re-checked at the point of write: a transition whose source state no
// longer holds fails as invalid-transition, never silently applies.
func (s *Service) ApplyWorkAction(ctx context.Context, caller auth.Identity, in WorkActionInput) (*project.Project, error) {
	if err := caller.Require(auth.RoleTester); err != nil {
		return nil, err
	}
	action := project.WorkAction(in.Action)
	from, to, ok := project.Transition(action)
	if !ok {
		return nil, fault.Validation("action %q is not one of accept, reject, start, done", in.Action)
	}

	p, err := s.loadProject(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	current, found := p.ActiveAssignment(caller.ID)
	if !found {
		return nil, fault.Forbidden("tester %q has no active assignment on this project", caller.ID)
	}

	upd := repository.AssignmentUpdate{WorkStatus: to}
	now := time.Now().UTC()
	switch action {
	case project.ActionAccept:
		upd.AcceptedAt = &now
	case project.ActionDone:
		upd.CompletedAt = &now
	case project.ActionReject:
		note := project.RejectedNote
		upd.Note = &note
	}

	if err := s.projects.UpdateAssignment(ctx, p.ID, caller.ID, from, upd); err != nil {
		switch {
		case errors.Is(err, project.ErrPreconditionFailed):
			return nil, s.invalidTransition(ctx, p.ID, caller.ID, action, from, current.WorkStatus)
		case errors.Is(err, repository.ErrNotFound):
			return nil, fault.NotFound("project", in.ProjectID)
		default:
			return nil, fault.Internal("apply work action", err)
		}
	}

	s.logger.Info("Work status changed",
		"project_id", p.ID.Hex(),
		"tester_id", caller.ID,
		"action", string(action),
		"to", string(to))
	s.metrics.IncrementCounter("engagement.work.transitions", map[string]string{"action": string(action)})

	return s.projects.Get(ctx, p.ID)
}

// invalidTransition builds the invalid-transition error, re-reading the
// assignment so the reported actual state reflects the write-time loser of
// a race rather than the stale read.
func (s *Service) invalidTransition(ctx context.Context, projectID primitive.ObjectID, testerID string, action project.WorkAction, expected, readActual project.WorkStatus) error {
	actual := readActual
	if fresh, err := s.projects.Get(ctx, projectID); err == nil {
		if a, ok := fresh.ActiveAssignment(testerID); ok {
			actual = a.WorkStatus
		} else {
			actual = project.WorkRemoved
		}
	}
	return fault.InvalidTransition(
		fmt.Sprintf("cannot %s from work status %q", action, actual),
		string(expected), string(actual))
}

// SetProgressInput updates the tester's own progress percentage.
type SetProgressInput struct {
	ProjectID       string `json:"projectId"`
	ProgressPercent int    `json:"progressPercent"`
}

// SetProgress sets the caller's progress on their active assignment. Works
// from any work status and drives no transition.
func (s *Service) SetProgress(ctx context.Context, caller auth.Identity, in SetProgressInput) (*project.Project, error) {
	if err := caller.Require(auth.RoleTester); err != nil {
		return nil, err
	}
	if in.ProgressPercent < 0 || in.ProgressPercent > 100 {
		return nil, fault.Validation("progressPercent must be between 0 and 100, got %d", in.ProgressPercent)
	}

	p, err := s.loadProject(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}

	if err := s.projects.SetAssignmentProgress(ctx, p.ID, caller.ID, in.ProgressPercent); err != nil {
		switch {
		case errors.Is(err, project.ErrNotAssigned):
			return nil, fault.Forbidden("tester %q has no active assignment on this project", caller.ID)
		case errors.Is(err, repository.ErrNotFound):
			return nil, fault.NotFound("project", in.ProjectID)
		default:
			return nil, fault.Internal("set progress", err)
		}
	}

	return s.projects.Get(ctx, p.ID)
}

func (s *Service) loadProject(ctx context.Context, id string) (*project.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fault.Validation("malformed project id %q", id)
	}
	p, err := s.projects.Get(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fault.NotFound("project", id)
		}
		return nil, fault.Internal("load project", err)
	}
	return p, nil
}
