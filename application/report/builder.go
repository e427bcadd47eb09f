// Package report implements the conformance aggregation engine: it rolls
// raw per-test-case results up into a project summary and a hierarchical
// WCAG conformance table for the rendering collaborator.
package report

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"accessaudit/domain/auth"
	"accessaudit/domain/entity/project"
	"accessaudit/domain/entity/scenario"
	"accessaudit/domain/entity/testcase"
	"accessaudit/domain/fault"
	"accessaudit/domain/observability"
	"accessaudit/domain/repository"
	"accessaudit/domain/wcag"
)

type Builder struct {
	projects  repository.ProjectRepository
	scenarios repository.ScenarioRepository
	testcases repository.TestCaseRepository
	users     repository.UserDirectory
	logger    observability.Logger
	metrics   observability.Metrics
}

func NewBuilder(
	projects repository.ProjectRepository,
	scenarios repository.ScenarioRepository,
	testcases repository.TestCaseRepository,
	users repository.UserDirectory,
	logger observability.Logger,
	metrics observability.Metrics,
) *Builder {
	return &Builder{
		projects:  projects,
		scenarios: scenarios,
		testcases: testcases,
		users:     users,
		logger:    logger,
		metrics:   metrics,
	}
}

// Generate builds the full report for a project. It is a read-only,
// multi-document scan with no locking: a report generated mid-update may
// reflect a partially-applied state, but missing pieces degrade to
// pending/empty rather than failing. Only a missing project is an error.
func (b *Builder) Generate(ctx context.Context, caller auth.Identity, projectID string) (*Report, error) {
	if caller.ID == "" {
		return nil, fault.Unauthorized("missing caller identity")
	}
	start := time.Now()

	oid, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, fault.Validation("malformed project id %q", projectID)
	}
	p, err := b.projects.Get(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fault.NotFound("project", projectID)
		}
		return nil, fault.Internal("load project", err)
	}

	scenarios, err := b.scenarios.ListByProject(ctx, oid)
	if err != nil {
		return nil, fault.Internal("list scenarios", err)
	}
	sort.SliceStable(scenarios, func(i, j int) bool { return scenarios[i].Order < scenarios[j].Order })

	cases, err := b.testcases.ListByProject(ctx, oid)
	if err != nil {
		return nil, fault.Internal("list test cases", err)
	}

	rep := &Report{
		Project:     b.projectInfo(ctx, p),
		Summary:     buildSummary(cases),
		Scenarios:   b.scenarioReports(ctx, scenarios, cases),
		WCAGReport:  buildWCAGReport(p.Standard, cases),
		GeneratedAt: time.Now().UTC(),
	}

	b.logger.Info("Report generated",
		"project_id", projectID,
		"test_cases", rep.Summary.TotalTestCases,
		"pass_rate", rep.Summary.PassRate)
	b.metrics.IncrementCounter("report.generated", nil)
	b.metrics.RecordHistogram("report.duration_seconds", time.Since(start).Seconds(), nil)

	return rep, nil
}

func (b *Builder) projectInfo(ctx context.Context, p *project.Project) ProjectInfo {
	testers := make([]TesterInfo, 0, len(p.AssignedTesters))
	for _, a := range p.AssignedTesters {
		testers = append(testers, TesterInfo{
			TesterID:        a.TesterID,
			Name:            b.displayName(ctx, a.TesterID),
			Role:            a.Role,
			WorkStatus:      a.WorkStatus,
			ProgressPercent: a.ProgressPercent,
		})
	}
	return ProjectInfo{
		ID:            p.ID.Hex(),
		Title:         p.Title,
		CustomerID:    p.CustomerID,
		CustomerName:  b.displayName(ctx, p.CustomerID),
		SiteURL:       p.SiteURL,
		Standard:      p.Standard,
		Status:        p.Status,
		StatusHistory: p.StatusHistory,
		Testers:       testers,
	}
}

// displayName resolves an identity to its profile name, degrading to the
// raw identity string when the directory has no entry.
func (b *Builder) displayName(ctx context.Context, id string) string {
	u, err := b.users.Get(ctx, id)
	if err != nil || u.Name == "" {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			b.logger.Warn("User lookup degraded", "user_id", id, "error", err)
		}
		return id
	}
	return u.Name
}

// buildSummary tallies effective statuses and recommendation severities in
// one pass over the test cases.
func buildSummary(cases []*testcase.TestCase) Summary {
	var sum Summary
	sum.TotalTestCases = len(cases)
	for _, tc := range cases {
		switch tc.EffectiveStatus() {
		case testcase.ResultPass:
			sum.Pass++
		case testcase.ResultFail:
			sum.Fail++
		case testcase.ResultSkip:
			sum.Skip++
		default:
			sum.Pending++
		}
		for _, rec := range tc.Recommendations {
			sum.TotalRecommendations++
			switch rec.Severity {
			case testcase.SeverityCritical:
				sum.Severities.Critical++
			case testcase.SeverityHigh:
				sum.Severities.High++
			case testcase.SeverityMedium:
				sum.Severities.Medium++
			case testcase.SeverityLow:
				sum.Severities.Low++
			}
		}
	}
	if sum.TotalTestCases > 0 {
		sum.PassRate = int(math.Round(float64(sum.Pass) / float64(sum.TotalTestCases) * 100))
	}
	return sum
}

func (b *Builder) scenarioReports(ctx context.Context, scenarios []*scenario.Scenario, cases []*testcase.TestCase) []ScenarioReport {
	byScenario := make(map[primitive.ObjectID][]*testcase.TestCase)
	for _, tc := range cases {
		byScenario[tc.ScenarioID] = append(byScenario[tc.ScenarioID], tc)
	}

	reports := make([]ScenarioReport, 0, len(scenarios))
	for _, sc := range scenarios {
		group := byScenario[sc.ID]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Order < group[j].Order })

		tcs := make([]TestCaseReport, 0, len(group))
		for _, tc := range group {
			tcs = append(tcs, b.testCaseReport(ctx, tc))
		}
		reports = append(reports, ScenarioReport{
			ID:                 sc.ID.Hex(),
			Title:              sc.Title,
			Description:        sc.Description,
			AssignedTesterID:   sc.AssignedTesterID,
			AssignedTesterName: b.displayName(ctx, sc.AssignedTesterID),
			Order:              sc.Order,
			TestCases:          tcs,
		})
	}
	return reports
}

func (b *Builder) testCaseReport(ctx context.Context, tc *testcase.TestCase) TestCaseReport {
	var result *ResultReport
	if eff := tc.EffectiveResult(); eff != nil {
		attachments := eff.Attachments
		if attachments == nil {
			attachments = []testcase.Attachment{}
		}
		result = &ResultReport{
			TesterID:    eff.TesterID,
			TesterName:  b.displayName(ctx, eff.TesterID),
			Status:      eff.Status,
			Note:        eff.Note,
			Attachments: attachments,
			TestedAt:    eff.TestedAt,
		}
	}
	recs := tc.Recommendations
	if recs == nil {
		recs = []testcase.Recommendation{}
	}
	return TestCaseReport{
		ID:              tc.ID.Hex(),
		Title:           tc.Title,
		Description:     tc.Description,
		Steps:           tc.Steps,
		ExpectedResult:  tc.ExpectedResult,
		Priority:        tc.Priority,
		Order:           tc.Order,
		WCAGCriteria:    tc.WCAGCriteria,
		Result:          result,
		Recommendations: recs,
	}
}

// buildWCAGReport computes the criterion-level conformance table. Criterion
// status: fail when any tagging test case fails, pass when every tagging
// test case passes, otherwise not_tested. An untagged criterion is
// not_tested. Principles carry only criteria at or below the target level;
// the per-level conformance totals always cover the full catalog.
func buildWCAGReport(standard string, cases []*testcase.TestCase) WCAGReport {
	target := wcag.ParseTargetLevel(standard)

	// criterion id -> tagging test cases
	tagged := make(map[string][]*testcase.TestCase)
	for _, tc := range cases {
		for _, id := range tc.WCAGCriteria {
			tagged[id] = append(tagged[id], tc)
		}
	}

	statuses := make(map[string]CriterionStatus, len(wcag.Catalog))
	for _, c := range wcag.Catalog {
		statuses[c.ID] = criterionStatus(tagged[c.ID])
	}

	byPrinciple := make(map[wcag.Principle][]CriterionReport)
	for _, c := range wcag.AtOrBelow(target) {
		cr := CriterionReport{
			ID:              c.ID,
			Title:           c.Title,
			Level:           c.Level,
			Status:          statuses[c.ID],
			TestCases:       []CriterionTestCase{},
			Recommendations: []testcase.Recommendation{},
		}
		for _, tc := range tagged[c.ID] {
			cr.TestCases = append(cr.TestCases, CriterionTestCase{
				ID:     tc.ID.Hex(),
				Title:  tc.Title,
				Status: tc.EffectiveStatus(),
			})
			cr.Recommendations = append(cr.Recommendations, tc.Recommendations...)
		}
		byPrinciple[c.Principle] = append(byPrinciple[c.Principle], cr)
	}

	principles := make([]PrincipleReport, 0, len(wcag.PrincipleOrder))
	for _, pr := range wcag.PrincipleOrder {
		principles = append(principles, PrincipleReport{
			Principle: pr,
			Criteria:  append([]CriterionReport{}, byPrinciple[pr]...),
		})
	}

	conformance := make(map[wcag.Level]LevelTotals, 3)
	for _, level := range wcag.Levels() {
		var totals LevelTotals
		for _, c := range wcag.OfLevel(level) {
			totals.Total++
			switch statuses[c.ID] {
			case CriterionPass:
				totals.Pass++
			case CriterionFail:
				totals.Fail++
			default:
				totals.NotTested++
			}
		}
		conformance[level] = totals
	}

	return WCAGReport{
		TargetLevel: target,
		Principles:  principles,
		Conformance: conformance,
	}
}

// criterionStatus rolls tagging test cases up into one verdict. Fail
// dominates; a unanimous pass passes; any other mix, including pending or
// skip entries, resolves to not_tested rather than a partial state.
func criterionStatus(cases []*testcase.TestCase) CriterionStatus {
	if len(cases) == 0 {
		return CriterionNotTested
	}
	allPass := true
	for _, tc := range cases {
		switch tc.EffectiveStatus() {
		case testcase.ResultFail:
			return CriterionFail
		case testcase.ResultPass:
		default:
			allPass = false
		}
	}
	if allPass {
		return CriterionPass
	}
	return CriterionNotTested
}
