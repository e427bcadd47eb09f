package report

import (
	"time"

	"accessaudit/domain/entity/project"
	"accessaudit/domain/entity/testcase"
	"accessaudit/domain/wcag"
)

// Report is the aggregated output handed to the rendering collaborator.
type Report struct {
	Project     ProjectInfo      `json:"project"`
	Summary     Summary          `json:"summary"`
	Scenarios   []ScenarioReport `json:"scenarios"`
	WCAGReport  WCAGReport       `json:"wcagReport"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// ProjectInfo carries the engagement metadata and its full status log.
type ProjectInfo struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	CustomerID    string                 `json:"customerId"`
	CustomerName  string                 `json:"customerName"`
	SiteURL       string                 `json:"siteUrl,omitempty"`
	Standard      string                 `json:"standard,omitempty"`
	Status        project.Status         `json:"status"`
	StatusHistory []project.StatusChange `json:"statusHistory"`
	Testers       []TesterInfo           `json:"assignedTesters"`
}

// TesterInfo is one assignment with its display name resolved, falling back
// to the raw identity when the directory has no profile.
type TesterInfo struct {
	TesterID        string             `json:"testerId"`
	Name            string             `json:"name"`
	Role            project.TesterRole `json:"role"`
	WorkStatus      project.WorkStatus `json:"workStatus"`
	ProgressPercent int                `json:"progressPercent"`
}

// Summary is the project-level tally of effective test-case statuses and
// recommendation severities.
type Summary struct {
	TotalTestCases       int            `json:"totalTestCases"`
	Pass                 int            `json:"pass"`
	Fail                 int            `json:"fail"`
	Skip                 int            `json:"skip"`
	Pending              int            `json:"pending"`
	PassRate             int            `json:"passRate"`
	TotalRecommendations int            `json:"totalRecommendations"`
	Severities           SeverityCounts `json:"severities"`
}

type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// ScenarioReport is one scenario with its test cases in execution order.
type ScenarioReport struct {
	ID                 string           `json:"id"`
	Title              string           `json:"title"`
	Description        string           `json:"description,omitempty"`
	AssignedTesterID   string           `json:"assignedTesterId"`
	AssignedTesterName string           `json:"assignedTesterName"`
	Order              int              `json:"order"`
	TestCases          []TestCaseReport `json:"testCases"`
}

// TestCaseReport is one check with its effective result, ordered steps, and
// recommendations.
type TestCaseReport struct {
	ID              string                    `json:"id"`
	Title           string                    `json:"title"`
	Description     string                    `json:"description,omitempty"`
	Steps           []testcase.Step           `json:"steps"`
	ExpectedResult  string                    `json:"expectedResult,omitempty"`
	Priority        testcase.Priority         `json:"priority"`
	Order           int                       `json:"order"`
	WCAGCriteria    []string                  `json:"wcagCriteria,omitempty"`
	Result          *ResultReport             `json:"result,omitempty"`
	Recommendations []testcase.Recommendation `json:"recommendations"`
}

// ResultReport is the effective (last-recorded) result of a test case.
type ResultReport struct {
	TesterID    string                `json:"testerId"`
	TesterName  string                `json:"testerName"`
	Status      testcase.ResultStatus `json:"status"`
	Note        string                `json:"note,omitempty"`
	Attachments []testcase.Attachment `json:"attachments"`
	TestedAt    *time.Time            `json:"testedAt,omitempty"`
}

// CriterionStatus is the rollup verdict on one WCAG criterion.
type CriterionStatus string

const (
	CriterionPass      CriterionStatus = "pass"
	CriterionFail      CriterionStatus = "fail"
	CriterionNotTested CriterionStatus = "not_tested"
)

// WCAGReport is the standards-conformance table: criteria grouped by
// principle at the project's target level, plus per-level totals always
// computed over the full catalog.
type WCAGReport struct {
	TargetLevel wcag.Level                 `json:"targetLevel"`
	Principles  []PrincipleReport          `json:"principles"`
	Conformance map[wcag.Level]LevelTotals `json:"conformance"`
}

type PrincipleReport struct {
	Principle wcag.Principle    `json:"principle"`
	Criteria  []CriterionReport `json:"criteria"`
}

// CriterionReport is one criterion with the test cases evidencing it.
type CriterionReport struct {
	ID              string                    `json:"id"`
	Title           string                    `json:"title"`
	Level           wcag.Level                `json:"level"`
	Status          CriterionStatus           `json:"status"`
	TestCases       []CriterionTestCase       `json:"testCases"`
	Recommendations []testcase.Recommendation `json:"recommendations"`
}

// CriterionTestCase is the reference from a criterion back to one tagging
// test case and its effective status.
type CriterionTestCase struct {
	ID     string                `json:"id"`
	Title  string                `json:"title"`
	Status testcase.ResultStatus `json:"status"`
}

// LevelTotals is the per-level conformance count.
type LevelTotals struct {
	Total     int `json:"total"`
	Pass      int `json:"pass"`
	Fail      int `json:"fail"`
	NotTested int `json:"not_tested"`
}
