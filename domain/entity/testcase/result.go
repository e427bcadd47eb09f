package testcase

import "time"

type ResultStatus string

const (
	ResultPending ResultStatus = "pending"
	ResultPass    ResultStatus = "pass"
	ResultFail    ResultStatus = "fail"
	ResultSkip    ResultStatus = "skip"
)

func (s ResultStatus) Valid() bool {
	switch s {
	case ResultPending, ResultPass, ResultFail, ResultSkip:
		return true
	}
	return false
}

// Verdict reports whether the status is an actual verdict rather than the
// implicit pending state.
func (s ResultStatus) Verdict() bool {
	return s == ResultPass || s == ResultFail || s == ResultSkip
}

// Result is one tester's verdict on a test case. A test case holds at most
// one result per tester identity; submissions upsert, never append a second
// entry for the same tester.
type Result struct {
	TesterID    string       `bson:"testerId" json:"testerId"`
	Status      ResultStatus `bson:"status" json:"status"`
	Note        string       `bson:"note,omitempty" json:"note,omitempty"`
	Attachments []Attachment `bson:"attachments" json:"attachments"`
	TestedAt    *time.Time   `bson:"testedAt,omitempty" json:"testedAt,omitempty"`
}

// Attachment is one uploaded piece of evidence on a result. The bytes live
// in object storage; only the descriptor is embedded here.
type Attachment struct {
	Name       string    `bson:"name" json:"name"`
	Size       int64     `bson:"size" json:"size"`
	Type       string    `bson:"type" json:"type"`
	URL        string    `bson:"url" json:"url"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}
