// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package fhir

import (
	"slices"
	"strings"
)

// IssueSeverity grades how serious an [Issue] is.
type IssueSeverity string

const (
	SeverityFatal       IssueSeverity = "fatal"
	SeverityError       IssueSeverity = "error"
	SeverityWarning     IssueSeverity = "warning"
	SeverityInformation IssueSeverity = "information"
)

// Issue codes from the FHIR issue-type vocabulary which this
// framework emits itself. Handlers and validators may use any
// code from the vocabulary.
const (
	IssueInvalid       = "invalid"
	IssueStructure     = "structure"
	IssueRequired      = "required"
	IssueValue         = "value"
	IssueLogin         = "login"
	IssueForbidden     = "forbidden"
	IssueNotFound      = "not-found"
	IssueNotSupported  = "not-supported"
	IssueProcessing    = "processing"
	IssueInformational = "informational"
)

// IssueDetails carries the human readable description of an [Issue].
type IssueDetails struct {
	Text string `json:"text"`
}

// Issue is a single entry of an [OperationOutcome].
type Issue struct {
	Severity IssueSeverity `json:"severity"`
	Code     string        `json:"code"`
	Details  IssueDetails  `json:"details"`
}

// CompareIssues orders issues by (code, details text) lexicographically.
// It is a total order for any issue list whose (code, text) pairs are unique.
func CompareIssues(a, b Issue) int {
	if c := strings.Compare(a.Code, b.Code); c != 0 {
		return c
	}
	return strings.Compare(a.Details.Text, b.Details.Text)
}

// OperationOutcome is the standardized error/status report returned to callers.
type OperationOutcome struct {
	Base

	Issue []Issue `json:"issue"`
}

// NewOperationOutcome builds an outcome from the given issues, sorted
// with [CompareIssues]. Validators may report issues in any order; the
// serialized document order is always reproducible.
func NewOperationOutcome(issues ...Issue) *OperationOutcome {
	sorted := slices.Clone(issues)
	slices.SortFunc(sorted, CompareIssues)

	return &OperationOutcome{
		Issue: sorted,
	}
}

// ResourceType implements the [Resource] interface.
func (*OperationOutcome) ResourceType() string {
	return "OperationOutcome"
}
