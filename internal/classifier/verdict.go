package classifier

import "strings"

// Status reports whether the classifier ran to completion. It says
// nothing about the real/fake outcome; that lives in the message.
type Status int

const (
	// StatusFailure means inference failed; the message is a diagnostic
	StatusFailure Status = 0
	// StatusSuccess means the classifier produced a determination
	StatusSuccess Status = 1
)

// String renders the status for logs and JSON
func (s Status) String() string {
	if s == StatusSuccess {
		return "success"
	}
	return "failure"
}

// Label is the structured real/fake determination derived from the
// verdict message
type Label string

const (
	LabelReal    Label = "real"
	LabelFake    Label = "fake"
	LabelUnknown Label = "unknown"
)

// Verdict is the classifier's answer for one stored file. Label is
// derived from Message at construction so callers never string-match.
type Verdict struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Label   Label  `json:"label"`
}

// NewVerdict builds a verdict, deriving the label from the message
func NewVerdict(status Status, message string) Verdict {
	return Verdict{
		Status:  status,
		Message: message,
		Label:   labelFromMessage(status, message),
	}
}

// labelFromMessage maps the collaborator's free-form message to a label.
// The contract encodes the determination as the case-insensitive
// substring "fake" in the message text; this is the single place that
// convention is interpreted. A structured verdict field is still pending
// clarification with the classifier owner.
func labelFromMessage(status Status, message string) Label {
	if status != StatusSuccess {
		return LabelUnknown
	}
	if strings.Contains(strings.ToLower(message), "fake") {
		return LabelFake
	}
	return LabelReal
}
