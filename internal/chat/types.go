package chat

import (
	"aelfgpt/internal/model"
)

// ErrorMarkerText is shown in place of the assistant reply when a turn fails.
const ErrorMarkerText = "Sorry, something went wrong while answering. Please try again."

// TurnStatus tags the outcome of a turn.
type TurnStatus string

const (
	TurnSucceeded TurnStatus = "succeeded"
	TurnFailed    TurnStatus = "failed"
)

// FailureStage names the step of a turn that failed.
type FailureStage string

const (
	StageRetrieve FailureStage = "retrieve"
	StageGenerate FailureStage = "generate"
	StageStream   FailureStage = "stream"
	StageRender   FailureStage = "render"
)

// SendMessageInput is the input for one chat turn.
type SendMessageInput struct {
	Content string `json:"content"`
}

// SendMessageOutput is the tagged result of a turn. Message is the assistant
// entry appended to history: the full reply, or the error marker on failure.
type SendMessageOutput struct {
	Status    TurnStatus
	Message   model.Message
	Stage     FailureStage // set when Status is TurnFailed
	Cause     error        // set when Status is TurnFailed
	Fragments int
	Sources   []model.ScoredNode
}

// Failed reports whether the turn failed.
func (o SendMessageOutput) Failed() bool {
	return o.Status == TurnFailed
}
