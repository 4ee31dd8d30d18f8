package ui

import (
	"intelliagent-terminal/internal/document"
	"intelliagent-terminal/internal/history"
	"intelliagent-terminal/internal/session"
)

// UploadFinished reports the outcome of an upload request
type UploadFinished struct {
	Ticket session.Ticket
	File   document.FileInfo
	Err    error
}

// AnswerReceived reports the outcome of a question
type AnswerReceived struct {
	Question session.Question
	Answer   *session.Answer
	Err      error
}

// BackendStatus reports the result of the startup health probe
type BackendStatus struct {
	Err error
}

// RecentLoaded carries the recent-uploads list read from history
type RecentLoaded struct {
	Entries []history.Entry
	Err     error
}

// RecentSelected is sent when a recent upload is picked
type RecentSelected struct {
	Entry history.Entry
}

// RecentForgotten is sent when an entry should be dropped from history
type RecentForgotten struct {
	Path string
}

// RecentClosed is sent when the recent-uploads overlay closes without selection
type RecentClosed struct{}

// scrollFrameMsg advances a smooth scroll by one step
type scrollFrameMsg struct{}
