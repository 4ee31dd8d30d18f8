package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"intelliagent-terminal/internal/document"
)

// User-facing messages
const (
	InvalidFileMessage  = "Please select a valid PDF file"
	UploadErrorPrefix   = "Error parsing PDF: "
	QuestionErrorPrefix = "Error: "
)

var (
	// ErrInvalidFileType is returned when the picked file is not a PDF
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrUploadInFlight is returned when an upload is already running
	ErrUploadInFlight = errors.New("upload already in progress")
)

// UploadState tracks the document being indexed
type UploadState struct {
	File      *document.FileInfo
	IsLoading bool
	IsIndexed bool
	Error     string
}

// ChatState tracks the conversation pane
type ChatState struct {
	Messages              []Message
	Draft                 string
	IsLoading             bool
	IsVisible             bool
	IsScrollButtonVisible bool
}

// Ticket identifies a request started in a given epoch. Completions carrying
// an older epoch arrived after a reset (or a restarted conversation) and are
// dropped.
type Ticket struct {
	epoch uint64
}

// Question is an accepted chat submission waiting for the backend
type Question struct {
	Ticket
	Text string
}

// State is the whole client state. It is owned by the UI event loop and must
// only be mutated from there; requests report back through the Finish methods.
type State struct {
	Upload UploadState
	Chat   ChatState

	greeting    string
	uploadEpoch uint64
	chatEpoch   uint64

	now   func() time.Time
	newID func() string
}

func New(greeting string) *State {
	return &State{
		greeting: greeting,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// CanStartChat reports whether the "start chat" action is available
func (s *State) CanStartChat() bool {
	return s.Upload.IsIndexed && !s.Chat.IsVisible
}

// CanReset reports whether the "clear & upload new" action is available
func (s *State) CanReset() bool {
	return s.Upload.File != nil && !s.Upload.IsLoading
}

// RejectUpload records a client-side validation failure without starting a
// request. A running upload is left untouched.
func (s *State) RejectUpload(message string) {
	s.Upload.Error = message
}

// BeginUpload validates file and marks an upload as started. No request may
// be sent unless it returns a nil error. A file that is not a PDF is always
// reported, even while another upload runs.
func (s *State) BeginUpload(file document.FileInfo) (Ticket, error) {
	if !file.IsPDF() {
		s.RejectUpload(InvalidFileMessage)
		return Ticket{}, ErrInvalidFileType
	}

	if s.Upload.IsLoading {
		return Ticket{}, ErrUploadInFlight
	}

	s.Upload.Error = ""
	s.Upload.IsLoading = true
	s.Upload.File = &file

	return Ticket{epoch: s.uploadEpoch}, nil
}

// FinishUpload applies the outcome of an upload request. The loading flag is
// always cleared.
func (s *State) FinishUpload(t Ticket, err error) {
	s.Upload.IsLoading = false

	if t.epoch != s.uploadEpoch {
		return
	}

	if err != nil {
		s.Upload.Error = UploadErrorPrefix + err.Error()
		return
	}

	s.Upload.Error = ""
	s.Upload.IsIndexed = true
}

// Reset clears the upload and the conversation together. Flags of requests
// still in flight are kept so a second request can't start before they end.
func (s *State) Reset() {
	s.uploadEpoch++
	s.chatEpoch++

	s.Upload = UploadState{IsLoading: s.Upload.IsLoading}
	s.Chat = ChatState{IsLoading: s.Chat.IsLoading}
}

// StartChat reveals the chat pane seeded with the greeting
func (s *State) StartChat() bool {
	if !s.Upload.IsIndexed {
		return false
	}

	s.chatEpoch++
	s.Chat.IsVisible = true
	s.Chat.IsScrollButtonVisible = false
	s.Chat.Messages = []Message{s.newMessage(KindAI, s.greeting, nil)}

	return true
}

// HideChat hides the chat pane and drops the conversation
func (s *State) HideChat() {
	s.chatEpoch++
	s.Chat.IsVisible = false
	s.Chat.IsScrollButtonVisible = false
	s.Chat.Messages = nil
}

// SetDraft stores the text currently in the question input
func (s *State) SetDraft(draft string) {
	s.Chat.Draft = draft
}

// SubmitQuestion accepts the draft when the document is indexed, no question
// is in flight and the trimmed draft is not empty. On success the user
// message is appended and the draft cleared.
func (s *State) SubmitQuestion() (Question, bool) {
	text := norm.NFC.String(strings.TrimSpace(s.Chat.Draft))
	if text == "" || !s.Upload.IsIndexed || s.Chat.IsLoading {
		return Question{}, false
	}

	s.Chat.Messages = append(s.Chat.Messages, s.newMessage(KindUser, text, nil))
	s.Chat.Draft = ""
	s.Chat.IsLoading = true

	return Question{Ticket: Ticket{epoch: s.chatEpoch}, Text: text}, true
}

// FinishQuestion appends the answer, or an error message when err is set.
// The loading flag is always cleared.
func (s *State) FinishQuestion(q Question, answer *Answer, err error) {
	s.Chat.IsLoading = false

	if q.epoch != s.chatEpoch {
		return
	}

	if err != nil {
		s.Chat.Messages = append(s.Chat.Messages, s.newMessage(KindError, QuestionErrorPrefix+err.Error(), nil))
		return
	}

	var text string
	var meta *Metadata
	if answer != nil {
		text = answer.Text
		if answer.Metadata != nil {
			m := *answer.Metadata
			meta = &m
		}
	}
	s.Chat.Messages = append(s.Chat.Messages, s.newMessage(KindAI, text, meta))
}

// UpdateScroll shows the scroll-to-bottom affordance when the view is more
// than threshold lines away from the bottom
func (s *State) UpdateScroll(distanceFromBottom, threshold int) {
	s.Chat.IsScrollButtonVisible = distanceFromBottom > threshold
}

func (s *State) newMessage(kind MessageKind, content string, meta *Metadata) Message {
	return Message{
		ID:        s.newID(),
		Kind:      kind,
		Content:   content,
		Timestamp: s.now(),
		Metadata:  meta,
	}
}

// DistanceFromBottom returns how many lines of content lie below the visible
// window of a scrolled view
func DistanceFromBottom(totalLines, offset, height int) int {
	d := totalLines - offset - height
	if d < 0 {
		return 0
	}
	return d
}
