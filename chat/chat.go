package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
)

const MaxHistory = 200

var ErrEmptyQuestion = errors.New("question is required")

// Asker is the backend chatbot.
type Asker interface {
	AskChatbot(ctx context.Context, request types.ChatRequest) (*types.ChatResponse, error)
}

// LanguageSource supplies the answer language at ask time.
type LanguageSource interface {
	Language() string
}

// Session is one conversation. The most recently uploaded document is sent as context.
type Session struct {
	asker Asker
	lang  LanguageSource
	now   func() time.Time

	mu       sync.Mutex
	history  []types.ChatMessage
	document *types.ExtractionResult
}

func New(asker Asker, lang LanguageSource) *Session {
	return &Session{
		asker: asker,
		lang:  lang,
		now:   time.Now,
	}
}

// SetDocument replaces the context document; nil clears it.
func (s *Session) SetDocument(doc *types.ExtractionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = doc
}

func (s *Session) Document() *types.ExtractionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document
}

func (s *Session) History() []types.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.ChatMessage(nil), s.history...)
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

func (s *Session) appendLocked(msg types.ChatMessage) {
	s.history = append(s.history, msg)
	if over := len(s.history) - MaxHistory; over > 0 {
		s.history = append([]types.ChatMessage(nil), s.history[over:]...)
	}
}

func (s *Session) message(role, content string, isError bool) types.ChatMessage {
	return types.ChatMessage{
		ID:        tool.GenerateRandomUUID(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
		IsError:   isError,
	}
}

// Ask records the question, asks the backend and records the answer.
// documentId overrides the session document when set. A backend failure still produces an
// assistant message (IsError) which is returned together with the error.
func (s *Session) Ask(ctx context.Context, question, documentId string) (types.ChatMessage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return types.ChatMessage{}, ErrEmptyQuestion
	}

	s.mu.Lock()
	s.appendLocked(s.message(types.ChatRoleUser, question, false))
	doc := s.document
	s.mu.Unlock()

	request := types.ChatRequest{Question: question}
	if s.lang != nil {
		request.Language = s.lang.Language()
	}
	switch {
	case documentId != "":
		request.DocumentId = documentId
		request.UseContext = true
	case doc != nil:
		request.DocumentId = doc.DocumentId
		request.DocumentData = doc.Loan()
		request.UseContext = true
	}

	var (
		response *types.ChatResponse
		err      error
	)
	if s.asker == nil {
		err = errors.New("no chatbot configured")
	} else {
		response, err = s.asker.AskChatbot(ctx, request)
	}

	var reply types.ChatMessage
	switch {
	case err != nil:
		tool.DefaultLogger.Warnf("[Chat] Ask failed: %v", err)
		reply = s.message(types.ChatRoleAssistant, "Sorry, I couldn't answer that right now: "+err.Error(), true)
	case response == nil || strings.TrimSpace(response.Answer) == "":
		err = errors.New("empty answer from chatbot")
		reply = s.message(types.ChatRoleAssistant, "Sorry, I couldn't find an answer to that.", true)
	default:
		reply = s.message(types.ChatRoleAssistant, response.Answer, false)
	}

	s.mu.Lock()
	s.appendLocked(reply)
	s.mu.Unlock()
	return reply, err
}
