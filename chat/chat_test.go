package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loaniq/loaniq-go/types"
)

type fakeAsker struct {
	last   types.ChatRequest
	answer string
	err    error
}

func (f *fakeAsker) AskChatbot(ctx context.Context, request types.ChatRequest) (*types.ChatResponse, error) {
	f.last = request
	if f.err != nil {
		return nil, f.err
	}
	return &types.ChatResponse{Answer: f.answer}, nil
}

type fixedLanguage string

func (l fixedLanguage) Language() string { return string(l) }

func TestAsk_UsesDocumentAndLanguage(t *testing.T) {
	asker := &fakeAsker{answer: "Your EMI is 191.01"}
	s := New(asker, fixedLanguage("hi"))
	s.SetDocument(&types.ExtractionResult{
		DocumentId:     "doc-1",
		StructuredData: &types.NormalizedData{MonthlyPayment: 191.01},
	})

	reply, err := s.Ask(context.Background(), "  what is my emi?  ", "")
	require.NoError(t, err)
	assert.Equal(t, types.ChatRoleAssistant, reply.Role)
	assert.Equal(t, "Your EMI is 191.01", reply.Content)
	assert.False(t, reply.IsError)

	assert.Equal(t, "what is my emi?", asker.last.Question)
	assert.Equal(t, "hi", asker.last.Language)
	assert.Equal(t, "doc-1", asker.last.DocumentId)
	assert.True(t, asker.last.UseContext)
	require.NotNil(t, asker.last.DocumentData)
	assert.Equal(t, 191.01, asker.last.DocumentData.MonthlyPayment)

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, types.ChatRoleUser, history[0].Role)
	assert.NotEqual(t, history[0].ID, history[1].ID)
}

func TestAsk_ExplicitDocumentId(t *testing.T) {
	asker := &fakeAsker{answer: "ok"}
	s := New(asker, nil)
	_, err := s.Ask(context.Background(), "hi", "doc-9")
	require.NoError(t, err)
	assert.Equal(t, "doc-9", asker.last.DocumentId)
	assert.Nil(t, asker.last.DocumentData)
	assert.Empty(t, asker.last.Language)
}

func TestAsk_FailureBecomesMessage(t *testing.T) {
	s := New(&fakeAsker{err: errors.New("rate limit exceeded")}, fixedLanguage("en"))

	reply, err := s.Ask(context.Background(), "hello", "")
	assert.EqualError(t, err, "rate limit exceeded")
	assert.True(t, reply.IsError)
	assert.Contains(t, reply.Content, "rate limit exceeded")
	assert.Len(t, s.History(), 2)

	_, err = New(&fakeAsker{}, nil).Ask(context.Background(), "hello", "")
	assert.EqualError(t, err, "empty answer from chatbot")
}

func TestAsk_EmptyQuestion(t *testing.T) {
	s := New(&fakeAsker{answer: "x"}, nil)
	_, err := s.Ask(context.Background(), "   ", "")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Empty(t, s.History())
}

func TestHistoryIsBoundedAndClearable(t *testing.T) {
	s := New(&fakeAsker{answer: "a"}, nil)
	for i := 0; i < MaxHistory; i++ {
		_, err := s.Ask(context.Background(), "q", "")
		require.NoError(t, err)
	}
	assert.Len(t, s.History(), MaxHistory)

	s.Clear()
	assert.Empty(t, s.History())
}
