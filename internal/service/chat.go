package service

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/bloodconnect/bloodconnect-web/internal/domain/chat"
	"github.com/bloodconnect/bloodconnect-web/internal/observability/metrics"
)

const defaultChatIdle = 30 * time.Minute

// ChatServiceOptions groups dependencies for ChatService.
type ChatServiceOptions struct {
	Responder *chat.Responder   // Optional: defaults to chat.DefaultResponder
	IdleTTL   time.Duration     // Optional: transcripts idle longer than this are dropped
	Metrics   *metrics.Recorder // Optional
	Now       func() time.Time  // Optional
}

// ChatService keeps one assistant conversation per browser session in memory.
type ChatService struct {
	responder *chat.Responder
	convs     *cache.Cache
	metrics   *metrics.Recorder
	now       func() time.Time
	mu        sync.Mutex
}

type conversationSlot struct {
	mu   sync.Mutex
	conv chat.Conversation
}

// ChatView is what the widget renders.
type ChatView struct {
	Open        bool
	Messages    []chat.Message
	Suggestions []string
}

// NewChatService constructs a ChatService.
func NewChatService(opts ChatServiceOptions) *ChatService {
	if opts.Responder == nil {
		opts.Responder = chat.DefaultResponder()
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultChatIdle
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ChatService{
		responder: opts.Responder,
		convs:     cache.New(opts.IdleTTL, opts.IdleTTL/2),
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
}

// View returns the current widget state for sid without changing it.
func (s *ChatService) View(sid string) ChatView {
	slot, ok := s.lookup(sid)
	if !ok {
		return ChatView{}
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return s.view(&slot.conv)
}

// Open opens the widget for sid.
func (s *ChatService) Open(sid string) ChatView {
	slot := s.slot(sid)
	slot.mu.Lock()
	defer slot.mu.Unlock()
	slot.conv.Open(s.now())
	return s.view(&slot.conv)
}

// Ask answers one user message. Asking a closed widget opens it first.
func (s *ChatService) Ask(sid, text string) ChatView {
	slot := s.slot(sid)
	slot.mu.Lock()
	defer slot.mu.Unlock()

	now := s.now()
	if !slot.conv.IsOpen() {
		slot.conv.Open(now)
	}
	answer, asked, err := slot.conv.Ask(s.responder, text, now)
	if err == nil && asked {
		s.metrics.ChatReply(answer.Topic)
	}
	return s.view(&slot.conv)
}

// Close closes the widget and discards the transcript.
func (s *ChatService) Close(sid string) ChatView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.convs.Get(sid); ok {
		slot := v.(*conversationSlot)
		slot.mu.Lock()
		slot.conv.Close()
		slot.mu.Unlock()
	}
	s.convs.Delete(sid)
	return ChatView{}
}

func (s *ChatService) view(c *chat.Conversation) ChatView {
	v := ChatView{Open: c.IsOpen(), Messages: c.Transcript()}
	if len(v.Messages) <= 1 {
		v.Suggestions = chat.SuggestedQuestions()
	}
	return v
}

func (s *ChatService) lookup(sid string) (*conversationSlot, bool) {
	v, ok := s.convs.Get(sid)
	if !ok {
		return nil, false
	}
	return v.(*conversationSlot), true
}

func (s *ChatService) slot(sid string) *conversationSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.convs.Get(sid); ok {
		s.convs.SetDefault(sid, v)
		return v.(*conversationSlot)
	}
	slot := &conversationSlot{}
	s.convs.SetDefault(sid, slot)
	return slot
}
