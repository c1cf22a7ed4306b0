package httpx

import (
	"net/http"

	"github.com/bloodconnect/bloodconnect-web/internal/service"
)

const chatWidgetTemplate = "chat-widget"

// maxChatMessageLen bounds a single question; longer input is truncated.
const maxChatMessageLen = 500

// ChatOpen opens the assistant panel.
// POST /chat/open.
func (h *UIHandlers) ChatOpen(w http.ResponseWriter, r *http.Request) {
	h.renderChat(w, r, h.Chat.Open(sessionID(r.Context())))
}

// ChatMessage sends one question to the assistant.
// POST /chat/messages.
func (h *UIHandlers) ChatMessage(w http.ResponseWriter, r *http.Request) {
	text := formValue(r, "message")
	if runes := []rune(text); len(runes) > maxChatMessageLen {
		text = string(runes[:maxChatMessageLen])
	}
	h.renderChat(w, r, h.Chat.Ask(sessionID(r.Context()), text))
}

// ChatClose hides the assistant panel and discards the transcript. Reopening
// starts over from the welcome message.
// POST /chat/close.
func (h *UIHandlers) ChatClose(w http.ResponseWriter, r *http.Request) {
	h.renderChat(w, r, h.Chat.Close(sessionID(r.Context())))
}

// renderChat swaps the widget for htmx and sends plain form posts back to the
// page they came from.
func (h *UIHandlers) renderChat(w http.ResponseWriter, r *http.Request, view service.ChatView) {
	if r.Context().Err() != nil {
		return
	}
	if !IsHTMX(r) {
		http.Redirect(w, r, safeReturnPath(r), http.StatusSeeOther)
		return
	}
	data := map[string]any{
		"Chat":      view,
		"CSRFToken": GetCSRFToken(r),
	}
	if err := h.T.RenderFragment(w, chatWidgetTemplate, data); err != nil {
		h.renderTemplateError(w, r, err)
	}
}
