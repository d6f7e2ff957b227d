// Package webchat exposes the conversation engine over WebSocket and a
// plain HTTP fallback for clients that cannot hold a socket open.
package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/ninjas3242/truck-bot/internal/conversation"
	"github.com/ninjas3242/truck-bot/internal/session"
	"github.com/ninjas3242/truck-bot/pkg/logging"
)

// ChatEngine processes one message synchronously.
type ChatEngine interface {
	ProcessMessage(ctx context.Context, req conversation.Request) (conversation.Reply, error)
}

// HistoryStore reads stored conversation turns for replay to the widget.
type HistoryStore interface {
	History(ctx context.Context, sessionID string) ([]session.Turn, error)
}

// Handler manages chat connections and messages.
type Handler struct {
	engine        ChatEngine
	history       HistoryStore
	salesContacts string
	logger        *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*wsConn
}

// wsConn serializes writes so the session loop and HTTP-fallback pushes
// never interleave frames on the same socket.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(msg OutboundMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return websocket.JSON.Send(c.conn, msg)
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type     string `json:"type"` // "message", "ping"
	Text     string `json:"text"`
	Language string `json:"language"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type         string           `json:"type"` // "message", "typing", "pong", "history", "session", "error"
	Text         string           `json:"text,omitempty"`
	Role         string           `json:"role,omitempty"`
	SessionID    string           `json:"session_id,omitempty"`
	CalendarLink string           `json:"calendar_link,omitempty"`
	Timestamp    string           `json:"timestamp,omitempty"`
	Messages     []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified turn for history responses.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

func NewHandler(engine ChatEngine, history HistoryStore, salesContacts string, logger *logging.Logger) *Handler {
	if engine == nil {
		panic("webchat: engine cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		engine:        engine,
		history:       history,
		salesContacts: salesContacts,
		logger:        logger,
		sessions:      make(map[string]*wsConn),
	}
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades to WebSocket and serves real-time chat.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}
	lang := r.URL.Query().Get("lang")
	wsc := &wsConn{conn: conn}

	// Register before the hello frame so a client that has seen it can rely
	// on HTTP-fallback replies reaching this socket.
	h.mu.Lock()
	h.sessions[sessionID] = wsc
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.sessions[sessionID] == wsc {
			delete(h.sessions, sessionID)
		}
		h.mu.Unlock()
	}()

	_ = wsc.send(OutboundMessage{Type: "session", SessionID: sessionID})

	if msgs := h.loadHistory(r.Context(), sessionID); len(msgs) > 0 {
		_ = wsc.send(OutboundMessage{Type: "history", Messages: msgs})
	}

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = wsc.send(OutboundMessage{Type: "pong"})
			continue
		}
		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}
		if msg.Language != "" {
			lang = msg.Language
		}

		_ = wsc.send(OutboundMessage{Type: "typing"})
		out := h.respond(r.Context(), sessionID, msg.Text, lang)
		_ = wsc.send(out)
	}
}

// respond runs the engine and maps failures onto widget-safe messages.
func (h *Handler) respond(ctx context.Context, sessionID, text, lang string) OutboundMessage {
	reply, err := h.engine.ProcessMessage(ctx, conversation.Request{
		SessionID: sessionID,
		Text:      text,
		Language:  lang,
	})
	if err != nil {
		var genErr *conversation.GenerationError
		if errors.As(err, &genErr) {
			h.logger.Error("webchat: generation failed", "session_id", sessionID, "error", err.Error())
			return OutboundMessage{
				Type: "message",
				Role: "assistant",
				Text: "Sorry, I'm having trouble answering right now. Please try again in a moment, or reach our sales team directly: " + h.salesContacts + ".",
			}
		}
		h.logger.Error("webchat: message rejected", "session_id", sessionID, "error", err.Error())
		return OutboundMessage{Type: "error", Text: "Sorry, something went wrong. Please try again."}
	}

	return OutboundMessage{
		Type:         "message",
		Role:         "assistant",
		Text:         reply.Text,
		CalendarLink: reply.CalendarLink,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
}

// pushToSession mirrors a message onto an open socket for the same session,
// keeping a connected widget in sync when the HTTP fallback is used.
func (h *Handler) pushToSession(sessionID string, msg OutboundMessage) {
	h.mu.RLock()
	wsc, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := wsc.send(msg); err != nil {
		h.logger.Debug("webchat: push to open socket failed", "session_id", sessionID, "error", err)
	}
}

// HandleMessage is the HTTP fallback for sending a message.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
		Language  string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	out := h.respond(r.Context(), req.SessionID, req.Text, req.Language)
	out.SessionID = req.SessionID
	if out.Type == "message" {
		h.pushToSession(req.SessionID, out)
	}

	w.Header().Set("Content-Type", "application/json")
	if out.Type == "error" {
		w.WriteHeader(http.StatusBadGateway)
	}
	_ = json.NewEncoder(w).Encode(out)
}

// HandleHistory returns stored turns for a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]HistoryMessage{
		"messages": h.loadHistory(r.Context(), sessionID),
	})
}

func (h *Handler) loadHistory(ctx context.Context, sessionID string) []HistoryMessage {
	if h.history == nil {
		return []HistoryMessage{}
	}
	turns, err := h.history.History(ctx, sessionID)
	if err != nil {
		h.logger.Warn("webchat: failed to load history", "session_id", sessionID, "error", err.Error())
		return []HistoryMessage{}
	}

	msgs := make([]HistoryMessage, 0, len(turns))
	for _, turn := range turns {
		msgs = append(msgs, HistoryMessage{
			Role:      turn.Role,
			Text:      turn.Content,
			Timestamp: turn.At.Format(time.RFC3339),
		})
	}
	return msgs
}
