// Package conversation orchestrates the chat pipeline: intent routing,
// knowledge retrieval, LLM generation with fallback, and booking
// resolution against session memory.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ninjas3242/truck-bot/internal/appointment"
	"github.com/ninjas3242/truck-bot/internal/booking"
	"github.com/ninjas3242/truck-bot/internal/intent"
	"github.com/ninjas3242/truck-bot/internal/language"
	"github.com/ninjas3242/truck-bot/internal/observability/metrics"
	"github.com/ninjas3242/truck-bot/internal/search"
	"github.com/ninjas3242/truck-bot/internal/session"
	"github.com/ninjas3242/truck-bot/pkg/logging"
)

// ErrEmptyMessage rejects blank input before any model call.
var ErrEmptyMessage = errors.New("conversation: message text is empty")

// GenerationError wraps an LLM failure that survived the fallback chain.
// Callers use it to distinguish "the model is down" from pipeline bugs.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("conversation: response generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// BookingNotifier tells the sales team about a confirmed showroom visit.
type BookingNotifier interface {
	NotifyBooking(ctx context.Context, res booking.Resolution) error
}

// Request is one inbound chat message.
type Request struct {
	SessionID string
	Text      string
	Language  string
}

// Reply is the pipeline's answer to one message.
type Reply struct {
	Text         string
	Intent       intent.Intent
	Booking      *booking.Resolution
	CalendarLink string
}

// EngineConfig carries the tunables the engine needs from app config.
type EngineConfig struct {
	Model            string
	MaxTokens        int32
	Temperature      float32
	MaxSearchResults int
}

// Engine wires the pipeline together. All collaborators except the notifier
// and metrics are required.
type Engine struct {
	scorer   *search.Scorer
	store    *session.Store
	llm      LLMClient
	resolver *booking.Resolver
	calendar booking.CalendarLinkBuilder
	prompts  PromptBuilder
	notifier BookingNotifier
	logger   *logging.Logger
	metrics  *metrics.ChatMetrics
	cfg      EngineConfig
	now      func() time.Time
}

func NewEngine(
	scorer *search.Scorer,
	store *session.Store,
	llm LLMClient,
	resolver *booking.Resolver,
	calendar booking.CalendarLinkBuilder,
	prompts PromptBuilder,
	notifier BookingNotifier,
	m *metrics.ChatMetrics,
	cfg EngineConfig,
	logger *logging.Logger,
) *Engine {
	if scorer == nil {
		panic("conversation: scorer cannot be nil")
	}
	if store == nil {
		panic("conversation: session store cannot be nil")
	}
	if llm == nil {
		panic("conversation: llm client cannot be nil")
	}
	if resolver == nil {
		panic("conversation: booking resolver cannot be nil")
	}
	if cfg.MaxSearchResults <= 0 {
		cfg.MaxSearchResults = 8
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		scorer:   scorer,
		store:    store,
		llm:      llm,
		resolver: resolver,
		calendar: calendar,
		prompts:  prompts,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Search exposes raw ranked inventory lookup for surfaces that want
// results without generation.
func (e *Engine) Search(query string, maxResults int) []search.Result {
	if maxResults <= 0 || maxResults > e.cfg.MaxSearchResults {
		maxResults = e.cfg.MaxSearchResults
	}
	return e.scorer.Search(query, maxResults)
}

// WithClock overrides the engine's clock. Test hook.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// ProcessMessage runs one message through the pipeline and returns the
// reply. Session-store failures degrade to a stateless turn; only empty
// input and generation failures are reported as errors.
func (e *Engine) ProcessMessage(ctx context.Context, req Request) (Reply, error) {
	started := e.now()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}

	lang := language.Normalize(req.Language)
	detected := intent.Classify(text)

	reply, err := e.dispatch(ctx, req.SessionID, text, lang, detected)
	status := "ok"
	if err != nil {
		status = "error"
	}
	e.metrics.ObserveMessage(string(detected), status)
	e.metrics.ObserveReplyLatency(string(detected), e.now().Sub(started).Seconds())
	if err != nil {
		return Reply{}, err
	}

	e.appendHistory(ctx, req.SessionID, text, reply.Text)
	return reply, nil
}

func (e *Engine) dispatch(ctx context.Context, sessionID, text string, lang language.Tag, detected intent.Intent) (Reply, error) {
	switch detected {
	case intent.Greeting:
		return Reply{Text: e.greeting(lang), Intent: intent.Greeting}, nil
	case intent.Booking:
		return e.processBooking(ctx, sessionID, text, lang)
	default:
		return e.processGeneral(ctx, sessionID, text, lang)
	}
}

// greetings are canned so a bare "hi" never costs a model call.
var greetings = map[language.Tag]string{
	language.English: "Hello! Welcome to %s. Are you looking for a new or used horse truck, or would you like to visit our showroom?",
	language.Spanish: "¡Hola! Bienvenido a %s. ¿Busca un camión para caballos nuevo o usado, o le gustaría visitar nuestra sala de exposición?",
	language.French:  "Bonjour ! Bienvenue chez %s. Cherchez-vous un camion pour chevaux neuf ou d'occasion, ou souhaitez-vous visiter notre showroom ?",
	language.German:  "Hallo! Willkommen bei %s. Suchen Sie einen neuen oder gebrauchten Pferdetransporter, oder möchten Sie unseren Showroom besuchen?",
	language.Dutch:   "Hallo! Welkom bij %s. Zoekt u een nieuwe of tweedehands paardenvrachtwagen, of wilt u onze showroom bezoeken?",
}

func (e *Engine) greeting(lang language.Tag) string {
	tmpl, ok := greetings[lang]
	if !ok {
		tmpl = greetings[language.English]
	}
	return fmt.Sprintf(tmpl, e.prompts.Company)
}

// bookingRetryText is shown when the model's completion line could not be
// parsed. The booking stays open so the next message can finish it.
const bookingRetryText = "Sorry, something went wrong while confirming your visit. " +
	"Could you repeat the truck type, the date and time, and your email address?"

// processBooking resolves locally first; the model is only consulted when
// details are still missing, with the sentinel contract in its prompt.
func (e *Engine) processBooking(ctx context.Context, sessionID, text string, lang language.Tag) (Reply, error) {
	now := e.now()

	cand, err := appointment.Extract(text, now)
	if err != nil {
		return Reply{}, err
	}

	mem := e.loadMemory(ctx, sessionID)
	e.rememberCandidate(ctx, sessionID, &mem, cand)

	res, err := e.resolver.Resolve(now, cand, booking.Remembered{Email: mem.Email, TruckType: mem.TruckType}, nil)
	if err != nil {
		return Reply{}, err
	}
	if res.Status == booking.StatusComplete {
		return e.completeBooking(ctx, sessionID, mem, res), nil
	}
	e.metrics.ObserveBooking(string(res.Status))

	// Missing pieces: let the model carry the conversation forward.
	results := e.scorer.Search(text, e.cfg.MaxSearchResults)
	resp, err := e.complete(ctx, sessionID, text, e.prompts.System(lang, RenderKnowledge(results), true))
	if err != nil {
		e.metrics.ObserveLLMFailure(string(intent.Booking))
		return Reply{}, &GenerationError{Err: err}
	}

	sentinel, found, serr := booking.ParseCompletionSentinel(resp.Text)
	if serr != nil {
		// A broken sentinel means the model claimed completion with details
		// we cannot trust. Never surface that text; ask the customer to
		// restate instead.
		e.logger.Warn("discarding malformed completion sentinel", "error", serr.Error())
		return Reply{Text: bookingRetryText, Intent: intent.Booking, Booking: &res}, nil
	}
	if found {
		res, err := e.resolver.Resolve(now, cand, booking.Remembered{Email: mem.Email, TruckType: mem.TruckType}, &sentinel)
		if err != nil {
			return Reply{}, err
		}
		reply := e.completeBooking(ctx, sessionID, mem, res)
		if lead := Postprocess(resp.Text); lead != "" {
			reply.Text = lead + "\n\n" + reply.Text
		}
		return reply, nil
	}

	return Reply{Text: Postprocess(resp.Text), Intent: intent.Booking, Booking: &res}, nil
}

func (e *Engine) processGeneral(ctx context.Context, sessionID, text string, lang language.Tag) (Reply, error) {
	results := e.scorer.Search(text, e.cfg.MaxSearchResults)

	resp, err := e.complete(ctx, sessionID, text, e.prompts.System(lang, RenderKnowledge(results), false))
	if err != nil {
		e.metrics.ObserveLLMFailure(string(intent.General))
		return Reply{}, &GenerationError{Err: err}
	}
	return Reply{Text: Postprocess(resp.Text), Intent: intent.General}, nil
}

// complete replays session history and sends the current message.
func (e *Engine) complete(ctx context.Context, sessionID, text string, system []string) (LLMResponse, error) {
	history, err := e.store.History(ctx, sessionID)
	if err != nil {
		e.logger.Warn("history unavailable, continuing stateless", "error", err.Error())
		history = nil
	}

	messages := make([]ChatMessage, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: text})

	return e.llm.Complete(ctx, LLMRequest{
		Model:       e.cfg.Model,
		System:      system,
		Messages:    messages,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
}

// completeBooking builds the confirmation reply, persists what the session
// learned, and notifies the sales team.
func (e *Engine) completeBooking(ctx context.Context, sessionID string, mem session.Memory, res booking.Resolution) Reply {
	e.metrics.ObserveBooking(string(res.Status))

	mem.Email = res.Email
	mem.TruckType = res.TruckType
	if err := e.store.SaveMemory(ctx, sessionID, mem); err != nil {
		e.logger.Warn("failed to persist session memory", "error", err.Error())
	}

	link := ""
	if !res.Start.IsZero() {
		link = e.calendar.Link(res)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Your showroom visit for a %s is confirmed", res.TruckType)
	if res.DateTimeText != "" {
		fmt.Fprintf(&sb, " for %s", res.DateTimeText)
	}
	fmt.Fprintf(&sb, ". We'll send the details to %s.", res.Email)
	if link != "" {
		fmt.Fprintf(&sb, "\nAdd it to your calendar: %s", link)
	}
	fmt.Fprintf(&sb, "\nOur sales team will be ready for you: %s.", e.prompts.SalesContacts)

	if e.notifier != nil {
		if err := e.notifier.NotifyBooking(ctx, res); err != nil {
			e.logger.Error("failed to notify sales of booking", "error", err.Error())
		}
	}

	e.logger.Info("booking confirmed",
		"session_id", sessionID,
		"truck_type", res.TruckType,
		"start", res.Start,
	)

	return Reply{Text: sb.String(), Intent: intent.Booking, Booking: &res, CalendarLink: link}
}

// rememberCandidate captures extracted contact details so a later message
// can finish the booking.
func (e *Engine) rememberCandidate(ctx context.Context, sessionID string, mem *session.Memory, cand appointment.Candidate) {
	changed := false
	if cand.Email != "" && cand.Email != mem.Email {
		mem.Email = cand.Email
		changed = true
	}
	if cand.TruckType != "" && cand.TruckType != mem.TruckType {
		mem.TruckType = cand.TruckType
		changed = true
	}
	if !changed {
		return
	}
	if err := e.store.SaveMemory(ctx, sessionID, *mem); err != nil {
		e.logger.Warn("failed to persist session memory", "error", err.Error())
	}
}

func (e *Engine) loadMemory(ctx context.Context, sessionID string) session.Memory {
	mem, err := e.store.Memory(ctx, sessionID)
	if err != nil {
		e.logger.Warn("session memory unavailable, continuing stateless", "error", err.Error())
		return session.Memory{}
	}
	return mem
}

func (e *Engine) appendHistory(ctx context.Context, sessionID, userText, replyText string) {
	at := e.now()
	err := e.store.Append(ctx, sessionID,
		session.Turn{Role: ChatRoleUser, Content: userText, At: at},
		session.Turn{Role: ChatRoleAssistant, Content: replyText, At: at},
	)
	if err != nil {
		e.logger.Warn("failed to append session history", "error", err.Error())
	}
}
