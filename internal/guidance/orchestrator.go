package guidance

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/shepherd/internal/generation"
	"github.com/hyperjump/shepherd/internal/language"
	"github.com/hyperjump/shepherd/internal/models"
	"github.com/hyperjump/shepherd/internal/normalize"
	"github.com/hyperjump/shepherd/internal/ratelimit"
	"github.com/hyperjump/shepherd/internal/retrieval"
	"github.com/hyperjump/shepherd/internal/storage"
)

const (
	// DefaultGenerationTimeout bounds the single generation attempt.
	DefaultGenerationTimeout = 30 * time.Second
	// DefaultMinResponseRunes is the shortest generated text accepted as a
	// real answer, counted over non-whitespace runes.
	DefaultMinResponseRunes = 10
)

// defaultFallbacks is the last-resort reply set when configuration carries no
// entry for either the detected or the default language.
var defaultFallbacks = FallbackSet{
	Delayed:     "I'm sorry, the response is taking longer than expected. Please try again in a moment.",
	Rephrase:    "I'm sorry, I could not find the right words for that. Could you rephrase your question?",
	Unavailable: "I apologize, but I'm having trouble accessing the AI service right now. Please try again in a moment. Remember, 'The Lord is near to all who call on him, to all who call on him in truth.' - Psalm 145:18",
}

// Request is one inbound chat message.
type Request struct {
	SessionID string
	Text      string
	ClientID  string
}

// Options tunes the orchestrator.
type Options struct {
	GenerationTimeout time.Duration
	SystemPrompt      string
	MinResponseRunes  int
	Fallbacks         map[string]FallbackSet
	DefaultLanguage   string
}

// Orchestrator sequences one chat request through admission, validation,
// persistence, generation, and retrieval. Generation failures never surface
// to the caller; they substitute a fallback reply and mark the outcome
// degraded. Only a failed write of the user's own message fails the request.
type Orchestrator struct {
	store     storage.Store
	generator generation.Generator
	retriever *retrieval.Service
	limiter   *ratelimit.Limiter
	notifier  *Notifier
	opts      Options
	logger    *zap.Logger
}

// NewOrchestrator wires the pipeline. All collaborators are required except
// the notifier, which may be nil when no streaming surface is attached.
func NewOrchestrator(
	store storage.Store,
	generator generation.Generator,
	retriever *retrieval.Service,
	limiter *ratelimit.Limiter,
	notifier *Notifier,
	opts Options,
	logger *zap.Logger,
) *Orchestrator {
	if opts.GenerationTimeout <= 0 {
		opts.GenerationTimeout = DefaultGenerationTimeout
	}
	if opts.MinResponseRunes <= 0 {
		opts.MinResponseRunes = DefaultMinResponseRunes
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = generation.DefaultSystemPrompt
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = language.Default
	}
	fallbacks := make(map[string]FallbackSet, len(opts.Fallbacks)+1)
	for lang, fb := range opts.Fallbacks {
		fallbacks[lang] = fb
	}
	if _, ok := fallbacks[opts.DefaultLanguage]; !ok {
		fallbacks[opts.DefaultLanguage] = defaultFallbacks
	}
	opts.Fallbacks = fallbacks
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:     store,
		generator: generator,
		retriever: retriever,
		limiter:   limiter,
		notifier:  notifier,
		opts:      opts,
		logger:    logger,
	}
}

// Handle runs one request to a terminal outcome. The returned error is
// non-nil only for persistence failures on the user's message; every other
// failure mode is expressed in the Outcome.
func (o *Orchestrator) Handle(ctx context.Context, req Request) (Outcome, error) {
	// Session shape is checked before admission so malformed requests never
	// charge the client's quota.
	sessionID, err := normalize.SessionID(req.SessionID)
	if err != nil {
		return Outcome{Status: StatusRejected, RejectReason: RejectInvalidSessionID}, nil
	}

	if !o.limiter.Admit(req.ClientID, time.Now()) {
		o.logger.Debug("request rate limited",
			zap.String("client_id", req.ClientID),
			zap.String("session_id", sessionID))
		return Outcome{Status: StatusRejected, RejectReason: RejectRateLimited, SessionID: sessionID}, nil
	}

	text, err := normalize.Inbound(req.Text)
	if err != nil {
		return Outcome{Status: StatusRejected, RejectReason: RejectEmptyInput, SessionID: sessionID}, nil
	}

	lang := language.Detect(text)

	if err := o.ensureSession(ctx, sessionID, lang); err != nil {
		return Outcome{}, fmt.Errorf("failed to ensure session: %w", err)
	}

	userMsg := &models.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Text:      text,
		Sender:    models.SenderUser,
		Timestamp: time.Now().UTC(),
		Language:  lang,
	}
	if err := o.store.CreateMessage(ctx, userMsg); err != nil {
		return Outcome{}, fmt.Errorf("failed to persist user message: %w", err)
	}
	o.publish(userMsg)

	outcome := Outcome{
		Status:    StatusSuccess,
		SessionID: sessionID,
		Language:  lang,
	}
	responseText, degradeReason := o.generate(ctx, text, lang, sessionID)
	if degradeReason != "" {
		outcome.Status = StatusDegraded
		outcome.DegradeReason = degradeReason
	} else {
		outcome.Citations = o.retriever.Retrieve(ctx, text, lang)
	}
	outcome.Text = normalize.Outbound(responseText)

	assistantMsg := &models.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Text:      outcome.Text,
		Sender:    models.SenderAssistant,
		Timestamp: time.Now().UTC(),
		Language:  lang,
		Citations: outcome.Citations,
	}
	if err := o.store.CreateMessage(ctx, assistantMsg); err != nil {
		// The caller already has the response in hand; losing the stored
		// copy is logged, not fatal.
		o.logger.Error("failed to persist assistant message",
			zap.String("session_id", sessionID),
			zap.Error(err))
	} else {
		o.publish(assistantMsg)
	}

	return outcome, nil
}

// generate runs the single bounded generation attempt and maps each failure
// mode to its fallback reply.
func (o *Orchestrator) generate(ctx context.Context, text, lang, sessionID string) (string, DegradeReason) {
	genCtx, cancel := context.WithTimeout(ctx, o.opts.GenerationTimeout)
	defer cancel()

	prompt := generation.RenderSystemPrompt(o.opts.SystemPrompt, lang)
	raw, err := o.generator.Generate(genCtx, prompt, text, sessionID)
	fb := o.fallbacksFor(lang)

	switch {
	case err == nil && meaningfulRunes(raw) >= o.opts.MinResponseRunes:
		return raw, ""
	case err == nil:
		o.logger.Warn("generation returned too little text",
			zap.String("session_id", sessionID),
			zap.Int("runes", meaningfulRunes(raw)))
		return fb.Rephrase, DegradeShortOutput
	case errors.Is(err, context.DeadlineExceeded):
		o.logger.Warn("generation timed out",
			zap.String("session_id", sessionID),
			zap.Duration("timeout", o.opts.GenerationTimeout))
		return fb.Delayed, DegradeTimeout
	default:
		o.logger.Warn("generation failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return fb.Unavailable, DegradeUnavailable
	}
}

// ensureSession creates the session on first contact. Two concurrent first
// messages can race on the insert; the loser re-reads before giving up.
func (o *Orchestrator) ensureSession(ctx context.Context, sessionID, lang string) error {
	_, err := o.store.GetSession(ctx, sessionID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrSessionNotFound) {
		return err
	}

	session := &models.ChatSession{
		ID:        sessionID,
		CreatedAt: time.Now().UTC(),
		Language:  lang,
	}
	if createErr := o.store.CreateSession(ctx, session); createErr != nil {
		if _, err := o.store.GetSession(ctx, sessionID); err == nil {
			return nil
		}
		return createErr
	}
	o.logger.Info("session created",
		zap.String("session_id", sessionID),
		zap.String("language", lang))
	return nil
}

// fallbacksFor returns the reply set for lang, falling back to the default
// language's set. The default entry always exists.
func (o *Orchestrator) fallbacksFor(lang string) FallbackSet {
	if fb, ok := o.opts.Fallbacks[lang]; ok {
		return fb
	}
	return o.opts.Fallbacks[o.opts.DefaultLanguage]
}

func (o *Orchestrator) publish(msg *models.ChatMessage) {
	if o.notifier != nil {
		o.notifier.Publish(msg)
	}
}

func meaningfulRunes(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
