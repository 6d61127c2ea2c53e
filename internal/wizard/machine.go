// Package wizard drives the guided invention questionnaire: one answer per
// step, global interrupt commands, a help sub-menu, and the completion
// sequence that hands the answers to the analyzer.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/starlenz/patent-assistant/internal/entity"
	"github.com/starlenz/patent-assistant/internal/pkg/logger"
	"go.uber.org/zap"
)

const defaultSessionTTL = 30 * time.Minute

// Config holds the static tables of the machine
type Config struct {
	Steps           []Step
	Help            HelpMenu
	Links           Links
	WelcomeImageURL string
	// Exports lists the formats offered as download buttons after a saved analysis
	Exports    []entity.ResultFormat
	SessionTTL time.Duration
}

// DefaultConfig returns the patent questionnaire with production links
func DefaultConfig() Config {
	links := DefaultLinks()
	return Config{
		Steps:      DefaultSteps(),
		Help:       DefaultHelpMenu(links),
		Links:      links,
		Exports:    []entity.ResultFormat{entity.FormatMarkdown, entity.FormatPDF},
		SessionTTL: defaultSessionTTL,
	}
}

type interruptFunc func(ctx context.Context, s Session) error

// Machine is the wizard state machine. It is safe for concurrent use;
// each session is serialized by its own conversation lock.
type Machine struct {
	cfg      Config
	store    *Store
	emitter  Emitter
	analyzer Analyzer
	saver    Saver
	renderer Renderer
	activity ActivityNotifier

	interrupts map[string]interruptFunc
	inflight   sync.WaitGroup
}

// Option customizes a Machine
type Option func(*Machine)

// WithActivityNotifier shows a progress indicator while an analysis runs
func WithActivityNotifier(n ActivityNotifier) Option {
	return func(m *Machine) {
		m.activity = n
	}
}

// WithStore replaces the conversation store
func WithStore(s *Store) Option {
	return func(m *Machine) {
		m.store = s
	}
}

// NewMachine validates the step table and creates a machine
func NewMachine(cfg Config, emitter Emitter, analyzer Analyzer, saver Saver, renderer Renderer, opts ...Option) (*Machine, error) {
	if err := validateSteps(cfg.Steps); err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	m := &Machine{
		cfg:      cfg,
		emitter:  emitter,
		analyzer: analyzer,
		saver:    saver,
		renderer: renderer,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.store == nil {
		m.store = NewStore(cfg.SessionTTL)
	}

	m.interrupts = map[string]interruptFunc{
		CommandStart:  m.Start,
		CommandHelp:   m.help,
		CommandCancel: m.cancel,
	}

	return m, nil
}

// Start discards any conversation of the session and asks the first question
func (m *Machine) Start(ctx context.Context, s Session) error {
	ctx = m.withSession(ctx, s, "wizard_start")

	conv := newConversation(s)
	conv.mu.Lock()
	defer conv.mu.Unlock()
	m.store.Put(conv)

	ctxzap.Extract(ctx).Info("conversation started")

	if err := m.emit(ctx, s, Reply{Text: MsgWelcome, ImageURL: m.cfg.WelcomeImageURL}); err != nil {
		return err
	}
	return m.ask(ctx, s, conv)
}

// Handle is the transport entry point for every text the user sends.
// Without a conversation the user is pointed at /start.
func (m *Machine) Handle(ctx context.Context, s Session, text string) error {
	err := m.Submit(ctx, s, text)
	if errors.Is(err, entity.ErrNoConversation) {
		return m.emit(m.withSession(ctx, s, "wizard_handle"), s, Reply{Text: MsgNoSession, RemoveKeyboard: true})
	}
	return err
}

// Submit records text as the answer to the pending question and moves on.
// Interrupt commands take priority over any state.
func (m *Machine) Submit(ctx context.Context, s Session, text string) error {
	if interrupt, ok := m.interrupts[text]; ok {
		return interrupt(ctx, s)
	}

	conv, ok := m.store.Get(s.ID)
	if !ok {
		return entity.ErrNoConversation
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	ctx = m.withSession(ctx, s, "wizard_submit")
	ctx = logger.AddFields(ctx, zap.Stringer("phase", conv.phase))

	switch conv.phase {
	case PhaseHelp:
		return m.handleHelp(ctx, s, conv, text)
	case PhaseAnalyzing:
		return m.emit(ctx, s, Reply{Text: MsgStillBusy})
	}

	step := m.cfg.Steps[conv.step]
	conv.answers.Set(step.Name, text)
	ctxzap.Extract(ctx).Debug("answer recorded", zap.String("step", step.Name))

	if step.Next == Terminal {
		return m.beginCompletion(ctx, s, conv)
	}

	conv.step = step.Next
	return m.ask(ctx, s, conv)
}

// Answers returns a copy of the answers collected so far
func (m *Machine) Answers(sessionID string) (*entity.AnswerMap, bool) {
	conv, ok := m.store.Get(sessionID)
	if !ok {
		return nil, false
	}
	conv.mu.Lock()
	defer conv.mu.Unlock()
	return conv.answers.Clone(), true
}

// Phase reports the phase of a session's conversation
func (m *Machine) Phase(sessionID string) (Phase, bool) {
	conv, ok := m.store.Get(sessionID)
	if !ok {
		return 0, false
	}
	conv.mu.Lock()
	defer conv.mu.Unlock()
	return conv.phase, true
}

// Wait blocks until every running completion sequence has finished
func (m *Machine) Wait() {
	m.inflight.Wait()
}

func (m *Machine) cancel(ctx context.Context, s Session) error {
	ctx = m.withSession(ctx, s, "wizard_cancel")

	m.store.Delete(s.ID)
	ctxzap.Extract(ctx).Info("conversation cancelled")

	return m.emit(ctx, s, Reply{Text: MsgCancelled, RemoveKeyboard: true})
}

func (m *Machine) help(ctx context.Context, s Session) error {
	ctx = m.withSession(ctx, s, "wizard_help")

	conv, ok := m.store.Get(s.ID)
	if !ok {
		conv = newConversation(s)
		conv.collecting = false
		conv.phase = PhaseHelp
		m.store.Put(conv)
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	// the running analysis owns the conversation until it ends, so the
	// menu is not offered
	if conv.phase == PhaseAnalyzing {
		return m.emit(ctx, s, Reply{Text: m.cfg.Help.Text + "\n\n" + MsgHelpBusy})
	}
	conv.phase = PhaseHelp

	return m.emit(ctx, s, Reply{Text: m.cfg.Help.Text, Options: m.cfg.Help.options()})
}

func (m *Machine) handleHelp(ctx context.Context, s Session, conv *Conversation, text string) error {
	item, ok := m.cfg.Help.lookup(text)
	if !ok {
		return m.emit(ctx, s, Reply{Text: MsgHelpRetry, Options: m.cfg.Help.options()})
	}

	switch item.Action {
	case HelpRestart:
		// Start takes the lock of the new conversation only
		return m.Start(ctx, s)
	case HelpResume:
		if !conv.collecting {
			return m.Start(ctx, s)
		}
		conv.phase = PhaseCollecting
		return m.ask(ctx, s, conv)
	default:
		return m.emit(ctx, s, Reply{
			Text:    MsgLink,
			Actions: [][]Action{{{Label: "✨ 바로가기 ✨", URL: item.URL}}},
		})
	}
}

// ask emits the pending question of conv
func (m *Machine) ask(ctx context.Context, s Session, conv *Conversation) error {
	step := m.cfg.Steps[conv.step]
	return m.emit(ctx, s, Reply{
		Text:           step.Prompt,
		Options:        step.Options,
		RemoveKeyboard: len(step.Options) == 0,
	})
}

func (m *Machine) beginCompletion(ctx context.Context, s Session, conv *Conversation) error {
	conv.phase = PhaseAnalyzing
	answers := conv.answers.Clone()

	if err := m.emit(ctx, s, Reply{Text: MsgAnalysisStart, RemoveKeyboard: true}); err != nil {
		ctxzap.Extract(ctx).Warn("failed to acknowledge analysis start", zap.Error(err))
	}

	m.inflight.Add(1)
	go m.complete(context.WithoutCancel(ctx), s, conv, answers)

	return nil
}

// complete runs the analysis off the interactive path. The conversation
// always ends, whatever the outcome.
func (m *Machine) complete(ctx context.Context, s Session, conv *Conversation, answers *entity.AnswerMap) {
	ctx = logger.WithAction(ctx, "wizard_complete")
	log := ctxzap.Extract(ctx)
	started := time.Now()

	defer m.inflight.Done()
	defer m.store.CompareAndDelete(conv)
	defer func() {
		if r := recover(); r != nil {
			log.Error("analysis panicked", zap.Any("panic", r), zap.Stack("stack"))
			m.emitQuiet(ctx, s, Reply{Text: MsgSystemFailure})
		}
	}()

	if m.activity != nil {
		stop := m.activity.StartActivity(ctx, s)
		defer stop()
	}

	rec, err := m.analyzer.Analyze(ctx, answers)
	if err != nil || rec == nil {
		log.Error("analysis failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		m.emitQuiet(ctx, s, Reply{Text: MsgAnalysisFailed})
		return
	}

	id, err := m.saver.Save(ctx, s.UserID, answers, rec)
	if err != nil {
		log.Error("failed to save analysis", zap.Error(err))
		m.emitQuiet(ctx, s, Reply{Text: MsgAnalysisFailed})
		return
	}

	log.Info("analysis completed",
		zap.String("analysis_id", id),
		zap.Duration("elapsed", time.Since(started)),
	)

	if err := m.emit(ctx, s, Reply{Text: m.renderer.Render(rec)}); err != nil {
		log.Error("failed to deliver analysis", zap.Error(err))
		m.emitQuiet(ctx, s, Reply{Text: MsgSystemFailure})
		return
	}

	m.emitQuiet(ctx, s, Reply{Text: MsgCompleted, Actions: m.followUp(id)})
}

func (m *Machine) followUp(analysisID string) [][]Action {
	links := m.cfg.Links
	rows := [][]Action{
		{{Label: "외부 링크 연결", URL: links.Site}},
		{{Label: "공유하기", URL: links.Share}, {Label: "관리자 문의", URL: links.Admin}},
	}

	if len(m.cfg.Exports) > 0 && analysisID != "" {
		row := make([]Action, 0, len(m.cfg.Exports))
		for _, f := range m.cfg.Exports {
			row = append(row, Action{
				Label: fmt.Sprintf("%s %s", MsgDownloadAsk, formatLabel(f)),
				Data:  ExportCallbackData(f, analysisID),
			})
		}
		rows = append(rows, row)
	}

	return rows
}

func formatLabel(f entity.ResultFormat) string {
	switch f {
	case entity.FormatPDF:
		return "(PDF)"
	case entity.FormatDOCX:
		return "(Word)"
	default:
		return "(Markdown)"
	}
}

func (m *Machine) emit(ctx context.Context, s Session, r Reply) error {
	if err := m.emitter.Emit(ctx, s, r); err != nil {
		return fmt.Errorf("emit reply: %w", err)
	}
	return nil
}

// emitQuiet logs delivery failures instead of returning them
func (m *Machine) emitQuiet(ctx context.Context, s Session, r Reply) {
	if err := m.emitter.Emit(ctx, s, r); err != nil {
		ctxzap.Extract(ctx).Warn("failed to emit reply", zap.Error(err))
	}
}

func (m *Machine) withSession(ctx context.Context, s Session, action string) context.Context {
	ctx = logger.WithAction(ctx, action)
	return logger.AddFields(ctx,
		zap.String("session_id", s.ID),
		zap.String("user_id", s.UserID),
	)
}
