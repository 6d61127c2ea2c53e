package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/starlenz/patent-assistant/internal/config"
	"github.com/starlenz/patent-assistant/internal/entity"
	"github.com/starlenz/patent-assistant/internal/pkg/retry"
	"github.com/starlenz/patent-assistant/internal/telegram/keyboard"
	"github.com/starlenz/patent-assistant/internal/telegram/render"
	"github.com/starlenz/patent-assistant/internal/telegram/sender"
	"github.com/starlenz/patent-assistant/internal/usecase/analysis"
	"github.com/starlenz/patent-assistant/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)
}

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	updates  chan tgbotapi.Update
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 100)}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {}

func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeAPI) documents() []tgbotapi.DocumentConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.DocumentConfig
	for _, c := range f.sent {
		if d, ok := c.(tgbotapi.DocumentConfig); ok {
			out = append(out, d)
		}
	}
	return out
}

func (f *fakeAPI) callbackTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb.Text)
		}
	}
	return out
}

type handled struct {
	session wizard.Session
	text    string
}

type fakeWizard struct {
	mu    sync.Mutex
	calls []handled
	err   error
}

func (w *fakeWizard) Handle(_ context.Context, s wizard.Session, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, handled{s, text})
	return w.err
}

func (w *fakeWizard) Wait() {}

func (w *fakeWizard) texts() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.calls))
	for _, c := range w.calls {
		out = append(out, c.text)
	}
	return out
}

type fakeExporter struct {
	exp *analysis.Export
	err error

	gotID     string
	gotFormat entity.ResultFormat
}

func (e *fakeExporter) Export(_ context.Context, id string, format entity.ResultFormat) (*analysis.Export, error) {
	e.gotID = id
	e.gotFormat = format
	return e.exp, e.err
}

func newTestBot(api *fakeAPI, w Wizard, exp Exporter) *Bot {
	cfg := &config.TelegramConfig{
		UpdateTimeout:      1,
		MaxConcurrentUsers: 4,
		RateLimitPerMinute: 600,
		RateLimitBurst:     100,
		ShutdownTimeout:    5,
	}
	rc := retry.RetryConfig{Attempts: 1, Delay: time.Millisecond, MaxDelay: time.Millisecond}
	s := sender.NewMessageSender(api, keyboard.NewBuilder(), rc)
	return New(api, cfg, w, exp, s, zap.NewNop())
}

func textMessage(chatID, userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{ID: userID},
		Text: text,
	}
}

func commandMessage(chatID, userID int64, text string) *tgbotapi.Message {
	m := textMessage(chatID, userID, text)
	m.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	return m
}

func callback(chatID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: 1},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}
}

func TestTextReachesWizardWithSession(t *testing.T) {
	api := newFakeAPI()
	w := &fakeWizard{}
	b := newTestBot(api, w, &fakeExporter{})

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: textMessage(10, 1, "스마트 화분")})

	require.Len(t, w.calls, 1)
	assert.Equal(t, wizard.Session{ID: "10", UserID: "1"}, w.calls[0].session)
	assert.Equal(t, "스마트 화분", w.calls[0].text)
}

func TestCommandIsNormalized(t *testing.T) {
	api := newFakeAPI()
	w := &fakeWizard{}
	b := newTestBot(api, w, &fakeExporter{})

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(10, 1, "/start@patent_bot")})
	b.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(10, 1, "/help")})

	assert.Equal(t, []string{"/start", "/help"}, w.texts())
}

func TestNonTextMessageAsksForText(t *testing.T) {
	api := newFakeAPI()
	w := &fakeWizard{}
	b := newTestBot(api, w, &fakeExporter{})

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: textMessage(10, 1, "")})

	assert.Empty(t, w.calls)
	assert.Equal(t, []string{render.MsgTextOnly}, api.texts())
}

func TestWizardErrorIsReported(t *testing.T) {
	api := newFakeAPI()
	w := &fakeWizard{err: errors.New("boom")}
	b := newTestBot(api, w, &fakeExporter{})

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: textMessage(10, 1, "x")})

	assert.Equal(t, []string{render.ErrGeneric}, api.texts())
}

func TestExportCallbackSendsDocument(t *testing.T) {
	api := newFakeAPI()
	exp := &fakeExporter{exp: &analysis.Export{Filename: "draft.md", ContentType: "text/markdown", Data: []byte("# a\n")}}
	b := newTestBot(api, &fakeWizard{}, exp)

	b.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: callback(10, wizard.ExportCallbackData(entity.FormatMarkdown, "id-1"))})

	assert.Equal(t, "id-1", exp.gotID)
	assert.Equal(t, entity.FormatMarkdown, exp.gotFormat)
	assert.Equal(t, []string{render.MsgPreparingFile}, api.callbackTexts())

	docs := api.documents()
	require.Len(t, docs, 1)
	assert.Equal(t, int64(10), docs[0].ChatID)
	assert.Equal(t, "draft.md", docs[0].File.(tgbotapi.FileBytes).Name)
}

func TestExportCallbackFailure(t *testing.T) {
	api := newFakeAPI()
	b := newTestBot(api, &fakeWizard{}, &fakeExporter{err: entity.ErrStorageUnavailable})

	b.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: callback(10, "dl:pdf:id-1")})

	assert.Empty(t, api.documents())
	assert.Equal(t, []string{render.ErrStorageUnavailable}, api.texts())
}

func TestInvalidCallbacks(t *testing.T) {
	for _, data := range []string{"garbage", "other:x", "dl:txt:id"} {
		t.Run(data, func(t *testing.T) {
			api := newFakeAPI()
			exp := &fakeExporter{}
			b := newTestBot(api, &fakeWizard{}, exp)

			b.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: callback(10, data)})

			assert.Empty(t, exp.gotID)
			assert.Len(t, api.callbackTexts(), 1)
		})
	}
}

func TestUpdatesOfOneChatKeepOrder(t *testing.T) {
	api := newFakeAPI()
	w := &fakeWizard{}
	b := newTestBot(api, w, &fakeExporter{})

	require.NoError(t, b.Start(context.Background()))

	want := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		text := string(rune('a' + i))
		want = append(want, text)
		api.updates <- tgbotapi.Update{UpdateID: i, Message: textMessage(10, 1, text)}
	}

	assert.Eventually(t, func() bool { return len(w.texts()) == 20 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, b.Stop())
	assert.Equal(t, want, w.texts())
}

func TestStopIsIdempotent(t *testing.T) {
	b := newTestBot(newFakeAPI(), &fakeWizard{}, &fakeExporter{})
	require.NoError(t, b.Start(context.Background()))
	require.NoError(t, b.Stop())
	require.NoError(t, b.Stop())
}
