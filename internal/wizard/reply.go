package wizard

import (
	"context"

	"github.com/starlenz/patent-assistant/internal/entity"
)

// Session identifies one conversation with an end user
type Session struct {
	// ID keys the conversation state, e.g. the chat id
	ID string
	// UserID is stored with saved analyses
	UserID string
}

// Action is a follow-up button. It carries either a URL or callback data.
type Action struct {
	Label string
	URL   string
	Data  string
}

// Reply is one message emitted to the user
type Reply struct {
	Text string
	// ImageURL, when set, is sent as a photo with Text as its caption
	ImageURL string
	// Options are selectable answers laid out in rows
	Options [][]string
	// RemoveKeyboard hides previously shown options
	RemoveKeyboard bool
	// Actions are rows of link or callback buttons attached to the message
	Actions [][]Action
}

// Emitter delivers replies to the user
type Emitter interface {
	Emit(ctx context.Context, s Session, r Reply) error
}

// ActivityNotifier shows the user that work is in progress.
// The returned func stops the indicator.
type ActivityNotifier interface {
	StartActivity(ctx context.Context, s Session) (stop func())
}

// Analyzer runs the generation engine over collected answers
type Analyzer interface {
	Analyze(ctx context.Context, answers *entity.AnswerMap) (*entity.ResultRecord, error)
}

// Saver persists a finished analysis and returns its id
type Saver interface {
	Save(ctx context.Context, userID string, answers *entity.AnswerMap, rec *entity.ResultRecord) (string, error)
}

// Renderer turns a result record into display text
type Renderer interface {
	Render(rec *entity.ResultRecord) string
}

// ExportCallback is the callback data prefix of download buttons
const ExportCallback = "dl"

// ExportCallbackData encodes a download request for a saved analysis
func ExportCallbackData(format entity.ResultFormat, analysisID string) string {
	return ExportCallback + ":" + string(format) + ":" + analysisID
}
