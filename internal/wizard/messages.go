package wizard

import "errors"

var (
	errNoSteps       = errors.New("wizard: no steps")
	errBrokenChain   = errors.New("wizard: steps do not form a single chain from the first step")
	errDuplicateStep = errors.New("wizard: step names must be unique and non-empty")
)

// Interrupt commands recognized from any state
const (
	CommandStart  = "/start"
	CommandHelp   = "/help"
	CommandCancel = "/cancel"
)

const (
	MsgWelcome = `📝 특허 기술명세서 작성 도우미

📍 이런 분들에게 추천합니다:
🔹 신규 특허 출원을 준비 중이신 분
🔹 기술 아이디어를 체계화하고 싶으신 분
🔹 특허 명세서 초안 작성이 필요하신 분

📍 진행 방법:
1️⃣ 기술 개요 설명 (자유 입력)
2️⃣ 10개 핵심 항목 작성 (버튼/텍스트 입력)
3️⃣ AI 기반 명세서 초안 생성

📍 명령어:
🔹 /start : 새로운 명세서 작성
🔹 /cancel : 작성 취소
🔹 /help : 도움말

📍 소요시간: 5-7분`

	MsgAnalysisStart = `⚙️ 입력된 기술 정보를 분석중입니다...

🤖 AI가 특허 명세서 초안을 작성합니다.

📝 기술적 특징과 청구범위를 체계화하는 중...

⏱️ 잠시만 기다려주세요.`

	MsgAnalysisFailed = "⚠️ 분석 중 오류가 발생했습니다. 다시 시도해주세요."
	MsgSystemFailure  = "⚠️ 시스템 오류가 발생했습니다. 다시 시도해주세요."
	MsgCompleted      = "분석이 완료되었습니다!"

	MsgCancelled = "🛑 분석이 취소되었습니다. 새로 시작하려면 /start 를 입력하세요."

	MsgHelp = `가이드:

/start | 새로운 분석 시작
/help | 도움말

@starlenz_inc | 관리자 연결`

	MsgHelpRetry   = "메뉴를 선택해주세요. /help"
	MsgLink        = "✨✨연결 메세지✨✨"
	MsgStillBusy   = "⏳ 아직 분석 중입니다. 결과가 나올 때까지 잠시만 기다려주세요."
	MsgHelpBusy    = "⏳ 분석이 끝나면 메뉴를 사용할 수 있습니다."
	MsgNoSession   = "진행 중인 작성이 없습니다. 새로 시작하려면 /start 를 입력하세요."
	MsgDownloadAsk = "📎 초안 파일 받기"
)

// Links are the external destinations offered after an analysis
type Links struct {
	Site  string
	Share string
	Admin string
}

// DefaultLinks returns the production destinations
func DefaultLinks() Links {
	return Links{
		Site:  "http://starlenz.notion.site",
		Share: "https://t.me/share/url?url=https://t.me/starlenz_bot&text=✨아이디어 분석 도우미✨",
		Admin: "tg://resolve?domain=starlenz_inc",
	}
}

// HelpAction is what selecting a help menu item does
type HelpAction int

const (
	// HelpLink emits the item's URL as a link button and stays in help
	HelpLink HelpAction = iota
	// HelpRestart starts a new collection
	HelpRestart
	// HelpResume returns to the pending question
	HelpResume
)

type HelpItem struct {
	Label  string
	Action HelpAction
	URL    string
}

// HelpMenu is the fixed help sub-chain menu
type HelpMenu struct {
	Text  string
	Items []HelpItem
}

// DefaultHelpMenu returns the help menu pointing at links
func DefaultHelpMenu(links Links) HelpMenu {
	return HelpMenu{
		Text: MsgHelp,
		Items: []HelpItem{
			{Label: "✨ 새로운 분석 시작", Action: HelpRestart},
			{Label: "↩️ 이어서 작성", Action: HelpResume},
			{Label: "📚 작성 가이드", Action: HelpLink, URL: links.Site},
			{Label: "🤝 관리자 연결", Action: HelpLink, URL: links.Admin},
		},
	}
}

func (h HelpMenu) options() [][]string {
	rows := make([][]string, 0, len(h.Items))
	for _, item := range h.Items {
		rows = append(rows, []string{item.Label})
	}
	return rows
}

func (h HelpMenu) lookup(text string) (HelpItem, bool) {
	for _, item := range h.Items {
		if item.Label == text {
			return item, true
		}
	}
	return HelpItem{}, false
}
