package middleware

import (
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"github.com/starlenz/patent-assistant/internal/telegram/render"
	"go.uber.org/zap"
)

const (
	inactiveUserTTL   = time.Hour
	limitsCleanupTick = 10 * time.Minute
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	mu            sync.Mutex
	tokens        float64
	lastRefill    time.Time
	warningsSent  int
	lastWarningAt time.Time
}

// RateLimiterMiddleware implements token bucket rate limiting per user.
// Users idle for an hour are forgotten.
type RateLimiterMiddleware struct {
	limits          *cache.Cache
	mu              sync.Mutex
	maxTokens       float64 // Maximum tokens in bucket
	refillRate      float64 // Tokens added per second
	warningInterval time.Duration
	now             func() time.Time
	logger          *zap.Logger
	bot             Notifier
}

// NewRateLimiterMiddleware creates a new rate limiter middleware.
// burstSize caps the bucket; a full minute of requests never queues up.
func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	bot Notifier,
) *RateLimiterMiddleware {
	maxTokens := float64(burstSize)
	if maxTokens <= 0 || maxTokens > float64(requestsPerMinute) {
		maxTokens = float64(requestsPerMinute)
	}

	return &RateLimiterMiddleware{
		limits:          cache.New(inactiveUserTTL, limitsCleanupTick),
		maxTokens:       maxTokens,
		refillRate:      float64(requestsPerMinute) / 60.0,
		warningInterval: 30 * time.Second,
		now:             time.Now,
		logger:          logger,
		bot:             bot,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID, ok := updateIDs(update)
	if !ok {
		next(update)
		return
	}

	if !rl.allowRequest(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

func (rl *RateLimiterMiddleware) userLimit(userID int64) *userLimit {
	key := strconv.FormatInt(userID, 10)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.limits.Get(key); ok {
		limit := v.(*userLimit)
		rl.limits.SetDefault(key, limit)
		return limit
	}

	limit := &userLimit{
		tokens:     rl.maxTokens,
		lastRefill: rl.now(),
	}
	rl.limits.SetDefault(key, limit)
	return limit
}

// allowRequest checks if request is allowed under rate limit
func (rl *RateLimiterMiddleware) allowRequest(userID, chatID int64) bool {
	limit := rl.userLimit(userID)

	limit.mu.Lock()
	defer limit.mu.Unlock()

	now := rl.now()

	elapsed := now.Sub(limit.lastRefill).Seconds()
	limit.tokens = min(limit.tokens+elapsed*rl.refillRate, rl.maxTokens)
	limit.lastRefill = now

	if limit.tokens >= 1.0 {
		limit.tokens -= 1.0
		limit.warningsSent = 0
		return true
	}

	if now.Sub(limit.lastWarningAt) > rl.warningInterval {
		limit.warningsSent++
		limit.lastWarningAt = now

		rl.sendRateLimitWarning(chatID, limit.warningsSent)
	}

	return false
}

func (rl *RateLimiterMiddleware) sendRateLimitWarning(chatID int64, warningCount int) {
	var text string

	switch {
	case warningCount == 1:
		text = render.MsgRateLimitFirst
	case warningCount == 2:
		text = render.MsgRateLimitSecond
	default:
		text = render.MsgRateLimitFinal
	}

	if _, err := rl.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
