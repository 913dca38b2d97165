package web

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	"gymhub/internal/adapters/blob"
	"gymhub/internal/adapters/email"
	"gymhub/internal/adapters/eventlog"
	"gymhub/internal/adapters/http/middleware"
	"gymhub/internal/adapters/http/perf"
	"gymhub/internal/adapters/identity"
	paymentGateway "gymhub/internal/adapters/payment"
	"gymhub/internal/adapters/realtime"
	accountStore "gymhub/internal/adapters/storage/account"
	attendanceStore "gymhub/internal/adapters/storage/attendance"
	badgeStore "gymhub/internal/adapters/storage/badge"
	chatStore "gymhub/internal/adapters/storage/chat"
	dietStore "gymhub/internal/adapters/storage/diet"
	eventlogStore "gymhub/internal/adapters/storage/eventlog"
	memberStore "gymhub/internal/adapters/storage/member"
	notificationStore "gymhub/internal/adapters/storage/notification"
	outboxStore "gymhub/internal/adapters/storage/outbox"
	paymentStore "gymhub/internal/adapters/storage/payment"
	progressStore "gymhub/internal/adapters/storage/progress"
	supplementStore "gymhub/internal/adapters/storage/supplement"
	themeStore "gymhub/internal/adapters/storage/theme"
	trainerStore "gymhub/internal/adapters/storage/trainer"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore      accountStore.Store
	MemberStore       memberStore.Store
	AttendanceStore   attendanceStore.Store
	BadgeStore        badgeStore.Store
	NotificationStore notificationStore.Store
	PaymentStore      paymentStore.Store
	SupplementStore   supplementStore.Store
	DietStore         dietStore.Store
	TrainerStore      trainerStore.Store
	ProgressStore     progressStore.Store
	ChatStore         chatStore.Store
	ThemeStore        themeStore.Store
	OutboxStore       outboxStore.Store
	EventLogStore     eventlogStore.Store
}

// Services holds the external integrations. Nil fields disable the feature.
type Services struct {
	Email    email.Sender
	Payments paymentGateway.Gateway
	Identity identity.Verifier
	Blobs    blob.Store
	Hub      *realtime.Hub // nil creates a private hub
	Events   eventlog.Logger
}

// Options tunes request handling.
type Options struct {
	Location        *time.Location
	BadgePolicy     string
	ResetSecret     []byte
	ResetLinkBase   string
	CSRFKey         []byte // 32 bytes; nil generates a random key
	Secure          bool   // HTTPS-only cookies
	TrustedOrigins  []string
	BulkConcurrency int
	SlowRequestMs   int
	MediaDir        string // served at MediaURL when set
	MediaURL        string
	Thumbnail       func(data []byte) ([]byte, error) // nil encodes product images as webp
	Sessions        *middleware.SessionStore          // nil creates one
	RateLimiter     *middleware.RateLimiter           // nil creates one allowing RateLimitPerSecond
	Collector       *perf.Collector
}

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global state (set by NewMux)
var (
	stores        *Stores
	services      Services
	options       Options
	sessions      *middleware.SessionStore
	perfCollector *perf.Collector
)

// NewMux wires HTTP handlers for the app.
// POST: the returned handler applies security headers, CSRF, sessions, rate limiting and timing
func NewMux(s *Stores, svc Services, opts Options) http.Handler {
	stores = s
	if svc.Hub == nil {
		svc.Hub = realtime.NewHub()
	}
	svc.Events = eventlog.OrNop(svc.Events)
	services = svc
	options = opts
	perfCollector = opts.Collector
	sessions = opts.Sessions
	if sessions == nil {
		sessions = middleware.NewSessionStore()
	}

	mux := http.NewServeMux()
	registerRoutes(mux)
	if opts.MediaDir != "" && opts.MediaURL != "" {
		prefix := opts.MediaURL + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(opts.MediaDir))))
	}

	limiter := opts.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(RateLimitPerSecond, time.Second)
	}

	// Request order: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKeyOrRandom(opts.CSRFKey), opts.Secure, opts.TrustedOrigins),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(opts.Collector, opts.SlowRequestMs),
	)
}

// Sessions returns the session store used by the mux.
func Sessions() *middleware.SessionStore {
	return sessions
}

// csrfKeyOrRandom returns key when it is 32 bytes, otherwise a per-process random key.
func csrfKeyOrRandom(key []byte) []byte {
	if len(key) == 32 {
		return key
	}
	generated := make([]byte, 32)
	if _, err := rand.Read(generated); err != nil {
		panic("failed to generate CSRF key: " + err.Error())
	}
	slog.Warn("csrf_random_key", "reason", "form posts will not survive a restart")
	return generated
}
