package unotify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Belfagor2005/UniLogger/pkg/observability/ulog"

	retry "github.com/avast/retry-go/v5"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sony/gobreaker/v2"
)

// 默认投递策略
const (
	// DefaultRetryAttempts 默认总尝试次数（含首次）
	DefaultRetryAttempts = 3

	// DefaultRetryDelay 默认重试间隔
	DefaultRetryDelay = 100 * time.Millisecond

	// DefaultBreakerMaxFailures 默认熔断阈值（连续失败次数）
	DefaultBreakerMaxFailures = 5

	// DefaultBreakerCooldown 默认熔断冷却时间
	DefaultBreakerCooldown = 30 * time.Second

	// maxRetryAttempts 重试次数上限
	maxRetryAttempts = 10
)

// Session 会话标识，由 Register 分配
type Session string

// Sink 宿主消息接收端
//
// Display 把消息呈现给宿主会话（弹窗、状态栏等）。
// 实现必须容忍并发调用。
type Sink interface {
	Display(ctx context.Context, text string) error
}

// SinkFunc 函数式 Sink 适配器
type SinkFunc func(ctx context.Context, text string) error

// Display 实现 Sink 接口
func (f SinkFunc) Display(ctx context.Context, text string) error {
	return f(ctx, text)
}

// entry 单个会话的投递状态
type entry struct {
	sink    Sink
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// config Notifier 配置
type config struct {
	// RetryAttempts 总尝试次数（含首次），默认 DefaultRetryAttempts
	RetryAttempts uint

	// RetryDelay 固定重试间隔，默认 DefaultRetryDelay
	RetryDelay time.Duration

	// BreakerMaxFailures 连续失败多少次触发熔断
	BreakerMaxFailures uint32

	// BreakerCooldown 熔断后的冷却时间
	BreakerCooldown time.Duration

	// BreakerDisabled 关闭熔断保护
	BreakerDisabled bool

	// DedupSize 重复抑制缓存容量，0 表示关闭重复抑制
	DedupSize int

	// DedupWindow 重复抑制时间窗口
	DedupWindow time.Duration
}

// Option Notifier 配置选项函数
type Option func(*config)

// WithRetry 设置投递重试策略。attempts 为总尝试次数（含首次）。
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *config) {
		c.RetryAttempts = attempts
		c.RetryDelay = delay
	}
}

// WithBreaker 设置熔断策略：连续失败 maxFailures 次后熔断，
// 冷却 cooldown 后进入半开状态试探。
func WithBreaker(maxFailures uint32, cooldown time.Duration) Option {
	return func(c *config) {
		c.BreakerMaxFailures = maxFailures
		c.BreakerCooldown = cooldown
		c.BreakerDisabled = false
	}
}

// WithoutBreaker 关闭熔断保护，每次投递都直达接收端
func WithoutBreaker() Option {
	return func(c *config) {
		c.BreakerDisabled = true
	}
}

// WithDedup 开启重复抑制：window 时间窗口内同会话同内容的消息
// 只投递第一条。size 限制记忆的消息数量，LRU 淘汰。
func WithDedup(size int, window time.Duration) Option {
	return func(c *config) {
		c.DedupSize = size
		c.DedupWindow = window
	}
}

// Notifier 带重试、熔断与重复抑制的消息投递器
type Notifier struct {
	cfg config

	mu       sync.RWMutex
	sessions map[Session]*entry

	dedup *lru.Cache[string, time.Time]
	now   func() time.Time
}

// 编译期接口检查：Notifier 可直接作为日志器的投递器
var _ ulog.Notifier = (*Notifier)(nil)

// New 创建消息投递器
func New(opts ...Option) (*Notifier, error) {
	cfg := config{
		RetryAttempts:      DefaultRetryAttempts,
		RetryDelay:         DefaultRetryDelay,
		BreakerMaxFailures: DefaultBreakerMaxFailures,
		BreakerCooldown:    DefaultBreakerCooldown,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.RetryAttempts == 0 || cfg.RetryAttempts > maxRetryAttempts {
		return nil, fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidAttempts, cfg.RetryAttempts, maxRetryAttempts)
	}
	if cfg.DedupSize < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDedupSize, cfg.DedupSize)
	}

	n := &Notifier{
		cfg:      cfg,
		sessions: make(map[Session]*entry),
		now:      time.Now,
	}
	if cfg.DedupSize > 0 {
		cache, err := lru.New[string, time.Time](cfg.DedupSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDedupSize, err)
		}
		n.dedup = cache
	}
	return n, nil
}

// Register 注册接收端并分配会话标识
func (n *Notifier) Register(sink Sink) (Session, error) {
	session := Session(uuid.NewString())
	if err := n.RegisterAs(session, sink); err != nil {
		return "", err
	}
	return session, nil
}

// RegisterAs 以指定的会话标识注册接收端。
// 标识已被占用时返回 [ErrSessionExists]。
func (n *Notifier) RegisterAs(session Session, sink Sink) error {
	if session == "" {
		return ErrEmptySession
	}
	if sink == nil {
		return ErrNilSink
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.sessions[session]; exists {
		return fmt.Errorf("%w: %s", ErrSessionExists, session)
	}
	n.sessions[session] = &entry{
		sink:    sink,
		breaker: n.buildBreaker(session),
	}
	return nil
}

// Unregister 注销会话。未注册的标识为空操作。
func (n *Notifier) Unregister(session Session) {
	n.mu.Lock()
	delete(n.sessions, session)
	n.mu.Unlock()
}

// Sessions 返回当前注册的会话标识
func (n *Notifier) Sessions() []Session {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]Session, 0, len(n.sessions))
	for s := range n.sessions {
		out = append(out, s)
	}
	return out
}

// Notify 向指定会话投递消息
//
// 投递经过重试与熔断；开启重复抑制时，时间窗口内的重复消息
// 直接返回 nil。未注册的会话返回 [ErrUnknownSession]。
func (n *Notifier) Notify(ctx context.Context, session, text string) error {
	n.mu.RLock()
	e, ok := n.sessions[Session(session)]
	n.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, session)
	}

	dedupKey := session + "\x00" + text
	if n.suppressed(dedupKey) {
		return nil
	}

	if err := n.deliver(ctx, e, text); err != nil {
		return err
	}

	if n.dedup != nil {
		n.dedup.Add(dedupKey, n.now())
	}
	return nil
}

// deliver 执行带重试与熔断的单次投递
func (n *Notifier) deliver(ctx context.Context, e *entry, text string) error {
	attempt := func() error {
		return retry.New(
			retry.Context(ctx),
			retry.Attempts(n.cfg.RetryAttempts),
			retry.Delay(n.cfg.RetryDelay),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
		).Do(func() error {
			return e.sink.Display(ctx, text)
		})
	}

	if e.breaker == nil {
		return attempt()
	}
	_, err := e.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, attempt()
	})
	return err
}

// suppressed 判断消息是否命中重复抑制窗口
func (n *Notifier) suppressed(key string) bool {
	if n.dedup == nil {
		return false
	}
	last, ok := n.dedup.Get(key)
	return ok && n.now().Sub(last) < n.cfg.DedupWindow
}

// buildBreaker 为会话构建熔断器，熔断关闭时返回 nil
func (n *Notifier) buildBreaker(session Session) *gobreaker.CircuitBreaker[struct{}] {
	if n.cfg.BreakerDisabled {
		return nil
	}
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "unotify-" + string(session),
		MaxRequests: 1,
		Timeout:     n.cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= n.cfg.BreakerMaxFailures
		},
	})
}
