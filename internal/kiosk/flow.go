// Package kiosk 实现冷柜二维码购物流程：
// Welcome → Cart → Completed → PurchaseDetails，Cart/Completed → Feedback → Welcome。
// 本快照没有 kiosk 的后端集成：购物车是模拟的 AI 识别结果，
// 会话状态存 KV（带 TTL），服务本身无状态。
package kiosk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"orvio-console/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stage 流程页面
type Stage string

const (
	StageWelcome         Stage = "welcome"
	StageCart            Stage = "cart"
	StageCompleted       Stage = "completed"
	StagePurchaseDetails Stage = "purchase_details"
	StageFeedback        Stage = "feedback"
)

// 两个定时器：会话从进入购物车起 60 秒过期；过期后给 10 秒倒计时，
// 倒计时走完自动按当前购物车完成购买。
const (
	SessionLifetime       = 60 * time.Second
	AutoCompleteCountdown = 10 * time.Second
)

// 购物车在 KV 中的固定键前缀（cart 页与 purchase-details 页间的交接）
const cartKeyPrefix = "orvio:kiosk:cart:"

var (
	ErrSessionNotFound = errors.New("kiosk session not found")
	ErrInvalidStage    = errors.New("invalid kiosk stage transition")
)

// CartItem 购物车条目
type CartItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Session 一次 kiosk 购物会话
type Session struct {
	SessionID string     `json:"session_id"`
	Stage     Stage      `json:"stage"`
	StartedAt time.Time  `json:"started_at"` // 进入购物车的时刻，过期计时起点
	Items     []CartItem `json:"items"`
}

// TotalItems 购物车数量合计
func (s *Session) TotalItems() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// TotalAmount 金额合计
func (s *Session) TotalAmount() float64 {
	total := 0.0
	for _, item := range s.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}

// Expired 会话是否已过 60 秒有效期（只在购物车阶段计时）
func (s *Session) Expired(now time.Time) bool {
	if s.Stage != StageCart {
		return false
	}
	return now.Sub(s.StartedAt) >= SessionLifetime
}

// CountdownRemaining 过期后自动完成倒计时的剩余秒数；未过期返回 -1
func (s *Session) CountdownRemaining(now time.Time) int {
	if !s.Expired(now) {
		return -1
	}
	deadline := s.StartedAt.Add(SessionLifetime + AutoCompleteCountdown)
	remaining := deadline.Sub(now)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds())
}

// mockCatalog 模拟 AI 识别出的取物结果（本快照无真实识别链路）
func mockCatalog() []CartItem {
	return []CartItem{
		{ID: "1", Name: "Sparkling Water", Quantity: 2, UnitPrice: 1.50},
		{ID: "2", Name: "Orange Juice", Quantity: 1, UnitPrice: 2.25},
		{ID: "3", Name: "Greek Yogurt", Quantity: 3, UnitPrice: 1.80},
	}
}

// Flow kiosk 流程管理（每个请求从 KV 取会话，处理完写回）
type Flow struct {
	kv      session.KV
	logger  *zap.Logger
	cartTTL time.Duration
	now     func() time.Time
}

func NewFlow(kv session.KV, cartTTL time.Duration, logger *zap.Logger) *Flow {
	return &Flow{kv: kv, logger: logger, cartTTL: cartTTL, now: time.Now}
}

// newSessionID 形如 SES-xxxxxxxx 的不透明会话号
func newSessionID() string {
	return "SES-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Start Welcome 页：新建会话
func (f *Flow) Start(ctx context.Context) (*Session, error) {
	s := &Session{
		SessionID: newSessionID(),
		Stage:     StageWelcome,
	}
	if err := f.save(ctx, s); err != nil {
		return nil, err
	}
	f.logger.Info("kiosk session started", zap.String("session_id", s.SessionID))
	return s, nil
}

// EnterCart Welcome → Cart：装入模拟购物车，开始过期计时
func (f *Flow) EnterCart(ctx context.Context, sessionID string) (*Session, error) {
	s, err := f.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Stage != StageWelcome {
		return nil, fmt.Errorf("%w: %s -> cart", ErrInvalidStage, s.Stage)
	}
	s.Stage = StageCart
	s.StartedAt = f.now()
	s.Items = mockCatalog()
	if err := f.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// DecreaseItem 购物车内把某条目数量减一，减到 0 移除
func (f *Flow) DecreaseItem(ctx context.Context, sessionID, itemID string) (*Session, error) {
	s, err := f.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Stage != StageCart {
		return nil, fmt.Errorf("%w: decrease in %s", ErrInvalidStage, s.Stage)
	}
	items := s.Items[:0]
	for _, item := range s.Items {
		if item.ID == itemID {
			item.Quantity--
		}
		if item.Quantity > 0 {
			items = append(items, item)
		}
	}
	s.Items = items
	if err := f.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Complete Cart → Completed（用户确认或倒计时走完）
func (f *Flow) Complete(ctx context.Context, sessionID string) (*Session, error) {
	s, err := f.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Stage != StageCart {
		return nil, fmt.Errorf("%w: %s -> completed", ErrInvalidStage, s.Stage)
	}
	s.Stage = StageCompleted
	if err := f.save(ctx, s); err != nil {
		return nil, err
	}
	f.logger.Info("kiosk purchase completed",
		zap.String("session_id", s.SessionID),
		zap.Int("total_items", s.TotalItems()))
	return s, nil
}

// PurchaseDetails Completed → PurchaseDetails（明细页从持久化的购物车读）
func (f *Flow) PurchaseDetails(ctx context.Context, sessionID string) (*Session, error) {
	s, err := f.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Stage != StageCompleted && s.Stage != StagePurchaseDetails {
		return nil, fmt.Errorf("%w: %s -> purchase_details", ErrInvalidStage, s.Stage)
	}
	s.Stage = StagePurchaseDetails
	if err := f.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Feedback Cart/Completed/PurchaseDetails → Feedback
func (f *Flow) Feedback(ctx context.Context, sessionID string) (*Session, error) {
	s, err := f.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	switch s.Stage {
	case StageCart, StageCompleted, StagePurchaseDetails:
	default:
		return nil, fmt.Errorf("%w: %s -> feedback", ErrInvalidStage, s.Stage)
	}
	s.Stage = StageFeedback
	if err := f.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get 读取会话，顺带推进定时器：
// 购物车过期且 10 秒倒计时也走完时，自动完成购买。
func (f *Flow) Get(ctx context.Context, sessionID string) (*Session, error) {
	s, err := f.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := f.now()
	if s.Expired(now) && s.CountdownRemaining(now) == 0 {
		s.Stage = StageCompleted
		if err := f.save(ctx, s); err != nil {
			return nil, err
		}
		f.logger.Info("kiosk session auto-completed after expiry",
			zap.String("session_id", s.SessionID))
	}
	return s, nil
}

func (f *Flow) load(ctx context.Context, sessionID string) (*Session, error) {
	raw, err := f.kv.Get(ctx, cartKeyPrefix+sessionID)
	if err != nil {
		if errors.Is(err, session.ErrMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kiosk session: %w", err)
	}
	return &s, nil
}

func (f *Flow) save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal kiosk session: %w", err)
	}
	return f.kv.Set(ctx, cartKeyPrefix+s.SessionID, string(raw), f.cartTTL)
}
