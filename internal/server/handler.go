// internal/server/handler.go
//
// Package server
// ─────────────────────────────────────────────
// 提供 HTTP 介面，作為 bank 宿主層的示範驅動程式。
// 每個 handler 僅負責：
//  1. 接收與驗證 HTTP 請求
//  2. 呼叫 bank 層執行操作
//  3. 回傳標準化 JSON 回應，記錄日誌與指標
//
// 帳本核心不寫日誌；所有結構化日誌都在這一層產生。
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"banking/internal/account"
	"banking/internal/bank"
)

// Server 為 HTTP 層核心結構：
// - Bank：注入宿主層。
// - log：結構化日誌；未指定時為 zap.NewNop()。
// - limiter：全域 token bucket；nil 表示不限流。
type Server struct {
	Bank    *bank.Bank
	log     *zap.Logger
	metrics *metrics
	limiter *rate.Limiter
}

// Option 設定 Server 的可選元件。
type Option func(*Server)

// WithLogger 指定 logger。
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRateLimit 以每秒 rps 個請求、突發 burst 限流；rps <= 0 時不限流。
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// NewServer 建立新的 HTTP 伺服器。
func NewServer(b *bank.Bank, opts ...Option) *Server {
	s := &Server{Bank: b, log: zap.NewNop(), metrics: newMetrics()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type amountRequest struct {
	Amount account.Amount `json:"amount"`
}

// createAccount 處理 POST /accounts。
func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string         `json:"name"`
		Balance account.Amount `json:"balance"`
	}
	if !s.decode(w, r, "open", &req) {
		return
	}
	v, err := s.Bank.Create(req.Name, req.Balance)
	s.metrics.observe("open", err)
	if err != nil {
		s.fail(w, r, "open", err, zap.Stringer("amount", req.Balance))
		return
	}
	s.log.Info("account opened",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Stringer("account_id", v.ID),
		zap.String("name", v.Name),
		zap.Stringer("balance", v.Balance))
	writeJSON(w, http.StatusCreated, v)
}

// listAccounts 處理 GET /accounts。
func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Bank.List())
}

// getAccount 處理 GET /accounts/{id}。
func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := s.accountID(w, r)
	if !ok {
		return
	}
	v, err := s.Bank.Get(id)
	if err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// deposit 處理 POST /accounts/{id}/deposit。
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "deposit", s.Bank.Deposit)
}

// withdraw 處理 POST /accounts/{id}/withdraw。
func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "withdraw", s.Bank.Withdraw)
}

// mutate 為存款與提款共用的流程。
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op string,
	fn func(uuid.UUID, account.Amount) (*bank.View, error)) {
	id, ok := s.accountID(w, r)
	if !ok {
		return
	}
	var req amountRequest
	if !s.decode(w, r, op, &req) {
		return
	}
	v, err := fn(id, req.Amount)
	s.metrics.observe(op, err)
	if err != nil {
		s.fail(w, r, op, err, zap.Stringer("account_id", id), zap.Stringer("amount", req.Amount))
		return
	}
	s.log.Info(op,
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Stringer("account_id", id),
		zap.Stringer("amount", req.Amount),
		zap.Stringer("balance", v.Balance))
	writeJSON(w, http.StatusOK, v)
}

// logs 處理 GET /accounts/{id}/logs。
func (s *Server) logs(w http.ResponseWriter, r *http.Request) {
	id, ok := s.accountID(w, r)
	if !ok {
		return
	}
	recs, err := s.Bank.Logs(id)
	if err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// transfer 處理 POST /transfer {from, to, amount}，成功後回傳雙方最新狀態。
func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From   uuid.UUID      `json:"from"`
		To     uuid.UUID      `json:"to"`
		Amount account.Amount `json:"amount"`
	}
	if !s.decode(w, r, "transfer", &req) {
		return
	}
	fields := []zap.Field{
		zap.Stringer("from", req.From),
		zap.Stringer("to", req.To),
		zap.Stringer("amount", req.Amount),
	}
	err := s.Bank.Transfer(req.From, req.To, req.Amount)
	s.metrics.observe("transfer", err)
	if err != nil {
		s.fail(w, r, "transfer", err, fields...)
		return
	}

	fromAcc, _ := s.Bank.Get(req.From)
	toAcc, _ := s.Bank.Get(req.To)
	s.log.Info("transfer", append(fields, zap.String("request_id", middleware.GetReqID(r.Context())))...)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "transfer success",
		"from":    fromAcc,
		"to":      toAcc,
	})
}

// health 提供健康檢查端點：GET /health。
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// accountID 解析路徑中的帳戶 ID；格式錯誤視同帳戶不存在。
func (s *Server) accountID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, bank.ErrNotFound, http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// decode 解析 JSON 請求內容；失敗時已寫出 400。
func (s *Server) decode(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.metrics.observe(op, err)
		s.log.Warn("bad request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("operation", op),
			zap.Error(err))
		writeErr(w, err, http.StatusBadRequest)
		return false
	}
	return true
}

// fail 依錯誤分類寫出回應並記錄日誌：
// 餘額不足與呼叫端錯誤為 Warn，核心契約被破壞為 Error。
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error, fields ...zap.Field) {
	code := statusFor(err)
	level := zapcore.WarnLevel
	if code >= http.StatusInternalServerError {
		level = zapcore.ErrorLevel
	}
	fields = append(fields,
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("operation", op),
		zap.String("outcome", outcome(err)),
		zap.Int("status", code),
		zap.Error(err))
	if ce := s.log.Check(level, op+" failed"); ce != nil {
		ce.Write(fields...)
	}
	writeErr(w, err, code)
}
