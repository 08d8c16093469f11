// internal/server/router.go
//
// 本檔負責 HTTP 路由註冊與中介層。
//   - handler.go 定義「如何處理請求」
//   - router.go 定義「請求如何被導向」
//   - cmd/server 組裝整體應用（注入 Bank、Logger、設定）
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router 建立並回傳整個 HTTP 處理鏈。
// 所有端點同時掛在 /api/v1 與根路徑下。
func (s *Server) Router() http.Handler {
	v1 := chi.NewRouter()

	// 健康檢查與指標
	v1.Get("/health", s.health)
	v1.Method(http.MethodGet, "/metrics", s.metrics.handler())

	// 帳戶操作：
	//   - GET  /accounts
	//   - POST /accounts
	//   - GET  /accounts/{id}
	//   - POST /accounts/{id}/deposit
	//   - POST /accounts/{id}/withdraw
	//   - GET  /accounts/{id}/logs
	v1.Route("/accounts", func(r chi.Router) {
		r.Get("/", s.listAccounts)
		r.Post("/", s.createAccount)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getAccount)
			r.Post("/deposit", s.deposit)
			r.Post("/withdraw", s.withdraw)
			r.Get("/logs", s.logs)
		})
	})

	// 轉帳操作：POST /transfer
	v1.Post("/transfer", s.transfer)

	root := chi.NewRouter()
	root.Use(middleware.RequestID)
	root.Use(middleware.Recoverer)
	root.Use(s.metrics.countRequests)
	root.Use(s.rateLimit)
	root.Mount("/api/v1", v1)
	root.Mount("/", v1)
	return root
}

// rateLimit 在超過全域速率時回傳 429；未設定限流時直接放行。
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
