// internal/server/response.go
//
// 本檔負責統一 HTTP 回應格式與錯誤對應。
//   - 成功回應使用 JSON（Content-Type: application/json）。
//   - 錯誤回應統一為 {"error": "..."}；餘額不足另外帶出 attempted / available。
//   - statusFor 將帳本的錯誤分類轉為 HTTP 狀態碼：
//     呼叫端違反前置條件 → 400，餘額不足 → 409，帳戶不存在 → 404，
//     後置條件或不變量被破壞（核心 bug）→ 500。
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"banking/internal/account"
	"banking/internal/bank"
)

// errorBody 為錯誤回應的 JSON 結構。
type errorBody struct {
	Error     string          `json:"error"`
	Attempted *account.Amount `json:"attempted,omitempty"`
	Available *account.Amount `json:"available,omitempty"`
}

// writeJSON 統一輸出成功回應。
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr 統一輸出錯誤回應。
func writeErr(w http.ResponseWriter, err error, code int) {
	body := errorBody{Error: err.Error()}
	var f *account.InsufficientFundsError
	if errors.As(err, &f) {
		body.Attempted = &f.Attempted
		body.Available = &f.Available
	}
	writeJSON(w, code, body)
}

// statusFor 依錯誤分類決定 HTTP 狀態碼。
func statusFor(err error) int {
	var d *account.DefectError
	switch {
	case errors.Is(err, bank.ErrNotFound):
		return http.StatusNotFound
	case account.IsRecoverable(err):
		return http.StatusConflict
	case errors.As(err, &d):
		if d.Kind == account.Precondition {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// outcome 為 metrics 與日誌使用的結果標籤。
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, bank.ErrNotFound):
		return "not_found"
	case account.IsRecoverable(err):
		return "insufficient_funds"
	case account.IsDefect(err):
		return "defect"
	default:
		return "error"
	}
}
