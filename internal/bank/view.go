// internal/bank/view.go
//
// 宿主層的帳戶檢視：只放對外輸出的快照結構，不含任何 HTTP 或儲存細節。

package bank

import (
	"github.com/google/uuid"

	"banking/internal/account"
)

// View is a point-in-time snapshot of a hosted account.
type View struct {
	ID           uuid.UUID      `json:"id"`
	Seq          int64          `json:"seq"`
	Name         string         `json:"name"`
	Balance      account.Amount `json:"balance"`
	Transactions int            `json:"transactions"`
}
