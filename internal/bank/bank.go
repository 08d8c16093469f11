// internal/bank/bank.go

// Package bank 為帳本核心的並行宿主：以 ID 管理多個 account.Account，
// 並負責序列化對同一帳戶的存取。
// 每個帳戶各有一把互斥鎖；轉帳時依帳戶 ID 的固定順序取得兩把鎖，
// 避免兩筆方向相反的並行轉帳互相等待而死結。
// 帳本核心本身不含任何鎖，所有並行控制都集中在此。
package bank

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"banking/internal/account"
	"banking/internal/transfer"
)

// Bank 為聚合根 (Aggregate Root)：管理全系統帳戶。
// - mu：保護 accts 索引本身；帳戶內容由各自的 entry.mu 保護。
// - seq：開戶序號計數器，由 Bank 持有，不使用全域變數。
type Bank struct {
	mu    sync.RWMutex
	seq   int64
	accts map[uuid.UUID]*entry
}

// entry 將核心帳戶與宿主需要的中繼資料綁在一起。
type entry struct {
	mu   sync.Mutex
	id   uuid.UUID
	seq  int64
	name string
	acct *account.Account
}

// NewBank 建立空白銀行實例（僅就緒的 in-memory 狀態，無外部依賴）。
func NewBank() *Bank {
	return &Bank{accts: make(map[uuid.UUID]*entry)}
}

// Create 以名稱與初始餘額開戶；初始餘額為負時回傳 defect，不會建立帳戶。
func (b *Bank) Create(name string, balance account.Amount) (*View, error) {
	a, err := account.New(balance)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	e := &entry{id: uuid.New(), seq: b.seq, name: name, acct: a}
	b.accts[e.id] = e
	return e.view(), nil
}

// Get 依 ID 取得帳戶的目前快照；若不存在回傳 ErrNotFound。
func (b *Bank) Get(id uuid.UUID) (*View, error) {
	e, err := b.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view(), nil
}

// List 依開戶順序回傳所有帳戶快照。
func (b *Bank) List() []*View {
	b.mu.RLock()
	entries := make([]*entry, 0, len(b.accts))
	for _, e := range b.accts {
		entries = append(entries, e)
	}
	b.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]*View, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.view())
		e.mu.Unlock()
	}
	return out
}

// Deposit 存款：金額需 > 0；若帳戶不存在回傳 ErrNotFound。
func (b *Bank) Deposit(id uuid.UUID, amt account.Amount) (*View, error) {
	e, err := b.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.acct.Deposit(amt); err != nil {
		return nil, err
	}
	return e.view(), nil
}

// Withdraw 提款：金額需 > 0 且不得超過餘額；餘額不足時回傳 *account.InsufficientFundsError。
func (b *Bank) Withdraw(id uuid.UUID, amt account.Amount) (*View, error) {
	e, err := b.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.acct.Withdraw(amt); err != nil {
		return nil, err
	}
	return e.view(), nil
}

// Transfer 轉帳：同一帳戶轉帳屬 defect，其餘規則交由 transfer.Transfer。
// 兩把鎖依 ID 字串遞增順序取得，整個轉帳在兩把鎖保護下完成。
func (b *Bank) Transfer(fromID, toID uuid.UUID, amt account.Amount) error {
	if fromID == toID {
		return &account.DefectError{Op: "transfer", Kind: account.Precondition, Err: account.ErrSameAccount}
	}
	from, err := b.lookup(fromID)
	if err != nil {
		return fmt.Errorf("source %s: %w", fromID, err)
	}
	to, err := b.lookup(toID)
	if err != nil {
		return fmt.Errorf("destination %s: %w", toID, err)
	}

	first, second := from, to
	if toID.String() < fromID.String() {
		first, second = to, from
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	return transfer.Transfer(amt, from.acct, to.acct)
}

// Logs 回傳指定帳戶的交易紀錄拷貝。
func (b *Bank) Logs(id uuid.UUID) ([]account.Record, error) {
	e, err := b.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acct.Transactions(), nil
}

// Total 回傳所有帳戶餘額總和。各帳戶逐一加鎖，並行轉帳進行中時僅為近似值。
func (b *Bank) Total() account.Amount {
	var sum account.Amount
	for _, v := range b.List() {
		sum += v.Balance
	}
	return sum
}

func (b *Bank) lookup(id uuid.UUID) (*entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.accts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// view 必須在持有 e.mu 時呼叫（Create 時 entry 尚未公開，例外）。
func (e *entry) view() *View {
	return &View{
		ID:           e.id,
		Seq:          e.seq,
		Name:         e.name,
		Balance:      e.acct.Balance(),
		Transactions: e.acct.Len(),
	}
}
