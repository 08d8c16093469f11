// Package account 定義帳本核心：帳戶餘額、只可追加的交易紀錄，以及每次變更前後的契約檢查。
// 本套件不含鎖、不寫日誌、不做重試；並行存取由上層（bank）負責序列化。

package account

import "fmt"

// Label 為交易紀錄的描述。
type Label string

const (
	LabelOpen             Label = "open"
	LabelDeposit          Label = "deposit"
	LabelWithdraw         Label = "withdraw"
	LabelTransferOut      Label = "transfer-out"
	LabelTransferIn       Label = "transfer-in"
	LabelTransferReversal Label = "transfer-reversal"
)

// Record represents a transaction record.
// Amount 為帶號金額：入帳為正、扣款為負；ResultingBalance 為套用後的餘額快照。
type Record struct {
	Description      Label  `json:"description"`
	Amount           Amount `json:"amount"`
	ResultingBalance Amount `json:"resulting_balance"`
}

// Account represents a bank account.
// 零值帳戶視為「未開戶」，任何變更操作都會回傳 ErrNotOpened。
type Account struct {
	balance Amount
	records []Record
	opened  bool
}

// New 以初始餘額開戶；初始餘額不得為負，成功時寫入一筆 open 紀錄。
func New(initial Amount) (*Account, error) {
	if initial < 0 {
		return nil, precondition("open", ErrBadAmount)
	}
	a := &Account{balance: initial, opened: true}
	a.append(LabelOpen, initial)
	return a, nil
}

// Balance 回傳目前餘額，無副作用。
func (a *Account) Balance() Amount {
	return a.balance
}

// Transactions 回傳交易紀錄的拷貝；修改回傳值不會影響帳戶內部歷史。
func (a *Account) Transactions() []Record {
	out := make([]Record, len(a.records))
	copy(out, a.records)
	return out
}

// Len 回傳交易紀錄筆數。
func (a *Account) Len() int {
	return len(a.records)
}

// Deposit 存款，回傳新餘額。
func (a *Account) Deposit(amount Amount) (Amount, error) {
	return a.Credit(LabelDeposit, amount)
}

// Withdraw 提款，回傳新餘額。
// 餘額不足時回傳 *InsufficientFundsError，餘額與紀錄皆不變。
// 任何錯誤情況下回傳的金額皆為 0，應以 Balance() 查詢實際餘額。
func (a *Account) Withdraw(amount Amount) (Amount, error) {
	return a.Debit(LabelWithdraw, amount)
}

// CheckCredit 檢查以 amount 入帳是否會成功，不改變任何狀態。
func (a *Account) CheckCredit(amount Amount) error {
	_, err := a.nextCredit(string(LabelDeposit), amount)
	return err
}

// CheckDebit 檢查以 amount 扣款是否會成功，不改變任何狀態。
func (a *Account) CheckDebit(amount Amount) error {
	_, err := a.nextDebit(string(LabelWithdraw), amount)
	return err
}

// Credit 以指定描述入帳。Deposit 與轉帳入帳皆經由此方法。
func (a *Account) Credit(label Label, amount Amount) (Amount, error) {
	op := string(label)
	next, err := a.nextCredit(op, amount)
	if err != nil {
		return 0, err
	}
	if label == "" {
		return 0, precondition("credit", ErrEmptyLabel)
	}
	old := a.balance
	a.balance = next

	if a.balance-old != amount {
		a.balance = old
		return 0, postcondition(op, ErrBalanceMismatch)
	}
	if a.balance < 0 {
		a.balance = old
		return 0, postcondition(op, ErrNegativeBalance)
	}
	a.append(label, amount)
	return a.balance, nil
}

// Debit 以指定描述扣款。Withdraw 與轉帳扣款皆經由此方法。
func (a *Account) Debit(label Label, amount Amount) (Amount, error) {
	op := string(label)
	next, err := a.nextDebit(op, amount)
	if err != nil {
		return 0, err
	}
	if label == "" {
		return 0, precondition("debit", ErrEmptyLabel)
	}
	old := a.balance
	a.balance = next

	if old-a.balance != amount {
		a.balance = old
		return 0, postcondition(op, ErrBalanceMismatch)
	}
	if a.balance < 0 {
		a.balance = old
		return 0, postcondition(op, ErrNegativeBalance)
	}
	a.append(label, -amount)
	return a.balance, nil
}

// nextCredit 驗證入帳前置條件並算出新餘額；溢位在變更前即回報。
func (a *Account) nextCredit(op string, amount Amount) (Amount, error) {
	if err := a.checkUsable(op, amount); err != nil {
		return 0, err
	}
	next, ok := addChecked(a.balance, amount)
	if !ok {
		return 0, postcondition(op, ErrOverflow)
	}
	return next, nil
}

func (a *Account) nextDebit(op string, amount Amount) (Amount, error) {
	if err := a.checkUsable(op, amount); err != nil {
		return 0, err
	}
	if amount > a.balance {
		return 0, &InsufficientFundsError{Attempted: amount, Available: a.balance}
	}
	return a.balance - amount, nil
}

func (a *Account) checkUsable(op string, amount Amount) error {
	if a == nil {
		return precondition(op, ErrNilAccount)
	}
	if !a.opened {
		return precondition(op, ErrNotOpened)
	}
	if a.balance < 0 {
		return &DefectError{Op: op, Kind: Invariant, Err: ErrNegativeBalance}
	}
	if amount <= 0 {
		return precondition(op, ErrBadAmount)
	}
	return nil
}

// append 在變更完成後立即寫入一筆紀錄，紀錄寫入後不再修改。
func (a *Account) append(label Label, amount Amount) {
	a.records = append(a.records, Record{
		Description:      label,
		Amount:           amount,
		ResultingBalance: a.balance,
	})
}

func (a *Account) String() string {
	return fmt.Sprintf("Account(balance=%s)", a.balance)
}
