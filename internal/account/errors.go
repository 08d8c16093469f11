// internal/account/errors.go
//
// 本檔集中定義帳本核心的錯誤分類，分成兩種：
//   - DefectError：違反前置條件、後置條件或不變量，代表呼叫端或核心本身有 bug。
//   - InsufficientFundsError：餘額不足，屬於可預期、可恢復的結果。
//
// 兩者在型別層級即可區分，呼叫端不會把 defect 誤當成可重試的狀況。

package account

import (
	"errors"
	"fmt"
)

var (
	// ErrDefect 為所有 defect 類錯誤的共同標記，可用 errors.Is 判斷。
	ErrDefect = errors.New("contract violation")

	// ErrInsufficient 代表餘額不足；實際錯誤值為 *InsufficientFundsError。
	ErrInsufficient = errors.New("insufficient balance")

	// ErrBadAmount 代表金額非法（<=0 或初始餘額為負）。
	ErrBadAmount = errors.New("amount must be > 0")

	// ErrNotNumeric 代表金額不是合法的數字。
	ErrNotNumeric = errors.New("amount is not a valid number")

	// ErrPrecision 代表金額超過兩位小數。
	ErrPrecision = errors.New("amount has more than 2 decimal places")

	// ErrOverflow 代表金額或運算結果超出可表示範圍。
	ErrOverflow = errors.New("amount out of range")

	// ErrNotOpened 代表帳戶未經 New 建立（零值）。
	ErrNotOpened = errors.New("account is not opened")

	// ErrEmptyLabel 代表交易紀錄缺少描述。
	ErrEmptyLabel = errors.New("transaction label is empty")

	// ErrBalanceMismatch 代表餘額運算結果與預期不符。
	ErrBalanceMismatch = errors.New("balance arithmetic mismatch")

	// ErrNegativeBalance 代表餘額變成負數。
	ErrNegativeBalance = errors.New("balance is negative")

	// ErrNilAccount 代表轉帳對象不是有效帳戶。
	ErrNilAccount = errors.New("account is nil")

	// ErrSameAccount 代表轉帳來源與目標為同一帳戶。
	ErrSameAccount = errors.New("from and to are same")

	// ErrConservation 代表轉帳前後總額不一致。
	ErrConservation = errors.New("total funds changed by transfer")
)

// Kind 區分 defect 的種類。
type Kind int

const (
	Precondition Kind = iota + 1
	Postcondition
	Invariant
)

func (k Kind) String() string {
	switch k {
	case Precondition:
		return "precondition"
	case Postcondition:
		return "postcondition"
	case Invariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// DefectError 描述一次契約違反。Op 為操作名稱，Err 為對應的 sentinel。
type DefectError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *DefectError) Error() string {
	return fmt.Sprintf("%s: %s violated: %v", e.Op, e.Kind, e.Err)
}

func (e *DefectError) Unwrap() error { return e.Err }

// Is 讓 errors.Is(err, ErrDefect) 對所有 DefectError 成立。
func (e *DefectError) Is(target error) bool { return target == ErrDefect }

// InsufficientFundsError 帶有嘗試金額與目前可用餘額，方便呼叫端提示使用者或改用較小金額。
type InsufficientFundsError struct {
	Attempted Amount
	Available Amount
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance: attempted %s, available %s", e.Attempted, e.Available)
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficient }

// IsDefect 回報 err 是否為契約違反。
func IsDefect(err error) bool {
	var d *DefectError
	return errors.As(err, &d)
}

// IsRecoverable 回報 err 是否為可恢復的錯誤（目前只有餘額不足）。
func IsRecoverable(err error) bool {
	var f *InsufficientFundsError
	return errors.As(err, &f) && !IsDefect(err)
}

func precondition(op string, err error) error {
	return &DefectError{Op: op, Kind: Precondition, Err: err}
}

func postcondition(op string, err error) error {
	return &DefectError{Op: op, Kind: Postcondition, Err: err}
}
