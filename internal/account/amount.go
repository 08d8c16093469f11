// internal/account/amount.go
//
// 金額型別：以 int64 的最小貨幣單位（分）儲存，避免浮點誤差。
// 十進位字串的解析與格式化交給 shopspring/decimal，核心運算仍只做整數加減。
package account

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale 為小數位數；1.00 元 = 100 分。
const Scale = 2

// Amount 代表以「分」為單位的金額。交易紀錄中的 Amount 可為負（扣款）。
type Amount int64

var (
	minorUnit = decimal.New(1, Scale) // 100
	maxAmount = decimal.NewFromInt(math.MaxInt64)
	minAmount = decimal.NewFromInt(math.MinInt64)
)

// ParseAmount 將十進位字串（例如 "12.50"）轉為 Amount。
// 非數字、超過兩位小數或超出 int64 範圍皆屬呼叫端錯誤（defect）。
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, &DefectError{Op: "parse", Kind: Precondition, Err: ErrNotNumeric}
	}
	return FromDecimal(d)
}

// FromDecimal 將 decimal 值轉為 Amount，規則同 ParseAmount。
func FromDecimal(d decimal.Decimal) (Amount, error) {
	minor := d.Mul(minorUnit)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, &DefectError{Op: "parse", Kind: Precondition, Err: ErrPrecision}
	}
	if minor.GreaterThan(maxAmount) || minor.LessThan(minAmount) {
		return 0, &DefectError{Op: "parse", Kind: Precondition, Err: ErrOverflow}
	}
	return Amount(minor.IntPart()), nil
}

// Decimal 回傳以「元」表示的 decimal 值。
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String 固定輸出兩位小數，例如 1000.00。
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// MarshalJSON 以不帶引號的十進位數字輸出（例如 1500.00）。
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON 同時接受 JSON 數字與帶引號的十進位字串。
func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return &DefectError{Op: "parse", Kind: Precondition, Err: ErrNotNumeric}
	}
	v, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// addChecked 回傳 a+b；若溢位則 ok=false。
func addChecked(a, b Amount) (Amount, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}
