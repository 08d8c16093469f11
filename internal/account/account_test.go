// internal/account/account_test.go
//
// 帳本核心的單元測試：開戶、存提款、交易紀錄與契約檢查。

package account

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cents 將「元」轉為 Amount，讓測試數字與情境描述一致。
func cents(v int64) Amount { return Amount(v * 100) }

func mustOpen(t *testing.T, initial Amount) *Account {
	t.Helper()
	a, err := New(initial)
	require.NoError(t, err)
	return a
}

func TestNewRecordsOpening(t *testing.T) {
	a := mustOpen(t, cents(1000))

	assert.Equal(t, cents(1000), a.Balance())
	require.Len(t, a.Transactions(), 1)
	assert.Equal(t, Record{Description: LabelOpen, Amount: cents(1000), ResultingBalance: cents(1000)}, a.Transactions()[0])
}

func TestNewZeroBalance(t *testing.T) {
	a := mustOpen(t, 0)
	assert.Equal(t, Amount(0), a.Balance())
	assert.Equal(t, 1, a.Len())
}

func TestNewNegativeBalance(t *testing.T) {
	a, err := New(cents(-5))

	assert.Nil(t, a)
	require.Error(t, err)
	assert.True(t, IsDefect(err))
	assert.ErrorIs(t, err, ErrBadAmount)
	assert.ErrorIs(t, err, ErrDefect)

	var d *DefectError
	require.ErrorAs(t, err, &d)
	assert.Equal(t, Precondition, d.Kind)
	assert.Equal(t, "open", d.Op)
}

func TestDeposit(t *testing.T) {
	a := mustOpen(t, cents(1000))

	bal, err := a.Deposit(cents(500))
	require.NoError(t, err)
	assert.Equal(t, cents(1500), bal)
	assert.Equal(t, cents(1500), a.Balance())

	recs := a.Transactions()
	require.Len(t, recs, 2)
	assert.Equal(t, Record{Description: LabelDeposit, Amount: cents(500), ResultingBalance: cents(1500)}, recs[1])
}

func TestDepositRejectsNonPositive(t *testing.T) {
	for _, amt := range []Amount{0, cents(-10)} {
		a := mustOpen(t, cents(1000))

		_, err := a.Deposit(amt)
		require.Error(t, err, "amount=%s", amt)
		assert.ErrorIs(t, err, ErrBadAmount)
		assert.False(t, IsRecoverable(err))

		assert.Equal(t, cents(1000), a.Balance())
		assert.Equal(t, 1, a.Len())
	}
}

func TestWithdraw(t *testing.T) {
	a := mustOpen(t, cents(1000))

	bal, err := a.Withdraw(cents(300))
	require.NoError(t, err)
	assert.Equal(t, cents(700), bal)

	last := a.Transactions()[a.Len()-1]
	assert.Equal(t, LabelWithdraw, last.Description)
	assert.Equal(t, cents(-300), last.Amount)
	assert.Equal(t, cents(700), last.ResultingBalance)
}

func TestWithdrawEntireBalance(t *testing.T) {
	a := mustOpen(t, cents(1000))

	bal, err := a.Withdraw(cents(1000))
	require.NoError(t, err)
	assert.Equal(t, Amount(0), bal)
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	a := mustOpen(t, cents(1000))
	before := a.Transactions()

	_, err := a.Withdraw(cents(2000))
	require.Error(t, err)
	assert.True(t, IsRecoverable(err))
	assert.False(t, IsDefect(err))
	assert.ErrorIs(t, err, ErrInsufficient)

	var f *InsufficientFundsError
	require.ErrorAs(t, err, &f)
	assert.Equal(t, cents(2000), f.Attempted)
	assert.Equal(t, cents(1000), f.Available)
	assert.Contains(t, err.Error(), "1000.00")

	assert.Equal(t, cents(1000), a.Balance())
	assert.Equal(t, before, a.Transactions())
}

func TestWithdrawRejectsNonPositive(t *testing.T) {
	a := mustOpen(t, cents(1000))

	_, err := a.Withdraw(cents(-1))
	assert.ErrorIs(t, err, ErrBadAmount)
	_, err = a.Withdraw(0)
	assert.ErrorIs(t, err, ErrBadAmount)
	assert.Equal(t, 1, a.Len())
}

func TestConsecutiveOperations(t *testing.T) {
	a := mustOpen(t, cents(1000))

	steps := []struct {
		op   func(Amount) (Amount, error)
		amt  Amount
		want Amount
	}{
		{a.Deposit, cents(500), cents(1500)},
		{a.Withdraw, cents(200), cents(1300)},
		{a.Deposit, cents(100), cents(1400)},
		{a.Withdraw, cents(50), cents(1350)},
	}
	for i, s := range steps {
		prev := a.Transactions()

		got, err := s.op(s.amt)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, s.want, got, "step %d", i)

		// 每次成功操作只追加一筆，且先前紀錄不變。
		recs := a.Transactions()
		require.Len(t, recs, len(prev)+1)
		assert.Equal(t, prev, recs[:len(prev)])
		assert.Equal(t, a.Balance(), recs[len(recs)-1].ResultingBalance)
	}
	assert.Equal(t, 5, a.Len())
}

func TestTransactionsIsCopy(t *testing.T) {
	a := mustOpen(t, cents(1000))

	recs := a.Transactions()
	recs[0].Amount = cents(999999)

	assert.Equal(t, cents(1000), a.Transactions()[0].Amount)
	assert.Equal(t, 1, a.Len())
}

func TestZeroValueAccountIsNotOpened(t *testing.T) {
	var a Account

	_, err := a.Deposit(cents(10))
	assert.ErrorIs(t, err, ErrNotOpened)
	_, err = a.Withdraw(cents(10))
	assert.ErrorIs(t, err, ErrNotOpened)
	assert.Equal(t, 0, a.Len())
}

func TestNilAccount(t *testing.T) {
	var a *Account

	_, err := a.Deposit(cents(10))
	assert.ErrorIs(t, err, ErrNilAccount)
	assert.ErrorIs(t, a.CheckDebit(cents(10)), ErrNilAccount)
}

func TestDepositOverflowLeavesStateUntouched(t *testing.T) {
	a := mustOpen(t, Amount(math.MaxInt64-5))

	_, err := a.Deposit(10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOverflow)

	var d *DefectError
	require.True(t, errors.As(err, &d))
	assert.Equal(t, Postcondition, d.Kind)
	assert.Equal(t, Amount(math.MaxInt64-5), a.Balance())
	assert.Equal(t, 1, a.Len())
}

func TestCheckDoesNotMutate(t *testing.T) {
	a := mustOpen(t, cents(100))

	require.NoError(t, a.CheckCredit(cents(50)))
	require.NoError(t, a.CheckDebit(cents(100)))
	assert.ErrorIs(t, a.CheckDebit(cents(101)), ErrInsufficient)
	assert.ErrorIs(t, a.CheckCredit(0), ErrBadAmount)

	assert.Equal(t, cents(100), a.Balance())
	assert.Equal(t, 1, a.Len())
}

func TestLabeledCreditDebit(t *testing.T) {
	a := mustOpen(t, cents(100))

	_, err := a.Debit(LabelTransferOut, cents(40))
	require.NoError(t, err)
	_, err = a.Credit(LabelTransferIn, cents(15))
	require.NoError(t, err)

	recs := a.Transactions()
	assert.Equal(t, Record{LabelTransferOut, cents(-40), cents(60)}, recs[1])
	assert.Equal(t, Record{LabelTransferIn, cents(15), cents(75)}, recs[2])

	_, err = a.Credit("", cents(1))
	assert.ErrorIs(t, err, ErrEmptyLabel)
	assert.Equal(t, cents(75), a.Balance())
}

func TestString(t *testing.T) {
	a := mustOpen(t, cents(1000))
	assert.Equal(t, "Account(balance=1000.00)", a.String())
}
