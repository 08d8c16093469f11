package transfer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"banking/internal/account"
)

func open(t *testing.T, yuan int64) *account.Account {
	t.Helper()
	a, err := account.New(account.Amount(yuan * 100))
	require.NoError(t, err)
	return a
}

func TestTransfer(t *testing.T) {
	a := open(t, 1000)
	b := open(t, 500)
	before := a.Balance() + b.Balance()

	require.NoError(t, Transfer(30000, a, b))

	assert.Equal(t, account.Amount(70000), a.Balance())
	assert.Equal(t, account.Amount(80000), b.Balance())
	assert.Equal(t, before, a.Balance()+b.Balance())

	// 兩邊各多一筆紀錄，描述標示為轉帳。
	require.Equal(t, 2, a.Len())
	require.Equal(t, 2, b.Len())
	assert.Equal(t, account.Record{
		Description: account.LabelTransferOut, Amount: -30000, ResultingBalance: 70000,
	}, a.Transactions()[1])
	assert.Equal(t, account.Record{
		Description: account.LabelTransferIn, Amount: 30000, ResultingBalance: 80000,
	}, b.Transactions()[1])
}

func TestTransferInsufficientFunds(t *testing.T) {
	a := open(t, 100)
	b := open(t, 500)

	err := Transfer(20000, a, b)
	require.Error(t, err)
	assert.True(t, account.IsRecoverable(err))

	var f *account.InsufficientFundsError
	require.ErrorAs(t, err, &f)
	assert.Equal(t, account.Amount(20000), f.Attempted)
	assert.Equal(t, account.Amount(10000), f.Available)

	assert.Equal(t, account.Amount(10000), a.Balance())
	assert.Equal(t, account.Amount(50000), b.Balance())
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestTransferPreconditions(t *testing.T) {
	a := open(t, 100)
	b := open(t, 100)

	tests := []struct {
		name    string
		amount  account.Amount
		src     *account.Account
		dst     *account.Account
		wantErr error
	}{
		{"nil source", 100, nil, b, account.ErrNilAccount},
		{"nil destination", 100, a, nil, account.ErrNilAccount},
		{"self transfer", 100, a, a, account.ErrSameAccount},
		{"zero amount", 0, a, b, account.ErrBadAmount},
		{"negative amount", -5, a, b, account.ErrBadAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Transfer(tt.amount, tt.src, tt.dst)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, account.IsDefect(err))
		})
	}

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, account.Amount(10000), a.Balance())
}

func TestTransferToUnopenedDestination(t *testing.T) {
	a := open(t, 100)
	var b account.Account

	err := Transfer(5000, a, &b)
	assert.ErrorIs(t, err, account.ErrNotOpened)

	// 入帳端驗證失敗時來源帳戶不可被扣款。
	assert.Equal(t, account.Amount(10000), a.Balance())
	assert.Equal(t, 1, a.Len())
}

func TestTransferDestinationOverflow(t *testing.T) {
	a := open(t, 100)
	b, err := account.New(math.MaxInt64 - 10)
	require.NoError(t, err)

	err = Transfer(5000, a, b)
	assert.ErrorIs(t, err, account.ErrOverflow)
	assert.Equal(t, account.Amount(10000), a.Balance())
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestTransferRepeatedConservesTotal(t *testing.T) {
	a := open(t, 1000)
	b := open(t, 1000)
	total := a.Balance() + b.Balance()

	for i := 0; i < 50; i++ {
		require.NoError(t, Transfer(1234, a, b))
		require.NoError(t, Transfer(567, b, a))
		assert.Equal(t, total, a.Balance()+b.Balance())
	}
	assert.GreaterOrEqual(t, int64(a.Balance()), int64(0))
	assert.Equal(t, 101, a.Len())
}
