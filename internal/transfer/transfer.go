// internal/transfer/transfer.go

// Package transfer 實作兩個帳戶之間的轉帳協定。
// 只使用 account 的公開操作，不觸及帳戶內部餘額。
//
// 流程在單一臨界區內完成：先驗證扣款與入帳兩邊都會成功，再依序變更。
// 因此餘額不足或目標帳戶狀態異常時，兩個帳戶都維持原狀。
// 若驗證後入帳仍失敗（核心 bug），來源帳戶會以 transfer-reversal 補回，
// 並回傳 defect。真正跨程序的原子性需要預留/兩階段提交，不在此處理。
package transfer

import (
	"banking/internal/account"
)

// Transfer 由 source 轉出 amount 至 destination。
//
// 錯誤：
//   - *account.DefectError：nil 帳戶、同一帳戶、金額 <= 0、目標帳戶無法入帳、總額不守恆。
//   - *account.InsufficientFundsError：來源餘額不足，原樣回傳，兩邊帳戶皆未變更。
func Transfer(amount account.Amount, source, destination *account.Account) error {
	if source == nil || destination == nil {
		return defect(account.Precondition, account.ErrNilAccount)
	}
	if source == destination {
		return defect(account.Precondition, account.ErrSameAccount)
	}
	if amount <= 0 {
		return defect(account.Precondition, account.ErrBadAmount)
	}

	totalBefore := source.Balance() + destination.Balance()

	if err := source.CheckDebit(amount); err != nil {
		return err
	}
	if err := destination.CheckCredit(amount); err != nil {
		return err
	}

	if _, err := source.Debit(account.LabelTransferOut, amount); err != nil {
		return err
	}
	if _, err := destination.Credit(account.LabelTransferIn, amount); err != nil {
		if _, rerr := source.Credit(account.LabelTransferReversal, amount); rerr != nil {
			return defect(account.Invariant, rerr)
		}
		return err
	}

	if totalAfter := source.Balance() + destination.Balance(); totalAfter != totalBefore {
		return defect(account.Invariant, account.ErrConservation)
	}
	return nil
}

func defect(kind account.Kind, err error) error {
	return &account.DefectError{Op: "transfer", Kind: kind, Err: err}
}
