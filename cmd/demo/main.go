// cmd/demo/main.go

// 命令列示範：建立帳戶、存款、提款、轉帳並印出結果，
// 接著示範「餘額不足」（可恢復）與「負數存款」（defect）兩種失敗，
// 最後列出兩個帳戶的交易紀錄。

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"banking/internal/account"
	"banking/internal/transfer"
)

func main() {
	initial := flag.String("initial", "1000", "opening balance of the first account")
	amount := flag.String("amount", "300", "amount to transfer to the second account")
	flag.Parse()

	if err := run(os.Stdout, *initial, *amount); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, initialArg, amountArg string) error {
	initial, err := account.ParseAmount(initialArg)
	if err != nil {
		return fmt.Errorf("-initial: %w", err)
	}
	amount, err := account.ParseAmount(amountArg)
	if err != nil {
		return fmt.Errorf("-amount: %w", err)
	}

	first, err := account.New(initial)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "opened %s\n", first)

	bal, err := first.Deposit(500 * 100)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "deposit 500.00 -> balance %s\n", bal)

	bal, err = first.Withdraw(200 * 100)
	if err != nil {
		return report(w, "withdraw", err)
	}
	fmt.Fprintf(w, "withdraw 200.00 -> balance %s\n", bal)

	second, err := account.New(500 * 100)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "opened %s\n", second)

	if err := transfer.Transfer(amount, first, second); err != nil {
		if rerr := report(w, "transfer", err); rerr != nil {
			return rerr
		}
	} else {
		fmt.Fprintf(w, "transfer %s -> first %s, second %s\n", amount, first.Balance(), second.Balance())
	}

	// 可恢復的失敗：提款超過餘額
	over := first.Balance() + 100*100
	if _, err := first.Withdraw(over); err != nil {
		if rerr := report(w, "withdraw", err); rerr != nil {
			return rerr
		}
	}

	// defect：負數存款，示範上照樣印出後繼續
	if _, err := first.Deposit(-10 * 100); err != nil {
		fmt.Fprintf(w, "deposit -10.00 rejected (defect): %v\n", err)
	}

	printLedger(w, "first", first)
	printLedger(w, "second", second)
	return nil
}

// report 印出可恢復的錯誤並回傳 nil；defect 則原樣回傳，交由呼叫端終止。
func report(w io.Writer, op string, err error) error {
	var f *account.InsufficientFundsError
	if errors.As(err, &f) {
		fmt.Fprintf(w, "%s %s rejected: insufficient funds (available %s)\n", op, f.Attempted, f.Available)
		return nil
	}
	return err
}

func printLedger(w io.Writer, name string, a *account.Account) {
	fmt.Fprintf(w, "\n%s ledger, %s\n", name, a)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "description\tamount\tbalance\t")
	for _, r := range a.Transactions() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", r.Description, r.Amount, r.ResultingBalance)
	}
	_ = tw.Flush()
}
