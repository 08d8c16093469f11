// internal/bank/errors.go
//
// 宿主層自己的錯誤。金額、餘額不足與轉帳相關錯誤由 account 套件定義，
// 此處只保留「帳戶不存在」這類只有宿主才知道的情況。

package bank

import "errors"

// ErrNotFound 代表帳戶不存在。
// 對應 HTTP 狀態碼 404 Not Found。
var ErrNotFound = errors.New("account not found")
