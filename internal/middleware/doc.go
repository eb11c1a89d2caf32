// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 這個包包含了各種中間件函數，用於在 HTTP 請求處理過程中執行額外的操作。
// 目前只有解析 session token 的中間件，用於玩家斷線後找回原本的身分。
package middleware
