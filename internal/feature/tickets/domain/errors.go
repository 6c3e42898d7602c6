// Package domain はticketsフィーチャーのドメインレベルのエラーを定義します。
package domain

import "errors"

// チケット申し込み操作のドメインエラー。
// ビジネスロジック上の失敗を表し、上位レイヤーで適切にハンドリングされます。
var (
	// ErrTicketNotFound は指定されたidまたは申し込みIDに一致する申し込みが存在しない場合に返されます。
	ErrTicketNotFound = errors.New("ticket application not found")

	// ErrDuplicateApplicationID は生成された申し込みIDが既存の行と衝突した場合に返されます。
	// application_idカラムのユニーク制約違反をストレージ層で検知して変換します。
	ErrDuplicateApplicationID = errors.New("application id already exists")

	// ErrInvalidStatus はステータス更新で定義済みの4値以外が指定された場合に返されます。
	ErrInvalidStatus = errors.New("invalid ticket status")
)
