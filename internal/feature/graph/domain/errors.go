// Package domain はgraphフィーチャーのドメインエラーを定義します。
package domain

import "errors"

var (
	// ErrGraphNotFound は指定されたグラフが存在しない場合に返されます。
	ErrGraphNotFound = errors.New("graph not found")
	// ErrNotOwned は指定されたグラフが呼び出し元の所有ではない場合に返されます。
	ErrNotOwned = errors.New("graph is not owned by caller")
)
