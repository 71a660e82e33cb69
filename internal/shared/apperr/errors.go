// Package apperr defines the error kinds shared across features and their HTTP mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidArgument は必須の識別子（symbol, graphId, owner など）が欠けている・不正な場合に返されます。
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoData は上流が空の結果を返した場合に返されます。
	ErrNoData = errors.New("no data")
	// ErrUpstream は外部ベンダーへの呼び出しが失敗した場合に返されます。
	ErrUpstream = errors.New("upstream service unavailable")
)

// UpstreamError はベンダー呼び出しの失敗を表します。errors.Is(err, ErrUpstream) が成立します。
type UpstreamError struct {
	Vendor  string
	Status  int // HTTPステータス。通信エラーの場合は0
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: http %d: %s", e.Vendor, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Vendor, e.Message)
}

// Is reports whether target is ErrUpstream.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// Invalid は ErrInvalidArgument をラップしたエラーを返します。
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// HTTPStatus は共通エラー種別に対応するHTTPステータスを返します。
// 該当しない場合は ok=false です。
func HTTPStatus(err error) (status int, ok bool) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest, true
	case errors.Is(err, ErrNoData):
		return http.StatusNotFound, true
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway, true
	default:
		return 0, false
	}
}
