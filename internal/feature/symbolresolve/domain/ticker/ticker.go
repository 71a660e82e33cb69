// Package ticker はLLMが返したティッカー文字列の正規化と国内銘柄判定を行います。
package ticker

import (
	"errors"
	"strings"

	"wing_backend/internal/feature/graph/domain/entity"
)

// ErrResolutionFailed はキーワードから使用可能な銘柄を得られなかった場合に返されます。
var ErrResolutionFailed = errors.New("symbol resolution failed")

// exchangeSuffixes は除去対象の国内取引所サフィックスです。長いものから照合します。
var exchangeSuffixes = []string{".KOSDAQ", ".KOSPI", ".KRX", ".KS", ".KQ"}

// StripExchangeSuffix は既知の取引所サフィックスを大文字小文字を区別せずに除去します。
// 2つ目の戻り値はサフィックスが付いていたかどうかです。
func StripExchangeSuffix(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	upper := strings.ToUpper(s)
	for _, suf := range exchangeSuffixes {
		if strings.HasSuffix(upper, suf) && len(s) > len(suf) {
			return s[:len(s)-len(suf)], true
		}
	}
	return s, false
}

// IsDomesticCode は6桁の数字コードかどうかを返します。
func IsDomesticCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Normalize は生のティッカーからサフィックスを除去し、国内判定を行います。
// hint が nil でない場合はその値を優先します。
func Normalize(raw string, hint *bool) (symbol string, domestic bool, err error) {
	symbol, hadSuffix := StripExchangeSuffix(raw)
	if symbol == "" {
		return "", false, ErrResolutionFailed
	}
	if !IsDomesticCode(symbol) {
		symbol = strings.ToUpper(symbol)
	}
	if hint != nil {
		return symbol, *hint, nil
	}
	return symbol, hadSuffix || IsDomesticCode(symbol), nil
}

// Keywords はグラフのMAINキーワードと重複を除いた全キーワードを返します。
// MAIN種別のノードがなければ先頭ノードを使います。
func Keywords(nodes []entity.Node) (main string, all []string, err error) {
	if len(nodes) == 0 {
		return "", nil, ErrResolutionFailed
	}
	main = strings.TrimSpace(nodes[0].Name)
	for _, n := range nodes {
		if n.Kind == entity.NodeKindMain {
			main = strings.TrimSpace(n.Name)
			break
		}
	}
	if main == "" {
		return "", nil, ErrResolutionFailed
	}

	seen := make(map[string]struct{}, len(nodes))
	all = make([]string, 0, len(nodes))
	for _, n := range nodes {
		name := strings.TrimSpace(n.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		all = append(all, name)
	}
	return main, all, nil
}
