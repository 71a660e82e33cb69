// Package gemini はGoogle Gemini APIを使用した銘柄推論クライアントを提供します。
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"wing_backend/internal/feature/symbolresolve/domain/ticker"
	"wing_backend/internal/feature/symbolresolve/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"

	promptTemplate = `You map news keywords to the single most relevant listed company.
Main keyword: %s
All keywords: %s
Answer with JSON only: {"chosen_symbol": "<ticker>", "is_domestic": <true if listed on a Korean exchange, else false>}.
Use the 6-digit KRX code for Korean listings and the primary exchange ticker otherwise.`
)

// generateFunc はプロンプトからテキスト応答を得る関数です。
type generateFunc func(ctx context.Context, prompt string) (string, error)

// SymbolInferrer はGeminiにキーワードを渡してティッカーを推論します。
type SymbolInferrer struct {
	generate generateFunc
}

// SymbolInferrerがusecase.SymbolInferrerを実装していることをコンパイル時に検証します。
var _ usecase.SymbolInferrer = (*SymbolInferrer)(nil)

// NewSymbolInferrer はADCを使用してSymbolInferrerの新しいインスタンスを生成します。
// 環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION
// または GOOGLE_API_KEY が必要です。
func NewSymbolInferrer(ctx context.Context, model string) (*SymbolInferrer, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	return &SymbolInferrer{
		generate: func(ctx context.Context, prompt string) (string, error) {
			resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
			if err != nil {
				return "", fmt.Errorf("gemini API request failed: %w", err)
			}
			return resp.Text(), nil
		},
	}, nil
}

// answer はモデルが返すJSONです。
type answer struct {
	ChosenSymbol string `json:"chosen_symbol"`
	IsDomestic   *bool  `json:"is_domestic"`
}

// InferSymbol はキーワードから生のティッカーと国内フラグを推論します。
// 応答がJSONとして解釈できない場合は ticker.ErrResolutionFailed を返します。
func (s *SymbolInferrer) InferSymbol(ctx context.Context, mainKeyword string, allKeywords []string) (usecase.Inference, error) {
	prompt := fmt.Sprintf(promptTemplate, mainKeyword, strings.Join(allKeywords, ", "))
	text, err := s.generate(ctx, prompt)
	if err != nil {
		return usecase.Inference{}, err
	}
	return parseAnswer(text)
}

func parseAnswer(text string) (usecase.Inference, error) {
	body := stripCodeFence(text)
	var a answer
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		return usecase.Inference{}, fmt.Errorf("%w: malformed model response: %v", ticker.ErrResolutionFailed, err)
	}
	if strings.TrimSpace(a.ChosenSymbol) == "" {
		return usecase.Inference{}, fmt.Errorf("%w: model returned no symbol", ticker.ErrResolutionFailed)
	}
	return usecase.Inference{Symbol: strings.TrimSpace(a.ChosenSymbol), IsDomestic: a.IsDomestic}, nil
}

// stripCodeFence は ```json ... ``` で囲まれた応答から中身を取り出します。
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
