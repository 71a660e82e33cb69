package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"wing_backend/internal/feature/graph/usecase"
)

const (
	// maxBodyBytes はレスポンスから読み込む最大バイト数です。
	maxBodyBytes = 2 << 20
	// MaxBodyRunes は保存する本文の最大文字数です。
	MaxBodyRunes = 4000
)

type articleFetcher struct {
	client *http.Client
}

var _ usecase.BodyFetcher = (*articleFetcher)(nil)

// NewArticleFetcher は記事ページから本文テキストを抽出するフェッチャーを生成します。
func NewArticleFetcher(client *http.Client) *articleFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &articleFetcher{client: client}
}

// FetchBody はリンク先HTMLの <p> 要素のテキストを連結して返します。
// <p> がない場合は <body> 全体のテキストを使います。
func (f *articleFetcher) FetchBody(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %d", link, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", link, err)
	}
	text := extractText(doc)
	if text == "" {
		return "", fmt.Errorf("fetch %s: no text content", link)
	}
	return truncate(text, MaxBodyRunes), nil
}

// extractText は段落テキストを優先して空白を正規化した文字列を返します。
func extractText(doc *html.Node) string {
	var paragraphs []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "nav", "header", "footer":
				return
			case "p":
				if t := collapse(textOf(n)); t != "" {
					paragraphs = append(paragraphs, t)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if len(paragraphs) > 0 {
		return strings.Join(paragraphs, "\n")
	}
	if body := findElement(doc, "body"); body != nil {
		return collapse(textOf(body))
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
