package product

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SizeGuide 상품 요약(excerpt) HTML에서 추출한 사이즈 가이드 정보입니다.
type SizeGuide struct {
	// Link 사이즈 가이드 문서의 링크입니다. 없으면 빈 문자열입니다.
	Link string `json:"link,omitempty"`

	// HTML 링크가 제거된 나머지 요약 HTML입니다.
	HTML string `json:"html"`
}

// ExtractSizeGuide 요약 HTML에서 첫 번째 링크를 사이즈 가이드로 추출합니다.
//
// 링크가 발견되면 링크를 감싸는 li 요소를 본문에서 제거하고, 남은 HTML에서
// &nbsp;를 제거하여 반환합니다. HTML 파싱에 실패하거나 링크가 없으면 원본
// HTML을 그대로 반환합니다.
func ExtractSizeGuide(excerptHTML string) SizeGuide {
	if excerptHTML == "" {
		return SizeGuide{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(excerptHTML))
	if err != nil {
		return SizeGuide{HTML: excerptHTML}
	}

	var link string
	anchor := doc.Find("a").First()
	if anchor.Length() > 0 {
		link, _ = anchor.Attr("href")

		if link != "" {
			if li := anchor.Closest("li"); li.Length() > 0 {
				li.Remove()
			}
		}
	}

	html, err := doc.Find("body").Html()
	if err != nil {
		return SizeGuide{Link: link, HTML: excerptHTML}
	}

	html = strings.ReplaceAll(html, "&nbsp;", "")
	html = strings.ReplaceAll(html, " ", "")

	return SizeGuide{Link: link, HTML: html}
}
