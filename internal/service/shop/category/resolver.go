package category

import (
	"net/url"
	"strings"
)

// SlugVariants 하나의 슬러그 입력으로부터 매칭에 사용되는 인코딩 변형들입니다.
type SlugVariants struct {
	// Original 입력 슬러그 원본입니다.
	Original string

	// Normalized 대시를 공백으로 치환한 뒤 퍼센트 인코딩을 해제한 형태입니다.
	Normalized string

	// Encoded Normalized의 퍼센트 인코딩 형태입니다. (공백은 %20)
	Encoded string

	// LowerEncoded Encoded에서 이스케이프 시퀀스의 16진수를 소문자로 바꾼 형태입니다.
	LowerEncoded string

	// DashEncoded Encoded에서 %20을 대시로 치환한 형태입니다.
	DashEncoded string
}

// NewSlugVariants 입력 슬러그의 모든 인코딩 변형을 생성합니다.
func NewSlugVariants(slug string) SlugVariants {
	normalized := strings.ReplaceAll(slug, "-", " ")
	if decoded, err := url.PathUnescape(normalized); err == nil {
		normalized = decoded
	}

	encoded := url.PathEscape(normalized)

	return SlugVariants{
		Original:     slug,
		Normalized:   normalized,
		Encoded:      encoded,
		LowerEncoded: lowerEscapeHex(encoded),
		DashEncoded:  strings.ReplaceAll(encoded, "%20", "-"),
	}
}

// Matches 저장된 슬러그가 이 변형들 중 하나와 일치하는지의 여부를 반환합니다.
//
// 저장된 슬러그가 Original, Encoded, LowerEncoded, DashEncoded 중 하나와 같거나,
// 저장된 슬러그의 퍼센트 인코딩을 해제한 결과가 Normalized와 같으면 일치합니다.
func (v SlugVariants) Matches(storedSlug string) bool {
	if storedSlug == v.Original ||
		storedSlug == v.Encoded ||
		storedSlug == v.LowerEncoded ||
		storedSlug == v.DashEncoded {
		return true
	}

	if decoded, err := url.PathUnescape(storedSlug); err == nil && decoded == v.Normalized {
		return true
	}

	return false
}

// lowerEscapeHex 퍼센트 이스케이프 시퀀스의 16진수 문자만 소문자로 변환합니다.
func lowerEscapeHex(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	b := []byte(s)
	for i := 0; i < len(b); i++ {
		if b[i] != '%' {
			continue
		}
		for j := i + 1; j <= i+2 && j < len(b); j++ {
			if b[j] >= 'A' && b[j] <= 'F' {
				b[j] += 'a' - 'A'
			}
		}
		i += 2
	}
	return string(b)
}

// FindBySlug 슬러그로 카테고리 노드를 찾습니다.
//
// 최상위 카테고리가 일반적인 경우이므로 루트 수준을 먼저 확인하고,
// 없으면 전체 트리를 전위 순회(pre-order DFS)로 탐색합니다.
// 일치하는 노드가 없으면 nil을 반환하며 에러가 아닙니다.
func FindBySlug(tree []*Category, slug string) *Category {
	variants := NewSlugVariants(slug)

	for _, root := range tree {
		if variants.Matches(root.Slug) {
			return root
		}
	}

	for _, root := range tree {
		if found := findBySlugDFS(root, variants); found != nil {
			return found
		}
	}

	return nil
}

func findBySlugDFS(node *Category, variants SlugVariants) *Category {
	if variants.Matches(node.Slug) {
		return node
	}
	for _, child := range node.Children {
		if found := findBySlugDFS(child, variants); found != nil {
			return found
		}
	}
	return nil
}

// FindByID 식별자로 카테고리 노드를 전위 순회로 찾습니다.
// 일치하는 노드가 없으면 nil을 반환합니다.
func FindByID(tree []*Category, id int) *Category {
	for _, root := range tree {
		if found := findByIDDFS(root, id); found != nil {
			return found
		}
	}
	return nil
}

func findByIDDFS(node *Category, id int) *Category {
	if node.ID == id {
		return node
	}
	for _, child := range node.Children {
		if found := findByIDDFS(child, id); found != nil {
			return found
		}
	}
	return nil
}
