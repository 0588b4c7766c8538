// Package category 카테고리 트리와 슬러그 해석 로직을 담당합니다.
//
// 업스트림의 중첩 카테고리 트리를 정규화하고, URL 인코딩 변형에 강건한
// 슬러그 매칭으로 트리에서 카테고리 노드를 찾습니다.
package category

import (
	"github.com/tidwall/gjson"

	apperrors "github.com/iranswimmers/storefront-server/internal/pkg/errors"
)

// Category 카테고리 트리의 한 노드입니다. Children을 통해 재귀적으로 중첩됩니다.
type Category struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description string      `json:"description,omitempty"`
	PostCount   int         `json:"post_count,omitempty"`
	Image       string      `json:"image,omitempty"`
	Children    []*Category `json:"children,omitempty"`
}

// ParseTree 업스트림의 카테고리 트리 JSON 페이로드를 정규화합니다.
// 루트 배열 또는 data 봉투로 감싸진 배열을 모두 처리합니다.
func ParseTree(raw []byte) ([]*Category, error) {
	if !gjson.ValidBytes(raw) {
		return nil, apperrors.New(apperrors.ParsingFailed, "카테고리 트리 페이로드가 유효한 JSON이 아닙니다.")
	}

	root := gjson.ParseBytes(raw)
	if data := root.Get("data"); data.IsArray() {
		root = data
	}
	if !root.IsArray() {
		return nil, apperrors.New(apperrors.ParsingFailed, "카테고리 트리 페이로드에 카테고리 배열이 존재하지 않습니다.")
	}

	var tree []*Category
	root.ForEach(func(_, item gjson.Result) bool {
		tree = append(tree, parseNode(item))
		return true
	})

	return tree, nil
}

func parseNode(g gjson.Result) *Category {
	c := &Category{
		ID:          int(g.Get("id").Int()),
		Name:        g.Get("name").String(),
		Slug:        g.Get("slug").String(),
		Description: g.Get("description").String(),
		PostCount:   int(g.Get("post_count").Int()),
	}

	// image는 이미지 경로 문자열 또는 이미지 객체로 전달된다.
	if image := g.Get("image"); image.Exists() {
		if image.IsObject() {
			c.Image = image.Get("path").String()
		} else {
			c.Image = image.String()
		}
	}

	g.Get("children").ForEach(func(_, item gjson.Result) bool {
		c.Children = append(c.Children, parseNode(item))
		return true
	})

	return c
}
