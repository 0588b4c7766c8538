package product

import (
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"

	apperrors "github.com/iranswimmers/storefront-server/internal/pkg/errors"
	"github.com/iranswimmers/storefront-server/pkg/maputil"
)

// Pagination 상품 목록 응답의 페이지네이션 메타 정보입니다.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
}

// ParseProduct 업스트림의 단일 상품 JSON 페이로드를 Product로 정규화합니다.
//
// 업스트림 페이로드는 필드 타입이 유동적이므로(type_id가 문자열 또는 숫자,
// thumbnail이 문자열 또는 객체 등) 모든 필드를 관대하게 해석합니다.
// 누락된 필드는 제로 값으로 처리되며 에러가 아닙니다.
func ParseProduct(raw []byte) (*Product, error) {
	if !gjson.ValidBytes(raw) {
		return nil, apperrors.New(apperrors.ParsingFailed, "상품 페이로드가 유효한 JSON이 아닙니다.")
	}

	root := gjson.ParseBytes(raw)
	if data := root.Get("data"); data.IsObject() {
		root = data
	}
	if !root.IsObject() {
		return nil, apperrors.New(apperrors.ParsingFailed, "상품 페이로드에 상품 객체가 존재하지 않습니다.")
	}

	p := parseProduct(root)
	return &p, nil
}

// ParseProducts 업스트림의 상품 목록 JSON 페이로드를 정규화합니다.
// 목록 배열은 data.products, products, data 또는 루트 배열 순서로 탐색합니다.
func ParseProducts(raw []byte) ([]Product, *Pagination, error) {
	if !gjson.ValidBytes(raw) {
		return nil, nil, apperrors.New(apperrors.ParsingFailed, "상품 목록 페이로드가 유효한 JSON이 아닙니다.")
	}

	root := gjson.ParseBytes(raw)

	list := root
	for _, path := range []string{"data.products", "products", "data"} {
		if candidate := root.Get(path); candidate.IsArray() {
			list = candidate
			break
		}
	}
	if !list.IsArray() {
		return nil, nil, apperrors.New(apperrors.ParsingFailed, "상품 목록 페이로드에 상품 배열이 존재하지 않습니다.")
	}

	var products []Product
	list.ForEach(func(_, item gjson.Result) bool {
		products = append(products, parseProduct(item))
		return true
	})

	var pagination *Pagination
	for _, path := range []string{"data.meta", "meta"} {
		if meta := root.Get(path); meta.IsObject() {
			pagination = &Pagination{
				CurrentPage: pickInt(meta, "currentPage", "current_page"),
				LastPage:    pickInt(meta, "lastPage", "last_page"),
				Total:       pickInt(meta, "total"),
			}
			break
		}
	}

	return products, pagination, nil
}

func parseProduct(g gjson.Result) Product {
	p := Product{
		ID:           int(g.Get("id").Int()),
		Name:         g.Get("name").String(),
		Slug:         g.Get("slug").String(),
		Type:         ProductType(g.Get("type").String()),
		SKU:          g.Get("sku").String(),
		Price:        cast.ToInt(g.Get("price").Value()),
		SalePrice:    parseOptionalPrice(g.Get("sale_price")),
		InStock:      g.Get("in_stock").Bool(),
		Description:  g.Get("description").String(),
		Excerpt:      g.Get("excerpt").String(),
		Featured:     g.Get("featured").Bool(),
		Brand:        g.Get("brand").String(),
		ThumbnailAlt: g.Get("thumbnail_alt").String(),
	}

	// thumbnail은 이미지 경로 문자열 또는 이미지 객체로 전달된다.
	if thumbnail := g.Get("thumbnail"); thumbnail.Exists() {
		if thumbnail.IsObject() {
			p.Thumbnail = thumbnail.Get("path").String()
			if p.ThumbnailAlt == "" {
				p.ThumbnailAlt = thumbnail.Get("name").String()
			}
		} else {
			p.Thumbnail = thumbnail.String()
		}
	}

	g.Get("breadcrumb").ForEach(func(_, item gjson.Result) bool {
		p.Breadcrumb = append(p.Breadcrumb, Breadcrumb{
			Name: item.Get("name").String(),
			Slug: item.Get("slug").String(),
		})
		return true
	})

	g.Get("variations").ForEach(func(_, item gjson.Result) bool {
		p.Variations = append(p.Variations, parseVariation(item))
		return true
	})

	return p
}

func parseVariation(g gjson.Result) Variation {
	v := Variation{
		ID:            int(g.Get("id").Int()),
		InStock:       g.Get("in_stock").Bool(),
		StockQuantity: cast.ToInt(g.Get("stock_quantity").Value()),
		Price:         cast.ToInt(g.Get("price").Value()),
		SalePrice:     parseOptionalPrice(g.Get("sale_price")),
		SKU:           g.Get("sku").String(),
	}

	g.Get("attributes").ForEach(func(_, item gjson.Result) bool {
		v.Attributes = append(v.Attributes, parseAttribute(item))
		return true
	})

	g.Get("images").ForEach(func(_, item gjson.Result) bool {
		// 이미지 객체도 id가 문자열("12")로 전달되는 경우가 있어 관대하게 디코딩한다.
		img, err := maputil.Decode[Image](item.Value())
		if err != nil {
			return true
		}
		v.Images = append(v.Images, *img)
		return true
	})

	return v
}

func parseAttribute(g gjson.Result) Attribute {
	attr := Attribute{
		Type: g.Get("type").String(),
		// type_id는 문자열("2") 또는 숫자(2)로 전달된다.
		TypeID:  cast.ToInt(g.Get("type_id").Value()),
		Slug:    g.Get("slug").String(),
		Value:   g.Get("value").String(),
		InStock: g.Get("in_stock").Bool(),
	}

	if options := g.Get("options"); options.IsObject() {
		attr.Options = make(map[string]string)
		options.ForEach(func(key, value gjson.Result) bool {
			attr.Options[key.String()] = value.String()
			return true
		})
	}

	return attr
}

// parseOptionalPrice 판매가 필드를 해석합니다. null, 누락, 0 이하는 할인 없음으로 처리합니다.
func parseOptionalPrice(g gjson.Result) *int {
	if !g.Exists() || g.Type == gjson.Null {
		return nil
	}

	price := cast.ToInt(g.Value())
	if price <= 0 {
		return nil
	}
	return &price
}

// pickInt 지정된 경로들 중 처음으로 존재하는 값을 정수로 반환합니다.
func pickInt(g gjson.Result, paths ...string) int {
	for _, path := range paths {
		if value := g.Get(path); value.Exists() {
			return cast.ToInt(value.Value())
		}
	}
	return 0
}
