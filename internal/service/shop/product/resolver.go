package product

// Selection 사용자가 패싯(TypeID)별로 선택한 속성 값(Slug)의 매핑입니다.
// 모든 패싯을 선택하지 않은 부분 선택도 유효합니다.
type Selection map[int]string

// Matches 배리에이션이 지정된 선택과 일치하는지의 여부를 반환합니다.
//
// 선택에 포함된 모든 (TypeID, Slug) 쌍에 대해 배리에이션이 정확히 그 속성 값을
// 가져야 일치합니다. 선택에 없는 패싯은 제약하지 않습니다.
func Matches(v *Variation, selection Selection) bool {
	for typeID, slug := range selection {
		found := false
		for _, attr := range v.Attributes {
			if attr.TypeID == typeID {
				found = attr.Slug == slug
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Resolve 선택과 일치하는 첫 번째 배리에이션을 목록 순서대로 찾습니다.
//
// 일치하는 배리에이션이 없으면 (nil, false)를 반환하며, 이는 에러가 아니라
// 부분 선택이 아직 단일 배리에이션을 결정하지 못한 정상 상태입니다.
func Resolve(variations []Variation, selection Selection) (*Variation, bool) {
	for i := range variations {
		if Matches(&variations[i], selection) {
			return &variations[i], true
		}
	}
	return nil, false
}

// InStockSlugs 재고가 있는 배리에이션들이 가진 모든 속성 값의 Slug를 반환합니다.
// 상품 최초 로드 시 선택 가능한 속성 값 목록의 초기값으로 사용됩니다.
func InStockSlugs(variations []Variation) []string {
	var slugs []string
	for _, v := range variations {
		if !v.InStock {
			continue
		}
		for _, attr := range v.Attributes {
			slugs = append(slugs, attr.Slug)
		}
	}
	return slugs
}

// SelectableWith 하나의 속성 값을 선택했을 때 여전히 선택 가능한 것으로 표시할
// 속성 값의 Slug 목록을 재계산합니다.
//
// 결과는 (a) 선택된 값을 가진 배리에이션이 함께 가진 모든 속성 값과
// (b) 선택된 값과 같은 패싯(TypeID)에 속한 나머지 값들의 합집합입니다.
// 전체 조합의 재고를 검증하는 계산이 아니라 도달 가능성 기준의 휴리스틱입니다.
func SelectableWith(variations []Variation, chosenSlug string) []string {
	var slugs []string
	seen := make(map[string]struct{})

	appendSlug := func(slug string) {
		if _, ok := seen[slug]; ok {
			return
		}
		seen[slug] = struct{}{}
		slugs = append(slugs, slug)
	}

	// 선택된 값을 가진 배리에이션이 함께 가진 속성 값들
	for _, v := range variations {
		carries := false
		for _, attr := range v.Attributes {
			if attr.Slug == chosenSlug {
				carries = true
				break
			}
		}
		if !carries {
			continue
		}
		for _, attr := range v.Attributes {
			appendSlug(attr.Slug)
		}
	}

	// 선택된 값과 같은 패싯에 속한 나머지 값들 (패싯 내 전환은 항상 허용)
	chosenTypeID, ok := findTypeIDBySlug(variations, chosenSlug)
	if ok {
		for _, v := range variations {
			for _, attr := range v.Attributes {
				if attr.TypeID == chosenTypeID {
					appendSlug(attr.Slug)
				}
			}
		}
	}

	return slugs
}

// findTypeIDBySlug 지정된 Slug를 가진 속성 값이 속한 패싯(TypeID)을 찾습니다.
func findTypeIDBySlug(variations []Variation, slug string) (int, bool) {
	for _, v := range variations {
		for _, attr := range v.Attributes {
			if attr.Slug == slug {
				return attr.TypeID, true
			}
		}
	}
	return 0, false
}
