package product

// BuildStockMap 모든 배리에이션을 순회하여 속성 값별 재고 인덱스를 구축합니다.
//
// 하나의 속성 값은 그것을 가진 배리에이션 중 하나라도 재고가 있으면 재고 있음으로
// 기록됩니다. 한 번 true로 기록된 키는 이후의 재고 없는 배리에이션이 다시
// false로 내리지 못합니다.
func BuildStockMap(variations []Variation) StockMap {
	stockMap := make(StockMap)

	for _, v := range variations {
		for _, attr := range v.Attributes {
			key := StockKey(attr.TypeID, attr.Slug)
			if existing, ok := stockMap[key]; !ok || !existing {
				stockMap[key] = v.InStock
			}
		}
	}

	return stockMap
}

// findSwatchImage 지정된 속성 값의 대표 견본 이미지를 찾습니다.
//
// 배리에이션을 원본 순서대로 순회하여, 해당 속성 값을 가지면서 이미지가 존재하는
// 첫 번째 배리에이션의 첫 번째 이미지를 반환합니다. 없으면 nil을 반환합니다.
func findSwatchImage(variations []Variation, typeID int, slug string) *Image {
	for _, v := range variations {
		if len(v.Images) == 0 {
			continue
		}
		for _, attr := range v.Attributes {
			if attr.TypeID == typeID && attr.Slug == slug {
				return &v.Images[0]
			}
		}
	}
	return nil
}

// GroupAttributes 모든 배리에이션의 속성을 패싯(TypeID)별로 그룹화합니다.
//
// 각 멤버에는 StockMap의 집계 재고 여부가 붙고, 색상 패싯(colorTypeID)의 멤버에는
// 대표 견본 이미지가 추가로 해석됩니다. 그룹 내 중복 Slug는 첫 번째 등장만
// 유지되며, 그룹 순서는 속성의 첫 등장 순서를 따릅니다.
func GroupAttributes(variations []Variation, stockMap StockMap, colorTypeID int) []GroupedAttribute {
	var groups []GroupedAttribute
	groupIndex := make(map[int]int)   // TypeID -> groups 인덱스
	seen := make(map[string]struct{}) // "{type_id}-{slug}" 중복 제거용

	for _, v := range variations {
		for _, attr := range v.Attributes {
			key := StockKey(attr.TypeID, attr.Slug)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			value := GroupedValue{
				Slug:    attr.Slug,
				Value:   attr.Value,
				InStock: stockMap[key],
				Options: attr.Options,
			}

			if attr.TypeID == colorTypeID {
				if image := findSwatchImage(variations, attr.TypeID, attr.Slug); image != nil {
					value.Swatch = &ColorSwatch{
						Path: image.Path,
						Alt:  image.Name,
					}
				}
			}

			idx, ok := groupIndex[attr.TypeID]
			if !ok {
				groups = append(groups, GroupedAttribute{
					Type:   attr.Type,
					TypeID: attr.TypeID,
				})
				idx = len(groups) - 1
				groupIndex[attr.TypeID] = idx
			}

			groups[idx].Attributes = append(groups[idx].Attributes, value)
		}
	}

	return groups
}

// Aggregate 하나의 상품에 속한 전체 배리에이션 목록으로부터
// 재고 맵과 그룹화된 속성 목록을 한 번에 생성합니다.
//
// 빈 배리에이션 목록은 빈 재고 맵과 빈 그룹 목록을 반환하며 에러가 아닙니다.
func Aggregate(variations []Variation, colorTypeID int) (StockMap, []GroupedAttribute) {
	stockMap := BuildStockMap(variations)
	return stockMap, GroupAttributes(variations, stockMap, colorTypeID)
}
