package product

// minSellablePrice 판매 가능한 상품으로 간주하는 최소 가격입니다.
// 업스트림 데이터에는 가격이 0 또는 자리표시자 값인 비정상 상품이 존재합니다.
const minSellablePrice = 100

// Sellable 가격과 재고 플래그를 함께 고려하여 실제 판매 가능한 상품인지 판정합니다.
func Sellable(price int, inStock bool) bool {
	return price > minSellablePrice && inStock
}

// DiscountPercentage 정가 대비 할인율(%)을 내림(floor)으로 계산합니다.
// 할인가가 없거나 정가가 0 이하이면 0을 반환합니다.
func DiscountPercentage(price int, salePrice *int) int {
	if salePrice == nil || price <= 0 {
		return 0
	}
	return (price - *salePrice) * 100 / price
}
