package core

// Product 是商品目录中的一条商品快照。
// 目录只做整体刷新（wholesale replace），不做字段级 patch，因此加载后视为不可变。
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Seller      string  `json:"seller,omitempty"`
	Location    string  `json:"location,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	Quantity    string  `json:"quantity,omitempty"`
	HarvestDate string  `json:"harvest_date,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
}

// Valid 检查商品是否满足基本约束：正数 ID、非负价格。
func (p Product) Valid() bool {
	return p.ID > 0 && p.Price >= 0
}

// IndexProducts 按 ID 建立商品索引，供校验/查找使用。
func IndexProducts(products []Product) map[int64]Product {
	idx := make(map[int64]Product, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx
}
