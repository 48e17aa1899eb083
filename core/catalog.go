package core

import "context"

// CatalogService 是商品目录的领域接口。
//
// 目录是推荐逻辑可见的全部可购商品。快照语义：All 返回当前整体快照，
// 刷新只能整体替换，调用方不应缓存跨请求的快照。
//
// 实现：
//   - catalog.StoreCatalog（Store JSON blob 持久化 + 热度排行）
//   - catalog.StaticCatalog（内存固定快照，测试/演示）
type CatalogService interface {
	// All 返回当前目录快照
	All(ctx context.Context) ([]Product, error)

	// ByCategory 返回指定类目的商品（保持目录顺序）
	ByCategory(ctx context.Context, category string) ([]Product, error)

	// Search 按名称做大小写不敏感的子串匹配
	Search(ctx context.Context, query string) ([]Product, error)

	// Popular 返回热度排行前 n 的商品；无热度数据时按目录顺序返回
	Popular(ctx context.Context, n int) ([]Product, error)
}

// ErrCatalogEmpty 表示目录为空或尚未加载。
var ErrCatalogEmpty = NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: no products loaded")
