package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rushteam/shopkit/core"
)

const (
	// DefaultProductsKey 是目录快照 blob 的默认 key
	DefaultProductsKey = "catalog:products"

	// DefaultPopularKey 是热度排行 zset 的默认 key
	DefaultPopularKey = "catalog:popular"
)

// StoreCatalog 是基于 Store 的目录实现：
// 快照存为单个 JSON blob，整体刷新（Replace），不做字段级 patch；
// 热度排行存为有序集合（购买行为累积分数）。
type StoreCatalog struct {
	Store core.Store

	// ProductsKey 为空时使用 DefaultProductsKey
	ProductsKey string

	// PopularKey 为空时使用 DefaultPopularKey
	PopularKey string
}

func NewStoreCatalog(s core.Store) *StoreCatalog {
	return &StoreCatalog{
		Store:       s,
		ProductsKey: DefaultProductsKey,
		PopularKey:  DefaultPopularKey,
	}
}

var _ core.CatalogService = (*StoreCatalog)(nil)

func (c *StoreCatalog) productsKey() string {
	if c.ProductsKey != "" {
		return c.ProductsKey
	}
	return DefaultProductsKey
}

func (c *StoreCatalog) popularKey() string {
	if c.PopularKey != "" {
		return c.PopularKey
	}
	return DefaultPopularKey
}

// Replace 整体刷新目录快照。无效商品（非正 ID、负价格）被跳过。
func (c *StoreCatalog) Replace(ctx context.Context, products []core.Product) error {
	valid := make([]core.Product, 0, len(products))
	for _, p := range products {
		if p.Valid() {
			valid = append(valid, p)
		}
	}

	data, err := json.Marshal(valid)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	return c.Store.Set(ctx, c.productsKey(), data)
}

func (c *StoreCatalog) All(ctx context.Context) ([]core.Product, error) {
	data, err := c.Store.Get(ctx, c.productsKey())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.ErrCatalogEmpty
		}
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	var products []core.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return products, nil
}

func (c *StoreCatalog) ByCategory(ctx context.Context, category string) ([]core.Product, error) {
	products, err := c.All(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]core.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *StoreCatalog) Search(ctx context.Context, query string) ([]core.Product, error) {
	products, err := c.All(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	out := make([]core.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Popular 返回热度排行前 n 的商品。
// 排行从有序集合读取（需要 KeyValueStore 后端），无热度数据或后端
// 不支持时退化为目录顺序。排行中不在当前快照里的 ID 被跳过。
func (c *StoreCatalog) Popular(ctx context.Context, n int) ([]core.Product, error) {
	products, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 || n > len(products) {
		n = len(products)
	}

	if kv, ok := c.Store.(core.KeyValueStore); ok {
		members, err := kv.ZRange(ctx, c.popularKey(), 0, int64(n)-1)
		if err == nil && len(members) > 0 {
			index := core.IndexProducts(products)
			out := make([]core.Product, 0, n)
			for _, m := range members {
				id, err := strconv.ParseInt(m, 10, 64)
				if err != nil {
					continue
				}
				if p, ok := index[id]; ok {
					out = append(out, p)
				}
			}
			if len(out) > 0 {
				return out, nil
			}
		}
	}

	// 无热度数据：目录顺序即“通用热门”
	return products[:n], nil
}
