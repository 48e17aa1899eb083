package catalog

import (
	"context"
	"strings"

	"github.com/rushteam/shopkit/core"
)

// StaticCatalog 是内存固定快照的目录实现，用于测试/演示。
type StaticCatalog struct {
	Products []core.Product
}

var _ core.CatalogService = (*StaticCatalog)(nil)

func (c *StaticCatalog) All(_ context.Context) ([]core.Product, error) {
	if len(c.Products) == 0 {
		return nil, core.ErrCatalogEmpty
	}
	return c.Products, nil
}

func (c *StaticCatalog) ByCategory(ctx context.Context, category string) ([]core.Product, error) {
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

func (c *StaticCatalog) Search(ctx context.Context, query string) ([]core.Product, error) {
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

func (c *StaticCatalog) Popular(ctx context.Context, n int) ([]core.Product, error) {
	products, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 || n > len(products) {
		n = len(products)
	}
	return products[:n], nil
}
