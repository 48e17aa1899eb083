package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rushteam/shopkit/pkg/utils"
)

func TestProductValid(t *testing.T) {
	tests := []struct {
		name string
		p    Product
		want bool
	}{
		{name: "valid", p: Product{ID: 1, Name: "Apples", Price: 3.5}, want: true},
		{name: "free is valid", p: Product{ID: 2, Price: 0}, want: true},
		{name: "zero id", p: Product{ID: 0, Price: 1}, want: false},
		{name: "negative id", p: Product{ID: -1, Price: 1}, want: false},
		{name: "negative price", p: Product{ID: 1, Price: -0.5}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIndexProducts(t *testing.T) {
	idx := IndexProducts([]Product{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}})
	if len(idx) != 2 {
		t.Fatalf("len(index) = %d, want 2", len(idx))
	}
	if idx[2].Name != "b" {
		t.Errorf("index[2].Name = %q, want b", idx[2].Name)
	}
}

func TestInteractedIDs(t *testing.T) {
	viewed := []Interaction{{ProductID: 1}, {ProductID: 2}}
	cart := []Interaction{{ProductID: 2}, {ProductID: 3}}

	ids := InteractedIDs(viewed, cart)
	if len(ids) != 3 {
		t.Fatalf("len(ids) = %d, want 3", len(ids))
	}
	for _, id := range []int64{1, 2, 3} {
		if !ids[id] {
			t.Errorf("ids[%d] = false, want true", id)
		}
	}
}

func TestAssembledContextColdStart(t *testing.T) {
	tests := []struct {
		name string
		actx AssembledContext
		want bool
	}{
		{name: "all empty", actx: AssembledContext{}, want: true},
		{name: "viewed only", actx: AssembledContext{Viewed: []Interaction{{ProductID: 1}}}, want: false},
		{name: "cart only", actx: AssembledContext{Cart: []Interaction{{ProductID: 1}}}, want: false},
		{name: "purchased only", actx: AssembledContext{Purchased: []Interaction{{ProductID: 1}}}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.actx.ColdStart(); got != tt.want {
				t.Errorf("ColdStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItemCategory(t *testing.T) {
	it := ProductItem(Product{ID: 1, Name: "Apples", Category: "Fruits", Price: 1})
	if got := it.Category("category"); got != "Fruits" {
		t.Errorf("Category() from meta = %q, want Fruits", got)
	}

	// Labels take precedence over meta.
	it.PutLabel("category", utils.Label{Value: "Produce", Source: "test"})
	if got := it.Category("category"); got != "Produce" {
		t.Errorf("Category() with label = %q, want Produce", got)
	}

	if got := it.Category("missing"); got != "" {
		t.Errorf("Category(missing) = %q, want empty", got)
	}
}

func TestDomainErrorWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load ranking: %w", ErrStoreNotFound)

	de := GetDomainError(wrapped)
	if de == nil {
		t.Fatal("GetDomainError() = nil for wrapped domain error")
	}
	if de.Code != ErrorCodeNotFound || de.Module != ModuleStore {
		t.Errorf("GetDomainError() = %+v", de)
	}
	if !IsStoreNotFound(wrapped) {
		t.Error("IsStoreNotFound() = false for wrapped error")
	}
	if GetDomainError(errors.New("plain")) != nil {
		t.Error("GetDomainError() non-nil for plain error")
	}
}

func TestErrorClassifiers(t *testing.T) {
	if !IsNotFound(ErrCatalogEmpty) {
		t.Error("IsNotFound(ErrCatalogEmpty) = false")
	}
	if !IsUnavailable(ErrBackendUnavailable) {
		t.Error("IsUnavailable(ErrBackendUnavailable) = false")
	}
	if !IsQuotaExceeded(ErrBackendQuota) {
		t.Error("IsQuotaExceeded(ErrBackendQuota) = false")
	}
	// Catalog errors are not store errors.
	if IsStoreNotFound(ErrCatalogEmpty) {
		t.Error("IsStoreNotFound(ErrCatalogEmpty) = true")
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound(nil) = true")
	}
}
