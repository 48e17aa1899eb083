package arbiter

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/store"
)

// fakeBackend is a scripted TextBackend for exercising the arbitration paths.
type fakeBackend struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.response, f.err
}

type failLimiter struct{}

func (failLimiter) Wait(ctx context.Context) error { return errors.New("limiter: denied") }

func testCatalog() []core.Product {
	return []core.Product{
		{ID: 1, Name: "Apples", Category: "Fruits", Price: 3.5},
		{ID: 2, Name: "Bananas", Category: "Fruits", Price: 1.2},
		{ID: 3, Name: "Carrots", Category: "Vegetables", Price: 2.0},
		{ID: 4, Name: "Milk", Category: "Dairy", Price: 4.1},
		{ID: 5, Name: "Rice", Category: "Grains", Price: 6.0},
		{ID: 6, Name: "Spinach", Category: "Vegetables", Price: 2.8},
	}
}

func productIDs(recs []core.Recommendation) []int64 {
	ids := make([]int64, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ProductID)
	}
	return ids
}

func TestRecommendEmptyCatalog(t *testing.T) {
	a := &Arbiter{}
	result := a.Recommend(context.Background(), nil, &core.AssembledContext{})

	if len(result.Recommendations) != 0 {
		t.Errorf("Recommendations = %v, want empty", result.Recommendations)
	}
	if result.Provenance != core.ProvenanceFallback {
		t.Errorf("Provenance = %q, want %q", result.Provenance, core.ProvenanceFallback)
	}
	if result.Message != "no products available to recommend" {
		t.Errorf("Message = %q, want explanation for empty catalog", result.Message)
	}
}

func TestRecommendColdStart(t *testing.T) {
	backend := &fakeBackend{response: `[{"productId": 1, "reason": "x"}]`}
	a := &Arbiter{Backend: backend}
	actx := &core.AssembledContext{Catalog: testCatalog()}

	result := a.Recommend(context.Background(), nil, actx)

	if result.Provenance != core.ProvenanceFallback {
		t.Errorf("Provenance = %q, want %q", result.Provenance, core.ProvenanceFallback)
	}
	// Cold start never spends an external call.
	if backend.calls != 0 {
		t.Errorf("backend called %d times on cold start, want 0", backend.calls)
	}
	if got, want := productIDs(result.Recommendations), []int64{1, 2, 3, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("product ids = %v, want %v", got, want)
	}
	for _, rec := range result.Recommendations {
		if rec.Reason != "popular item" {
			t.Errorf("Reason = %q, want %q", rec.Reason, "popular item")
		}
	}
}

func TestRecommendColdStartSmallCatalog(t *testing.T) {
	a := &Arbiter{}
	actx := &core.AssembledContext{Catalog: testCatalog()[:3]}

	result := a.Recommend(context.Background(), nil, actx)
	if got, want := productIDs(result.Recommendations), []int64{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("product ids = %v, want %v", got, want)
	}
}

func TestRecommendColdStartWithPopularity(t *testing.T) {
	ms := store.NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()
	// Product 5 was purchased most, then 3.
	if err := ms.ZAdd(ctx, "catalog:popular", 9, "5"); err != nil {
		t.Fatal(err)
	}
	if err := ms.ZAdd(ctx, "catalog:popular", 4, "3"); err != nil {
		t.Fatal(err)
	}

	a := &Arbiter{PopularStore: ms, PopularKey: "catalog:popular"}
	actx := &core.AssembledContext{Catalog: testCatalog()}

	result := a.Recommend(ctx, nil, actx)
	// Ranked products first, catalog order fills the rest without duplicates.
	if got, want := productIDs(result.Recommendations), []int64{5, 3, 1, 2, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("product ids = %v, want %v", got, want)
	}
}

func TestRecommendFallbackWithPreferences(t *testing.T) {
	a := &Arbiter{}
	actx := &core.AssembledContext{
		Catalog:             testCatalog(),
		Viewed:              []core.Interaction{{ProductID: 1, Category: "Fruits", Kind: core.ActionView}},
		PreferredCategories: []string{"Fruits"},
	}

	result := a.Recommend(context.Background(), nil, actx)

	if result.Provenance != core.ProvenanceFallback {
		t.Errorf("Provenance = %q, want %q", result.Provenance, core.ProvenanceFallback)
	}
	// Only non-interacted products in preferred categories qualify.
	if got, want := productIDs(result.Recommendations), []int64{2}; !reflect.DeepEqual(got, want) {
		t.Errorf("product ids = %v, want %v", got, want)
	}
	if want := "recommended based on your interest in Fruits"; result.Recommendations[0].Reason != want {
		t.Errorf("Reason = %q, want %q", result.Recommendations[0].Reason, want)
	}
}

func TestRecommendFallbackWithoutPreferences(t *testing.T) {
	a := &Arbiter{}
	actx := &core.AssembledContext{
		Catalog: testCatalog(),
		// Interactions carry no category, so no preference signal exists.
		Viewed: []core.Interaction{{ProductID: 1, Kind: core.ActionView}},
	}

	result := a.Recommend(context.Background(), nil, actx)
	if got, want := productIDs(result.Recommendations), []int64{2, 3, 4, 5, 6}; !reflect.DeepEqual(got, want) {
		t.Errorf("product ids = %v, want %v", got, want)
	}
	if want := "popular Fruits item"; result.Recommendations[0].Reason != want {
		t.Errorf("Reason = %q, want %q", result.Recommendations[0].Reason, want)
	}
}

func TestRecommendAISourced(t *testing.T) {
	backend := &fakeBackend{
		// String id must coerce; 999 is outside the catalog and must be dropped.
		response: "```json\n[{\"productId\": \"2\", \"reason\": \"pairs with recent views\"}, {\"productId\": 999, \"reason\": \"bogus\"}]\n```",
	}
	a := &Arbiter{Backend: backend}
	actx := &core.AssembledContext{
		Catalog: testCatalog(),
		Viewed:  []core.Interaction{{ProductID: 1, Name: "Apples", Category: "Fruits", Kind: core.ActionView}},
	}

	result := a.Recommend(context.Background(), nil, actx)

	if result.Provenance != core.ProvenanceAI {
		t.Fatalf("Provenance = %q, want %q", result.Provenance, core.ProvenanceAI)
	}
	if got, want := productIDs(result.Recommendations), []int64{2}; !reflect.DeepEqual(got, want) {
		t.Errorf("product ids = %v, want %v", got, want)
	}
	if result.Recommendations[0].Reason != "pairs with recent views" {
		t.Errorf("Reason = %q, want backend justification", result.Recommendations[0].Reason)
	}
	if backend.lastPrompt == "" {
		t.Error("backend received empty prompt")
	}
}

func TestRecommendAIFailuresFallBack(t *testing.T) {
	actx := &core.AssembledContext{
		Catalog: testCatalog(),
		Viewed:  []core.Interaction{{ProductID: 1, Category: "Fruits", Kind: core.ActionView}},
	}

	tests := []struct {
		name    string
		backend *fakeBackend
		limiter Limiter
	}{
		{name: "backend error", backend: &fakeBackend{err: core.ErrBackendQuota}},
		{name: "malformed json", backend: &fakeBackend{response: "sorry, I cannot help with that"}},
		{name: "empty array", backend: &fakeBackend{response: "[]"}},
		{name: "all ids unknown", backend: &fakeBackend{response: `[{"productId": 999, "reason": "x"}]`}},
		{name: "limiter denies", backend: &fakeBackend{response: `[{"productId": 2, "reason": "x"}]`}, limiter: failLimiter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Arbiter{Backend: tt.backend, Limiter: tt.limiter}
			result := a.Recommend(context.Background(), nil, actx)

			if result.Provenance != core.ProvenanceFallback {
				t.Errorf("Provenance = %q, want %q", result.Provenance, core.ProvenanceFallback)
			}
			if len(result.Recommendations) == 0 {
				t.Error("fallback produced no recommendations despite non-empty catalog")
			}
			if tt.limiter != nil && tt.backend.calls != 0 {
				t.Errorf("backend called %d times past a denying limiter, want 0", tt.backend.calls)
			}
		})
	}
}

func TestRecommendFallbackIdempotent(t *testing.T) {
	a := &Arbiter{}
	actx := &core.AssembledContext{
		Catalog:             testCatalog(),
		Viewed:              []core.Interaction{{ProductID: 3, Category: "Vegetables", Kind: core.ActionView}},
		PreferredCategories: []string{"Vegetables", "Fruits"},
	}

	first := a.Recommend(context.Background(), nil, actx)
	for i := 0; i < 5; i++ {
		again := a.Recommend(context.Background(), nil, actx)
		if !reflect.DeepEqual(productIDs(again.Recommendations), productIDs(first.Recommendations)) {
			t.Fatalf("run %d: ids %v differ from first run %v",
				i, productIDs(again.Recommendations), productIDs(first.Recommendations))
		}
	}
}

func TestRecommendMaxRecommendations(t *testing.T) {
	a := &Arbiter{MaxRecommendations: 2}
	actx := &core.AssembledContext{Catalog: testCatalog()}

	result := a.Recommend(context.Background(), nil, actx)
	if len(result.Recommendations) != 2 {
		t.Errorf("got %d recommendations, want 2", len(result.Recommendations))
	}
}
