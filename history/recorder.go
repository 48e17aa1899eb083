package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rushteam/shopkit/core"
)

// DefaultKeyPrefix 是交互集合在 Store 中的 key 前缀，
// 实际 key 为 {KeyPrefix}:{UserID}:{kind}。
const DefaultKeyPrefix = "user:interactions"

// RetentionPolicy 是按行为类型的保留上限（条数），0 表示不裁剪。
// 浏览流量大、信号衰减快，默认只保留最近 50 条；加购/购买保留全量。
// 每种行为的上限都是显式配置，不做隐式特判。
type RetentionPolicy struct {
	View     int `yaml:"view" json:"view"`
	Cart     int `yaml:"cart" json:"cart"`
	Purchase int `yaml:"purchase" json:"purchase"`
}

// DefaultRetention 返回默认保留策略：view=50，其余不裁剪。
func DefaultRetention() RetentionPolicy {
	return RetentionPolicy{View: 50, Cart: 0, Purchase: 0}
}

// Cap 返回指定行为类型的保留上限。
func (p RetentionPolicy) Cap(kind core.ActionKind) int {
	switch kind {
	case core.ActionView:
		return p.View
	case core.ActionCart:
		return p.Cart
	case core.ActionPurchase:
		return p.Purchase
	default:
		return 0
	}
}

// Recorder 是交互记录器：把一条 Interaction 追加进 Store 里按行为类型
// 分桶的 JSON 列表。写入是整集合读-改-写（集合作为单个 JSON 值持久化），
// 超出保留上限时淘汰最旧的记录。
//
// 购买行为同时向热度排行累积分数（Store 为 KeyValueStore 时），
// 供冷启动的热门召回使用。
type Recorder struct {
	Store core.Store

	// KeyPrefix 为空时使用 DefaultKeyPrefix
	KeyPrefix string

	// Retention 保留策略；零值表示全部不裁剪
	Retention RetentionPolicy

	// PopularKey 热度排行 key，为空时不累积热度
	PopularKey string

	// Now 可注入时钟，默认 time.Now
	Now func() time.Time
}

func (r *Recorder) key(userID string, kind core.ActionKind) string {
	prefix := r.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return prefix + ":" + userID + ":" + string(kind)
}

func (r *Recorder) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Record 追加一条交互记录。
func (r *Recorder) Record(ctx context.Context, userID string, kind core.ActionKind, p core.Product) error {
	if userID == "" || !p.Valid() {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "recorder: empty user id or invalid product")
	}

	records, err := r.Load(ctx, userID, kind)
	if err != nil {
		return err
	}

	records = append(records, core.Interaction{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Kind:      kind,
		Timestamp: r.now(),
	})

	// 裁剪：保留最近的 cap 条，最旧的先淘汰
	if limit := r.Retention.Cap(kind); limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal interactions: %w", err)
	}
	if err := r.Store.Set(ctx, r.key(userID, kind), data); err != nil {
		return fmt.Errorf("store interactions: %w", err)
	}

	if kind == core.ActionPurchase && r.PopularKey != "" {
		r.bumpPopularity(ctx, p.ID)
	}
	return nil
}

// Load 读取某个行为类型的交互集合；key 不存在时返回空集合。
func (r *Recorder) Load(ctx context.Context, userID string, kind core.ActionKind) ([]core.Interaction, error) {
	data, err := r.Store.Get(ctx, r.key(userID, kind))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load interactions: %w", err)
	}

	var records []core.Interaction
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse interactions: %w", err)
	}
	return records, nil
}

// bumpPopularity 向热度排行累积一次购买。失败只影响排行，不影响记录本身。
func (r *Recorder) bumpPopularity(ctx context.Context, productID int64) {
	kv, ok := r.Store.(core.KeyValueStore)
	if !ok {
		return
	}
	member := strconv.FormatInt(productID, 10)
	score, err := kv.ZScore(ctx, r.PopularKey, member)
	if err != nil && !core.IsStoreNotFound(err) {
		return
	}
	_ = kv.ZAdd(ctx, r.PopularKey, score+1, member)
}
