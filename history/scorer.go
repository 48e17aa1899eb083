// Package history 负责交互历史：记录（Recorder）与偏好打分（Scorer）。
package history

import (
	"sort"

	"github.com/rushteam/shopkit/core"
)

// DefaultTopCategories 是偏好类目的默认返回上限。
const DefaultTopCategories = 6

// Scorer 把三个交互流（浏览/加购/购买）转成有序的偏好类目列表。
// 纯函数：无副作用，只依赖输入。
type Scorer struct {
	// TopK 返回的类目数量上限，<= 0 时使用 DefaultTopCategories
	TopK int
}

// PreferredCategories 计算偏好类目：
// 三个流按 viewed、cart、purchased 顺序拼接，跳过空类目，按出现次数
// 降序排序；次数相同时按拼接序列中的首次出现顺序稳定排序；返回前 TopK 个。
// 结果无重复，可能为空。
func (s *Scorer) PreferredCategories(viewed, cart, purchased []core.Interaction) []string {
	topK := s.TopK
	if topK <= 0 {
		topK = DefaultTopCategories
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, stream := range [][]core.Interaction{viewed, cart, purchased} {
		for _, in := range stream {
			if in.Category == "" {
				continue
			}
			if _, ok := counts[in.Category]; !ok {
				firstSeen[in.Category] = order
			}
			counts[in.Category]++
			order++
		}
	}

	if len(counts) == 0 {
		return nil
	}

	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return firstSeen[categories[i]] < firstSeen[categories[j]]
	})

	if len(categories) > topK {
		categories = categories[:topK]
	}
	return categories
}
