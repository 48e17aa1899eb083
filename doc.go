// Package shopkit 是一个购物推荐工具包（Shopping Recommender Kit）。
//
// 设计要点：
// - Arbitration-first: 优先采用 AI 生成的推荐，parse-then-validate 失败即退回规则兜底，
//   任何失败都不会越过仲裁层边界
// - Pipeline-first: 兜底逻辑通过 Node 串联（Recall → Filter → ReRank）
// - Labels-first: 推荐理由/召回来源全链路透传，支持 explain / 观测
package shopkit

import "github.com/rushteam/shopkit/pipeline"

// 轻量 facade：便于用户直接 import "shopkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind
