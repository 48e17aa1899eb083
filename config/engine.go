package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/shopkit/history"
	"github.com/rushteam/shopkit/llm"
)

// Engine 是推荐引擎的顶层配置（YAML）。
//
// 示例：
//
//	retention:
//	  view: 50
//	  cart: 0
//	  purchase: 0
//	limits:
//	  top_categories: 6
//	  max_recommendations: 5
//	  viewed_window: 10
//	  purchased_window: 5
//	backend:
//	  model: gemini-2.0-flash
//	  api_key_env: GEMINI_API_KEY
//	  min_interval_ms: 2500
//	  breaker:
//	    failure_threshold: 3
//	    timeout_seconds: 60
//	rules:
//	  - 'item.price > 500.0'
type Engine struct {
	Retention history.RetentionPolicy `yaml:"retention"`

	Limits struct {
		// TopCategories 偏好类目上限，默认 6
		TopCategories int `yaml:"top_categories"`
		// MaxRecommendations 单次推荐数量，默认 5
		MaxRecommendations int `yaml:"max_recommendations"`
		// ViewedWindow / PurchasedWindow 进入提示词的窗口，默认 10 / 5
		ViewedWindow    int `yaml:"viewed_window"`
		PurchasedWindow int `yaml:"purchased_window"`
	} `yaml:"limits"`

	Backend struct {
		// Model 为空时使用后端默认模型
		Model string `yaml:"model"`
		// APIKeyEnv 是存放 API key 的环境变量名；未设置或取值为空时后端视为未配置
		APIKeyEnv string `yaml:"api_key_env"`
		// MinIntervalMS 相邻调用最小间隔（毫秒），默认 2500
		MinIntervalMS int `yaml:"min_interval_ms"`
		// Breaker 熔断配置
		Breaker llm.BreakerConfig `yaml:"breaker"`
	} `yaml:"backend"`

	// Rules 是兜底路径的 CEL 排除规则，命中的候选被过滤
	Rules []string `yaml:"rules"`
}

// DefaultEngine 返回带默认值的配置。
func DefaultEngine() Engine {
	var cfg Engine
	cfg.Retention = history.DefaultRetention()
	cfg.Limits.TopCategories = history.DefaultTopCategories
	cfg.Limits.MaxRecommendations = 5
	cfg.Limits.ViewedWindow = 10
	cfg.Limits.PurchasedWindow = 5
	cfg.Backend.MinIntervalMS = int(llm.DefaultMinInterval / time.Millisecond)
	return cfg
}

// MinInterval 返回后端调用最小间隔。
func (c *Engine) MinInterval() time.Duration {
	if c.Backend.MinIntervalMS <= 0 {
		return llm.DefaultMinInterval
	}
	return time.Duration(c.Backend.MinIntervalMS) * time.Millisecond
}

// APIKey 从配置的环境变量读取 API key，未配置时返回空串。
func (c *Engine) APIKey() string {
	if c.Backend.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Backend.APIKeyEnv)
}

// LoadEngine 从 YAML 文件加载引擎配置，未出现的字段保持默认值。
func LoadEngine(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := DefaultEngine()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}
