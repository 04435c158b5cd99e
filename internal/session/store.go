// Package session 管理持久化的会话状态（登录 token、角色标记、kiosk 购物车）。
// 所有状态带 TTL 存 Redis，丢了只影响当前会话，不影响任何业务数据。
package session

import (
	"context"
	"errors"
	"time"

	"orvio-console/internal/domain"

	"github.com/go-redis/redis/v8"
)

var ErrMiss = errors.New("session miss")

// KV 最小键值接口（便于测试替换）
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisKV Redis 实现
type RedisKV struct {
	c *redis.Client
}

func NewRedisKV(c *redis.Client) *RedisKV { return &RedisKV{c: c} }

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.c.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKV) Del(ctx context.Context, keys ...string) error {
	return r.c.Del(ctx, keys...).Err()
}

// 固定存储键。token 和 role 成对写入、成对清除。
const (
	tokenKeyPrefix = "orvio:session:"
	tokenKeySuffix = ":token"
	roleKeySuffix  = ":role"
)

// Store 控制台会话存储
type Store struct {
	kv  KV
	ttl time.Duration
}

func NewStore(kv KV, ttl time.Duration) *Store {
	return &Store{kv: kv, ttl: ttl}
}

// Save 登录成功后保存 token + 角色标记（同一 TTL）
func (s *Store) Save(ctx context.Context, sessionID, token string, role domain.UserRole) error {
	if err := s.kv.Set(ctx, tokenKeyPrefix+sessionID+tokenKeySuffix, token, s.ttl); err != nil {
		return err
	}
	return s.kv.Set(ctx, tokenKeyPrefix+sessionID+roleKeySuffix, role.String(), s.ttl)
}

// Load 读取会话。任一键缺失视为未登录。
func (s *Store) Load(ctx context.Context, sessionID string) (token string, role domain.UserRole, err error) {
	token, err = s.kv.Get(ctx, tokenKeyPrefix+sessionID+tokenKeySuffix)
	if err != nil {
		return "", domain.UserRoleAdmin, err
	}
	roleName, err := s.kv.Get(ctx, tokenKeyPrefix+sessionID+roleKeySuffix)
	if err != nil {
		return "", domain.UserRoleAdmin, err
	}
	role = domain.UserRoleAdmin
	if roleName == domain.UserRoleSystemAdmin.String() {
		role = domain.UserRoleSystemAdmin
	}
	return token, role, nil
}

// Clear 登出：token 和角色标记一起删
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.kv.Del(ctx,
		tokenKeyPrefix+sessionID+tokenKeySuffix,
		tokenKeyPrefix+sessionID+roleKeySuffix,
	)
}
