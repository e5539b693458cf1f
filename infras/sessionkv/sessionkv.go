package sessionkv

//go:generate go run go.uber.org/mock/mockgen -source=./sessionkv.go -destination=./mocks/sessionkv_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	goRedis "github.com/redis/go-redis/v9"

	"conferent/config"
	"conferent/infras/otel"
	"conferent/shared/constant"
	"conferent/shared/logger"
)

// Store is a small string key-value store for session state. Missing keys
// read back as the empty string.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	SetAll(ctx context.Context, pairs map[string]string) error
	DeleteAll(ctx context.Context, keys ...string) error
}

type redisStore struct {
	client *goRedis.Client
	otel   otel.Otel
	prefix string
}

func New(cfg *config.Config, client *goRedis.Client, otl otel.Otel) Store {
	return &redisStore{
		client: client,
		otel:   otl,
		prefix: cfg.Session.KVPrefix,
	}
}

func (s *redisStore) key(key string) string {
	if s.prefix == "" {
		return key
	}

	return fmt.Sprintf("%s:%s", s.prefix, key)
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelSessionScopeName, constant.OtelSessionScopeName+".Get")
	defer scope.End()

	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, goRedis.Nil) {
		return "", nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return "", errors.Wrap(err, "reading session key")
	}

	return val, nil
}

// SetAll writes all pairs in one command so readers never see a partial session.
func (s *redisStore) SetAll(ctx context.Context, pairs map[string]string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelSessionScopeName, constant.OtelSessionScopeName+".SetAll")
	defer scope.End()

	if len(pairs) == 0 {
		return nil
	}

	args := make([]any, 0, len(pairs)*2)
	for key, val := range pairs {
		args = append(args, s.key(key), val)
	}

	if err := s.client.MSet(ctx, args...).Err(); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return errors.Wrap(err, "writing session keys")
	}

	return nil
}

func (s *redisStore) DeleteAll(ctx context.Context, keys ...string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelSessionScopeName, constant.OtelSessionScopeName+".DeleteAll")
	defer scope.End()

	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, s.key(key))
	}

	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return errors.Wrap(err, "deleting session keys")
	}

	return nil
}
