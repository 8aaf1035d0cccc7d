package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	defaultCacheTTL     = time.Hour
	defaultCacheTimeout = 5 * time.Second
)

var (
	errKeyRequired    = errors.New("key is required")
	errValueRequired  = errors.New("value is required")
	errMemberRequired = errors.New("member is required")
)

type KeyType interface {
	string | uuid.UUID
}

// CacheBuilder assembles a single valkey command against one key:
//
//	database.NewCacheBuilder(cache, id).WithHash("user").WithStruct(user).Set()
//
// Errors from the With* steps are held until the terminal call.
type CacheBuilder struct {
	cache   valkey.Client
	key     string
	value   string
	member  string
	ttl     time.Duration
	ctx     context.Context
	timeout time.Duration
	err     error
}

func NewCacheBuilder[K KeyType](cache valkey.Client, key K) *CacheBuilder {
	cb := &CacheBuilder{
		cache:   cache,
		ttl:     defaultCacheTTL,
		ctx:     context.Background(),
		timeout: defaultCacheTimeout,
	}

	switch k := any(key).(type) {
	case string:
		cb.key = k
	case uuid.UUID:
		cb.key = k.String()
	}

	return cb
}

// WithHash namespaces the key as "hash:key".
func (cb *CacheBuilder) WithHash(hash string) *CacheBuilder {
	if hash != "" {
		cb.key = hash + ":" + cb.key
	}
	return cb
}

func (cb *CacheBuilder) WithStruct(value any) *CacheBuilder {
	bytes, err := json.Marshal(value)
	if err != nil {
		cb.err = fmt.Errorf("failed to marshal value to json: %w", err)
		return cb
	}

	cb.value = string(bytes)
	return cb
}

func (cb *CacheBuilder) WithMember(member string) *CacheBuilder {
	cb.member = member
	return cb
}

func (cb *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	cb.ttl = ttl
	return cb
}

func (cb *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	cb.ctx = ctx
	return cb
}

func (cb *CacheBuilder) check(needValue, needMember bool) error {
	switch {
	case cb.err != nil:
		return cb.err
	case cb.key == "":
		return errKeyRequired
	case needValue && cb.value == "":
		return errValueRequired
	case needMember && cb.member == "":
		return errMemberRequired
	}
	return nil
}

func (cb *CacheBuilder) Set() error {
	if err := cb.check(true, false); err != nil {
		return err
	}

	ctx, cancel := cb.timeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Set().Key(cb.key).Value(cb.value).Ex(cb.ttl).Build()).Error()
}

// Get decodes the cached JSON into result. A missing key is not an error.
func (cb *CacheBuilder) Get(result any) (bool, error) {
	if err := cb.check(false, false); err != nil {
		return false, err
	}

	ctx, cancel := cb.timeoutContext()
	defer cancel()

	data, err := cb.cache.Do(ctx, cb.cache.B().Get().Key(cb.key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) || (err == nil && len(data) == 0) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, result); err != nil {
		return false, err
	}
	return true, nil
}

func (cb *CacheBuilder) Delete() error {
	if err := cb.check(false, false); err != nil {
		return err
	}

	ctx, cancel := cb.timeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Del().Key(cb.key).Build()).Error()
}

// AddMember adds the member to the set and pushes the set's expiry out to the
// builder's TTL, so an index never outlives the entries it points at.
func (cb *CacheBuilder) AddMember() error {
	if err := cb.check(false, true); err != nil {
		return err
	}

	ctx, cancel := cb.timeoutContext()
	defer cancel()

	for _, result := range cb.cache.DoMulti(ctx,
		cb.cache.B().Sadd().Key(cb.key).Member(cb.member).Build(),
		cb.cache.B().Expire().Key(cb.key).Seconds(int64(cb.ttl/time.Second)).Build(),
	) {
		if err := result.Error(); err != nil {
			return err
		}
	}
	return nil
}

func (cb *CacheBuilder) RemoveMember() error {
	if err := cb.check(false, true); err != nil {
		return err
	}

	ctx, cancel := cb.timeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Srem().Key(cb.key).Member(cb.member).Build()).Error()
}

func (cb *CacheBuilder) Members() ([]string, error) {
	if err := cb.check(false, false); err != nil {
		return nil, err
	}

	ctx, cancel := cb.timeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Smembers().Key(cb.key).Build()).AsStrSlice()
}

// timeoutContext bounds the call by the builder timeout unless the caller's
// context already ends sooner.
func (cb *CacheBuilder) timeoutContext() (context.Context, context.CancelFunc) {
	if deadline, ok := cb.ctx.Deadline(); ok && time.Until(deadline) < cb.timeout {
		return context.WithCancel(cb.ctx)
	}
	return context.WithTimeout(cb.ctx, cb.timeout)
}
