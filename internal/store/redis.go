package store

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

const (
	usersKey = "users"
	todosKey = "todos"

	todoIndexPrefix = "todos:user:"
)

// RedisStore is an implementation of Store backed by Redis.  Users and
// todos each live in one hash keyed by id with JSON values; a set per
// user indexes that user's todo ids.  Filtering and ordering of users is
// done in process, which is fine for a directory of a few thousand
// entries.  Todo mutations run as Lua scripts, so id allocation and
// toggles are atomic on the server; user and import upserts use WATCH
// transactions.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore connects to a Redis instance at the provided address.  A
// ping is performed to verify connectivity.
func NewRedisStore(addr string, password string, tls *tls.Config) (*RedisStore, error) {
	opts := &redis.Options{
		Addr:     addr,
		Password: password, // empty string means no auth
		DB:       0,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	}
	if tls != nil {
		opts.TLSConfig = tls
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func todoIndexKey(userID int) string {
	return todoIndexPrefix + strconv.Itoa(userID)
}

func (s *RedisStore) ListUsers(ctx context.Context, q model.UserQuery) (model.UserPage, error) {
	vals, err := s.client.HVals(ctx, usersKey).Result()
	if err != nil {
		return model.UserPage{}, fmt.Errorf("redis hvals failed: %w", err)
	}
	users := make([]model.User, 0, len(vals))
	for _, v := range vals {
		var u model.User
		if err := json.Unmarshal([]byte(v), &u); err != nil {
			return model.UserPage{}, fmt.Errorf("failed to unmarshal user json: %w", err)
		}
		users = append(users, u)
	}
	return q.Apply(users), nil
}

func (s *RedisStore) GetUser(ctx context.Context, id int) (*model.User, error) {
	var u model.User
	if err := s.getJSON(ctx, s.client, usersKey, id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *RedisStore) UpsertUser(ctx context.Context, u model.User) error {
	return s.watch(ctx, func(tx *redis.Tx) error {
		now := s.now()
		var prev model.User
		switch err := s.getJSON(ctx, tx, usersKey, u.ID, &prev); {
		case err == nil:
			u.CreatedAt = prev.CreatedAt
		case errors.Is(err, ErrNotFound):
			if u.CreatedAt.IsZero() {
				u.CreatedAt = now
			}
		default:
			return err
		}
		u.UpdatedAt = now
		return s.setJSON(ctx, tx, usersKey, u.ID, u, nil)
	}, usersKey)
}

func (s *RedisStore) CountUsers(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, usersKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis hlen failed: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) ListTodos(ctx context.Context, userID int) ([]model.Todo, error) {
	todos, err := s.todosOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	model.SortTodosForList(todos)
	return todos, nil
}

func (s *RedisStore) ListTodosNewestFirst(ctx context.Context, userID int) ([]model.Todo, error) {
	todos, err := s.todosOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	model.SortTodosNewestFirst(todos)
	return todos, nil
}

func (s *RedisStore) todosOf(ctx context.Context, userID int) ([]model.Todo, error) {
	ids, err := s.client.SMembers(ctx, todoIndexKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers failed: %w", err)
	}
	todos := make([]model.Todo, 0, len(ids))
	if len(ids) == 0 {
		return todos, nil
	}
	vals, err := s.client.HMGet(ctx, todosKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget failed: %w", err)
	}
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a todo; skip it.
			continue
		}
		var t model.Todo
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal todo json: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, nil
}

// createTodoScript allocates max(id)+1 and stores the todo in one
// server-side step.  It returns nil when the owner does not exist.
var createTodoScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
	return false
end
local maxID = 0
for _, k in ipairs(redis.call('HKEYS', KEYS[2])) do
	local id = tonumber(k)
	if id and id > maxID then
		maxID = id
	end
end
local t = cjson.decode(ARGV[2])
t.id = maxID + 1
local raw = cjson.encode(t)
local field = string.format('%d', t.id)
redis.call('HSET', KEYS[2], field, raw)
redis.call('SADD', KEYS[3], field)
return raw
`)

// modifyTodoScript merges a patch into a stored todo, optionally
// flipping completed, and stamps updatedAt.  It returns nil when the
// todo does not exist.
var modifyTodoScript = redis.NewScript(`
local raw = redis.call('HGET', KEYS[1], ARGV[1])
if not raw then
	return false
end
local t = cjson.decode(raw)
for k, v in pairs(cjson.decode(ARGV[3])) do
	t[k] = v
end
if ARGV[4] == '1' then
	t.completed = not t.completed
end
t.updatedAt = ARGV[2]
raw = cjson.encode(t)
redis.call('HSET', KEYS[1], ARGV[1], raw)
return raw
`)

// deleteTodoScript removes a todo and its index entry.  The owner's index
// key is only known after the read, so it is built from ARGV[2].  It
// returns 0 when the todo does not exist.
var deleteTodoScript = redis.NewScript(`
local raw = redis.call('HGET', KEYS[1], ARGV[1])
if not raw then
	return 0
end
local t = cjson.decode(raw)
redis.call('HDEL', KEYS[1], ARGV[1])
redis.call('SREM', ARGV[2] .. string.format('%d', t.userId), ARGV[1])
return 1
`)

// CreateTodo runs the id allocation on the server, so concurrent creates
// never compute the same id and never conflict.
func (s *RedisStore) CreateTodo(ctx context.Context, userID int, text string) (*model.Todo, error) {
	now := s.now()
	data, err := json.Marshal(model.Todo{Todo: text, UserID: userID, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal todo: %w", err)
	}
	raw, err := createTodoScript.Run(ctx, s.client,
		[]string{usersKey, todosKey, todoIndexKey(userID)},
		strconv.Itoa(userID), data,
	).Text()
	return decodeTodo(raw, err)
}

// todoPatch is the JSON form of model.TodoPatch merged by
// modifyTodoScript.
type todoPatch struct {
	Todo      *string `json:"todo,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (s *RedisStore) UpdateTodo(ctx context.Context, id int, p model.TodoPatch) (*model.Todo, error) {
	return s.modifyTodo(ctx, id, todoPatch{Todo: p.Todo, Completed: p.Completed}, false)
}

// ToggleTodo flips the flag inside one script, so concurrent toggles
// serialise on the server.
func (s *RedisStore) ToggleTodo(ctx context.Context, id int) (*model.Todo, error) {
	return s.modifyTodo(ctx, id, todoPatch{}, true)
}

func (s *RedisStore) modifyTodo(ctx context.Context, id int, p todoPatch, toggle bool) (*model.Todo, error) {
	patch, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patch: %w", err)
	}
	updatedAt, err := s.now().MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to format time: %w", err)
	}
	flip := "0"
	if toggle {
		flip = "1"
	}
	raw, err := modifyTodoScript.Run(ctx, s.client, []string{todosKey},
		strconv.Itoa(id), string(updatedAt), patch, flip,
	).Text()
	return decodeTodo(raw, err)
}

// decodeTodo turns a script reply into a todo.  A nil reply is
// ErrNotFound.
func decodeTodo(raw string, err error) (*model.Todo, error) {
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis script failed: %w", err)
	}
	var t model.Todo
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal todo json: %w", err)
	}
	return &t, nil
}

func (s *RedisStore) DeleteTodo(ctx context.Context, id int) error {
	n, err := deleteTodoScript.Run(ctx, s.client, []string{todosKey},
		strconv.Itoa(id), todoIndexPrefix,
	).Int()
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) UpsertTodo(ctx context.Context, t model.Todo) error {
	return s.watch(ctx, func(tx *redis.Tx) error {
		now := s.now()
		var prev model.Todo
		switch err := s.getJSON(ctx, tx, todosKey, t.ID, &prev); {
		case err == nil:
			t.CreatedAt = prev.CreatedAt
		case errors.Is(err, ErrNotFound):
			if t.CreatedAt.IsZero() {
				t.CreatedAt = now
			}
		default:
			return err
		}
		t.UpdatedAt = now
		return s.setJSON(ctx, tx, todosKey, t.ID, t, func(pipe redis.Pipeliner) {
			if prev.ID != 0 && prev.UserID != t.UserID {
				pipe.SRem(ctx, todoIndexKey(prev.UserID), strconv.Itoa(t.ID))
			}
			pipe.SAdd(ctx, todoIndexKey(t.UserID), strconv.Itoa(t.ID))
		})
	}, todosKey)
}

func (s *RedisStore) CountTodos(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, todosKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis hlen failed: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// watch runs fn inside a WATCH on keys, retrying when another client
// modified a watched key before EXEC until ctx is done.
func (s *RedisStore) watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	for {
		err := s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("redis transaction on %v: %w", keys, err)
		}
	}
}

type hashGetter interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

// getJSON reads one hash field and decodes it.  A missing field is
// ErrNotFound.
func (s *RedisStore) getJSON(ctx context.Context, c hashGetter, key string, id int, dst any) error {
	raw, err := c.HGet(ctx, key, strconv.Itoa(id)).Result()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redis hget failed: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s json: %w", key, err)
	}
	return nil
}

// setJSON writes one hash field inside a MULTI block.  extra may queue
// further commands in the same transaction.
func (s *RedisStore) setJSON(ctx context.Context, tx *redis.Tx, key string, id int, v any, extra func(redis.Pipeliner)) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, strconv.Itoa(id), data)
		if extra != nil {
			extra(pipe)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
