package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/models"
)

// Key layout, all keys prefixed with "<storeID>:":
//
//	event:<id>        HASH   row (JSON), synced ("0"/"1"), member
//	pending           ZSET   lexicographic index "<producer>\x00<lamport>\x00<id>"
//	stream:<streamID> ZSET   id scored by stream_seq
//	head:<streamID>   HASH   version, seq
//	meta              HASH   sync metadata
const memberSeparator = "\x00"

var insertEventScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  if ARGV[2] == '1' then
    redis.call('HSET', KEYS[1], 'synced', '1')
    local m = redis.call('HGET', KEYS[1], 'member')
    if m then redis.call('ZREM', KEYS[2], m) end
  end
  return 0
end
redis.call('HSET', KEYS[1], 'row', ARGV[1], 'synced', ARGV[2], 'member', ARGV[3])
if ARGV[2] == '0' then redis.call('ZADD', KEYS[2], 0, ARGV[3]) end
redis.call('ZADD', KEYS[3], tonumber(ARGV[4]), ARGV[5])
local v = tonumber(redis.call('HGET', KEYS[4], 'version') or '0')
if tonumber(ARGV[6]) > v then redis.call('HSET', KEYS[4], 'version', ARGV[6]) end
local s = tonumber(redis.call('HGET', KEYS[4], 'seq') or '0')
if tonumber(ARGV[4]) > s then redis.call('HSET', KEYS[4], 'seq', ARGV[4]) end
return 1
`)

var markSyncedScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return 0 end
redis.call('HSET', KEYS[1], 'synced', '1')
local m = redis.call('HGET', KEYS[1], 'member')
if m then redis.call('ZREM', KEYS[2], m) end
return 1
`)

// redisEventStorage is the Redis implementation of [Storage], for devices
// that already run a local Redis (edge gateways).
type redisEventStorage struct {
	client *redis.Client
	prefix string
	logger *logger.Logger
}

// NewRedisEventStorage returns a [Storage] keeping its keys under storeID.
func NewRedisEventStorage(client *redis.Client, storeID string, logger *logger.Logger) Storage {
	return &redisEventStorage{
		client: client,
		prefix: storeID + ":",
		logger: logger,
	}
}

func (r *redisEventStorage) eventKey(id string) string { return r.prefix + "event:" + id }

func (r *redisEventStorage) pendingKey() string { return r.prefix + "pending" }

func (r *redisEventStorage) streamKey(streamID string) string { return r.prefix + "stream:" + streamID }

func (r *redisEventStorage) headKey(streamID string) string { return r.prefix + "head:" + streamID }

func (r *redisEventStorage) metaKey() string { return r.prefix + "meta" }

func pendingMember(row models.EventLogRow) string {
	return row.ProducerID + memberSeparator + fmt.Sprintf("%020d", row.Lamport) + memberSeparator + row.ID
}

func idFromMember(member string) string {
	return member[strings.LastIndex(member, memberSeparator)+1:]
}

func (r *redisEventStorage) Initialize(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "redisEventStorage.Initialize").Msg("redis is unreachable")
		return fmt.Errorf("redis is unreachable: %w", err)
	}
	return nil
}

func (r *redisEventStorage) CreateEvent(ctx context.Context, row models.EventLogRow) error {
	if err := r.insert(ctx, row); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "redisEventStorage.CreateEvent").
			Str("event_id", row.ID).
			Msg("failed to insert event")
		return err
	}
	return nil
}

func (r *redisEventStorage) insert(ctx context.Context, row models.EventLogRow) error {
	if row.ID == "" {
		return ErrEmptyEventID
	}

	raw, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("error encoding event %s: %w", row.ID, err)
	}

	synced := "0"
	if row.Synced {
		synced = "1"
	}

	keys := []string{r.eventKey(row.ID), r.pendingKey(), r.streamKey(row.StreamID), r.headKey(row.StreamID)}
	args := []any{string(raw), synced, pendingMember(row), row.StreamSeq, row.ID, row.Version}

	if err := insertEventScript.Run(ctx, r.client, keys, args...).Err(); err != nil {
		return fmt.Errorf("error inserting event %s: %w", row.ID, err)
	}
	return nil
}

func (r *redisEventStorage) GetPendingEvents(ctx context.Context) ([]models.EventLogRow, error) {
	members, err := r.client.ZRange(ctx, r.pendingKey(), 0, -1).Result()
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "redisEventStorage.GetPendingEvents").Msg("failed to read pending index")
		return nil, fmt.Errorf("error reading pending index: %w", err)
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, idFromMember(m))
	}

	return r.loadRows(ctx, ids)
}

func (r *redisEventStorage) MarkEventAsSynced(ctx context.Context, id string) error {
	if err := markSyncedScript.Run(ctx, r.client, []string{r.eventKey(id), r.pendingKey()}).Err(); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "redisEventStorage.MarkEventAsSynced").Str("event_id", id).Msg("failed to mark event as synced")
		return fmt.Errorf("error marking event %s synced: %w", id, err)
	}
	return nil
}

func (r *redisEventStorage) HasEvent(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, r.eventKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("error checking event %s: %w", id, err)
	}
	return n > 0, nil
}

func (r *redisEventStorage) SaveRemoteEvents(ctx context.Context, rows ...models.EventLogRow) error {
	for _, row := range rows {
		row.Synced = true
		if err := r.insert(ctx, row); err != nil {
			logger.FromContext(ctx).Err(err).
				Str("func", "redisEventStorage.SaveRemoteEvents").
				Str("event_id", row.ID).
				Msg("failed to save remote event")
			return err
		}
	}
	return nil
}

func (r *redisEventStorage) GetStreamEvents(ctx context.Context, streamID string) ([]models.EventLogRow, error) {
	ids, err := r.client.ZRange(ctx, r.streamKey(streamID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading stream %s: %w", streamID, err)
	}
	return r.loadRows(ctx, ids)
}

func (r *redisEventStorage) GetStreamHead(ctx context.Context, streamID string) (StreamHead, error) {
	values, err := r.client.HMGet(ctx, r.headKey(streamID), "version", "seq").Result()
	if err != nil {
		return StreamHead{}, fmt.Errorf("error reading stream head %s: %w", streamID, err)
	}

	var head StreamHead
	head.Version = parseInt64(values[0])
	head.StreamSeq = parseInt64(values[1])
	return head, nil
}

func (r *redisEventStorage) PendingCount(ctx context.Context) (int, error) {
	n, err := r.client.ZCard(ctx, r.pendingKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("error counting pending events: %w", err)
	}
	return int(n), nil
}

func (r *redisEventStorage) GetSyncMetadata(ctx context.Context, key string) (string, error) {
	value, err := r.client.HGet(ctx, r.metaKey(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMetadataNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error reading sync metadata %s: %w", key, err)
	}
	return value, nil
}

func (r *redisEventStorage) SetSyncMetadata(ctx context.Context, key, value string) error {
	if err := r.client.HSet(ctx, r.metaKey(), key, value).Err(); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "redisEventStorage.SetSyncMetadata").Str("key", key).Msg("failed to write sync metadata")
		return fmt.Errorf("error writing sync metadata %s: %w", key, err)
	}
	return nil
}

func (r *redisEventStorage) Close() error {
	return r.client.Close()
}

func (r *redisEventStorage) loadRows(ctx context.Context, ids []string) ([]models.EventLogRow, error) {
	rows := make([]models.EventLogRow, 0, len(ids))
	if len(ids) == 0 {
		return rows, nil
	}

	cmds := make([]*redis.SliceCmd, len(ids))
	_, err := r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HMGet(ctx, r.eventKey(id), "row", "synced")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error loading events: %w", err)
	}

	for i, cmd := range cmds {
		values := cmd.Val()
		raw, ok := values[0].(string)
		if !ok {
			// index entry without row, skipped
			continue
		}

		var row models.EventLogRow
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDecodingRow, ids[i], err)
		}
		row.Synced = values[1] == "1"
		rows = append(rows, row)
	}

	return rows, nil
}

func parseInt64(v any) int64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
