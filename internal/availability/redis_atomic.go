package availability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// AtomicRedisOperations handles atomic Redis operations for room-night holds
type AtomicRedisOperations struct {
	redis *redis.Client
}

// NewAtomicRedisOperations creates a new atomic Redis operations handler
func NewAtomicRedisOperations(redisClient *redis.Client) *AtomicRedisOperations {
	return &AtomicRedisOperations{
		redis: redisClient,
	}
}

// Lua script for atomic room-night holding - prevents race conditions between
// concurrent quotes for the last unit of a room
const luaAtomicRoomHold = `
-- KEYS[1] = hold_id
-- ARGV[1] = user_id
-- ARGV[2] = room_id
-- ARGV[3] = ttl_seconds
-- ARGV[4..N] = alternating date, remaining_units pairs

local hold_id = KEYS[1]
local user_id = ARGV[1]
local room_id = ARGV[2]
local ttl = tonumber(ARGV[3])

-- Check every night has a free unit after existing holds
for i = 4, #ARGV, 2 do
    local date = ARGV[i]
    local remaining = tonumber(ARGV[i + 1])
    local night_key = "room_night_holds:" .. room_id .. ":" .. date

    local held = tonumber(redis.call("GET", night_key) or "0")
    if held + 1 > remaining then
        -- Night is exhausted, return failure with the conflicting date
        return {0, date}
    end
end

-- All nights available, take the hold atomically
local hold_key = "hold:" .. hold_id
local hold_nights_key = "hold_nights:" .. hold_id
local user_holds_key = "user_holds:" .. user_id
local created_at = redis.call("TIME")[1]

redis.call("HMSET", hold_key,
    "user_id", user_id,
    "room_id", room_id,
    "night_count", (#ARGV - 3) / 2,
    "created_at", created_at
)
redis.call("EXPIRE", hold_key, ttl)

for i = 4, #ARGV, 2 do
    local date = ARGV[i]
    local night_key = "room_night_holds:" .. room_id .. ":" .. date

    redis.call("INCR", night_key)
    redis.call("EXPIRE", night_key, ttl)
    redis.call("SADD", hold_nights_key, night_key)
end

redis.call("EXPIRE", hold_nights_key, ttl)

redis.call("SADD", user_holds_key, hold_id)
redis.call("EXPIRE", user_holds_key, ttl)

return {1, "success"}
`

// Lua script for atomic hold release
const luaAtomicRoomRelease = `
-- KEYS[1] = hold_id
local hold_id = KEYS[1]

local hold_key = "hold:" .. hold_id
local hold_nights_key = "hold_nights:" .. hold_id

local hold_data = redis.call("HGETALL", hold_key)
if #hold_data == 0 then
    return {0, "hold_not_found"}
end

local user_id = nil
for i = 1, #hold_data, 2 do
    if hold_data[i] == "user_id" then
        user_id = hold_data[i + 1]
        break
    end
end

if not user_id then
    return {0, "invalid_hold_data"}
end

local night_keys = redis.call("SMEMBERS", hold_nights_key)

for i = 1, #night_keys do
    local held = tonumber(redis.call("GET", night_keys[i]) or "0")
    if held > 1 then
        redis.call("DECR", night_keys[i])
    else
        redis.call("DEL", night_keys[i])
    end
end

local user_holds_key = "user_holds:" .. user_id
redis.call("SREM", user_holds_key, hold_id)

redis.call("DEL", hold_key)
redis.call("DEL", hold_nights_key)

return {1, #night_keys}
`

// Lua script for atomic hold extension; refreshes the TTL on the hold and
// every night counter it touches
const luaAtomicHoldExtend = `
-- KEYS[1] = hold_id
-- ARGV[1] = user_id
-- ARGV[2] = ttl_seconds

local hold_id = KEYS[1]
local user_id = ARGV[1]
local ttl = tonumber(ARGV[2])

local hold_key = "hold:" .. hold_id
local hold_nights_key = "hold_nights:" .. hold_id

local owner = redis.call("HGET", hold_key, "user_id")
if not owner then
    return {0, "hold_not_found"}
end
if owner ~= user_id then
    return {0, "hold_not_owned"}
end

redis.call("EXPIRE", hold_key, ttl)
redis.call("EXPIRE", hold_nights_key, ttl)

local night_keys = redis.call("SMEMBERS", hold_nights_key)
for i = 1, #night_keys do
    local night_ttl = redis.call("TTL", night_keys[i])
    if night_ttl >= 0 and night_ttl < ttl then
        redis.call("EXPIRE", night_keys[i], ttl)
    end
end

local user_holds_key = "user_holds:" .. user_id
redis.call("EXPIRE", user_holds_key, ttl)

return {1, #night_keys}
`

// NightCapacity pairs a stay date with the units still unsold in the database
type NightCapacity struct {
	Date      string // YYYY-MM-DD
	Remaining int
}

// AtomicHoldNights atomically holds every night of a stay using a Lua script
func (a *AtomicRedisOperations) AtomicHoldNights(ctx context.Context, userID, holdID, roomID string, nights []NightCapacity, ttl time.Duration) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	keys := []string{holdID}
	args := []interface{}{
		userID,
		roomID,
		strconv.Itoa(int(ttl.Seconds())),
	}
	for _, night := range nights {
		args = append(args, night.Date, strconv.Itoa(night.Remaining))
	}

	result, err := a.redis.EvalSha(ctx, luaAtomicRoomHold, keys, args...).Result()
	if err != nil {
		// If script is not loaded, try to load and execute
		result, err = a.redis.Eval(ctx, luaAtomicRoomHold, keys, args...).Result()
		if err != nil {
			return fmt.Errorf("failed to execute atomic room hold: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		conflictDate, ok := resultArray[1].(string)
		if ok {
			return fmt.Errorf("%w: no units left on %s", ErrNightUnavailable, conflictDate)
		}
		return ErrNightUnavailable
	}

	return nil
}

// AtomicReleaseHold atomically releases a hold using a Lua script
func (a *AtomicRedisOperations) AtomicReleaseHold(ctx context.Context, holdID string) (int, error) {
	if a.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	result, err := a.redis.EvalSha(ctx, luaAtomicRoomRelease, []string{holdID}).Result()
	if err != nil {
		result, err = a.redis.Eval(ctx, luaAtomicRoomRelease, []string{holdID}).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to execute atomic room release: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return 0, fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		reason, ok := resultArray[1].(string)
		if ok {
			return 0, fmt.Errorf("failed to release hold: %s", reason)
		}
		return 0, fmt.Errorf("failed to release hold")
	}

	releasedCount, ok := resultArray[1].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid released count in Lua script result")
	}

	return int(releasedCount), nil
}

// AtomicExtendHold refreshes every key behind a hold. Only the owning user
// may extend, and night counters are never shortened below a longer TTL
// taken by another hold.
func (a *AtomicRedisOperations) AtomicExtendHold(ctx context.Context, holdID, userID string, ttl time.Duration) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	args := []interface{}{userID, strconv.Itoa(int(ttl.Seconds()))}
	result, err := a.redis.EvalSha(ctx, luaAtomicHoldExtend, []string{holdID}, args...).Result()
	if err != nil {
		result, err = a.redis.Eval(ctx, luaAtomicHoldExtend, []string{holdID}, args...).Result()
		if err != nil {
			return fmt.Errorf("failed to execute atomic hold extend: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		if reason, ok := resultArray[1].(string); ok {
			switch reason {
			case "hold_not_found":
				return ErrHoldNotFound
			case "hold_not_owned":
				return ErrHoldNotOwned
			}
		}
		return fmt.Errorf("failed to extend hold")
	}

	return nil
}

// HoldInfo is the stored state of a hold
type HoldInfo struct {
	HoldID     string `json:"hold_id"`
	UserID     string `json:"user_id"`
	RoomID     string `json:"room_id"`
	NightCount int    `json:"night_count"`
	TTLSeconds int    `json:"ttl_seconds"`
}

// GetHold reads a hold's metadata and remaining TTL
func (a *AtomicRedisOperations) GetHold(ctx context.Context, holdID string) (*HoldInfo, error) {
	if a.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	holdKey := "hold:" + holdID
	fields, err := a.redis.HGetAll(ctx, holdKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read hold: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrHoldNotFound
	}

	ttl, err := a.redis.TTL(ctx, holdKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read hold ttl: %w", err)
	}

	nightCount, _ := strconv.Atoi(fields["night_count"])
	return &HoldInfo{
		HoldID:     holdID,
		UserID:     fields["user_id"],
		RoomID:     fields["room_id"],
		NightCount: nightCount,
		TTLSeconds: int(ttl.Seconds()),
	}, nil
}

// HeldNights returns the current hold count for a set of room nights
func (a *AtomicRedisOperations) HeldNights(ctx context.Context, roomID string, dates []string) (map[string]int, error) {
	if a.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	keys := make([]string, 0, len(dates))
	for _, date := range dates {
		keys = append(keys, "room_night_holds:"+roomID+":"+date)
	}

	values, err := a.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read night holds: %w", err)
	}

	held := make(map[string]int, len(dates))
	for i, v := range values {
		count := 0
		if s, ok := v.(string); ok {
			count, _ = strconv.Atoi(s)
		}
		held[dates[i]] = count
	}
	return held, nil
}

// PreloadScripts loads Lua scripts into Redis for better performance
func (a *AtomicRedisOperations) PreloadScripts(ctx context.Context) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if _, err := a.redis.ScriptLoad(ctx, luaAtomicRoomHold).Result(); err != nil {
		return fmt.Errorf("failed to load room hold script: %w", err)
	}

	if _, err := a.redis.ScriptLoad(ctx, luaAtomicRoomRelease).Result(); err != nil {
		return fmt.Errorf("failed to load room release script: %w", err)
	}

	if _, err := a.redis.ScriptLoad(ctx, luaAtomicHoldExtend).Result(); err != nil {
		return fmt.Errorf("failed to load hold extend script: %w", err)
	}

	return nil
}
