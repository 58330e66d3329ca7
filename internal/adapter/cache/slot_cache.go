package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
)

type cachedSlot struct {
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime,omitempty"`
	AvailableSpots int    `json:"availableSpots"`
	Capacity       int    `json:"capacity"`
}

// SlotCache keeps a JSON copy of a tour's slot listing in Redis next to a
// generation counter. Invalidate bumps the counter before deleting the copy.
type SlotCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{redis: client, ttl: ttl}
}

func slotsKey(tourID uuid.UUID) string {
	return fmt.Sprintf("slots:%s", tourID)
}

func generationKey(tourID uuid.UUID) string {
	return fmt.Sprintf("slots:%s:gen", tourID)
}

// setIfCurrent writes KEYS[1] only while KEYS[2] still holds ARGV[1].
var setIfCurrent = redis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

func (c *SlotCache) GetSlots(ctx context.Context, tourID uuid.UUID) (ports.SlotListing, bool, error) {
	vals, err := c.redis.MGet(ctx, slotsKey(tourID), generationKey(tourID)).Result()
	if err != nil {
		return ports.SlotListing{}, false, err
	}

	gen, err := parseGeneration(vals[1])
	if err != nil {
		return ports.SlotListing{}, false, err
	}

	raw, ok := vals[0].(string)
	if !ok {
		return ports.SlotListing{Generation: gen}, false, nil
	}

	slots, err := decodeSlots([]byte(raw))
	if err != nil {
		return ports.SlotListing{}, false, err
	}

	return ports.SlotListing{Slots: slots, Generation: gen}, true, nil
}

func (c *SlotCache) SetSlots(ctx context.Context, tourID uuid.UUID, listing ports.SlotListing) error {
	raw, err := encodeSlots(listing.Slots)
	if err != nil {
		return err
	}

	keys := []string{slotsKey(tourID), generationKey(tourID)}
	return setIfCurrent.Run(ctx, c.redis, keys,
		strconv.FormatInt(listing.Generation, 10), string(raw), c.ttl.Milliseconds()).Err()
}

func (c *SlotCache) Invalidate(ctx context.Context, tourID uuid.UUID) error {
	if err := c.redis.Incr(ctx, generationKey(tourID)).Err(); err != nil {
		return err
	}

	return c.redis.Del(ctx, slotsKey(tourID)).Err()
}

func parseGeneration(v interface{}) (int64, error) {
	switch g := v.(type) {
	case nil:
		return 0, nil
	case string:
		n, err := strconv.ParseInt(g, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("corrupt slot cache generation: %w", err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected slot cache generation %T", v)
	}
}

func encodeSlots(slots []domain.AvailabilitySlot) ([]byte, error) {
	out := make([]cachedSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, cachedSlot{
			Date:           s.Date.Format(domain.DateLayout),
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			AvailableSpots: s.AvailableSpots,
			Capacity:       s.Capacity,
		})
	}

	return json.Marshal(out)
}

func decodeSlots(raw []byte) ([]domain.AvailabilitySlot, error) {
	var in []cachedSlot
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("corrupt slot cache entry: %w", err)
	}

	slots := make([]domain.AvailabilitySlot, 0, len(in))
	for _, s := range in {
		date, err := domain.ParseDate(s.Date)
		if err != nil {
			return nil, err
		}

		slots = append(slots, domain.AvailabilitySlot{
			Date:           date,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			AvailableSpots: s.AvailableSpots,
			Capacity:       s.Capacity,
		})
	}

	return slots, nil
}
