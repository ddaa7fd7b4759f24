package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"firstbite/internal/domain"
	"firstbite/internal/repository"
)

// counterPrefixes maps day-scoped channels to their order number prefix.
// Online orders use the timestamped LFB format instead.
var counterPrefixes = map[domain.Channel]string{
	domain.ChannelInHouse:  "IH",
	domain.ChannelTakeaway: "TW",
	domain.ChannelSwiggy:   "SW",
	domain.ChannelZomato:   "ZM",
}

// OrderNumberGenerator produces the channel-specific order numbers:
// LFB<unixMillis><rand3> for online, <prefix>-<YYYYMMDD>-<seq3> for the rest,
// with the sequence reset per calendar day per channel.
type OrderNumberGenerator struct {
	counters repository.CounterRepository
	now      func() time.Time
}

func NewOrderNumberGenerator(counters repository.CounterRepository) *OrderNumberGenerator {
	return &OrderNumberGenerator{counters: counters, now: time.Now}
}

func (g *OrderNumberGenerator) Next(ctx context.Context, channel domain.Channel) (string, error) {
	if channel == domain.ChannelOnline {
		return fmt.Sprintf("LFB%d%03d", g.now().UnixMilli(), rand.Intn(1000)), nil
	}

	prefix, ok := counterPrefixes[channel]
	if !ok {
		return "", domain.NewValidationError("unknown channel %q", channel)
	}

	day := g.now().Format("20060102")
	seq, err := g.counters.Next(ctx, channel, day)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%03d", prefix, day, seq), nil
}
