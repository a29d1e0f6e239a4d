package bus

import (
	"context"
	"strings"
	"testing"

	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

func TestNewRedisBusRequiresAddr(t *testing.T) {
	_, err := NewRedisBus(logger.Nop(), RedisConfig{Addr: "  "})
	if err == nil || !strings.Contains(err.Error(), "REDIS_ADDR") {
		t.Fatalf("want missing addr error, got %v", err)
	}
	if _, err := NewRedisBus(nil, RedisConfig{Addr: "localhost:6379"}); err == nil {
		t.Fatalf("want logger required error")
	}
}

func TestUninitializedRedisBusRejectsUse(t *testing.T) {
	var b *redisBus
	if err := b.Publish(context.Background(), Event{State: "drafting"}); err == nil {
		t.Fatalf("publish on nil bus: want error")
	}
	if err := b.StartForwarder(context.Background(), func(Event) {}); err == nil {
		t.Fatalf("forwarder on nil bus: want error")
	}
}
