package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	for name, c := range map[string]*Cache{
		"nil":       nil,
		"no client": New(nil, "dashboard", time.Minute),
	} {
		if err := c.SetJSON(ctx, "hassan", map[string]int{"a": 1}); err != nil {
			t.Errorf("%s: SetJSON() error = %v", name, err)
		}
		var out map[string]int
		if err := c.GetJSON(ctx, "hassan", &out); !errors.Is(err, ErrMiss) {
			t.Errorf("%s: GetJSON() error = %v, want ErrMiss", name, err)
		}
		if err := c.Delete(ctx, "hassan"); err != nil {
			t.Errorf("%s: Delete() error = %v", name, err)
		}
	}
}

func TestKeyPrefix(t *testing.T) {
	c := New(nil, "dashboard", time.Minute)
	if got := c.key("hassan"); got != "dashboard:hassan" {
		t.Fatalf("key() = %q", got)
	}
}
