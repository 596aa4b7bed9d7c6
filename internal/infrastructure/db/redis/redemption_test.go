package redis

import (
	"testing"
	"time"
)

func TestRedemptionKey(t *testing.T) {
	if got := redemptionKey("abc"); got != "invitation:redeemed:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestRedemptionTTL(t *testing.T) {
	cases := []struct {
		in, want time.Duration
	}{
		{0, defaultRedemptionTTL},
		{-time.Hour, defaultRedemptionTTL},
		{10 * time.Second, time.Minute},
		{2 * time.Hour, 2 * time.Hour},
	}
	for _, c := range cases {
		if got := redemptionTTL(c.in); got != c.want {
			t.Fatalf("redemptionTTL(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestConfigOptions(t *testing.T) {
	opts := Config{Addr: "cache:6379", Password: "pw", DB: 2}.options()
	if opts.Addr != "cache:6379" || opts.Password != "pw" || opts.DB != 2 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.DialTimeout != pingTimeout {
		t.Fatalf("expected default dial timeout, got %v", opts.DialTimeout)
	}
	if got := (Config{Timeout: time.Second}).timeout(); got != time.Second {
		t.Fatalf("explicit timeout ignored, got %v", got)
	}
}
