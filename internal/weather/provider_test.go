package weather

import (
	"testing"
	"time"
)

func TestFestivalsInRange(t *testing.T) {
	p := NewOpenMeteoProvider(nil, "")

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, Tokyo)
	end := time.Date(2026, 1, 3, 0, 0, 0, 0, Tokyo)

	flags, err := p.FestivalsInRange(start, end)
	if err != nil {
		t.Fatalf("FestivalsInRange: %v", err)
	}
	if len(flags) != 3 {
		t.Fatalf("expected 3 days, got %d", len(flags))
	}
	for i, f := range flags {
		if f != 1 {
			t.Errorf("day %d: expected festival flag 1, got %d", i, f)
		}
	}
}

func TestFestivalsInRangeNonFestival(t *testing.T) {
	p := NewOpenMeteoProvider(nil, "")

	start := time.Date(2026, 6, 10, 0, 0, 0, 0, Tokyo)
	end := time.Date(2026, 6, 10, 0, 0, 0, 0, Tokyo)

	flags, err := p.FestivalsInRange(start, end)
	if err != nil {
		t.Fatalf("FestivalsInRange: %v", err)
	}
	if len(flags) != 1 || flags[0] != 0 {
		t.Fatalf("expected single non-festival day, got %v", flags)
	}
}

func TestFestivalsInRangeRejectsInvertedRange(t *testing.T) {
	p := NewOpenMeteoProvider(nil, "")

	start := time.Date(2026, 6, 10, 0, 0, 0, 0, Tokyo)
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, Tokyo)

	if _, err := p.FestivalsInRange(start, end); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := newCache(time.Minute)
	loc := Location{Latitude: 35.6, Longitude: 139.6}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, Tokyo)
	end := time.Date(2026, 1, 2, 0, 0, 0, 0, Tokyo)

	key := cacheKey(loc, start, end)
	if _, ok := c.get(key); ok {
		t.Fatal("expected cache miss before set")
	}

	rows := []DailyWeather{{Date: start, Temperature: 5.5}}
	c.set(key, rows)

	got, ok := c.get(key)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if len(got) != 1 || got[0].Temperature != 5.5 {
		t.Fatalf("unexpected cached rows: %v", got)
	}
}

func TestCacheExpires(t *testing.T) {
	c := newCache(-time.Second) // already expired
	loc := Location{Latitude: 1, Longitude: 1}
	start := time.Now()
	end := start

	key := cacheKey(loc, start, end)
	c.set(key, []DailyWeather{{Date: start}})

	if _, ok := c.get(key); ok {
		t.Fatal("expected expired entry to miss")
	}
}
