package cachemanager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegion_SetGet(t *testing.T) {
	region := NewRegion[[]string]("payments", time.Minute)

	_, found := region.Get("choices")
	require.False(t, found)

	region.Set("choices", []string{"card", "invoice"})

	value, found := region.Get("choices")
	require.True(t, found)
	require.Equal(t, []string{"card", "invoice"}, value)
}

func TestRegion_Key(t *testing.T) {
	region := NewRegion[int]("payments", time.Minute)
	require.Equal(t, "stratagem:payments:choices", region.Key("choices"))
}

func TestRegion_Delete(t *testing.T) {
	region := NewRegion[int]("payments", time.Minute)
	region.Set("a", 1)
	region.Set("b", 2)

	region.Delete("a", "b")

	_, found := region.Get("a")
	require.False(t, found)
	_, found = region.Get("b")
	require.False(t, found)
}

func TestRegion_Flush(t *testing.T) {
	region := NewRegion[int]("payments", time.Minute)
	region.Set("a", 1)

	region.Flush()

	_, found := region.Get("a")
	require.False(t, found)
}

func TestRegion_TTLExpiry(t *testing.T) {
	region := NewRegion[int]("payments", time.Minute)
	region.SetWithTTL("short", 1, 10*time.Millisecond)

	_, found := region.Get("short")
	require.True(t, found)

	time.Sleep(20 * time.Millisecond)

	_, found = region.Get("short")
	require.False(t, found)
}

func TestRegion_DefaultTTL(t *testing.T) {
	region := NewRegion[int]("payments", 0)
	require.Equal(t, DefaultTTL, region.TTL())

	region = NewRegion[int]("payments", -1)
	require.Equal(t, DefaultTTL, region.TTL())

	region = NewRegion[int]("payments", time.Second)
	require.Equal(t, time.Second, region.TTL())
}

func TestRegion_Isolation(t *testing.T) {
	a := NewRegion[int]("registry-a", time.Minute)
	b := NewRegion[int]("registry-b", time.Minute)

	a.Set("choices", 1)

	_, found := b.Get("choices")
	require.False(t, found)
}
