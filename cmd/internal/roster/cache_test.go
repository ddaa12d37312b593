package roster

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu      sync.Mutex
	rosters map[string][]string
	err     error
	calls   int
}

func (f *fakeSource) ActiveMembers(_ context.Context, ownerID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rosters[ownerID], nil
}

func (f *fakeSource) set(owner string, members []string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rosters[owner] = members
	f.err = err
}

func TestCache_LoadsOnce(t *testing.T) {
	src := &fakeSource{rosters: map[string][]string{"owner": {"a", "b"}}}
	c := NewCache(src)

	for range 3 {
		members, err := c.Members(context.Background(), "owner")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, members)
	}
	assert.Equal(t, 1, src.calls)

	members, err := c.Members(context.Background(), "solo")
	require.NoError(t, err)
	assert.NotNil(t, members)
	assert.Empty(t, members)
}

func TestCache_LoadError(t *testing.T) {
	src := &fakeSource{rosters: map[string][]string{}, err: errors.New("database is locked")}
	c := NewCache(src)

	_, err := c.Members(context.Background(), "owner")
	require.Error(t, err)

	src.set("owner", []string{"a"}, nil)
	members, err := c.Members(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, members, "failures are not cached")
}

func TestCache_Refresh(t *testing.T) {
	src := &fakeSource{rosters: map[string][]string{"owner": {"a"}}}
	c := NewCache(src)

	_, err := c.Members(context.Background(), "owner")
	require.NoError(t, err)

	src.set("owner", []string{"a", "c"}, nil)
	c.Refresh(context.Background())
	members, _ := c.Members(context.Background(), "owner")
	assert.Equal(t, []string{"a", "c"}, members)

	src.set("owner", nil, errors.New("timeout"))
	c.Refresh(context.Background())
	members, err = c.Members(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, members, "a failed refresh keeps the previous roster")
}

func TestCache_StartStop(t *testing.T) {
	c := NewCache(&fakeSource{rosters: map[string][]string{}})

	require.Error(t, c.Start("not a schedule"))
	require.NoError(t, c.Start("@every 1h"))
	c.Stop()

	NewCache(nil).Stop()
}
