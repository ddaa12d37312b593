// Package roster caches the staff roster of business accounts.
package roster

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/robfig/cron/v3"
)

type Source interface {
	ActiveMembers(ctx context.Context, ownerID string) ([]string, error)
}

// Cache serves rosters from memory. Unknown owners are loaded on first use;
// known owners are reloaded on the cron schedule passed to Start.
type Cache struct {
	source Source

	mu      sync.RWMutex
	members map[string][]string

	cron *cron.Cron
}

func NewCache(source Source) *Cache {
	return &Cache{
		source:  source,
		members: make(map[string][]string),
	}
}

func (c *Cache) Members(ctx context.Context, ownerID string) ([]string, error) {
	c.mu.RLock()
	members, ok := c.members[ownerID]
	c.mu.RUnlock()
	if ok {
		return members, nil
	}
	return c.load(ctx, ownerID)
}

// Refresh reloads every cached roster. Owners whose reload fails keep their
// previous roster.
func (c *Cache) Refresh(ctx context.Context) {
	c.mu.RLock()
	owners := make([]string, 0, len(c.members))
	for owner := range c.members {
		owners = append(owners, owner)
	}
	c.mu.RUnlock()

	for _, owner := range owners {
		if _, err := c.load(ctx, owner); err != nil {
			log.Errorf("failed to refresh staff roster of %s: %v", owner, err)
		}
	}
}

func (c *Cache) load(ctx context.Context, ownerID string) ([]string, error) {
	members, err := c.source.ActiveMembers(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []string{}
	}

	c.mu.Lock()
	c.members[ownerID] = members
	c.mu.Unlock()
	return members, nil
}

// Start schedules Refresh with a cron spec such as "@every 2m".
func (c *Cache) Start(spec string) error {
	sched := cron.New()
	_, err := sched.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		c.Refresh(ctx)
	})
	if err != nil {
		return err
	}
	c.cron = sched
	sched.Start()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (c *Cache) Stop() {
	if c.cron == nil {
		return
	}
	<-c.cron.Stop().Done()
}
