package service

import "github.com/patrickmn/go-cache"

// sessionList is a per-browser cached list tagged with the access token it
// was fetched with. A different token never sees it.
type sessionList[T any] struct {
	token string
	items []T
}

func cachedList[T any](c *cache.Cache, sid, token string) ([]T, bool) {
	v, ok := c.Get(sid)
	if !ok {
		return nil, false
	}
	entry, ok := v.(sessionList[T])
	if !ok || entry.token != token {
		return nil, false
	}
	return entry.items, true
}

func storeList[T any](c *cache.Cache, sid, token string, items []T) {
	c.SetDefault(sid, sessionList[T]{token: token, items: items})
}
