package podium

import (
	"sync"
)

var globalCache = &cache{}

type cache struct {
	m sync.Map
}

// LoadImageCache returns the cached image for a source path or URL.
func LoadImageCache(key string) (*Image, bool) {
	if v, ok := globalCache.m.Load(key); ok {
		if i, ok := v.(*Image); ok {
			return i, true
		}
	}
	return nil, false
}

// StoreImageCache caches an image by its source path or URL. When an
// equivalent image is already cached under another key, that one is
// reused so a picture served from two URLs embeds once.
func StoreImageCache(key string, i *Image) {
	if i == nil {
		return
	}
	var dup *Image
	globalCache.m.Range(func(_, v any) bool {
		if cached, ok := v.(*Image); ok && cached.Equivalent(i) {
			dup = cached
			return false
		}
		return true
	})
	if dup != nil {
		i = dup
	}
	globalCache.m.Store(key, i)
}

// ClearImageCache drops all cached images. For tests and watch-mode
// reloads of local files.
func ClearImageCache() {
	globalCache.m.Range(func(k, _ any) bool {
		globalCache.m.Delete(k)
		return true
	})
}
