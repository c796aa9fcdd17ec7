// Package cache holds backend responses keyed by query key for the dashboard.
package cache

import (
	"fmt"
	"strings"
	"time"
)

// Cache defines the interface for cache backends. Values are raw response bytes.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	SetWithTTL(key string, value []byte, ttl time.Duration)
	Delete(key string)
	// DeletePrefix removes every key equal to prefix or starting with prefix + ":"
	DeletePrefix(prefix string)
	Clear()
}

// Key joins query key parts with ":"; nil and empty parts are written as "-"
func Key(parts ...interface{}) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		var s string
		switch v := p.(type) {
		case nil:
			s = ""
		case string:
			s = v
		case []string:
			s = strings.Join(v, ",")
		default:
			s = fmt.Sprint(v)
		}
		if s == "" {
			s = "-"
		}
		out[i] = s
	}
	return strings.Join(out, ":")
}

func matchesPrefix(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+":")
}
