// Package api groups the backend's resources into typed request builders.
// Nothing here caches; every call issues exactly one request.
package api

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidArgument is returned for input rejected before any request is sent
var ErrInvalidArgument = errors.New("invalid argument")

func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// query builds url.Values, omitting zero values
type query url.Values

func newQuery() query {
	return query(url.Values{})
}

func (q query) add(key, value string) query {
	if value = strings.TrimSpace(value); value != "" {
		url.Values(q).Set(key, value)
	}
	return q
}

func (q query) addInt(key string, value int) query {
	if value > 0 {
		url.Values(q).Set(key, strconv.Itoa(value))
	}
	return q
}

func (q query) addList(key string, values []string) query {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) > 0 {
		url.Values(q).Set(key, strings.Join(kept, ","))
	}
	return q
}

func (q query) addTime(key string, value time.Time) query {
	if !value.IsZero() {
		url.Values(q).Set(key, value.UTC().Format(time.RFC3339))
	}
	return q
}

func (q query) values() url.Values {
	return url.Values(q)
}

// idPath joins a resource path and an escaped id
func idPath(resource, id string, suffix ...string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", invalidArgument("%s id is required", strings.TrimPrefix(resource, "/"))
	}
	p := resource + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p, nil
}
