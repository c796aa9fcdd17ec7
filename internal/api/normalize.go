package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/johnrirwin/newsdesk/internal/apiclient"
	"github.com/johnrirwin/newsdesk/internal/models"
)

// latestShape names the payload variants the latest-articles endpoint has been seen to return
type latestShape int

const (
	shapeUnrecognized latestShape = iota
	// [ ...articles ]
	shapeBareArray
	// { "data": [ ...articles ] }
	shapeWrappedArray
	// { "data": { "articles": [ ...articles ] } }
	shapeWrappedPage
)

func (s latestShape) String() string {
	switch s {
	case shapeBareArray:
		return "bare-array"
	case shapeWrappedArray:
		return "wrapped-array"
	case shapeWrappedPage:
		return "wrapped-page"
	default:
		return "unrecognized"
	}
}

// decodeLatest classifies raw and extracts its articles. The returned slice is never nil.
func decodeLatest(raw []byte) (latestShape, []models.Article) {
	raw = bytes.TrimSpace(raw)

	var arr []models.Article
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &arr); err == nil {
			return shapeBareArray, nonNil(arr)
		}
		return shapeUnrecognized, []models.Article{}
	}

	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return shapeUnrecognized, []models.Article{}
	}
	data := bytes.TrimSpace(wrapped.Data)
	if len(data) == 0 {
		return shapeUnrecognized, []models.Article{}
	}

	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &arr); err == nil {
			return shapeWrappedArray, nonNil(arr)
		}
	case '{':
		var page struct {
			Articles []models.Article `json:"articles"`
		}
		if err := json.Unmarshal(data, &page); err == nil && page.Articles != nil {
			return shapeWrappedPage, page.Articles
		}
	}
	return shapeUnrecognized, []models.Article{}
}

func nonNil(a []models.Article) []models.Article {
	if a == nil {
		return []models.Article{}
	}
	return a
}

// absentEnvelope is the wire form of an envelope whose data may be missing
type absentEnvelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// normalizeAbsent turns a missing or null data field into explicit nil data.
// The backend's success flag is kept; only an omitted flag reads as success.
func normalizeAbsent[T any](env absentEnvelope) (*models.Envelope[*T], error) {
	out := &models.Envelope[*T]{Success: true, Message: env.Message, Error: env.Error}
	if env.Success != nil {
		out.Success = *env.Success
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return out, nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	out.Data = &v
	return out, nil
}

// fetchAbsent GETs a possibly-absent artifact. A 404 JSON answer counts as absence.
func fetchAbsent[T any](ctx context.Context, client *apiclient.Client, path string, q url.Values) (*models.Envelope[*T], error) {
	var env absentEnvelope
	if err := client.Get(ctx, path, q, &env); err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return &models.Envelope[*T]{Success: true}, nil
		}
		return nil, err
	}
	return normalizeAbsent[T](env)
}
