package testutil

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Recording is a simplified HTTP-archive of a captured portal session, used
// to replay the flow offline in integration tests.
type Recording struct {
	Entries []Entry `json:"entries"`
}

// Entry is a single recorded request/response pair.
type Entry struct {
	Request struct {
		Method string `json:"method"`
		URL    string `json:"url"`
	} `json:"request"`
	Response struct {
		Status  int `json:"status"`
		Headers []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers,omitempty"`
		MimeType string `json:"mimeType"`
		Body     string `json:"body"`               // plain text or base64
		Encoding string `json:"encoding,omitempty"` // "base64" for binary bodies
	} `json:"response"`
}

// MustLoadRecording reads a recording JSON file, failing the test on error.
func MustLoadRecording(t *testing.T, path string) *Recording {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load recording %s: %v", path, err)
	}

	var rec Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("parse recording %s: %v", path, err)
	}
	return &rec
}

// Replayer serves recorded responses through a Rod hijack handler so scraper
// tests never touch the live portal.
type Replayer struct {
	exact  map[string]*Entry
	byPath map[string]*Entry
}

// NewReplayer indexes a recording for fast lookup: exact URLs first, then
// scheme://host/path with the query stripped as a fallback.
func NewReplayer(rec *Recording) *Replayer {
	r := &Replayer{
		exact:  make(map[string]*Entry),
		byPath: make(map[string]*Entry),
	}
	for i := range rec.Entries {
		e := &rec.Entries[i]
		r.exact[e.Request.URL] = e
		if key, ok := pathKey(e.Request.URL); ok {
			if _, seen := r.byPath[key]; !seen {
				r.byPath[key] = e
			}
		}
	}
	return r
}

// Middleware returns a hijack handler for use with portal.WithHijacker.
// Requests with no recorded response get a 404.
func (r *Replayer) Middleware() func(*rod.Hijack) {
	return func(ctx *rod.Hijack) {
		entry := r.lookup(ctx.Request.URL().String())
		payload := ctx.Response.Payload()

		if entry == nil {
			payload.ResponseCode = 404
			payload.Body = []byte(`{"error": "no recording for URL"}`)
			return
		}

		body := []byte(entry.Response.Body)
		if entry.Response.Encoding == "base64" {
			if decoded, err := base64.StdEncoding.DecodeString(entry.Response.Body); err == nil {
				body = decoded
			}
		}

		var headers []*proto.FetchHeaderEntry
		hasContentType := false
		for _, h := range entry.Response.Headers {
			switch strings.ToLower(h.Name) {
			case "content-encoding", "content-length":
				continue
			case "content-type":
				hasContentType = true
			}
			headers = append(headers, &proto.FetchHeaderEntry{Name: h.Name, Value: h.Value})
		}
		if !hasContentType && entry.Response.MimeType != "" {
			headers = append(headers, &proto.FetchHeaderEntry{
				Name: "Content-Type", Value: entry.Response.MimeType,
			})
		}

		payload.ResponseCode = entry.Response.Status
		payload.ResponseHeaders = headers
		payload.Body = body
	}
}

func (r *Replayer) lookup(reqURL string) *Entry {
	if e, ok := r.exact[reqURL]; ok {
		return e
	}
	if key, ok := pathKey(reqURL); ok {
		return r.byPath[key]
	}
	return nil
}

func pathKey(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	return parsed.Scheme + "://" + parsed.Host + parsed.Path, true
}
