package kv

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3MockForTests returns an *S3 backed by an in-memory fake HTTP transport.
// Only the operations the Store interface needs are implemented.
func NewS3MockForTests() *S3 {
	rt := &mockRoundTripper{state: make(map[string][]byte)}
	cfg, _ := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
	return &S3{client: client, bucket: "mock-bucket"}
}

// mockRoundTripper fakes the subset of the S3 wire protocol used by Get, Set,
// and Delete: path-style object GET/PUT/HEAD/DELETE against a single bucket.
type mockRoundTripper struct {
	mu    sync.Mutex
	state map[string][]byte
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	switch req.Method {
	case http.MethodPut:
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			_ = req.Body.Close()
		}
		m.state[key] = body
		return mockResponse(req, http.StatusOK, nil), nil
	case http.MethodGet:
		data, ok := m.state[key]
		if !ok {
			return mockErrorResponse(req, "NoSuchKey"), nil
		}
		return mockResponse(req, http.StatusOK, data), nil
	case http.MethodHead:
		if _, ok := m.state[key]; !ok {
			return mockResponse(req, http.StatusNotFound, nil), nil
		}
		return mockResponse(req, http.StatusOK, nil), nil
	case http.MethodDelete:
		delete(m.state, key)
		return mockResponse(req, http.StatusNoContent, nil), nil
	default:
		return mockResponse(req, http.StatusMethodNotAllowed, nil), nil
	}
}

func mockResponse(req *http.Request, status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/octet-stream"}},
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
	}
}

func mockErrorResponse(req *http.Request, code string) *http.Response {
	body := `<?xml version="1.0" encoding="UTF-8"?><Error><Code>` + code + `</Code><Message>mock</Message></Error>`
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Header:     http.Header{"Content-Type": []string{"application/xml"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}
