package extractor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type httpPageFetcher struct {
	client *http.Client
}

func (f *httpPageFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

const articleHTML = `<!DOCTYPE html>
<html lang="en">
<head><title>Container Orchestration Explained</title></head>
<body>
<article>
<h1>Container Orchestration Explained</h1>
<p>Container orchestration automates the deployment, management, scaling and
networking of containers across a cluster of machines. Orchestration platforms
schedule containers onto nodes, monitor their health and restart failed
workloads without human intervention.</p>
<p>Modern orchestration tooling grew out of the need to operate hundreds of
containers in production. A scheduler assigns each container to a node with
sufficient resources, while a controller loop continuously compares the desired
state with the observed state of the cluster.</p>
<p>Networking between containers is handled by an overlay network, and service
discovery lets containers find each other by name instead of address. Storage
volumes can follow a container when it moves between nodes of the cluster.</p>
</article>
</body>
</html>`

func TestReadabilityExtractor_Extract_Success(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(articleHTML))
	}))
	defer testServer.Close()

	extractor := NewReadabilityExtractor(&httpPageFetcher{client: testServer.Client()}, 10*time.Second, testLogger())
	content := extractor.Extract(context.Background(), testServer.URL+"/article")

	require.NotNil(t, content)
	assert.Contains(t, content.Text, "Container orchestration automates")
	assert.NotEmpty(t, content.Summary)
	assert.NotEmpty(t, content.Keywords)
	assert.Contains(t, content.Keywords, "containers")
}

func TestReadabilityExtractor_Extract_FetchFailureYieldsAbsent(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer testServer.Close()

	extractor := NewReadabilityExtractor(&httpPageFetcher{client: testServer.Client()}, 10*time.Second, testLogger())
	content := extractor.Extract(context.Background(), testServer.URL+"/article")

	assert.Nil(t, content)
}

func TestReadabilityExtractor_Extract_UnreachableHostYieldsAbsent(t *testing.T) {
	extractor := NewReadabilityExtractor(&httpPageFetcher{client: &http.Client{Timeout: time.Second}}, time.Second, testLogger())

	content := extractor.Extract(context.Background(), "http://127.0.0.1:1/article")

	assert.Nil(t, content)
}

func TestReadabilityExtractor_Extract_InvalidURLYieldsAbsent(t *testing.T) {
	extractor := NewReadabilityExtractor(&httpPageFetcher{client: http.DefaultClient}, time.Second, testLogger())

	content := extractor.Extract(context.Background(), "://not-a-url")

	assert.Nil(t, content)
}

func TestReadabilityExtractor_SummaryFallsBackToLeadingSentences(t *testing.T) {
	// Страница без meta description: краткое содержание строится из текста
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(articleHTML))
	}))
	defer testServer.Close()

	extractor := NewReadabilityExtractor(&httpPageFetcher{client: testServer.Client()}, 10*time.Second, testLogger())
	content := extractor.Extract(context.Background(), testServer.URL+"/article")

	require.NotNil(t, content)
	assert.True(t, strings.HasPrefix(content.Text, "Container orchestration"))
}
