package engine

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/eagraf/shipmate/core/state/compose"
	"github.com/eagraf/shipmate/internal/supervisor/engine/mocks"
)

// gatedReader blocks Read until released, so tests can observe the in-flight
// window deterministically.
type gatedReader struct {
	release chan struct{}
	body    io.Reader
}

func (g *gatedReader) Read(p []byte) (int, error) {
	<-g.release
	return g.body.Read(p)
}

func (g *gatedReader) Close() error { return nil }

func TestFetcherDeduplicatesAndTracksProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	docker := mocks.NewMockDocker(ctrl)
	fetcher := NewFetcher(docker)

	stream := &gatedReader{
		release: make(chan struct{}),
		body: strings.NewReader(
			`{"status":"Downloading","progressDetail":{"current":50,"total":100}}` + "\n" +
				`{"status":"Download complete","progressDetail":{"current":100,"total":100}}` + "\n",
		),
	}
	docker.EXPECT().ImagePull(gomock.Any(), "app/main:v1", gomock.Any()).Return(stream, nil).Times(1)

	img := compose.Image{ImageID: 100, Name: "app/main:v1"}
	fetcher.Fetch(context.Background(), img)
	fetcher.Fetch(context.Background(), img) // second call is a no-op

	require.Eventually(t, func() bool {
		return fetcher.Downloading()[100]
	}, time.Second, time.Millisecond)

	close(stream.release)

	require.Eventually(t, func() bool {
		return len(fetcher.Downloading()) == 0
	}, time.Second, time.Millisecond, "the fetch leaves the in-flight set when done")

	_, tracked := fetcher.Progress(100)
	assert.False(t, tracked, "finished pulls are not tracked anymore")
}
