package engine

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/rs/zerolog/log"

	"github.com/eagraf/shipmate/core/state/compose"
)

// Fetcher pulls images in the background and tracks which fetches are in
// flight. The planner's context reads Downloading so it never emits a second
// fetch for the same image.
type Fetcher struct {
	docker Docker

	mu       sync.Mutex
	inflight map[int]*download
}

type download struct {
	name     string
	progress int
}

func NewFetcher(docker Docker) *Fetcher {
	return &Fetcher{
		docker:   docker,
		inflight: make(map[int]*download),
	}
}

// Fetch starts pulling the image unless a pull for it is already in flight.
// It returns immediately; completion shows up in the image inventory.
func (f *Fetcher) Fetch(ctx context.Context, img compose.Image) {
	f.mu.Lock()
	if _, ok := f.inflight[img.ImageID]; ok {
		f.mu.Unlock()
		return
	}
	f.inflight[img.ImageID] = &download{name: img.Name}
	f.mu.Unlock()

	go f.pull(ctx, img)
}

func (f *Fetcher) pull(ctx context.Context, img compose.Image) {
	defer func() {
		f.mu.Lock()
		delete(f.inflight, img.ImageID)
		f.mu.Unlock()
	}()

	log.Info().Str("image", img.Name).Msg("pulling image")
	rc, err := f.docker.ImagePull(ctx, img.Name, types.ImagePullOptions{})
	if err != nil {
		log.Error().Err(err).Str("image", img.Name).Msg("image pull failed")
		return
	}
	defer rc.Close()

	dec := json.NewDecoder(rc)
	for {
		var msg jsonmessage.JSONMessage
		if err := dec.Decode(&msg); err != nil {
			if err != io.EOF {
				log.Error().Err(err).Str("image", img.Name).Msg("image pull stream broke")
			}
			break
		}
		if msg.Error != nil {
			log.Error().Str("image", img.Name).Str("error", msg.Error.Message).Msg("image pull failed")
			return
		}
		if msg.Progress != nil && msg.Progress.Total > 0 {
			percent := int(msg.Progress.Current * 100 / msg.Progress.Total)
			f.mu.Lock()
			if d, ok := f.inflight[img.ImageID]; ok && percent > d.progress {
				d.progress = percent
			}
			f.mu.Unlock()
		}
	}
	log.Info().Str("image", img.Name).Msg("pulled image")
}

// Downloading returns the set of image ids with a pull in flight.
func (f *Fetcher) Downloading() map[int]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int]bool, len(f.inflight))
	for id := range f.inflight {
		out[id] = true
	}
	return out
}

// Progress reports the download progress of an in-flight pull.
func (f *Fetcher) Progress(imageID int) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.inflight[imageID]
	if !ok {
		return 0, false
	}
	return d.progress, true
}
