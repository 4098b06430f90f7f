// Package assets loads glTF models into CPU-side scenes.
package assets

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/windmoth/internal/logger"
)

// Load reads and decodes a .gltf or .glb file.
func Load(path string, opts Options) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model %s: %w", path, err)
	}
	m, err := Decode(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("decoding model %s: %w", path, err)
	}
	m.Name = filepath.Base(path)

	logger.Named("assets").Info("model loaded",
		zap.String("path", path),
		zap.Int("nodes", len(m.Nodes)),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("clips", len(m.Clips)),
		zap.Int("vertices", m.VertexCount()))
	return m, nil
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Model *Model
	Err   error
}

// Pending is a load running in the background. It resolves exactly once.
type Pending struct {
	done chan struct{}
	res  Result
}

// LoadAsync starts loading path on its own goroutine.
func LoadAsync(path string, opts Options) *Pending {
	return loadAsync(func() (*Model, error) { return Load(path, opts) })
}

func loadAsync(load func() (*Model, error)) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		m, err := load()
		p.res = Result{Model: m, Err: err}
		close(p.done)
	}()
	return p
}

// Poll reports the result without blocking. ok is false while the load runs.
func (p *Pending) Poll() (res Result, ok bool) {
	select {
	case <-p.done:
		return p.res, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the load finishes.
func (p *Pending) Wait() Result {
	<-p.done
	return p.res
}
