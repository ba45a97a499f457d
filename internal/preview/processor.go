// Package preview renders WebP thumbnails of copied textures.
package preview

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"material-copier/internal/texture"

	"github.com/HugoSmits86/nativewebp"
	"github.com/charmbracelet/log"
)

// Dir is the folder, inside a run's target, that receives previews.
const Dir = "Previews"

// Config holds all shared settings for a preview batch.
type Config struct {
	StoreRoot string // OS directory backing store paths
	OutputDir string // store-relative folder for .webp files
	Size      int
	Workers   int
	Logger    *log.Logger
}

// Result holds the outcome of rendering one texture.
type Result struct {
	Source  string // store path of the texture
	Output  string // store path of the preview
	Success bool
	Skipped bool // format the loader cannot decode
	Error   string
}

// Run renders every texture using a worker pool. Results keep input order.
func Run(cfg Config, textures []string) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	total := len(textures)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					cfg.Logger.Info("rendering previews", "done", p, "total", total,
						"rate", float64(p)/time.Since(start).Seconds())
				}
			}
		}
	}()

	jobs := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processTexture(cfg, textures[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range textures {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

// OutputPath returns the store path of the preview for a texture. The
// source extension is kept so wood.png and wood.jpg get distinct previews.
func OutputPath(outputDir, texPath string) string {
	return path.Join(outputDir, path.Base(texPath)+".webp")
}

func processTexture(cfg Config, texPath string) Result {
	out := OutputPath(cfg.OutputDir, texPath)
	fail := func(err error) Result {
		return Result{Source: texPath, Output: out, Error: err.Error()}
	}

	if !texture.Decodable(texPath) {
		return Result{Source: texPath, Output: out, Skipped: true}
	}

	img, err := texture.LoadTexture(filepath.Join(cfg.StoreRoot, filepath.FromSlash(texPath)))
	if err != nil {
		return fail(err)
	}
	img = Downsample(img, cfg.Size)

	abs := filepath.Join(cfg.StoreRoot, filepath.FromSlash(out))
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fail(err)
	}
	f, err := os.Create(abs)
	if err != nil {
		return fail(err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fail(fmt.Errorf("webp encode: %w", err))
	}

	return Result{Source: texPath, Output: out, Success: true}
}
