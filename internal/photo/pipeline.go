// Package photo converts selected image files into embeddable data-URL
// references and attaches them to an activity. Each file in a batch is
// converted and committed independently: completions may land in any order,
// and because every commit is a targeted single-photo append on the store,
// they commute: N files always end up as N photos, whatever the
// interleaving. One file failing never aborts its siblings.
package photo

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Appender receives each converted reference. Satisfied by *store.TripStore.
type Appender interface {
	AddPhoto(tripID, itemID uuid.UUID, photoRef string) error
}

// File is one selected image file: a name for reporting and its content.
type File struct {
	Name   string
	Reader io.Reader
}

// Result is the per-file outcome of a batch. Exactly one of Ref and Err is
// set.
type Result struct {
	Name string
	Ref  string
	Err  error
}

// Pipeline attaches photo batches to activities through an Appender.
type Pipeline struct {
	store Appender
}

// NewPipeline constructs a Pipeline committing through store.
func NewPipeline(store Appender) *Pipeline {
	return &Pipeline{store: store}
}

// Attach converts every file in the batch to a data-URL reference and
// appends each successful conversion to the target activity. Conversions
// run concurrently; results come back in input order. There is no batch
// cancellation: once started, each file either commits or reports its own
// error.
func (p *Pipeline) Attach(tripID, itemID uuid.UUID, files []File) []Result {
	results := make([]Result, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()
			results[i] = p.attachOne(tripID, itemID, f)
		}(i, f)
	}
	wg.Wait()

	return results
}

func (p *Pipeline) attachOne(tripID, itemID uuid.UUID, f File) Result {
	ref, err := DataURL(f)
	if err != nil {
		return Result{Name: f.Name, Err: fmt.Errorf("photo: convert %q: %w", f.Name, err)}
	}
	if err := p.store.AddPhoto(tripID, itemID, ref); err != nil {
		return Result{Name: f.Name, Err: fmt.Errorf("photo: attach %q: %w", f.Name, err)}
	}
	return Result{Name: f.Name, Ref: ref}
}

// DataURL reads the file and encodes it as a data URL, the same embeddable
// form a browser FileReader produces. The media type is sniffed from the
// content; non-image content is rejected.
func DataURL(f File) (string, error) {
	data, err := io.ReadAll(f.Reader)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}

	mediaType := http.DetectContentType(data)
	if !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("unsupported media type %s", mediaType)
	}

	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
