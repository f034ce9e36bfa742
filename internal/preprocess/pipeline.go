// Package preprocess turns raw track descriptions into the form the
// optimiser reads.
package preprocess

import (
	"encoding/json"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/track-preprocess/internal/model"
	"github.com/sells-group/track-preprocess/internal/track"
)

// ProvenancePath holds the preprocessing provenance record.
const ProvenancePath = "metadata.preprocessing"

// Options selects which preprocessing steps run.
type Options struct {
	Curvature bool
}

// FileStore is the file access the pipeline needs.
type FileStore interface {
	Read(path string) ([]byte, error)
	WriteAtomic(path string, data []byte) error
}

// Pipeline reads a track file, applies the selected steps and writes the
// result.
type Pipeline struct {
	Store  FileStore
	Format track.FormatOptions
}

// NewPipeline creates a Pipeline.
func NewPipeline(store FileStore, format track.FormatOptions) *Pipeline {
	return &Pipeline{Store: store, Format: format}
}

// Run processes inputPath into outputPath. Nothing is written when any
// stage fails.
func (p *Pipeline) Run(inputPath, outputPath string, opts Options) error {
	log := zap.L().With(zap.String("input", inputPath), zap.String("output", outputPath))

	data, err := p.Store.Read(inputPath)
	if err != nil {
		return eris.Wrap(err, "preprocess: read input")
	}
	doc, err := track.Parse(data)
	if err != nil {
		return eris.Wrapf(err, "preprocess: parse %s", inputPath)
	}

	doc, err = Process(doc, OriginalFile(inputPath), opts)
	if err != nil {
		return err
	}

	if err := p.Store.WriteAtomic(outputPath, doc.Format(p.Format)); err != nil {
		return eris.Wrap(err, "preprocess: write output")
	}

	log.Info("track preprocessed", zap.Bool("curvature", opts.Curvature))
	return nil
}

// Process stamps provenance on doc and runs the selected steps. With no
// steps selected the stamped document is returned unchanged otherwise.
func Process(doc *track.Document, originalFile string, opts Options) (*track.Document, error) {
	doc, err := StampProvenance(doc, originalFile)
	if err != nil {
		return nil, err
	}
	if !opts.Curvature {
		return doc, nil
	}
	doc, err = NormalizeCurvatures(doc)
	if err != nil {
		return nil, eris.Wrap(err, "preprocess: curvature")
	}
	return doc, nil
}

// StampProvenance replaces metadata.preprocessing with a fresh record
// naming the original file.
func StampProvenance(doc *track.Document, originalFile string) (*track.Document, error) {
	raw, err := json.Marshal(model.Preprocessing{OriginalFile: originalFile})
	if err != nil {
		return nil, eris.Wrap(err, "preprocess: encode provenance")
	}
	return doc.SetRaw(ProvenancePath, raw)
}

// OriginalFile is the name recorded as a document's source.
func OriginalFile(inputPath string) string {
	return filepath.Base(filepath.Clean(inputPath))
}
