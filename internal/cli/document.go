package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/swimlane/pkg/diagram"
	errs "github.com/matzehuels/swimlane/pkg/errors"
	"github.com/matzehuels/swimlane/pkg/store"
)

// readDocument loads a diagram JSON file. The document id is the file name
// without its extension.
func readDocument(path string) (*store.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", path)
	}
	g, err := diagram.Parse(data)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "%s", path)
	}
	id := documentID(path)
	return &store.Document{ID: id, Name: id, Graph: g}, nil
}

func documentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeGraph writes g as indented JSON to path, or to stdout when path is
// empty.
func writeGraph(path string, g *diagram.Graph) error {
	data, err := g.Marshal()
	if err != nil {
		return err
	}
	return writeOutput(path, append(data, '\n'))
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// outputPath derives an output path from the input's base name.
func outputPath(input, ext string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + ext
}
