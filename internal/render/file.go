package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile renders doc into dir/name.<ext>. The artifact is written to a
// temporary file first and renamed into place, so a failed render never
// leaves a partial file behind.
func WriteFile(dir, name string, r Renderer, doc *Document) (string, error) {
	return writeAtomic(dir, name+"."+r.Ext(), r.Ext(), func(w io.Writer) error {
		return r.Render(w, doc)
	})
}

// WriteChart renders spec into dir/name.png.
func WriteChart(dir, name string, spec ChartSpec) (string, error) {
	return writeAtomic(dir, name+".png", "png", func(w io.Writer) error {
		return RenderChart(w, spec)
	})
}

func writeAtomic(dir, filename, format string, fn func(io.Writer) error) (string, error) {
	path := filepath.Join(dir, filename)
	fail := func(err error) (string, error) {
		var re *RenderError
		if errors.As(err, &re) {
			if re.Path == "" {
				re.Path = path
			}
			return "", re
		}
		return "", &RenderError{Format: format, Path: path, Err: err}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail(fmt.Errorf("create output dir: %w", err))
	}
	tmp, err := os.CreateTemp(dir, "."+filename+".tmp-*")
	if err != nil {
		return fail(fmt.Errorf("create temp file: %w", err))
	}
	tmpPath := tmp.Name()

	if err := fn(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fail(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fail(fmt.Errorf("chmod temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fail(fmt.Errorf("close temp file: %w", err))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fail(fmt.Errorf("rename: %w", err))
	}
	return path, nil
}
