package reports

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Artifact describes a generated report.
type Artifact struct {
	Path   string
	Format string
	Rows   int
}

// Generator turns filtered rows into a downloadable artifact.
type Generator interface {
	Generate(ctx context.Context, req Request, rows []Row) (Artifact, error)
}

// FileGenerator writes reports into OutputDir.
type FileGenerator struct {
	OutputDir string
}

// Generate validates req, filters rows and writes the report file.
func (g *FileGenerator) Generate(ctx context.Context, req Request, rows []Row) (Artifact, error) {
	if err := req.Validate(); err != nil {
		return Artifact{}, err
	}
	ext, err := Extension(req.Format)
	if err != nil {
		return Artifact{}, err
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("mkdir report dir: %w", err)
	}

	selected := Apply(rows, req)
	name := fmt.Sprintf("payments_%s_%s.%s", req.DateFrom.Format(time.DateOnly), req.DateTo.Format(time.DateOnly), ext)
	path := filepath.Join(g.OutputDir, name)

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return Artifact{}, fmt.Errorf("create report: %w", err)
	}
	bw := bufio.NewWriter(f)
	switch req.Format {
	case FormatCSV:
		err = writeCSV(bw, selected)
	case FormatExcel:
		err = writeExcel(bw, selected, req)
	case FormatPDF:
		err = writePDF(bw, selected, req)
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return Artifact{}, fmt.Errorf("write %s report: %w", req.Format, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return Artifact{}, fmt.Errorf("finalize report: %w", err)
	}
	return Artifact{Path: path, Format: req.Format, Rows: len(selected)}, nil
}
