package flockart

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// PNGWriter can save itself as a PNG file.
type PNGWriter interface {
	WritePNG(fname string) error
}

// SVGWriter can save itself as an SVG file.
type SVGWriter interface {
	WriteSVG(fname string) error
}

// PDFWriter can save itself as a PDF file.
type PDFWriter interface {
	WritePDF(fname string) error
}

// GIFWriter can save itself as an animated GIF.
type GIFWriter interface {
	WriteGIF(fname string) error
}

// APNGWriter can save itself as an animated PNG.
type APNGWriter interface {
	WriteAPNG(fname string) error
}

// SafeWrite noisily saves w to a file named after the seed and returns the
// file name. The extension picks the format, and w must support it.
func (s Seed) SafeWrite(w any, prefix, ext string) (string, error) {
	fname := s.GetFilename(prefix, ext)
	if err := safeWrite(w, fname); err != nil {
		slog.Error("problem saving", "file", fname, "error", err)
		return "", err
	}
	slog.Info("saved", "file", fname)
	return fname, nil
}

// Save writes w next to the session's other outputs in dir.
func (s *Session) Save(w any, dir, ext string) (string, error) {
	return s.Seed.SafeWrite(w, filepath.Join(dir, s.Name)+"-", ext)
}

// MaybeCreateDir makes dir and its parents if they are missing.
func MaybeCreateDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

// safeWrite writes to a temp file then renames atomically
func safeWrite(w any, fname string) error {
	dir := filepath.Dir(fname)
	if err := MaybeCreateDir(dir); err != nil {
		return err
	}

	ext := filepath.Ext(fname)
	write, err := writerFor(w, ext)
	if err != nil {
		return err
	}

	// The temp file lives next to fname so the rename stays on one drive.
	tmpfile, err := os.CreateTemp(dir, "flockart.*"+ext)
	if err != nil {
		return err
	}
	tmpName := tmpfile.Name()
	if err := tmpfile.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := write(tmpName); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, fname); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Chmod(fname, 0664)
}

func writerFor(w any, ext string) (func(string) error, error) {
	switch ext {
	case ".png":
		if pw, ok := w.(PNGWriter); ok {
			return pw.WritePNG, nil
		}
	case ".svg":
		if sw, ok := w.(SVGWriter); ok {
			return sw.WriteSVG, nil
		}
	case ".pdf":
		if pw, ok := w.(PDFWriter); ok {
			return pw.WritePDF, nil
		}
	case ".gif":
		if gw, ok := w.(GIFWriter); ok {
			return gw.WriteGIF, nil
		}
	case ".apng":
		if aw, ok := w.(APNGWriter); ok {
			return aw.WriteAPNG, nil
		}
	default:
		return nil, fmt.Errorf("unsupported file format %s", ext)
	}
	return nil, fmt.Errorf("%T cannot be written as %s", w, ext)
}
