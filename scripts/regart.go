// Regart watches a sketch folder, reruns the sketch whenever its Go source or
// YAML config is saved, and shows the stills and clips it writes. Animated
// PNGs show their first frame.
package main

import (
	"flag"
	"hash/crc64"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fsnotify/fsnotify"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/scottkirkwood/flockart"
	"github.com/scottkirkwood/flockart/viewer"
)

var (
	dirFlag    = flag.String("dir", "flocking", "Sketch folder to watch and run")
	configFlag = flag.String("config", "", "YAML config to pass to the sketch and watch")
	outFlag    = flag.String("out", "samples", "Folder the sketch writes to, relative to -dir")
)

func main() {
	flag.Parse()

	w := newWatcher(*dirFlag, *configFlag, filepath.Join(*dirFlag, *outFlag))
	if err := flockart.MaybeCreateDir(w.outDir); err != nil {
		slog.Error("failed to create output folder", "dir", w.outDir, "error", err)
		os.Exit(1)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}
	defer watcher.Close()

	// out of the box fsnotify can watch a single file, or a single directory
	for _, dir := range w.folders() {
		if err := watcher.Add(dir); err != nil {
			slog.Error("problem adding folder watcher", "dir", dir, "error", err)
			os.Exit(1)
		}
		slog.Info("monitoring", "dir", dir)
	}

	shown := make(chan string, 16)
	go w.watchForEvents(watcher, shown)

	// The window has to be driven from the main goroutine.
	for fname := range shown {
		_, imgs := flockart.DecodeImages([]string{fname})
		if err := viewer.Show(flockart.Basename(fname), imgs); err != nil {
			slog.Error("viewer failed", "file", fname, "error", err)
		}
	}
}

type watcher struct {
	sketchDir string
	config    string
	outDir    string
	fileCrc   map[string]uint64
}

func newWatcher(sketchDir, config, outDir string) *watcher {
	return &watcher{
		sketchDir: sketchDir,
		config:    config,
		outDir:    outDir,
		fileCrc:   make(map[string]uint64),
	}
}

func (w *watcher) folders() []string {
	dirs := []string{w.sketchDir, w.outDir}
	if w.config != "" {
		if d := filepath.Dir(w.config); d != filepath.Clean(w.sketchDir) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// watchForEvents handles one event at a time, so a run finishes before the
// images it wrote are picked up.
func (w *watcher) watchForEvents(watcher *fsnotify.Watcher, shown chan<- string) {
	defer close(shown)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			switch {
			case event.Op&fsnotify.Write == fsnotify.Write && isSource(event.Name):
				if w.fileChanged(event.Name) {
					w.rerun()
				}
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0 && isOutput(event.Name):
				if w.fileChanged(event.Name) {
					shown <- event.Name
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watch error", "error", err)
		}
	}
}

func (w *watcher) runArgs() []string {
	args := []string{"run", "."}
	if w.config != "" {
		cfg, err := filepath.Abs(w.config)
		if err != nil {
			cfg = w.config
		}
		args = append(args, "-config", cfg)
	}
	return args
}

func (w *watcher) rerun() {
	args := w.runArgs()
	slog.Info("running", "dir", w.sketchDir, "args", strings.Join(args, " "))
	cmd := exec.Command("go", args...)
	cmd.Dir = w.sketchDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		slog.Error("run failed", "error", err, "output", string(out))
		return
	}
	slog.Info("ran", "output", string(out))
}

// Vim's swap files are named with only digits.
var onlyDigitsRx = regexp.MustCompile(`^\d+$`)

func ignored(fname string) bool {
	base := filepath.Base(fname)
	return onlyDigitsRx.MatchString(base) || strings.HasPrefix(base, "flockart.") || strings.HasPrefix(base, ".")
}

func isSource(fname string) bool {
	if ignored(fname) {
		return false
	}
	switch filepath.Ext(fname) {
	case ".go", ".yaml", ".yml":
		return !strings.HasSuffix(fname, "_test.go")
	}
	return false
}

func isOutput(fname string) bool {
	if ignored(fname) {
		return false
	}
	switch filepath.Ext(fname) {
	case ".png", ".apng", ".gif":
		return true
	}
	return false
}

// fileChanged reports whether fname's contents differ from the last time
// it was seen. Editors often save the same bytes twice.
func (w *watcher) fileChanged(fname string) bool {
	newChecksum, err := fileChecksum(fname)
	if err != nil {
		slog.Warn("readfile error", "file", fname, "error", err)
		return false
	}
	if newChecksum == w.fileCrc[fname] {
		return false
	}
	w.fileCrc[fname] = newChecksum
	return true
}

func fileChecksum(fname string) (uint64, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return 0, err
	}
	return crc64.Checksum(data, crc64.MakeTable(crc64.ECMA)), nil
}
