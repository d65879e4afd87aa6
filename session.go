package flockart

import (
	"math/rand"
	"path/filepath"
	"time"
)

// Session is what a sketch's host loop owns for one run: its name, seed,
// frame counter and clock. Sketches pass it around instead of keeping
// package globals.
type Session struct {
	Name string
	Seed Seed

	// FrameRate, when set, makes Elapsed count frames instead of wall time
	// so headless renders look the same however fast they run.
	FrameRate int

	frame int
	start time.Time
	now   func() time.Time
}

// NewSession starts a session for the named sketch.
func NewSession(name string, seed Seed) *Session {
	return &Session{Name: name, Seed: seed, start: time.Now(), now: time.Now}
}

// Title is the sketch name with its seed.
func (s *Session) Title() string {
	return s.Seed.Title(s.Name)
}

// Rand is the session's random source.
func (s *Session) Rand() *rand.Rand {
	return s.Seed.Rand()
}

// Frame is the number of completed ticks.
func (s *Session) Frame() int {
	return s.frame
}

// Tick marks the end of a frame.
func (s *Session) Tick() {
	s.frame++
}

// Elapsed is how far into the run the session is.
func (s *Session) Elapsed() time.Duration {
	if s.FrameRate > 0 {
		return time.Duration(s.frame) * time.Second / time.Duration(s.FrameRate)
	}
	return s.now().Sub(s.start)
}

// Filename is where an output of this session with the given extension goes.
func (s *Session) Filename(dir, ext string) string {
	return s.Seed.GetFilename(filepath.Join(dir, s.Name)+"-", ext)
}
