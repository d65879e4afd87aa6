package flockart

import (
	"fmt"
	"math/rand"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Seed hold the primary seed used for random numbers
type Seed struct {
	intSeed int64
	rng     *rand.Rand
}

// Jan 1, 2020 (to make filenames a little smaller)
const epoch2020 = 1577836800

// Init initializes the seed
// `hexSeed` is either the empty string or a hex value
func Init(hexSeed string) (Seed, error) {
	s := Seed{intSeed: time.Now().UnixNano() - epoch2020}
	if hexSeed != "" {
		err := s.SetSeed(hexSeed)
		return s, err
	}
	s.rng = rand.New(rand.NewSource(s.intSeed))
	return s, nil
}

// NewSeed returns a seed fixed to n.
func NewSeed(n int64) Seed {
	return Seed{intSeed: n, rng: rand.New(rand.NewSource(n))}
}

// GetSeed returns the rand initialization seed
func (s Seed) GetSeed() int64 {
	return s.intSeed
}

// SetSeed sets the seed given the file seed part of filename
func (s *Seed) SetSeed(hexSeed string) error {
	n, err := strconv.ParseInt(hexSeed, 16, 64)
	if err != nil {
		return fmt.Errorf("parsing seed %q: %w", hexSeed, err)
	}
	*s = NewSeed(n)
	return nil
}

// Rand returns the generator every random draw of a run should use.
func (s Seed) Rand() *rand.Rand {
	if s.rng == nil {
		return rand.New(rand.NewSource(s.intSeed))
	}
	return s.rng
}

// Hex is the seed as it appears in filenames and on the -seed flag.
func (s Seed) Hex() string {
	return strconv.FormatInt(s.intSeed, 16)
}

// Title is the window title for a sketch run with this seed.
func (s Seed) Title(name string) string {
	return fmt.Sprintf("%s #%s", name, s.Hex())
}

// GetFilename returns a string to use for this file
func (s Seed) GetFilename(prefix, ext string) string {
	return fmt.Sprintf("%s%s-%s%s", prefix, getGitHash(), s.Hex(), ext)
}

func getGitHash() string {
	cmdOut, err := exec.Command("git", "rev-parse", "--verify", "HEAD").Output()
	if err != nil {
		return ""
	}
	hash := strings.TrimSpace(string(cmdOut))
	if len(hash) < 7 {
		return hash
	}
	return hash[0:7]
}
