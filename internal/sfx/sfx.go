// Package sfx synthesises the short sound cues played for game events.
// Cues are built from sine partials shaped by an attack/release envelope,
// so no audio files ship with the game.
package sfx

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"crawler/internal/game"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
)

// SampleRate is used for every cue.
const SampleRate = beep.SampleRate(44100)

var ErrUnknownCue = errors.New("sfx: unknown cue")

// Note is one tone of a cue. Overtone adds a partial at twice the frequency
// with that relative level.
type Note struct {
	Freq     float64
	Dur      time.Duration
	Overtone float64
}

// Cue is a sequence of notes played at Volume (0..1).
type Cue struct {
	Notes   []Note
	Attack  time.Duration
	Release time.Duration
	Volume  float64
}

// Duration is the total length of c.
func (c Cue) Duration() time.Duration {
	var d time.Duration
	for _, n := range c.Notes {
		d += n.Dur
	}
	return d
}

const ms = time.Millisecond

// Cues maps each engine event to its sound.
var Cues = map[game.Event]Cue{
	game.EventStep: {
		Notes:  []Note{{Freq: 90, Dur: 60 * ms}},
		Attack: 5 * ms, Release: 40 * ms, Volume: 0.3,
	},
	game.EventBump: {
		Notes:  []Note{{Freq: 70, Dur: 90 * ms, Overtone: 0.4}},
		Attack: 2 * ms, Release: 60 * ms, Volume: 0.5,
	},
	game.EventStairs: {
		Notes: []Note{
			{Freq: 392, Dur: 90 * ms}, {Freq: 330, Dur: 90 * ms},
			{Freq: 262, Dur: 90 * ms}, {Freq: 196, Dur: 160 * ms},
		},
		Attack: 5 * ms, Release: 60 * ms, Volume: 0.5,
	},
	game.EventEncounter: {
		Notes: []Note{
			{Freq: 220, Dur: 120 * ms, Overtone: 0.5}, {Freq: 233, Dur: 120 * ms, Overtone: 0.5},
			{Freq: 220, Dur: 200 * ms, Overtone: 0.5},
		},
		Attack: 5 * ms, Release: 80 * ms, Volume: 0.6,
	},
	game.EventHit: {
		Notes:  []Note{{Freq: 160, Dur: 80 * ms, Overtone: 0.8}},
		Attack: 1 * ms, Release: 60 * ms, Volume: 0.7,
	},
	game.EventSpell: {
		Notes: []Note{
			{Freq: 523, Dur: 70 * ms, Overtone: 0.3}, {Freq: 659, Dur: 70 * ms, Overtone: 0.3},
			{Freq: 784, Dur: 70 * ms, Overtone: 0.3}, {Freq: 1047, Dur: 140 * ms, Overtone: 0.3},
		},
		Attack: 5 * ms, Release: 90 * ms, Volume: 0.5,
	},
	game.EventHurt: {
		Notes:  []Note{{Freq: 120, Dur: 70 * ms, Overtone: 0.6}, {Freq: 95, Dur: 110 * ms, Overtone: 0.6}},
		Attack: 1 * ms, Release: 70 * ms, Volume: 0.7,
	},
	game.EventBlock: {
		Notes:  []Note{{Freq: 880, Dur: 50 * ms, Overtone: 0.7}},
		Attack: 1 * ms, Release: 40 * ms, Volume: 0.4,
	},
	game.EventHeal: {
		Notes: []Note{
			{Freq: 659, Dur: 100 * ms}, {Freq: 784, Dur: 100 * ms}, {Freq: 988, Dur: 200 * ms},
		},
		Attack: 20 * ms, Release: 120 * ms, Volume: 0.4,
	},
	game.EventFlee: {
		Notes: []Note{
			{Freq: 440, Dur: 50 * ms}, {Freq: 494, Dur: 50 * ms},
			{Freq: 554, Dur: 50 * ms}, {Freq: 659, Dur: 50 * ms},
		},
		Attack: 2 * ms, Release: 30 * ms, Volume: 0.4,
	},
	game.EventVictory: {
		Notes: []Note{
			{Freq: 523, Dur: 120 * ms, Overtone: 0.3}, {Freq: 523, Dur: 120 * ms, Overtone: 0.3},
			{Freq: 523, Dur: 120 * ms, Overtone: 0.3}, {Freq: 698, Dur: 400 * ms, Overtone: 0.3},
		},
		Attack: 5 * ms, Release: 150 * ms, Volume: 0.6,
	},
	game.EventDefeat: {
		Notes: []Note{
			{Freq: 294, Dur: 250 * ms}, {Freq: 277, Dur: 250 * ms},
			{Freq: 262, Dur: 250 * ms}, {Freq: 247, Dur: 600 * ms},
		},
		Attack: 10 * ms, Release: 300 * ms, Volume: 0.6,
	},
}

// Names lists the cue names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Cues))
	for ev := range Cues {
		names = append(names, string(ev))
	}
	sort.Strings(names)
	return names
}

// Lookup finds a cue by event name.
func Lookup(name string) (Cue, bool) {
	c, ok := Cues[game.Event(name)]
	return c, ok
}

// Streamer returns a finite streamer playing c at sr.
func (c Cue) Streamer(sr beep.SampleRate) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(c.Notes))
	for _, n := range c.Notes {
		s, err := note(n, sr, c.Attack, c.Release)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return newVolume(beep.Seq(parts...), c.Volume), nil
}

func note(n Note, sr beep.SampleRate, attack, release time.Duration) (beep.Streamer, error) {
	fund, err := generators.SineTone(sr, n.Freq)
	if err != nil {
		return nil, fmt.Errorf("note %.0f Hz: %w", n.Freq, err)
	}
	tone := fund
	if n.Overtone > 0 && 2*n.Freq < float64(sr)/2 {
		over, err := generators.SineTone(sr, 2*n.Freq)
		if err != nil {
			return nil, fmt.Errorf("overtone %.0f Hz: %w", 2*n.Freq, err)
		}
		tone = beep.Mix(
			newVolume(fund, 1/(1+n.Overtone)),
			newVolume(over, n.Overtone/(1+n.Overtone)),
		)
	}
	total := sr.N(n.Dur)
	return newEnvelope(beep.Take(total, tone), total, sr.N(attack), sr.N(release)), nil
}

// envelope ramps the start and end of a fixed-length stream.
type envelope struct {
	s                      beep.Streamer
	pos, total, atk, relSt int
}

func newEnvelope(s beep.Streamer, total, attack, release int) *envelope {
	attack = min(attack, total/2)
	release = min(release, total-attack)
	return &envelope{s: s, total: total, atk: attack, relSt: total - release}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	for i := 0; i < n; i++ {
		g := 1.0
		switch {
		case e.pos < e.atk:
			g = float64(e.pos) / float64(e.atk)
		case e.pos >= e.relSt && e.total > e.relSt:
			g = float64(e.total-e.pos) / float64(e.total-e.relSt)
		}
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// newVolume scales s linearly; effects.Volume works in log2 steps.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// WriteWAV encodes the named cue as 16-bit mono WAV.
func WriteWAV(w io.WriteSeeker, name string) error {
	c, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCue, name)
	}
	s, err := c.Streamer(SampleRate)
	if err != nil {
		return err
	}
	return wav.Encode(w, s, beep.Format{SampleRate: SampleRate, NumChannels: 1, Precision: 2})
}

// WAV returns the named cue as WAV bytes.
func WAV(name string) ([]byte, error) {
	var buf memFile
	if err := WriteWAV(&buf, name); err != nil {
		return nil, err
	}
	return buf.b, nil
}

// memFile is an in-memory io.WriteSeeker; the WAV encoder seeks back to
// patch the header sizes.
type memFile struct {
	b   []byte
	off int
}

func (m *memFile) Write(p []byte) (int, error) {
	if end := m.off + len(p); end > len(m.b) {
		m.b = append(m.b, make([]byte, end-len(m.b))...)
	}
	copy(m.b[m.off:], p)
	m.off += len(p)
	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(m.off)
	case io.SeekEnd:
		base = int64(len(m.b))
	default:
		return 0, errors.New("memFile: bad whence")
	}
	pos := base + offset
	if pos < 0 {
		return 0, errors.New("memFile: negative position")
	}
	m.off = int(pos)
	return pos, nil
}
