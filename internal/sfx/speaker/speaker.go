// Package speaker plays sound cues on the local audio device. It links the
// platform audio backend, so only the terminal client imports it.
package speaker

import (
	"sync"
	"time"

	"crawler/internal/game"
	"crawler/internal/sfx"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Player plays cues on the local audio device. A Player that failed to open
// the device stays silent.
type Player struct {
	mu    sync.Mutex
	mixer *beep.Mixer
	ready bool
	cache map[game.Event]*beep.Buffer
}

func New() *Player {
	return &Player{mixer: &beep.Mixer{}, cache: map[game.Event]*beep.Buffer{}}
}

// Init opens the speaker. Calling it again is a no-op.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		return nil
	}
	if err := speaker.Init(sfx.SampleRate, sfx.SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.ready = true
	return nil
}

// Play queues the cues for events, one after another. Unknown events are
// skipped.
func (p *Player) Play(events []game.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready || len(events) == 0 {
		return
	}
	var seq []beep.Streamer
	for _, ev := range events {
		if b := p.buffer(ev); b != nil {
			seq = append(seq, b.Streamer(0, b.Len()))
		}
	}
	if len(seq) == 0 {
		return
	}
	speaker.Lock()
	p.mixer.Add(beep.Seq(seq...))
	speaker.Unlock()
}

// buffer renders a cue once and keeps it. Caller holds mu.
func (p *Player) buffer(ev game.Event) *beep.Buffer {
	if b, ok := p.cache[ev]; ok {
		return b
	}
	c, ok := sfx.Cues[ev]
	if !ok {
		return nil
	}
	s, err := c.Streamer(sfx.SampleRate)
	if err != nil {
		return nil
	}
	b := beep.NewBuffer(beep.Format{SampleRate: sfx.SampleRate, NumChannels: 2, Precision: 2})
	b.Append(s)
	p.cache[ev] = b
	return b
}

// Close silences everything and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.ready = false
}
