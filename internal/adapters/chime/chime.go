// Package chime plays a short ascending arpeggio when a card is revealed.
package chime

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// C major arpeggio, in Hz.
var notes = []float64{523.25, 659.25, 783.99, 1046.50}

const noteLength = 90 * time.Millisecond

// Player owns the speaker. The zero value is usable; Play is a no-op until
// Init succeeds.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func New() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Init opens the audio device. Callers treat a failure as non-fatal.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if p.mixer == nil {
		p.mixer = &beep.Mixer{}
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues the reveal arpeggio.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(Arpeggio(sampleRate))
	speaker.Unlock()
}

func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

// Arpeggio returns the finite reveal jingle at sample rate sr.
func Arpeggio(sr beep.SampleRate) beep.Streamer {
	parts := make([]beep.Streamer, len(notes))
	for i, f := range notes {
		parts[i] = beep.Take(sr.N(noteLength), newPluck(sr, f))
	}
	return beep.Seq(parts...)
}

// pluck is a sine with a fast attack and exponential decay.
type pluck struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func newPluck(sr beep.SampleRate, freq float64) *pluck {
	return &pluck{sr: sr, freq: freq}
}

func (g *pluck) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Min(t/0.005, 1.0) * math.Exp(-t*18)
		sample := 0.2 * envelope * math.Sin(2*math.Pi*g.freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *pluck) Err() error {
	return nil
}
