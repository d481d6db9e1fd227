// Package audio plays the short chimes that accompany starting and stopping
// the timers. The tones are synthesised, so no sound assets are needed.
package audio

import (
	"sync"
	"time"

	"TimerBoard/config"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Cue identifies a chime.
type Cue int

const (
	CueStart Cue = iota
	CueStop
)

func (c Cue) String() string {
	switch c {
	case CueStart:
		return "start"
	case CueStop:
		return "stop"
	}
	return "unknown"
}

// Player plays chimes. The zero value of Nop satisfies it.
type Player interface {
	Play(Cue)
}

// Nop is a Player that stays silent.
type Nop struct{}

func (Nop) Play(Cue) {}

// Chime is a Player backed by the system speaker.
type Chime struct {
	log         *zap.Logger
	sr          beep.SampleRate
	length      int
	volumeShift float64
	freqs       map[Cue]float64

	speakerLock sync.Mutex
}

// NewChime prepares the speaker. When the speaker cannot be initialised the
// error is returned and the caller should fall back to Nop.
func NewChime(cfg config.SoundConfig, log *zap.Logger) (*Chime, error) {
	sr := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return nil, errors.WithMessage(err, "initialize speaker")
	}

	return &Chime{
		log:         log.Named("audio"),
		sr:          sr,
		length:      sr.N(time.Duration(cfg.DurationMs) * time.Millisecond),
		volumeShift: cfg.VolumeShift,
		freqs: map[Cue]float64{
			CueStart: cfg.StartFreq,
			CueStop:  cfg.StopFreq,
		},
	}, nil
}

// Play starts the chime for cue and returns without waiting for it.
func (c *Chime) Play(cue Cue) {
	s, err := c.tone(cue)
	if err != nil {
		c.log.Warn("cannot build chime", zap.Stringer("cue", cue), zap.Error(err))
		return
	}

	c.speakerLock.Lock()
	defer c.speakerLock.Unlock()
	speaker.Play(s)
}

func (c *Chime) tone(cue Cue) (beep.Streamer, error) {
	freq, ok := c.freqs[cue]
	if !ok {
		return nil, errors.Errorf("no frequency for cue %v", cue)
	}
	sine, err := generators.SineTone(c.sr, freq)
	if err != nil {
		return nil, err
	}
	return &effects.Volume{
		Streamer: beep.Take(c.length, sine),
		Base:     2,
		Volume:   c.volumeShift,
	}, nil
}

// Close releases the speaker.
func (c *Chime) Close() {
	c.speakerLock.Lock()
	defer c.speakerLock.Unlock()
	speaker.Clear()
	speaker.Close()
}

// New returns a Chime when sound is enabled and the speaker works, and Nop
// otherwise. Failures are logged, never fatal.
func New(cfg config.SoundConfig, log *zap.Logger) Player {
	if !cfg.Enabled {
		return Nop{}
	}
	c, err := NewChime(cfg, log)
	if err != nil {
		log.Warn("audio disabled", zap.Error(err))
		return Nop{}
	}
	return c
}
