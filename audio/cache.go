package audio

import (
	"sync"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/skirmish/core"
)

// cueCache stores rendered cue buffers with volume already applied
type cueCache struct {
	mu     sync.RWMutex
	format beep.Format
	cfg    *Config
	store  [core.SoundCount]*beep.Buffer
}

func newCueCache(cfg *Config) *cueCache {
	return &cueCache{
		format: beep.Format{SampleRate: beep.SampleRate(cfg.SampleRate), NumChannels: 2, Precision: 2},
		cfg:    cfg,
	}
}

// get returns the cached buffer or renders on demand, nil for ids without a cue
func (c *cueCache) get(id core.SoundID) *beep.Buffer {
	if id == core.SoundNone || id >= core.SoundCount {
		return nil
	}

	c.mu.RLock()
	if buf := c.store[id]; buf != nil {
		c.mu.RUnlock()
		return buf
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if buf := c.store[id]; buf != nil {
		return buf
	}

	buf := beep.NewBuffer(c.format)
	buf.Append(newVolume(NewCue(id, c.format.SampleRate), c.cfg.gain(id)))
	c.store[id] = buf
	return buf
}

// preload renders every cue up front so the first Play does no synthesis
func (c *cueCache) preload() {
	for id := core.SoundNone + 1; id < core.SoundCount; id++ {
		c.get(id)
	}
}

// RenderPCM returns a cue as interleaved signed 16-bit little-endian stereo at cfg.SampleRate
// Used by backends that own their audio device and only accept raw PCM
func RenderPCM(id core.SoundID, cfg *Config) []byte {
	buf := newCueCache(cfg).get(id)
	if buf == nil {
		return nil
	}

	format := buf.Format()
	frame := format.Width()
	out := make([]byte, buf.Len()*frame)

	s := buf.Streamer(0, buf.Len())
	samples := make([][2]float64, 512)
	pos := 0
	for {
		n, ok := s.Stream(samples)
		for i := 0; i < n; i++ {
			pos += format.EncodeSigned(out[pos:], samples[i])
		}
		if !ok || n == 0 {
			break
		}
	}
	return out[:pos]
}
