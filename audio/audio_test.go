package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/status"
)

// drain streams s to completion and returns all samples
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 256)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestOscillator_SquareAndLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	duration := 50 * time.Millisecond

	samples := drain(NewOscillator(220, duration, WaveSquare, rate))

	if len(samples) != rate.N(duration) {
		t.Errorf("Expected %d samples, got %d", rate.N(duration), len(samples))
	}
	for i, s := range samples {
		if s[0] != -1.0 && s[0] != 1.0 {
			t.Fatalf("Square wave sample %d should be -1.0 or 1.0, got %f", i, s[0])
		}
	}
}

func TestSweep_StaysInRange(t *testing.T) {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		for i, s := range drain(NewSweep(200, 800, 20*time.Millisecond, wave, rate)) {
			if s[0] < -1 || s[0] > 1 || s[0] != s[1] {
				t.Fatalf("Wave %d sample %d out of range or not mono: %v", wave, i, s)
			}
		}
	}
}

func TestEnvelope_SilentEdges(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewOscillator(0, time.Second, WaveSquare, rate)
	samples := drain(NewEnvelope(osc, time.Second, 100*time.Millisecond, 100*time.Millisecond, rate))

	if len(samples) != 1000 {
		t.Fatalf("Expected 1000 samples, got %d", len(samples))
	}
	if samples[0][0] != 0 {
		t.Errorf("Expected silent first sample, got %f", samples[0][0])
	}
	if samples[500][0] != 1 {
		t.Errorf("Expected full volume at sustain, got %f", samples[500][0])
	}
	if last := samples[999][0]; last > 0.011 {
		t.Errorf("Expected release near zero, got %f", last)
	}
}

func TestNewCue_FiniteAndBounded(t *testing.T) {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	limit := rate.N(parameter.AudioMaxCueDuration)

	for id := core.SoundNone + 1; id < core.SoundCount; id++ {
		samples := drain(NewCue(id, rate))
		if len(samples) == 0 || len(samples) > limit {
			t.Errorf("Cue %s: expected 1..%d samples, got %d", id, limit, len(samples))
		}
		for i, s := range samples {
			if s[0] < -1 || s[0] > 1 {
				t.Fatalf("Cue %s sample %d out of range: %f", id, i, s[0])
			}
		}
	}

	if NewCue(core.SoundNone, rate) != nil {
		t.Error("Expected nil cue for SoundNone")
	}
	if NewCue(core.SoundCount, rate) != nil {
		t.Error("Expected nil cue for unknown id")
	}
}

func TestRenderPCM(t *testing.T) {
	cfg := DefaultConfig()
	pcm := RenderPCM(core.SoundJump, cfg)

	if len(pcm) == 0 || len(pcm)%4 != 0 {
		t.Fatalf("Expected whole 16-bit stereo frames, got %d bytes", len(pcm))
	}
	if want := beep.SampleRate(cfg.SampleRate).N(jumpDuration) * 4; len(pcm) != want {
		t.Errorf("Expected %d bytes, got %d", want, len(pcm))
	}

	cfg.MasterVolume = 0
	for i, b := range RenderPCM(core.SoundJump, cfg) {
		if b != 0 {
			t.Fatalf("Expected silence at zero volume, byte %d = %d", i, b)
		}
	}

	if RenderPCM(core.SoundNone, cfg) != nil {
		t.Error("Expected nil PCM for SoundNone")
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("SKIRMISH_AUDIO_ENABLED", "false")
	t.Setenv("SKIRMISH_MASTER_VOLUME", "150")
	t.Setenv("SKIRMISH_SAMPLE_RATE", "invalid")

	cfg := LoadConfig()

	if cfg.Enabled {
		t.Error("Expected audio disabled from env")
	}
	if cfg.MasterVolume != 1 {
		t.Errorf("Expected master volume clamped to 1, got %f", cfg.MasterVolume)
	}
	if cfg.SampleRate != parameter.AudioSampleRate {
		t.Errorf("Expected default sample rate for invalid value, got %d", cfg.SampleRate)
	}
}

func TestPlayer_NotStarted(t *testing.T) {
	reg := status.NewRegistry()
	p := NewPlayer(DefaultConfig(), reg)
	if err := p.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if p.Play(core.SoundJump) {
		t.Error("Expected Play to fail before Start")
	}
	if got := reg.Ints.Get("audio.skipped").Load(); got != 1 {
		t.Errorf("Expected 1 skipped cue, got %d", got)
	}
	if p.IsEnabled() {
		t.Error("Expected player disabled before Start")
	}
	if err := p.Stop(); err != nil {
		t.Errorf("Expected Stop before Start to be a no-op, got %v", err)
	}
}

func TestPlayer_MuteArg(t *testing.T) {
	p := NewPlayer(DefaultConfig(), nil)
	p.Init(true)
	if !p.muted.Load() {
		t.Error("Expected mute from Init arg")
	}
	if !p.ToggleMute() {
		t.Error("Expected ToggleMute to report audible")
	}
}
