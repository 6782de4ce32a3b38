package audio

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	lowPitchRange  = 0.95
	highPitchRange = 1.05
)

// SoundPlayer is what the game talks to. SSH sessions get NopPlayer since
// there is no way to carry audio over the terminal.
type SoundPlayer interface {
	RandomizeSfx(clips ...Clip)
	PlaySingle(clip Clip)
	PlayMusic()
	StopMusic()
}

type NopPlayer struct{}

func (NopPlayer) RandomizeSfx(...Clip) {}
func (NopPlayer) PlaySingle(Clip)      {}
func (NopPlayer) PlayMusic()           {}
func (NopPlayer) StopMusic()           {}

// pickSfx chooses one of the clips and a pitch so repeated effects do not
// sound identical.
func pickSfx(rng *rand.Rand, clips []Clip) (Clip, float64) {
	clip := clips[rng.IntN(len(clips))]
	pitch := lowPitchRange + rng.Float64()*(highPitchRange-lowPitchRange)
	return clip, pitch
}

// SoundManager plays synthesized clips on the local speaker.
type SoundManager struct {
	mu          sync.Mutex
	rng         *rand.Rand
	mixer       *beep.Mixer
	music       *beep.Ctrl
	initialized bool
}

func NewSoundManager(rng *rand.Rand) *SoundManager {
	return &SoundManager{
		rng:   rng,
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker. Safe to call more than once.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences everything. beep has no way to close the speaker.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	if sm.music != nil {
		sm.music.Paused = true
	}
	sm.mixer.Clear()
	speaker.Unlock()

	sm.music = nil
	sm.initialized = false
}

func (sm *SoundManager) RandomizeSfx(clips ...Clip) {
	if len(clips) == 0 {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	clip, pitch := pickSfx(sm.rng, clips)
	sm.play(clip, pitch)
}

func (sm *SoundManager) PlaySingle(clip Clip) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.play(clip, 1)
}

func (sm *SoundManager) PlayMusic() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()
	if sm.music != nil {
		sm.music.Paused = false
		return
	}
	sm.music = &beep.Ctrl{Streamer: newMusicGenerator()}
	sm.mixer.Add(sm.music)
}

func (sm *SoundManager) StopMusic() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.music == nil {
		return
	}
	speaker.Lock()
	sm.music.Paused = true
	speaker.Unlock()
}

// play must be called with sm.mu held.
func (sm *SoundManager) play(clip Clip, pitch float64) {
	if !sm.initialized {
		return
	}

	streamer, err := clipStreamer(clip, pitch)
	if err != nil {
		log.Warn("Could not build clip", "clip", clip, "error", err)
		return
	}

	speaker.Lock()
	sm.mixer.Add(streamer)
	speaker.Unlock()
}
