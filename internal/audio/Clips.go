package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const sampleRate = beep.SampleRate(44100)

type Clip int

const (
	ClipMove1 Clip = iota
	ClipMove2
	ClipEat1
	ClipEat2
	ClipDrink1
	ClipDrink2
	ClipChop1
	ClipChop2
	ClipEnemyAttack1
	ClipEnemyAttack2
	ClipGameOver
)

var clipNames = map[Clip]string{
	ClipMove1:        "move1",
	ClipMove2:        "move2",
	ClipEat1:         "eat1",
	ClipEat2:         "eat2",
	ClipDrink1:       "drink1",
	ClipDrink2:       "drink2",
	ClipChop1:        "chop1",
	ClipChop2:        "chop2",
	ClipEnemyAttack1: "enemyAttack1",
	ClipEnemyAttack2: "enemyAttack2",
	ClipGameOver:     "gameOver",
}

func (c Clip) String() string {
	if name, ok := clipNames[c]; ok {
		return name
	}
	return fmt.Sprintf("clip(%d)", int(c))
}

type note struct {
	freq     float64
	duration time.Duration
	// volume in beep's log2 units, 0 is unchanged
	volume float64
}

var clipNotes = map[Clip][]note{
	ClipMove1:        {{freq: 220, duration: 40 * time.Millisecond, volume: -3}},
	ClipMove2:        {{freq: 196, duration: 40 * time.Millisecond, volume: -3}},
	ClipEat1:         {{freq: 523, duration: 60 * time.Millisecond, volume: -2}, {freq: 659, duration: 80 * time.Millisecond, volume: -2}},
	ClipEat2:         {{freq: 587, duration: 60 * time.Millisecond, volume: -2}, {freq: 698, duration: 80 * time.Millisecond, volume: -2}},
	ClipDrink1:       {{freq: 659, duration: 50 * time.Millisecond, volume: -2}, {freq: 784, duration: 50 * time.Millisecond, volume: -2}, {freq: 988, duration: 70 * time.Millisecond, volume: -2}},
	ClipDrink2:       {{freq: 698, duration: 50 * time.Millisecond, volume: -2}, {freq: 880, duration: 50 * time.Millisecond, volume: -2}, {freq: 1047, duration: 70 * time.Millisecond, volume: -2}},
	ClipChop1:        {{freq: 110, duration: 70 * time.Millisecond, volume: -1}},
	ClipChop2:        {{freq: 98, duration: 70 * time.Millisecond, volume: -1}},
	ClipEnemyAttack1: {{freq: 147, duration: 90 * time.Millisecond, volume: -1}, {freq: 123, duration: 110 * time.Millisecond, volume: -1}},
	ClipEnemyAttack2: {{freq: 139, duration: 90 * time.Millisecond, volume: -1}, {freq: 117, duration: 110 * time.Millisecond, volume: -1}},
	ClipGameOver:     {{freq: 392, duration: 200 * time.Millisecond}, {freq: 330, duration: 200 * time.Millisecond}, {freq: 262, duration: 400 * time.Millisecond}},
}

// clipStreamer renders a clip at the given pitch multiplier.
func clipStreamer(clip Clip, pitch float64) (beep.Streamer, error) {
	notes, ok := clipNotes[clip]
	if !ok {
		return nil, fmt.Errorf("unknown clip %s", clip)
	}

	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		tone, err := generators.SineTone(sampleRate, n.freq*pitch)
		if err != nil {
			return nil, fmt.Errorf("clip %s: %w", clip, err)
		}
		parts = append(parts, &effects.Volume{
			Streamer: beep.Take(sampleRate.N(n.duration), tone),
			Base:     2,
			Volume:   n.volume,
		})
	}
	return beep.Seq(parts...), nil
}

// musicGenerator loops a slow bass line forever.
type musicGenerator struct {
	pos   int
	notes []float64
	step  int
}

func newMusicGenerator() *musicGenerator {
	return &musicGenerator{
		notes: []float64{55, 65.41, 73.42, 65.41, 49, 58.27, 65.41, 58.27},
		step:  sampleRate.N(400 * time.Millisecond),
	}
}

func (g *musicGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		noteIdx := (g.pos / g.step) % len(g.notes)
		inNote := float64(g.pos%g.step) / float64(g.step)
		t := float64(g.pos) / float64(sampleRate)

		envelope := 1 - inNote
		v := 0.08 * envelope * math.Sin(2*math.Pi*g.notes[noteIdx]*t)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *musicGenerator) Err() error { return nil }
