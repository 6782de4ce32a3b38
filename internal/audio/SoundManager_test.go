package audio

import (
	"math/rand/v2"
	"testing"
)

func TestPickSfx(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	clips := []Clip{ClipEat1, ClipEat2}
	seen := map[Clip]bool{}

	for range 200 {
		clip, pitch := pickSfx(rng, clips)
		if clip != ClipEat1 && clip != ClipEat2 {
			t.Fatalf("picked %s, not one of the offered clips", clip)
		}
		if pitch < lowPitchRange || pitch > highPitchRange {
			t.Fatalf("pitch %f outside [%f, %f]", pitch, lowPitchRange, highPitchRange)
		}
		seen[clip] = true
	}

	if len(seen) != 2 {
		t.Errorf("expected both clips to be picked over 200 draws, got %v", seen)
	}
}

func TestClipStreamerLength(t *testing.T) {
	for clip, notes := range clipNotes {
		want := 0
		for _, n := range notes {
			want += sampleRate.N(n.duration)
		}

		s, err := clipStreamer(clip, 1.03)
		if err != nil {
			t.Fatalf("%s: %v", clip, err)
		}

		buf := make([][2]float64, 512)
		got := 0
		for {
			n, ok := s.Stream(buf)
			got += n
			if !ok {
				break
			}
		}
		if got != want {
			t.Errorf("%s streamed %d samples, want %d", clip, got, want)
		}
	}
}

func TestClipStreamerUnknownClip(t *testing.T) {
	if _, err := clipStreamer(Clip(99), 1); err == nil {
		t.Fatal("expected error for unknown clip")
	}
}

func TestUninitializedManagerIsSilent(t *testing.T) {
	sm := NewSoundManager(rand.New(rand.NewPCG(3, 4)))
	// none of these may touch the speaker before Initialize
	sm.RandomizeSfx(ClipMove1, ClipMove2)
	sm.PlaySingle(ClipGameOver)
	sm.PlayMusic()
	sm.StopMusic()
	sm.Cleanup()
}

func TestMusicGeneratorNeverEnds(t *testing.T) {
	g := newMusicGenerator()
	buf := make([][2]float64, 1024)
	for range 100 {
		n, ok := g.Stream(buf)
		if !ok || n != len(buf) {
			t.Fatalf("music stopped: n=%d ok=%v", n, ok)
		}
	}
}
