package board

import (
	"sort"

	"github.com/keilerkonzept/topk/sliding"

	"github.com/CrestNiraj12/sentiscope/domain"
)

// emotionBoard ranks emotions over a sliding window of ticks.
type emotionBoard struct {
	sketch *sliding.Sketch
}

func newEmotionBoard(k, windowTicks int) *emotionBoard {
	return &emotionBoard{
		sketch: sliding.New(k, windowTicks,
			sliding.WithWidth(256),
			sliding.WithDepth(4),
		),
	}
}

// Seed adds counts from a distribution summary into the current tick.
func (b *emotionBoard) Seed(top []domain.EmotionCount) {
	for _, e := range top {
		if e.Emotion == "" || e.Count <= 0 {
			continue
		}
		b.sketch.Add(e.Emotion, uint32(e.Count))
	}
}

// Observe counts one post's emotion.
func (b *emotionBoard) Observe(emotion string) {
	if emotion != "" {
		b.sketch.Incr(emotion)
	}
}

// Tick advances the window by one period.
func (b *emotionBoard) Tick() {
	b.sketch.Ticks(1)
}

// Top returns the ranked emotions still inside the window.
func (b *emotionBoard) Top() []domain.EmotionCount {
	items := b.sketch.SortedSlice()
	out := make([]domain.EmotionCount, 0, len(items))
	for _, it := range items {
		// Heap counts lag behind window ticks; read the live count.
		n := b.sketch.Count(it.Item)
		if n == 0 || it.Item == "" {
			continue
		}
		out = append(out, domain.EmotionCount{Emotion: it.Item, Count: int(n)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Emotion < out[j].Emotion
	})
	return out
}
