package board

import (
	"testing"

	"github.com/CrestNiraj12/sentiscope/domain"
)

func TestEmotionBoard_SeedAndObserve(t *testing.T) {
	b := newEmotionBoard(3, 60)
	b.Seed([]domain.EmotionCount{{Emotion: "joy", Count: 5}, {Emotion: "anger", Count: 2}, {Emotion: "", Count: 9}})
	for i := 0; i < 4; i++ {
		b.Observe("anger")
	}
	b.Observe("")

	top := b.Top()
	if len(top) != 2 {
		t.Fatalf("expected two emotions, got %#v", top)
	}
	if top[0].Emotion != "anger" || top[0].Count != 6 || top[1].Emotion != "joy" || top[1].Count != 5 {
		t.Fatalf("unexpected ranking: %#v", top)
	}
}

func TestEmotionBoard_EmptyIsEmpty(t *testing.T) {
	b := newEmotionBoard(5, 10)
	b.Tick()
	if top := b.Top(); len(top) != 0 {
		t.Fatalf("expected no emotions, got %#v", top)
	}
}

func TestSnapshotReload_ReplacesSeededEmotions(t *testing.T) {
	src := &stubSource{top: []domain.EmotionCount{{Emotion: "joy", Count: 4}}}
	m := newTestModel(src, &stubStream{})
	loaded := run(m.loadSnapshot(m.gen))
	m, _ = m.Update(loaded)
	m, _ = m.Update(loaded)

	top := m.emotions.Top()
	if len(top) != 1 || top[0].Emotion != "joy" || top[0].Count != 4 {
		t.Fatalf("reload should not double seeded counts: %#v", top)
	}
}
