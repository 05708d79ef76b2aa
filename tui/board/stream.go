package board

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/sentiscope/app"
)

// streamBridge turns session callbacks into tea messages. Callbacks block
// until the update loop takes their message, which keeps delivery order
// and caps buffering; stop unblocks them.
type streamBridge struct {
	gen    int
	msgs   chan tea.Msg
	done   chan struct{}
	once   sync.Once
	handle app.StreamHandle
}

func openStream(client app.StreamClient, gen int) *streamBridge {
	b := &streamBridge{
		gen:  gen,
		msgs: make(chan tea.Msg, 64),
		done: make(chan struct{}),
	}
	b.handle = client.Connect(app.StreamHandlers{
		OnOpen:  func() { b.send(streamOpenedMsg{Gen: gen}) },
		OnEvent: func(sm app.StreamMessage) { b.send(streamEventMsg{Gen: gen, Message: sm}) },
		OnClose: func(err error) { b.send(streamClosedMsg{Gen: gen, Err: err}) },
	})
	return b
}

func (b *streamBridge) send(msg tea.Msg) {
	select {
	case b.msgs <- msg:
	case <-b.done:
	}
}

// wait returns a Cmd yielding the next session message.
func (b *streamBridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.msgs:
			return msg
		case <-b.done:
			return nil
		}
	}
}

// stop releases blocked callbacks, then closes the session.
func (b *streamBridge) stop() {
	b.once.Do(func() {
		close(b.done)
		if b.handle != nil {
			b.handle.Close()
		}
	})
}
