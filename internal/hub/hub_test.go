package hub

import (
	"testing"
	"time"
)

func recv(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestBroadcastToRoom(t *testing.T) {
	h := NewHub()
	go h.Run()

	viewer1 := h.NewConnection(nil)
	viewer2 := h.NewConnection(nil)
	outsider := h.NewConnection(nil)
	h.Register(viewer1)
	h.Register(viewer2)
	h.Register(outsider)

	h.JoinRun(viewer1, "run_1")
	h.JoinRun(viewer2, "run_1")
	h.JoinRun(outsider, "run_2")

	h.Broadcast("run_1", []byte("hello"))

	if got := string(recv(t, viewer1.Send)); got != "hello" {
		t.Fatalf("viewer1 got %q", got)
	}
	if got := string(recv(t, viewer2.Send)); got != "hello" {
		t.Fatalf("viewer2 got %q", got)
	}
	select {
	case data := <-outsider.Send:
		t.Fatalf("outsider received %q", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestJoinRunSwitchesRoom(t *testing.T) {
	h := NewHub()
	go h.Run()

	conn := h.NewConnection(nil)
	h.Register(conn)

	h.JoinRun(conn, "run_1")
	h.JoinRun(conn, "run_2")

	if h.HasViewers("run_1") {
		t.Fatal("old room still has the connection")
	}
	if !h.HasViewers("run_2") {
		t.Fatal("new room empty")
	}

	h.LeaveRun(conn)
	if h.HasViewers("run_2") {
		t.Fatal("room not empty after leave")
	}
}

func TestBroadcastJSON(t *testing.T) {
	h := NewHub()
	go h.Run()

	conn := h.NewConnection(nil)
	h.Register(conn)
	h.JoinRun(conn, "run_1")

	if err := h.BroadcastJSON("run_1", map[string]string{"type": "run:updated"}); err != nil {
		t.Fatalf("BroadcastJSON failed: %v", err)
	}
	data := recv(t, conn.Send)
	if string(data) != `{"type":"run:updated"}` {
		t.Fatalf("payload = %s", data)
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := NewHub()
	go h.Run()

	conn := h.NewConnection(nil)
	h.Register(conn)
	h.JoinRun(conn, "run_1")
	h.Unregister(conn)

	select {
	case _, ok := <-conn.Send:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
	if h.GetConnectionCount() != 0 {
		t.Fatalf("connection count = %d", h.GetConnectionCount())
	}
}
