package lobby

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestNetStreamSendAndReadFrame(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	stream := &NetStream{conn: client}

	done := make(chan error, 1)
	go func() {
		done <- stream.Send(context.Background(), []byte("hello"))
	}()

	srv := &NetStream{conn: server}
	frame, err := srv.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if string(frame) != "hello" {
		t.Fatalf("got frame %q, want %q", frame, "hello")
	}

	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestNetStreamReadFrameRejectsOversizedLength(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		header := []byte{0xFF, 0xFF, 0xFF, 0xFF}
		_, _ = client.Write(header)
	}()

	srv := &NetStream{conn: server}
	if _, err := srv.ReadFrame(); err == nil {
		t.Fatal("expected an error for an oversized frame length")
	}
}

func TestNetStreamSendHonorsContextDeadline(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	stream := &NetStream{conn: client}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Nobody reads from server, so the write should eventually time out
	// against the deadline NetStream.Send sets on the connection.
	err := stream.Send(ctx, make([]byte, 1<<20))
	if err == nil {
		t.Fatal("expected a write timeout error")
	}
}
