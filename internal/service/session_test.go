package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"impostor-2d-be/internal/service/dto"
	"impostor-2d-be/internal/service/game"
)

func newTestService(t *testing.T, maxSessions int) *SessionService {
	t.Helper()

	ss := NewSessionService(SessionConfig{
		Settings:        game.DefaultSettings(),
		Machine:         game.MachineOptions{TickInterval: 10 * time.Millisecond, BroadcastEvery: 5},
		IdleTimeout:     time.Minute,
		CleanupInterval: time.Hour,
		MaxSessions:     maxSessions,
	})
	t.Cleanup(ss.Close)

	return ss
}

func TestSessionService_CreateAndGet(t *testing.T) {
	ss := newTestService(t, 4)

	seed := uint64(8)
	resp, err := ss.CreateSession(dto.CreateSessionRequest{PlayerCount: 6, Seed: &seed})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if resp.SessionID == "" || resp.Settings.PlayerCount != 6 {
		t.Fatalf("unexpected create response %+v", resp)
	}

	info, err := ss.GetSession(context.Background(), resp.SessionID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}

	if info.Snapshot.Stage != game.STAGE_LOBBY || len(info.Snapshot.Players) != 6 {
		t.Fatalf("new session should be a 6 player lobby, got %s with %d players",
			info.Snapshot.Stage, len(info.Snapshot.Players))
	}

	if info.Connected {
		t.Fatalf("no client has joined yet")
	}

	if got := len(ss.ListSessions()); got != 1 {
		t.Fatalf("want 1 listed session, got %d", got)
	}

	if _, err := ss.GetSession(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound, got %v", err)
	}
}

func TestSessionService_RejectsInvalidAndExcess(t *testing.T) {
	ss := newTestService(t, 1)

	if _, err := ss.CreateSession(dto.CreateSessionRequest{PlayerCount: 40}); err == nil {
		t.Fatalf("player count above the maximum should fail")
	}

	if _, err := ss.CreateSession(dto.CreateSessionRequest{}); err != nil {
		t.Fatalf("first session should be created: %v", err)
	}

	if _, err := ss.CreateSession(dto.CreateSessionRequest{}); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("want ErrTooManySessions, got %v", err)
	}
}

func TestSessionService_JoinStartsMatch(t *testing.T) {
	ss := newTestService(t, 4)

	resp, err := ss.CreateSession(dto.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	respCh := make(chan game.ResponseWrapper, 64)

	reqCh, err := ss.JoinSession(&game.JoinGameRequest{SessionID: resp.SessionID, RespCh: respCh})
	if err != nil || reqCh == nil {
		t.Fatalf("JoinSession failed: %v", err)
	}

	select {
	case r := <-respCh:
		if r.RespType != game.RESP_JOIN_GAME {
			t.Fatalf("first response should be the join ack, got %s", r.RespType)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the join ack")
	}

	info, err := ss.GetSession(context.Background(), resp.SessionID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}

	if info.Snapshot.Stage != game.STAGE_PLAYING || !info.Connected {
		t.Fatalf("joined session should be playing and connected, got %s connected=%v",
			info.Snapshot.Stage, info.Connected)
	}

	if _, err := ss.JoinSession(&game.JoinGameRequest{SessionID: "missing", RespCh: respCh}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound, got %v", err)
	}
}

func TestSessionService_CleanupRemovesIdleSessions(t *testing.T) {
	ss := newTestService(t, 4)

	resp, err := ss.CreateSession(dto.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if removed := ss.cleanup(time.Now()); removed != 0 {
		t.Fatalf("fresh session should not be cleaned, removed %d", removed)
	}

	if removed := ss.cleanup(time.Now().Add(2 * time.Minute)); removed != 1 {
		t.Fatalf("idle session should be cleaned, removed %d", removed)
	}

	if _, err := ss.GetSession(context.Background(), resp.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("cleaned session should be gone, got %v", err)
	}
}

func TestSessionService_CloseSession(t *testing.T) {
	ss := newTestService(t, 4)

	resp, err := ss.CreateSession(dto.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := ss.CloseSession(resp.SessionID); err != nil {
		t.Fatalf("CloseSession failed: %v", err)
	}

	if err := ss.CloseSession(resp.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("closing twice should report not found, got %v", err)
	}
}
