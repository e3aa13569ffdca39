package server

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEncodeWithoutPayload(t *testing.T) {
	b, err := Encode(EventFull, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(b) != `{"t":"full"}` {
		t.Fatalf("frame = %s", b)
	}
}

func TestEncodeDecodePlayerType(t *testing.T) {
	b, err := Encode(EventPlayerType, SlotPlayer2)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.T != EventPlayerType {
		t.Fatalf("type = %q", env.T)
	}
	slot, err := DecodePayload[Slot](env)
	if err != nil || slot != SlotPlayer2 {
		t.Fatalf("payload = %q, err %v", slot, err)
	}
}

func TestDecodeEnvelopeErrors(t *testing.T) {
	if _, err := DecodeEnvelope(nil); !errors.Is(err, ErrEmptyFrame) {
		t.Fatalf("empty frame err = %v", err)
	}
	if _, err := DecodeEnvelope([]byte(`{"p":{}}`)); err == nil {
		t.Fatalf("missing type accepted")
	}
	if _, err := DecodeEnvelope([]byte(`not json`)); err == nil {
		t.Fatalf("garbage accepted")
	}
	if _, err := Encode("", 1); err == nil {
		t.Fatalf("empty event name accepted")
	}
	if _, err := DecodePayload[InputSnapshot](Envelope{T: EventInputs}); err == nil {
		t.Fatalf("empty payload accepted")
	}
}

func TestGameStateWireShape(t *testing.T) {
	s, _ := newTestSession(t)
	mustConnect(t, s, "A", SlotPlayer1)

	b, err := Encode(EventGameState, s.Snapshot())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(env.P, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"players", "ball", "confetti", "goalText", "goalTimer", "remaining", "matchEnded"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("gameState missing %q: %s", k, env.P)
		}
	}
	if string(m["confetti"]) != "[]" {
		t.Fatalf("confetti = %s, want []", m["confetti"])
	}

	var ball map[string]json.RawMessage
	if err := json.Unmarshal(m["ball"], &ball); err != nil {
		t.Fatalf("ball: %v", err)
	}
	if string(ball["trail"]) != "[]" {
		t.Fatalf("trail = %s, want []", ball["trail"])
	}

	var players []map[string]any
	if err := json.Unmarshal(m["players"], &players); err != nil {
		t.Fatalf("players: %v", err)
	}
	if len(players) != 1 || players[0]["type"] != "player1" || players[0]["id"] != "A" || players[0]["color"] != "blue" {
		t.Fatalf("players = %v", players)
	}
}

func TestEncodeRawKeepsPayloadBytes(t *testing.T) {
	raw := json.RawMessage(`[ 1, {"a" : "b"} ]`)
	b, err := EncodeRaw(EventChat, raw)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := `{"t":"chatMessage","p":[ 1, {"a" : "b"} ]}`; string(b) != want {
		t.Fatalf("frame = %s, want %s", b, want)
	}
	if _, err := EncodeRaw(EventChat, json.RawMessage(`{oops`)); err == nil {
		t.Fatalf("invalid payload accepted")
	}
	if _, err := EncodeRaw("", json.RawMessage(`1`)); err == nil {
		t.Fatalf("empty event name accepted")
	}
}
