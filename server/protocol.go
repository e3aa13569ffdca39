package server

import (
	"encoding/json"
	"errors"
	"fmt"
)

// 事件名，与前端约定一致
const (
	EventFull       = "full"
	EventPlayerType = "playerType"
	EventInputs     = "inputs"
	EventChat       = "chatMessage"
	EventGameState  = "gameState"
)

// Envelope 所有 WebSocket 文本帧的外层结构：{"t":"inputs","p":{...}}
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"`
}

var ErrEmptyFrame = errors.New("protocol: empty frame")

// Encode 将事件与载荷编码为一帧；payload 为 nil 时只发送事件名（如 full）
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("protocol: encode envelope with empty type")
	}
	e := Envelope{T: t}
	if payload != nil {
		pb, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("protocol: encode %s payload: %w", t, err)
		}
		e.P = pb
	}
	return json.Marshal(e)
}

// EncodeRaw 拼接已是 JSON 的载荷，字节原样保留（聊天转发用）
func EncodeRaw(t string, payload json.RawMessage) ([]byte, error) {
	tb, err := json.Marshal(t)
	if err != nil || t == "" {
		return nil, fmt.Errorf("protocol: encode envelope with type %q", t)
	}
	if !json.Valid(payload) {
		return nil, fmt.Errorf("protocol: %s payload is not valid JSON", t)
	}
	b := make([]byte, 0, len(tb)+len(payload)+12)
	b = append(b, `{"t":`...)
	b = append(b, tb...)
	b = append(b, `,"p":`...)
	b = append(b, payload...)
	b = append(b, '}')
	return b, nil
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("protocol: envelope missing type")
	}
	return e, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("protocol: empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}

// GameState 每个 Tick 广播的完整快照，不做增量压缩
type GameState struct {
	Players    []PlayerState   `json:"players"`
	Ball       BallState       `json:"ball"`
	Confetti   []ConfettiState `json:"confetti"`
	GoalText   string          `json:"goalText"`
	GoalTimer  int             `json:"goalTimer"`
	Remaining  int             `json:"remaining"`
	MatchEnded bool            `json:"matchEnded"`
}

type PlayerState struct {
	ID    string  `json:"id"`
	Type  Slot    `json:"type"`
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
	Score int     `json:"score"`
}

type BallState struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Trail []Point `json:"trail"`
}

type ConfettiState struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
	Life  int     `json:"life"`
}
