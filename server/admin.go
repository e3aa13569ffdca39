package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// HandleAdminConfig 提供房间配置的读取与更新（热更新比赛时长）
// GET /admin/config?room=room-1  返回当前配置
// POST /admin/config?room=room-1 以 JSON 载荷更新：{"matchDuration":90}
func HandleAdminConfig(rm *RoomManager) http.HandlerFunc {
	type cfg struct {
		MatchDuration *int `json:"matchDuration,omitempty"` // 秒
	}
	return func(w http.ResponseWriter, r *http.Request) {
		room := rm.GetOrCreateRoom(r.URL.Query().Get("room"))

		var (
			d   time.Duration
			err error
		)
		switch r.Method {
		case http.MethodGet:
			d, err = room.MatchDuration(r.Context())
		case http.MethodPost:
			var body cfg
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			if body.MatchDuration == nil || *body.MatchDuration <= 0 {
				http.Error(w, "matchDuration must be a positive number of seconds", http.StatusBadRequest)
				return
			}
			d, err = room.SetMatchDuration(r.Context(), time.Duration(*body.MatchDuration)*time.Second)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		secs := int(d / time.Second)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cfg{MatchDuration: &secs})
	}
}

// HandleMetrics 输出指定房间的运行指标
// GET /metrics?room=room-1
func HandleMetrics(rm *RoomManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("room")
		if roomID == "" {
			roomID = DefaultRoomID
		}
		room, ok := rm.Room(roomID)
		if !ok {
			http.Error(w, "unknown room", http.StatusNotFound)
			return
		}
		payload := map[string]any{
			"room":    roomID,
			"rooms":   rm.IDs(),
			"metrics": room.Metrics().Snapshot(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}
}
