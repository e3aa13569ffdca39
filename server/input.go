package server

import "encoding/json"

// InputSnapshot 客户端最近一次上报的方向意图，整包覆盖，不排队
type InputSnapshot struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// ParseInput 解析 inputs 载荷：缺失或非布尔字段一律视为 false
// 示例：{"up":true,"down":false,"left":false,"right":true}
func ParseInput(raw json.RawMessage) InputSnapshot {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return InputSnapshot{}
	}
	return InputSnapshot{
		Up:    boolField(fields, "up"),
		Down:  boolField(fields, "down"),
		Left:  boolField(fields, "left"),
		Right: boolField(fields, "right"),
	}
}

func boolField(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}
