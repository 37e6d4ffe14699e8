package ws

import (
	"encoding/json"
	"errors"
)

// BindJSON 将 WsMsgReq.Body.Msg 反序列化到目标结构体。
// 读循环按 UseNumber 解码，大整数（如 seed）不会丢精度。
func BindJSON(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errors.New("ws request body is nil")
	}
	if req.Body.Msg == nil {
		return nil
	}
	raw, err := json.Marshal(req.Body.Msg)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
