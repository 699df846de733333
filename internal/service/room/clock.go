package room

import "time"

// Echo is the clock sync primitive: it pairs the server's current time with
// the client's send time, echoed back untouched. Stateless; clients combine
// two or more echoes into a clock-offset estimate.
func (s *service) Echo(clientTime int64) EchoResponse {
	return EchoResponse{
		ServerTime: time.Now().UnixMilli(),
		ClientTime: clientTime,
	}
}
