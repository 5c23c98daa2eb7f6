package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stemsi/voxmind-backend/internal/validator"
)

// ErrInvalidFrame marks a frame that is not a well-formed request.
var ErrInvalidFrame = errors.New("invalid frame")

const (
	writeWait = 10 * time.Second
	// readWait bounds how long a client may stay silent. Motion frames keep
	// an active screen well inside it.
	readWait = 5 * time.Minute
)

// WriteTyped sends a strongly-typed event payload over the WebSocket.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse over the WebSocket.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// WriteNotice sends a transient user-facing message.
func WriteNotice(conn *websocket.Conn, msg string) error {
	return WriteTyped(conn, NoticeEvent{
		Event:   EventNotice,
		Message: msg,
	})
}

// ReadMessage reads one raw frame with a read deadline. Errors are
// connection errors; decoding is left to DecodeRequest.
func ReadMessage(conn *websocket.Conn) ([]byte, error) {
	conn.SetReadDeadline(time.Now().Add(readWait))
	_, data, err := conn.ReadMessage()
	return data, err
}

// DecodeRequest parses and validates a client frame.
func DecodeRequest(data []byte) (RequestPayload, error) {
	var req RequestPayload
	if err := json.Unmarshal(data, &req); err != nil {
		return RequestPayload{}, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	if err := validator.Struct(req); err != nil {
		return RequestPayload{}, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	return req, nil
}

// CloseNormal sends a normal-closure control frame.
func CloseNormal(conn *websocket.Conn, reason string) error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
