package wire

import "errors"

// Default executor endpoint. The AutoCAD add-in listens on the loopback
// interface only.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8964
)

// ErrMalformedResponse is returned when the executor's reply cannot be
// decoded into a Response.
var ErrMalformedResponse = errors.New("malformed response")

// Args maps argument names to scalar values (string, int64, float64 or bool).
// Arguments the caller did not supply are absent, never nil.
type Args map[string]any

// Request is sent once per connection to the executor.
type Request struct {
	Command string `json:"Command"`
	Args    Args   `json:"Args"`
}

// Response is written by the executor before it closes the connection.
type Response struct {
	Success bool   `json:"Success"`
	Message string `json:"Message"`
}
