package response

import (
	"fmt"

	"github.com/lydakis/cadmcp/internal/transport"
)

// Class is the caller-facing outcome taxonomy of one tool call.
type Class int

const (
	OK Class = iota
	ValidationError
	ConnectionUnavailable
	EmptyResponse
	MalformedResponse
	RemoteExecutionError
	TransportFailure
)

func (c Class) String() string {
	switch c {
	case OK:
		return "ok"
	case ValidationError:
		return "validation_error"
	case ConnectionUnavailable:
		return "connection_unavailable"
	case EmptyResponse:
		return "empty_response"
	case MalformedResponse:
		return "malformed_response"
	case RemoteExecutionError:
		return "remote_execution_error"
	case TransportFailure:
		return "transport_failure"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Exit codes.
const (
	ExitOK       = 0
	ExitToolErr  = 1
	ExitUsageErr = 2
	ExitInternal = 3
)

// ExitCode maps an outcome class to the CLI exit code.
func ExitCode(c Class) int {
	switch c {
	case OK:
		return ExitOK
	case RemoteExecutionError:
		return ExitToolErr
	case ValidationError:
		return ExitUsageErr
	default:
		return ExitInternal
	}
}

// Outcome is the string result returned to the caller together with its
// class.
type Outcome struct {
	Class Class
	Text  string
}

const (
	defaultSuccessMessage = "Success"
	defaultErrorMessage   = "Unknown error"
)

// Interpret maps a transport result to exactly one caller-facing string.
func Interpret(res transport.Result) Outcome {
	switch res.Kind {
	case transport.KindDecoded:
		if res.Response.Success {
			msg := res.Response.Message
			if msg == "" {
				msg = defaultSuccessMessage
			}
			return Outcome{Class: OK, Text: msg}
		}
		msg := res.Response.Message
		if msg == "" {
			msg = defaultErrorMessage
		}
		return Outcome{Class: RemoteExecutionError, Text: "AutoCAD Error: " + msg}
	case transport.KindNoConnection:
		return Outcome{
			Class: ConnectionUnavailable,
			Text: fmt.Sprintf("Error: Could not connect to AutoCAD at %s. "+
				"Please ensure AutoCAD is running and the MCP Server is started from the "+
				"'MCP Tools' ribbon (or run the STARTMCP command).", res.Addr),
		}
	case transport.KindNoData:
		return Outcome{Class: EmptyResponse, Text: "Error: No data received from AutoCAD."}
	case transport.KindMalformedResponse:
		return Outcome{
			Class: MalformedResponse,
			Text:  "Error: Could not parse response from AutoCAD (the response may be too large or corrupted): " + detail(res.Err),
		}
	default:
		return Outcome{Class: TransportFailure, Text: "Connection Failed: " + detail(res.Err)}
	}
}

// Invalid reports an argument problem found before any network activity.
func Invalid(err error) Outcome {
	return Outcome{Class: ValidationError, Text: "Invalid arguments: " + detail(err)}
}

func detail(err error) string {
	if err == nil {
		return "unknown failure"
	}
	return err.Error()
}
