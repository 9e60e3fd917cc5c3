package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Encode serializes a request as UTF-8 JSON. It fails only when an argument
// is not a finite scalar.
func Encode(req Request) ([]byte, error) {
	args := make(map[string]any, len(req.Args))
	for key, value := range req.Args {
		scalar, err := encodeScalar(value)
		if err != nil {
			return nil, fmt.Errorf("encoding argument %q: %w", key, err)
		}
		args[key] = scalar
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(struct {
		Command string         `json:"Command"`
		Args    map[string]any `json:"Args"`
	}{Command: req.Command, Args: args}); err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses the executor's reply. The payload must be a JSON object
// carrying a boolean Success field; a missing or null Message decodes as "".
func Decode(data []byte) (Response, error) {
	if !utf8.Valid(data) {
		return Response{}, fmt.Errorf("%w: payload is not valid UTF-8", ErrMalformedResponse)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if fields == nil {
		return Response{}, fmt.Errorf("%w: payload is not a JSON object", ErrMalformedResponse)
	}

	rawSuccess, ok := fields["Success"]
	if !ok {
		return Response{}, fmt.Errorf("%w: missing Success field", ErrMalformedResponse)
	}

	var resp Response
	if err := json.Unmarshal(rawSuccess, &resp.Success); err != nil || isNull(rawSuccess) {
		return Response{}, fmt.Errorf("%w: Success must be a boolean", ErrMalformedResponse)
	}

	if rawMessage, ok := fields["Message"]; ok && !isNull(rawMessage) {
		if err := json.Unmarshal(rawMessage, &resp.Message); err != nil {
			return Response{}, fmt.Errorf("%w: Message must be a string", ErrMalformedResponse)
		}
	}
	return resp, nil
}

// DecodeRequest parses a request the way the executor sees it. Numbers
// written with a fraction or exponent decode as float64, others as int64.
func DecodeRequest(data []byte) (Request, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw struct {
		Command string         `json:"Command"`
		Args    map[string]any `json:"Args"`
	}
	if err := dec.Decode(&raw); err != nil {
		return Request{}, fmt.Errorf("decoding request: %w", err)
	}

	req := Request{Command: raw.Command, Args: make(Args, len(raw.Args))}
	for key, value := range raw.Args {
		num, ok := value.(json.Number)
		if !ok {
			req.Args[key] = value
			continue
		}
		if strings.ContainsAny(num.String(), ".eE") {
			f, err := num.Float64()
			if err != nil {
				return Request{}, fmt.Errorf("decoding argument %q: %w", key, err)
			}
			req.Args[key] = f
			continue
		}
		i, err := num.Int64()
		if err != nil {
			return Request{}, fmt.Errorf("decoding argument %q: %w", key, err)
		}
		req.Args[key] = i
	}
	return req, nil
}

// EncodeResponse serializes a reply as the executor writes it.
func EncodeResponse(resp Response) ([]byte, error) {
	return json.Marshal(resp)
}

// floatValue always renders with a fraction or exponent so the executor
// can tell 5.0 from 5.
type floatValue float64

func (f floatValue) MarshalJSON() ([]byte, error) {
	v := float64(f)
	abs := math.Abs(v)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	out := strconv.AppendFloat(nil, v, format, -1, 64)
	if bytes.IndexAny(out, ".e") < 0 {
		out = append(out, '.', '0')
	}
	return out, nil
}

func encodeScalar(value any) (any, error) {
	switch v := value.(type) {
	case string, bool:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float32:
		return encodeFloat(float64(v))
	case float64:
		return encodeFloat(v)
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}

func encodeFloat(v float64) (any, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("non-finite number %v", v)
	}
	return floatValue(v), nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
