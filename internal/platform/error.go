package platform

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the platform. Body holds the response
// payload verbatim so it can be surfaced to operators.
type Error struct {
	Status  int
	Code    string
	Message string
	Body    json.RawMessage
}

func (e *Error) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("platform error %d (%s): %s", e.Status, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("platform error %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("platform error %d", e.Status)
	}
}

// Payload returns the JSON body to report for this error.
func (e *Error) Payload() json.RawMessage {
	if len(e.Body) > 0 && json.Valid(e.Body) {
		return e.Body
	}
	b, _ := json.Marshal(map[string]any{
		"status":  e.Status,
		"code":    e.Code,
		"message": e.Message,
	})
	return b
}

func (e *Error) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// parseError reads the error shapes returned by GoTrue and PostgREST:
//
//	{"code":"PGRST204","message":"...","details":null,"hint":null}
//	{"code":404,"error_code":"user_not_found","msg":"User not found"}
//	{"error":"invalid_grant","error_description":"..."}
func parseError(status int, body []byte) *Error {
	e := &Error{Status: status, Body: body}

	var fields struct {
		Code             json.RawMessage `json:"code"`
		ErrorCode        string          `json:"error_code"`
		Message          string          `json:"message"`
		Msg              string          `json:"msg"`
		Error            string          `json:"error"`
		ErrorDescription string          `json:"error_description"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		e.Message = string(body)
		return e
	}

	var code string
	if err := json.Unmarshal(fields.Code, &code); err == nil {
		e.Code = code
	}
	if e.Code == "" {
		e.Code = fields.ErrorCode
	}
	if e.Code == "" {
		e.Code = fields.Error
	}

	for _, msg := range []string{fields.Message, fields.Msg, fields.ErrorDescription, fields.Error} {
		if msg != "" {
			e.Message = msg
			break
		}
	}
	return e
}
