package model

import "encoding/json"

// ToolResult is what every capability executor returns to the loop.
// success=false with an error string is the expected shape for "not found"
// and for contained executor faults; it is never a thrown condition.
type ToolResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// OkResult marshals data into a successful ToolResult. A marshal failure
// degrades to a failed result rather than an error path.
func OkResult(data any) ToolResult {
	b, err := json.Marshal(data)
	if err != nil {
		return FailResult("encode capability output: " + err.Error())
	}
	return ToolResult{Success: true, Data: b}
}

// FailResult builds the expected not-found / contained-fault shape.
func FailResult(message string) ToolResult {
	return ToolResult{Success: false, Error: message}
}

// Encode renders the result as the content of a tool message.
func (r ToolResult) Encode() string {
	b, err := json.Marshal(r)
	if err != nil {
		return `{"success":false,"error":"encode tool result"}`
	}
	return string(b)
}
