package types

// Payload holds the fields of a successful response. They are written next
// to "ok": true at the top level of the body.
type Payload map[string]any

// ErrorBody is the JSON body of a failed request.
type ErrorBody struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}
