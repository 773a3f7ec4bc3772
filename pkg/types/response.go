package types

// StatusEnvelope is the body of a successful write. Extra result fields sit next to Status.
type StatusEnvelope struct {
	Status bool `json:"Status"`
}

// ErrorEnvelope is the body of every failed request.
type ErrorEnvelope struct {
	Status bool   `json:"Status"`
	Error  string `json:"Error"`
	Code   string `json:"Code"`
	Errors any    `json:"Errors,omitempty"`
}
