package adapter

import (
	"encoding/json"
)

// JSON abstracts JSON encoding so fingerprint construction can be exercised
// with injected failures in tests.
//
//go:generate mockgen -source=json.go -destination=../mocks/json.go -package=mocks -mock_names=JSON=MockJSON
type JSON interface {
	// Marshal encodes v as JSON
	Marshal(v interface{}) ([]byte, error)
	// Unmarshal decodes JSON data into v
	Unmarshal(data []byte, v interface{}) error
}

// RealJSON is the production JSON codec backed by encoding/json
type RealJSON struct{}

// NewJSON returns a JSON codec backed by encoding/json
func NewJSON() JSON {
	return &RealJSON{}
}

func (j *RealJSON) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (j *RealJSON) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
