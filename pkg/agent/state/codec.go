package state

import (
	"encoding/json"
	"fmt"
)

// Encode serialises the state for a JSON column or cache value.
func (s SessionState) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeState reverses Encode; empty input is the idle state.
func DecodeState(data []byte) (SessionState, error) {
	var s SessionState
	if len(data) == 0 || string(data) == "null" {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return SessionState{}, fmt.Errorf("decode session state: %w", err)
	}
	return s, nil
}

func (u UIContext) Encode() ([]byte, error) {
	return json.Marshal(u)
}

func DecodeUIContext(data []byte) (UIContext, error) {
	var u UIContext
	if len(data) == 0 || string(data) == "null" {
		return u, nil
	}
	if err := json.Unmarshal(data, &u); err != nil {
		return UIContext{}, fmt.Errorf("decode ui context: %w", err)
	}
	return u, nil
}
