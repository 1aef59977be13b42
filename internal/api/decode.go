package api

import (
	"encoding/json"
	"fmt"
)

// envelope is the wrapper the record endpoints answer with. Auth endpoints
// answer with a bare object, so decodeData accepts both.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Total   *int            `json:"total,omitempty"`
}

func decodeData[T any](resp *Response) (T, error) {
	var out T
	if len(resp.Body) == 0 {
		return out, &Error{Kind: ErrServerFault, Status: resp.Status, Message: "empty response body"}
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err == nil && env.Success != nil {
		if !*env.Success {
			return out, &Error{Kind: ErrValidation, Status: resp.Status, Message: env.Message}
		}
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return out, nil
		}
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return out, fmt.Errorf("decode response data: %w", err)
		}
		return out, nil
	}

	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// notFound converts a 404 into an error for endpoints where absence is a
// failure (mutations on an id).
func notFound(resp *Response, what string) error {
	return &Error{Kind: ErrNotFound, Status: resp.Status, Message: what + " not found"}
}
