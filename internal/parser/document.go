package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
)

// decodeArray decodes a JSON array document into out, reporting every failure
// as an ErrUnexpectedShape for the given payload name.
func decodeArray(payload string, body io.Reader, out any) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read %s payload: %w", payload, err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &apperrors.ErrUnexpectedShape{Payload: payload, Index: -1, Reason: "empty document"}
	}
	if trimmed[0] != '[' {
		return &apperrors.ErrUnexpectedShape{Payload: payload, Index: -1, Reason: "expected a JSON array"}
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return &apperrors.ErrUnexpectedShape{Payload: payload, Index: -1, Err: err}
	}
	return nil
}
