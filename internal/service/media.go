package service

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeDataURL splits a "data:<type>;base64,<payload>" string into
// its content type and raw bytes. Clients submit images inline in this
// form; only the durable URL produced after upload is ever stored.
func DecodeDataURL(dataURL string) (contentType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data url")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data url")
	}

	contentType, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return "", nil, fmt.Errorf("unsupported data url encoding")
	}
	if contentType == "" {
		return "", nil, fmt.Errorf("missing content type")
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	return contentType, data, nil
}
