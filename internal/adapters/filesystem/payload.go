package filesystem

import (
	"encoding/json"
	"io"
	"os"

	"icane/internal/domain"
	"icane/internal/errors"
)

// ReadPayload decodes one JSON document from r into the tree form used by
// the flatteners. Numbers stay json.Number so timestamps keep their digits.
func ReadPayload(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(errors.ErrInvalidRequest, "empty JSON payload")
		}
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "malformed JSON payload: %v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "trailing data after JSON payload")
	}
	return domain.Decode(v), nil
}

// ReadFile decodes the JSON payload stored at path. "-" reads stdin.
func ReadFile(path string) (any, error) {
	if path == "-" {
		return ReadPayload(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("payload file %s", path)
		}
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	v, err := ReadPayload(f)
	if err != nil {
		return nil, errors.WithDetailf(err, "file: %s", path)
	}
	return v, nil
}
