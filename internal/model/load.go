package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/google/uuid"
)

// Load reads and validates the model file at path.
//
// The model is a JSON object with a "root" node and optional metadata:
//
//	{
//	  "title": "Key to ant queens",
//	  "root": {
//	    "id": "r", "label": "Start",
//	    "children": [{"id": "c1", "label": "Petiole with one node"}],
//	    "branches": [{"label": "winged", "target": "c1"}]
//	  }
//	}
//
// Errors are *FormatError, *DuplicateIDError, *ReferenceError or ErrEmptyTree.
func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	return t, nil
}

// Read decodes a model from r. See Load.
func Read(r io.Reader) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates model JSON.
func Parse(data []byte) (*Tree, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &FormatError{Msg: "empty document"}
	}
	var t Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, &FormatError{Err: err}
	}
	if err := t.link(); err != nil {
		return nil, err
	}
	canonical, err := json.Marshal(&t)
	if err != nil {
		return nil, fmt.Errorf("encoding model: %w", err)
	}
	t.fingerprint = uuid.NewSHA1(fingerprintSpace, canonical)
	return &t, nil
}

// WriteJSON writes the normalized model as indented JSON.
func (t *Tree) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
