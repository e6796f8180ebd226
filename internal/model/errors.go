package model

import (
	"errors"
	"fmt"
)

// ErrEmptyTree is returned when a model defines no root node.
var ErrEmptyTree = errors.New("model has no root node")

// FormatError reports malformed model JSON or a node missing a required field.
type FormatError struct {
	Path     string // model file, empty when read from a stream
	Location string // e.g. "root.children[1]"
	Msg      string
	Err      error
}

func (e *FormatError) Error() string {
	prefix := "invalid model"
	if e.Path != "" {
		prefix += " " + e.Path
	}
	if e.Location != "" {
		prefix += " at " + e.Location
	}
	if e.Err != nil {
		if e.Msg != "" {
			return fmt.Sprintf("%s: %s: %v", prefix, e.Msg, e.Err)
		}
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Msg)
}

func (e *FormatError) Unwrap() error { return e.Err }

// DuplicateIDError reports two nodes sharing the same id.
type DuplicateIDError struct {
	ID     string
	First  string // location of the first occurrence
	Second string // location of the duplicate
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate node id %q at %s (first defined at %s)", e.ID, e.Second, e.First)
}

// ReferenceError reports a branch whose target id does not exist in the tree.
type ReferenceError struct {
	NodeID string
	Branch int
	Target string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("node %q branch %d: unknown target %q", e.NodeID, e.Branch, e.Target)
}
