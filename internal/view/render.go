package view

import (
	"google.golang.org/grpc/status"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/hooks"
)

// RenderState selects exactly one branch of a page section.
type RenderState int

const (
	StateLoading RenderState = iota
	StateError
	StateEmpty
	StatePopulated
)

func (s RenderState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	default:
		return "populated"
	}
}

// renderState maps a query status and result size to a branch.  Idle
// queries render as loading: they are waiting for an id.
func renderState(st hooks.Status, n int) RenderState {
	switch st {
	case hooks.StatusError:
		return StateError
	case hooks.StatusSuccess:
		if n == 0 {
			return StateEmpty
		}
		return StatePopulated
	default:
		return StateLoading
	}
}

// ErrorMessage is the human readable part of err.  For gRPC errors that
// is the status message, without the code prefix.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return status.Convert(err).Message()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (s RenderState) IsLoading() bool   { return s == StateLoading }
func (s RenderState) IsError() bool     { return s == StateError }
func (s RenderState) IsEmpty() bool     { return s == StateEmpty }
func (s RenderState) IsPopulated() bool { return s == StatePopulated }
