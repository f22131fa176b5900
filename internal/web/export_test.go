package web

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/hooks"
)

// NewWithTracking is New that also reports how many users currently hold
// a shared todos hook.
func NewWithTracking(h *hooks.Client, log *zap.Logger, opts Options) (*gin.Engine, func() int) {
	s := newServer(h, log, opts)
	return s.routes(), func() int {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.todos)
	}
}
