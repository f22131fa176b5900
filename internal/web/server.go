package web

import (
	"embed"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/hooks"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options tune the rendering of the pages.
type Options struct {
	// RenderTimeout bounds how long a page waits for its queries before
	// rendering the loading state.  Zero waits indefinitely.
	RenderTimeout time.Duration
	// SearchDebounce is the keystroke quiet period of the search box.
	SearchDebounce time.Duration
}

// Server renders the directory and profile pages from the hooks.
type Server struct {
	hooks *hooks.Client
	log   *zap.Logger
	opts  Options

	mu    sync.Mutex
	todos map[int]*sharedTodos
}

// sharedTodos is a todos hook together with the number of requests
// using it.
type sharedTodos struct {
	hook *hooks.TodosHook
	refs int
}

// New builds the gin engine serving the address book front end.
func New(h *hooks.Client, log *zap.Logger, opts Options) *gin.Engine {
	return newServer(h, log, opts).routes()
}

func newServer(h *hooks.Client, log *zap.Logger, opts Options) *Server {
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = view.DefaultDebounce
	}
	return &Server{hooks: h, log: log, opts: opts, todos: make(map[int]*sharedTodos)}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(s.log), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.html")))

	r.GET("/", s.listUsers)
	r.GET("/users/:id", s.showUser)
	r.POST("/users/:id/todos", s.createTodo)
	r.POST("/todos/:id/update", s.updateTodo)
	r.POST("/todos/:id/toggle", s.toggleTodo)
	r.POST("/todos/:id/delete", s.deleteTodo)
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

// acquireTodos returns the hook of userID shared by every request in
// flight, so that pending mutations show in concurrent renders.  The
// hook is dropped once the last user calls release.
func (s *Server) acquireTodos(userID int) (h *hooks.TodosHook, release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.todos[userID]
	if !ok {
		st = &sharedTodos{hook: s.hooks.Todos(&userID)}
		s.todos[userID] = st
	}
	st.refs++
	return st.hook, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if st.refs--; st.refs == 0 {
			delete(s.todos, userID)
		}
	}
}

// requestLogger logs one line per request.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
