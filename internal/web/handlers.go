package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/hooks"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/view"
)

// listUsers renders the directory.  Requests whose query string is not
// in canonical form, for example with empty or default parameters left
// by the filter form, are redirected to the minimal URL first.
func (s *Server) listUsers(c *gin.Context) {
	state := view.ParseListState(c.Request.URL.Query())
	if canonical := state.Values().Encode(); canonical != c.Request.URL.RawQuery {
		c.Redirect(http.StatusFound, state.URL())
		return
	}

	res := hooks.Await(c.Request.Context(), s.opts.RenderTimeout,
		hooks.UsersResult{Status: hooks.StatusLoading},
		func(ctx context.Context) hooks.UsersResult { return s.hooks.Users(ctx, state.Params()) })

	page := view.BuildListPage(state, res)
	code := http.StatusOK
	if page.Render == view.StateError {
		code = http.StatusBadGateway
	}
	c.HTML(code, "list.html", gin.H{
		"Page":       page,
		"DebounceMS": s.opts.SearchDebounce.Milliseconds(),
		"Refresh":    page.Render == view.StateLoading,
	})
}

func (s *Server) showUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		s.renderDetail(c, view.BuildDetailPage(hooks.UserResult{Status: hooks.StatusSuccess}, hooks.TodosResult{}, hooks.Pending{}, false), http.StatusNotFound)
		return
	}
	open := c.Query("todos") == "open"

	user := hooks.Await(c.Request.Context(), s.opts.RenderTimeout,
		hooks.UserResult{Status: hooks.StatusLoading},
		func(ctx context.Context) hooks.UserResult { return s.hooks.User(ctx, &id) })
	var (
		list    hooks.TodosResult
		pending hooks.Pending
	)
	if user.Status == hooks.StatusSuccess && user.User != nil {
		todos, release := s.acquireTodos(id)
		defer release()
		if open {
			list = hooks.Await(c.Request.Context(), s.opts.RenderTimeout,
				hooks.TodosResult{Status: hooks.StatusLoading},
				todos.List)
		}
		pending = todos.Pending()
	}

	page := view.BuildDetailPage(user, list, pending, open)
	page.Drawer.Flash = c.Query("error")
	code := http.StatusOK
	if page.Render == view.StateError {
		code = httpStatus(user.Err)
	}
	s.renderDetail(c, page, code)
}

func (s *Server) renderDetail(c *gin.Context, page view.DetailPage, code int) {
	c.HTML(code, "detail.html", gin.H{
		"Page":    page,
		"Refresh": page.Render == view.StateLoading || page.Drawer.Render == view.StateLoading && page.Drawer.Open,
	})
}

func (s *Server) createTodo(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid user id")
		return
	}
	text := strings.TrimSpace(c.PostForm("todo"))
	todos, release := s.acquireTodos(userID)
	_, err = todos.Create(c.Request.Context(), text)
	release()
	s.afterMutation(c, userID, "create todo", err)
}

func (s *Server) updateTodo(c *gin.Context) {
	id, userID, ok := todoTarget(c)
	if !ok {
		return
	}
	var patch model.TodoPatch
	if text, ok := c.GetPostForm("todo"); ok {
		text = strings.TrimSpace(text)
		patch.Todo = &text
	}
	if raw, ok := c.GetPostForm("completed"); ok {
		done := raw == "true" || raw == "on"
		patch.Completed = &done
	}
	todos, release := s.acquireTodos(userID)
	_, err := todos.Update(c.Request.Context(), id, patch)
	release()
	s.afterMutation(c, userID, "update todo", err)
}

func (s *Server) toggleTodo(c *gin.Context) {
	id, userID, ok := todoTarget(c)
	if !ok {
		return
	}
	todos, release := s.acquireTodos(userID)
	_, err := todos.Toggle(c.Request.Context(), id)
	release()
	s.afterMutation(c, userID, "toggle todo", err)
}

func (s *Server) deleteTodo(c *gin.Context) {
	id, userID, ok := todoTarget(c)
	if !ok {
		return
	}
	todos, release := s.acquireTodos(userID)
	err := todos.Delete(c.Request.Context(), id)
	release()
	s.afterMutation(c, userID, "delete todo", err)
}

// todoTarget reads the todo id from the path and its owner from the
// form.  The owner selects the cached list the mutation edits.
func todoTarget(c *gin.Context) (id, userID int, ok bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid todo id")
		return 0, 0, false
	}
	userID, err = strconv.Atoi(c.PostForm("userId"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid user id")
		return 0, 0, false
	}
	return id, userID, true
}

// afterMutation redirects back to the open drawer, carrying the error
// message of a failed mutation.
func (s *Server) afterMutation(c *gin.Context, userID int, op string, err error) {
	target := view.DrawerURL(userID)
	if err != nil {
		s.log.Warn(op+" failed", zap.Int("user_id", userID), zap.Error(err))
		target += "&error=" + url.QueryEscape(view.ErrorMessage(err))
	}
	c.Redirect(http.StatusSeeOther, target)
}

func httpStatus(err error) int {
	switch status.Code(err) {
	case codes.NotFound:
		return http.StatusNotFound
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.OK:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
