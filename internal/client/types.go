package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/api"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

type DialConfig struct {
	Address    string
	Insecure   bool
	RootCA     string // optional root CA cert
	ClientCert string // optional client cert (mTLS)
	ClientKey  string // optional client key (mTLS)
}

// GRPCClient wraps one connection and exposes a typed method per
// procedure of the user, todo and post namespaces.
type GRPCClient struct {
	conn  *grpc.ClientConn
	users *api.UserClient
	todos *api.TodoClient
	posts *api.PostClient
}

func (c *GRPCClient) Close() {
	c.conn.Close()
}

func NewClient(cfg DialConfig) (*GRPCClient, error) {
	conn, err := dial(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to dial server: %w", err)
	}
	return NewClientWithConn(conn), nil
}

// NewClientWithConn wraps an existing connection.
func NewClientWithConn(conn *grpc.ClientConn) *GRPCClient {
	return &GRPCClient{
		conn:  conn,
		users: api.NewUserClient(conn),
		todos: api.NewTodoClient(conn),
		posts: api.NewPostClient(conn),
	}
}

func (c *GRPCClient) GetUsers(ctx context.Context, in *api.GetUsersInput) (*api.GetUsersOutput, error) {
	return c.users.GetUsers(ctx, in)
}

func (c *GRPCClient) GetUserByID(ctx context.Context, id int) (*model.UserWithTodos, error) {
	return c.users.GetUserByID(ctx, &api.GetUserByIDInput{ID: &id})
}

func (c *GRPCClient) GetTodosByUserID(ctx context.Context, userID int) ([]model.Todo, error) {
	list, err := c.todos.GetTodosByUserID(ctx, &api.GetTodosByUserIDInput{UserID: &userID})
	if err != nil {
		return nil, err
	}
	return []model.Todo(*list), nil
}

func (c *GRPCClient) CreateTodo(ctx context.Context, userID int, text string) (*model.Todo, error) {
	return c.todos.CreateTodo(ctx, &api.CreateTodoInput{UserID: &userID, Todo: text})
}

func (c *GRPCClient) UpdateTodo(ctx context.Context, in *api.UpdateTodoInput) (*model.Todo, error) {
	return c.todos.UpdateTodo(ctx, in)
}

func (c *GRPCClient) DeleteTodo(ctx context.Context, id int) error {
	_, err := c.todos.DeleteTodo(ctx, &api.TodoIDInput{ID: &id})
	return err
}

func (c *GRPCClient) ToggleTodo(ctx context.Context, id int) (*model.Todo, error) {
	return c.todos.ToggleTodo(ctx, &api.TodoIDInput{ID: &id})
}

func (c *GRPCClient) Hello(ctx context.Context, text string) (string, error) {
	out, err := c.posts.Hello(ctx, &api.HelloInput{Text: &text})
	if err != nil {
		return "", err
	}
	return out.Greeting, nil
}

func (c *GRPCClient) GetLatestPost(ctx context.Context) (*api.Post, error) {
	return c.posts.GetLatest(ctx)
}
