package api

import (
	"context"
	"path"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

// Service names.  Each maps to one procedure namespace.
const (
	UserService = "addressbook.user"
	TodoService = "addressbook.todo"
	PostService = "addressbook.post"
)

// RequestIDKey is the metadata key carrying the request id in both
// directions.
const RequestIDKey = "x-request-id"

// Full method names.
const (
	MethodGetUsers         = "/" + UserService + "/getUsers"
	MethodGetUserByID      = "/" + UserService + "/getUserById"
	MethodGetTodosByUserID = "/" + TodoService + "/getTodosByUserId"
	MethodCreateTodo       = "/" + TodoService + "/createTodo"
	MethodUpdateTodo       = "/" + TodoService + "/updateTodo"
	MethodDeleteTodo       = "/" + TodoService + "/deleteTodo"
	MethodToggleTodo       = "/" + TodoService + "/toggleTodo"
	MethodHello            = "/" + PostService + "/hello"
	MethodGetLatest        = "/" + PostService + "/getLatest"
)

// UserServer is the server API of the user namespace.
type UserServer interface {
	GetUsers(context.Context, *GetUsersInput) (*GetUsersOutput, error)
	GetUserByID(context.Context, *GetUserByIDInput) (*model.UserWithTodos, error)
}

// TodoServer is the server API of the todo namespace.
type TodoServer interface {
	GetTodosByUserID(context.Context, *GetTodosByUserIDInput) (*TodoList, error)
	CreateTodo(context.Context, *CreateTodoInput) (*model.Todo, error)
	UpdateTodo(context.Context, *UpdateTodoInput) (*model.Todo, error)
	DeleteTodo(context.Context, *TodoIDInput) (*DeleteTodoOutput, error)
	ToggleTodo(context.Context, *TodoIDInput) (*model.Todo, error)
}

// PostServer is the demo namespace kept alongside the address book.
type PostServer interface {
	Hello(context.Context, *HelloInput) (*HelloOutput, error)
	GetLatest(context.Context, *emptypb.Empty) (*Post, error)
}

var UserServiceDesc = grpc.ServiceDesc{
	ServiceName: UserService,
	HandlerType: (*UserServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodGetUsers, UserServer.GetUsers),
		unary(MethodGetUserByID, UserServer.GetUserByID),
	},
	Metadata: "addressbook",
}

var TodoServiceDesc = grpc.ServiceDesc{
	ServiceName: TodoService,
	HandlerType: (*TodoServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodGetTodosByUserID, TodoServer.GetTodosByUserID),
		unary(MethodCreateTodo, TodoServer.CreateTodo),
		unary(MethodUpdateTodo, TodoServer.UpdateTodo),
		unary(MethodDeleteTodo, TodoServer.DeleteTodo),
		unary(MethodToggleTodo, TodoServer.ToggleTodo),
	},
	Metadata: "addressbook",
}

var PostServiceDesc = grpc.ServiceDesc{
	ServiceName: PostService,
	HandlerType: (*PostServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodHello, PostServer.Hello),
		unary(MethodGetLatest, PostServer.GetLatest),
	},
	Metadata: "addressbook",
}

func RegisterUserServer(s grpc.ServiceRegistrar, srv UserServer) {
	s.RegisterService(&UserServiceDesc, srv)
}

func RegisterTodoServer(s grpc.ServiceRegistrar, srv TodoServer) {
	s.RegisterService(&TodoServiceDesc, srv)
}

func RegisterPostServer(s grpc.ServiceRegistrar, srv PostServer) {
	s.RegisterService(&PostServiceDesc, srv)
}

// unary builds the method descriptor for fullMethod.  A request body that
// cannot be decoded is rejected with InvalidArgument before the server
// implementation or any interceptor runs.
func unary[S, In, Out any](fullMethod string, call func(S, context.Context, *In) (*Out, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: path.Base(fullMethod),
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(In)
			if err := dec(in); err != nil {
				return nil, status.Errorf(codes.InvalidArgument, "malformed input: %v", status.Convert(err).Message())
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*In))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// invoke performs a unary call using the JSON codec.
func invoke[Out any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Out, error) {
	out := new(Out)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// UserClient is the client API of the user namespace.
type UserClient struct{ cc grpc.ClientConnInterface }

func NewUserClient(cc grpc.ClientConnInterface) *UserClient { return &UserClient{cc: cc} }

func (c *UserClient) GetUsers(ctx context.Context, in *GetUsersInput, opts ...grpc.CallOption) (*GetUsersOutput, error) {
	return invoke[GetUsersOutput](ctx, c.cc, MethodGetUsers, in, opts...)
}

func (c *UserClient) GetUserByID(ctx context.Context, in *GetUserByIDInput, opts ...grpc.CallOption) (*model.UserWithTodos, error) {
	return invoke[model.UserWithTodos](ctx, c.cc, MethodGetUserByID, in, opts...)
}

// TodoClient is the client API of the todo namespace.
type TodoClient struct{ cc grpc.ClientConnInterface }

func NewTodoClient(cc grpc.ClientConnInterface) *TodoClient { return &TodoClient{cc: cc} }

func (c *TodoClient) GetTodosByUserID(ctx context.Context, in *GetTodosByUserIDInput, opts ...grpc.CallOption) (*TodoList, error) {
	return invoke[TodoList](ctx, c.cc, MethodGetTodosByUserID, in, opts...)
}

func (c *TodoClient) CreateTodo(ctx context.Context, in *CreateTodoInput, opts ...grpc.CallOption) (*model.Todo, error) {
	return invoke[model.Todo](ctx, c.cc, MethodCreateTodo, in, opts...)
}

func (c *TodoClient) UpdateTodo(ctx context.Context, in *UpdateTodoInput, opts ...grpc.CallOption) (*model.Todo, error) {
	return invoke[model.Todo](ctx, c.cc, MethodUpdateTodo, in, opts...)
}

func (c *TodoClient) DeleteTodo(ctx context.Context, in *TodoIDInput, opts ...grpc.CallOption) (*DeleteTodoOutput, error) {
	return invoke[DeleteTodoOutput](ctx, c.cc, MethodDeleteTodo, in, opts...)
}

func (c *TodoClient) ToggleTodo(ctx context.Context, in *TodoIDInput, opts ...grpc.CallOption) (*model.Todo, error) {
	return invoke[model.Todo](ctx, c.cc, MethodToggleTodo, in, opts...)
}

// PostClient is the client API of the demo namespace.
type PostClient struct{ cc grpc.ClientConnInterface }

func NewPostClient(cc grpc.ClientConnInterface) *PostClient { return &PostClient{cc: cc} }

func (c *PostClient) Hello(ctx context.Context, in *HelloInput, opts ...grpc.CallOption) (*HelloOutput, error) {
	return invoke[HelloOutput](ctx, c.cc, MethodHello, in, opts...)
}

func (c *PostClient) GetLatest(ctx context.Context, opts ...grpc.CallOption) (*Post, error) {
	return invoke[Post](ctx, c.cc, MethodGetLatest, &emptypb.Empty{}, opts...)
}
