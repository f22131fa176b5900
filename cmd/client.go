package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/api"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/hooks"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/view"
)

var (
	// users list
	listParams = hooks.UsersParams{Page: hooks.DefaultPage, PageSize: hooks.DefaultPageSize}

	// ids
	userID int
	todoID int

	// todo fields
	todoText      string
	todoCompleted bool

	helloText string
)

// Root client command
var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Interact with the gRPC server",
	Long:  "Commands for browsing users and managing their todos via the gRPC client.",
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Query the user directory",
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of users",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		res := hooks.New(c, nil).Users(cmd.Context(), listParams)
		if res.Err != nil {
			return res.Err
		}
		printUsers(res)
		return nil
	},
}

var getUserCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a user by ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		u, err := c.GetUserByID(cmd.Context(), userID)
		if err != nil {
			return err
		}
		fmt.Printf("%d\t%s\t%s\t%s\n", u.ID, u.FullName(), u.Email, u.Phone)
		printTodos(u.Todos)
		return nil
	},
}

var todosCmd = &cobra.Command{
	Use:   "todos",
	Short: "Manage a user's todos",
}

var listTodosCmd = &cobra.Command{
	Use:   "list",
	Short: "List the todos of a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		todos, err := c.GetTodosByUserID(cmd.Context(), userID)
		if err != nil {
			return err
		}
		printTodos(todos)
		return nil
	},
}

var createTodoCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a todo for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if todoText == "" {
			return errors.New("--text must be specified")
		}
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		t, err := c.CreateTodo(cmd.Context(), userID, todoText)
		if err != nil {
			return err
		}
		fmt.Printf("Created todo: %d\n", t.ID)
		return nil
	},
}

var updateTodoCmd = &cobra.Command{
	Use:   "update",
	Short: "Change the text or completion of a todo",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := &api.UpdateTodoInput{ID: &todoID}
		if cmd.Flags().Changed("text") {
			in.Todo = &todoText
		}
		if cmd.Flags().Changed("completed") {
			in.Completed = &todoCompleted
		}
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		t, err := c.UpdateTodo(cmd.Context(), in)
		if err != nil {
			return err
		}
		printTodos([]model.Todo{*t})
		return nil
	},
}

var deleteTodoCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a todo",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.DeleteTodo(cmd.Context(), todoID); err != nil {
			return err
		}
		fmt.Printf("Deleted todo: %d\n", todoID)
		return nil
	},
}

var toggleTodoCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Flip the completion of a todo",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		t, err := c.ToggleTodo(cmd.Context(), todoID)
		if err != nil {
			return err
		}
		printTodos([]model.Todo{*t})
		return nil
	},
}

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Call the demo post namespace",
}

var helloCmd = &cobra.Command{
	Use:   "hello",
	Short: "Ask the server for a greeting",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		greeting, err := c.Hello(cmd.Context(), helloText)
		if err != nil {
			return err
		}
		fmt.Println(greeting)
		return nil
	},
}

var latestPostCmd = &cobra.Command{
	Use:   "latest",
	Short: "Get the latest post",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		p, err := c.GetLatestPost(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%d\t%s\t%s\n", p.ID, p.Name, p.CreatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

// browseCmd reads search terms from stdin, one per line, and runs a
// search once typing has paused for the debounce period.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Search the directory interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		h := hooks.New(c, hooks.NewMemoryCache())
		var mu sync.Mutex
		search := view.NewDebouncer(cfg.SearchDebounce, func(term string) {
			mu.Lock()
			defer mu.Unlock()
			p := listParams
			p.Search = term
			p.Page = hooks.DefaultPage
			res := h.Users(cmd.Context(), p)
			if res.Err != nil {
				fmt.Fprintf(os.Stderr, "Error loading users: %s\n", view.ErrorMessage(res.Err))
				return
			}
			printUsers(res)
		})
		defer search.Stop()

		fmt.Fprintln(os.Stderr, "Type a search term and press enter; Ctrl-D to quit.")
		ctx := cmd.Context()
		sc := bufio.NewScanner(os.Stdin)
		lines := make(chan string)
		go func() {
			defer close(lines)
			for sc.Scan() {
				select {
				case lines <- sc.Text():
				case <-ctx.Done():
					return
				}
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					search.Flush()
					return sc.Err()
				}
				search.Push(line)
			}
		}
	},
}

func printUsers(res hooks.UsersResult) {
	if len(res.Users) == 0 {
		fmt.Println("No users found")
		return
	}
	cols := view.Columns(res.ActiveFilters)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprint(w, "ID")
	for _, col := range cols {
		fmt.Fprint(w, "\t", col.Title)
	}
	fmt.Fprintln(w)
	for _, u := range res.Users {
		fmt.Fprint(w, strconv.Itoa(u.ID))
		for _, col := range cols {
			fmt.Fprint(w, "\t", col.Value(u))
		}
		fmt.Fprintln(w)
	}
	_ = w.Flush()
	fmt.Printf("Page %d of %d (%d users)\n", res.CurrentPage, res.TotalPages, res.Total)
}

func printTodos(todos []model.Todo) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, t := range todos {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, mark, t.Todo)
	}
	_ = w.Flush()
}

func init() {

	clientCmd.PersistentFlags().AddFlagSet(dialFlags())

	listUsersCmd.Flags().IntVar(&listParams.Page, "page", listParams.Page, "Page number")
	listUsersCmd.Flags().IntVar(&listParams.PageSize, "page-size", listParams.PageSize, "Users per page")
	listUsersCmd.Flags().StringVarP(&listParams.Search, "search", "s", "", "Search name, email, phone or company")
	for _, f := range []*cobra.Command{listUsersCmd, browseCmd} {
		f.Flags().StringVar(&listParams.Gender, "gender", "", "Filter by gender")
		f.Flags().StringVar(&listParams.HairColor, "hair-color", "", "Filter by hair color")
		f.Flags().StringVar(&listParams.EyeColor, "eye-color", "", "Filter by eye color")
		f.Flags().StringVar(&listParams.BloodGroup, "blood-group", "", "Filter by blood group")
	}
	browseCmd.Flags().IntVar(&listParams.PageSize, "page-size", listParams.PageSize, "Users per page")

	getUserCmd.Flags().IntVarP(&userID, "id", "i", 0, "ID of the user to retrieve")
	listTodosCmd.Flags().IntVarP(&userID, "user-id", "u", 0, "ID of the owning user")
	createTodoCmd.Flags().IntVarP(&userID, "user-id", "u", 0, "ID of the owning user")
	createTodoCmd.Flags().StringVarP(&todoText, "text", "t", "", "Text of the todo")
	updateTodoCmd.Flags().StringVarP(&todoText, "text", "t", "", "New text of the todo")
	updateTodoCmd.Flags().BoolVar(&todoCompleted, "completed", false, "New completion state")
	for _, c := range []*cobra.Command{updateTodoCmd, deleteTodoCmd, toggleTodoCmd} {
		c.Flags().IntVarP(&todoID, "id", "i", 0, "ID of the todo")
	}
	helloCmd.Flags().StringVarP(&helloText, "text", "t", "world", "Text to greet")

	usersCmd.AddCommand(listUsersCmd, getUserCmd)
	todosCmd.AddCommand(listTodosCmd, createTodoCmd, updateTodoCmd, deleteTodoCmd, toggleTodoCmd)
	postCmd.AddCommand(helloCmd, latestPostCmd)
	clientCmd.AddCommand(usersCmd, todosCmd, postCmd, browseCmd)
	rootCmd.AddCommand(clientCmd)
}
