package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

// pgForeignKeyViolation is the Postgres error code of a missing owner.
const pgForeignKeyViolation = "23503"

// userColumns lists the "User" columns in the order of userFields.
var userColumns = []string{
	"id", "first_name", "last_name", "maiden_name", "age", "gender", "email",
	"phone", "username", "password", "birth_date", "image", "blood_group",
	"height", "weight", "eye_color", "hair_color", "hair_type", "ip",
	"mac_address", "university", "ein", "ssn", "user_agent", "role",
	"address", "city", "state", "state_code", "postal_code", "address_lat",
	"address_lng", "country", "company_name", "company_title",
	"company_department", "company_address", "company_city", "company_state",
	"company_state_code", "company_postal_code", "company_lat", "company_lng",
	"company_country", "bank_json", "crypto_json", "created_at", "updated_at",
}

// userFields returns pointers to u's fields in userColumns order.  The
// slice serves both as Scan destinations and as query arguments.
func userFields(u *model.User) []any {
	return []any{
		&u.ID, &u.FirstName, &u.LastName, &u.MaidenName, &u.Age, &u.Gender, &u.Email,
		&u.Phone, &u.Username, &u.Password, &u.BirthDate, &u.Image, &u.BloodGroup,
		&u.Height, &u.Weight, &u.EyeColor, &u.HairColor, &u.HairType, &u.IP,
		&u.MacAddress, &u.University, &u.EIN, &u.SSN, &u.UserAgent, &u.Role,
		&u.Address, &u.City, &u.State, &u.StateCode, &u.PostalCode, &u.AddressLat,
		&u.AddressLng, &u.Country, &u.CompanyName, &u.CompanyTitle,
		&u.CompanyDepartment, &u.CompanyAddress, &u.CompanyCity, &u.CompanyState,
		&u.CompanyStateCode, &u.CompanyPostalCode, &u.CompanyLat, &u.CompanyLng,
		&u.CompanyCountry, &u.BankJSON, &u.CryptoJSON, &u.CreatedAt, &u.UpdatedAt,
	}
}

const todoColumns = "id, todo, completed, user_id, created_at, updated_at"

func todoFields(t *model.Todo) []any {
	return []any{&t.ID, &t.Todo, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt}
}

// PostgresStore is an implementation of Store backed by PostgreSQL via a
// pgx connection pool.  Every mutation is a single statement, so the
// engine's per-statement atomicity covers the toggle and max(id)+1
// allocation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore opens a pool for dsn and pings the server.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect failed: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate applies the embedded schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return ApplyMigrations(ctx, s.pool)
}

func (s *PostgresStore) ListUsers(ctx context.Context, q model.UserQuery) (model.UserPage, error) {
	q = q.Normalized()
	where, args := userWhere(q)

	batch := &pgx.Batch{}
	batch.Queue(`SELECT count(*) FROM "User"`+where, args...)
	pageArgs := append(append([]any{}, args...), q.Take, q.Skip)
	batch.Queue(fmt.Sprintf(`SELECT %s FROM "User"%s ORDER BY first_name ASC, last_name ASC, id ASC LIMIT $%d OFFSET $%d`,
		strings.Join(userColumns, ", "), where, len(args)+1, len(args)+2), pageArgs...)

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	var page model.UserPage
	if err := br.QueryRow().Scan(&page.Total); err != nil {
		return model.UserPage{}, fmt.Errorf("count users failed: %w", err)
	}
	rows, err := br.Query()
	if err != nil {
		return model.UserPage{}, fmt.Errorf("list users failed: %w", err)
	}
	defer rows.Close()
	page.Users = make([]model.User, 0, q.Take)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(userFields(&u)...); err != nil {
			return model.UserPage{}, fmt.Errorf("scan user failed: %w", err)
		}
		page.Users = append(page.Users, u)
	}
	return page, rows.Err()
}

// userWhere renders the WHERE clause for q.  The search term is matched
// with LIKE, so case sensitivity follows the database collation.
func userWhere(q model.UserQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if q.Search != "" {
		p := arg(escapeLike(q.Search))
		var ors []string
		for _, col := range []string{"first_name", "last_name", "email", "phone", "company_name"} {
			ors = append(ors, fmt.Sprintf("%s LIKE '%%' || %s || '%%'", col, p))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	for _, f := range []struct{ col, val string }{
		{"gender", q.Gender},
		{"hair_color", q.HairColor},
		{"eye_color", q.EyeColor},
		{"blood_group", q.BloodGroup},
	} {
		if f.val != "" {
			conds = append(conds, f.col+" = "+arg(f.val))
		}
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *PostgresStore) GetUser(ctx context.Context, id int) (*model.User, error) {
	var u model.User
	err := s.pool.QueryRow(ctx,
		`SELECT `+strings.Join(userColumns, ", ")+` FROM "User" WHERE id = $1`, id,
	).Scan(userFields(&u)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user failed: %w", err)
	}
	return &u, nil
}

// UpsertUser inserts u or overwrites every column but created_at.
func (s *PostgresStore) UpsertUser(ctx context.Context, u model.User) error {
	cols := userColumns[:len(userColumns)-2] // created_at and updated_at are set by the database
	placeholders := make([]string, len(cols))
	updates := make([]string, 0, len(cols))
	for i, c := range cols {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		if c != "id" {
			updates = append(updates, c+" = EXCLUDED."+c)
		}
	}
	updates = append(updates, "updated_at = now()")
	query := fmt.Sprintf(`INSERT INTO "User" (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s`,
		strings.Join(cols, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))

	args := userFields(&u)[:len(cols)]
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user %d failed: %w", u.ID, err)
	}
	return nil
}

func (s *PostgresStore) CountUsers(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM "User"`)
}

func (s *PostgresStore) ListTodos(ctx context.Context, userID int) ([]model.Todo, error) {
	return s.queryTodos(ctx, `SELECT `+todoColumns+` FROM "Todo" WHERE user_id = $1
		ORDER BY completed ASC, created_at DESC, id DESC`, userID)
}

func (s *PostgresStore) ListTodosNewestFirst(ctx context.Context, userID int) ([]model.Todo, error) {
	return s.queryTodos(ctx, `SELECT `+todoColumns+` FROM "Todo" WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
}

func (s *PostgresStore) queryTodos(ctx context.Context, query string, args ...any) ([]model.Todo, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos failed: %w", err)
	}
	defer rows.Close()
	todos := make([]model.Todo, 0, 16)
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(todoFields(&t)...); err != nil {
			return nil, fmt.Errorf("scan todo failed: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// todoIDLock is the advisory lock key serialising todo id allocation.
const todoIDLock = 0x746f646f

// CreateTodo allocates max(id)+1 inside the INSERT while holding a
// transaction-scoped advisory lock, so concurrent creates queue instead
// of colliding on the primary key.
func (s *PostgresStore) CreateTodo(ctx context.Context, userID int, text string) (*model.Todo, error) {
	var t model.Todo
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, todoIDLock); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `INSERT INTO "Todo" (id, todo, completed, user_id)
			SELECT COALESCE(MAX(id), 0) + 1, $2, FALSE, $1 FROM "Todo"
			RETURNING `+todoColumns, userID, text).Scan(todoFields(&t)...)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("create todo failed: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) UpdateTodo(ctx context.Context, id int, p model.TodoPatch) (*model.Todo, error) {
	return s.returningTodo(ctx, `UPDATE "Todo"
		SET todo = COALESCE($2, todo), completed = COALESCE($3, completed), updated_at = now()
		WHERE id = $1 RETURNING `+todoColumns, id, p.Todo, p.Completed)
}

// ToggleTodo flips the flag in one UPDATE, so concurrent toggles
// serialise on the row lock instead of losing an update.
func (s *PostgresStore) ToggleTodo(ctx context.Context, id int) (*model.Todo, error) {
	return s.returningTodo(ctx, `UPDATE "Todo"
		SET completed = NOT completed, updated_at = now()
		WHERE id = $1 RETURNING `+todoColumns, id)
}

func (s *PostgresStore) returningTodo(ctx context.Context, query string, args ...any) (*model.Todo, error) {
	var t model.Todo
	err := s.pool.QueryRow(ctx, query, args...).Scan(todoFields(&t)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update todo failed: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) DeleteTodo(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM "Todo" WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete todo failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpsertTodo(ctx context.Context, t model.Todo) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO "Todo" (id, todo, completed, user_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET todo = EXCLUDED.todo,
			completed = EXCLUDED.completed,
			user_id = EXCLUDED.user_id,
			updated_at = now()
	`, t.ID, t.Todo, t.Completed, t.UserID)
	if err != nil {
		return fmt.Errorf("upsert todo %d failed: %w", t.ID, err)
	}
	return nil
}

func (s *PostgresStore) CountTodos(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM "Todo"`)
}

func (s *PostgresStore) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
