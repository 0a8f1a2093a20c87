package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/upl-merch/assistant/internal/agent/model"
	errx "github.com/upl-merch/assistant/internal/core/error"
	logx "github.com/upl-merch/assistant/pkg/logger"
)

// Config locates the SQLite database.
type Config struct {
	Path string `envconfig:"STORE_PATH" default:"data/store.db"`
}

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (and migrates) the database at dbPath.
func NewSQLite(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS products (
		id          TEXT PRIMARY KEY,
		slug        TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category    TEXT NOT NULL,
		team        TEXT NOT NULL DEFAULT '',
		kit_type    TEXT NOT NULL DEFAULT '',
		size        TEXT NOT NULL DEFAULT '',
		color       TEXT NOT NULL DEFAULT '',
		price       INTEGER NOT NULL,
		stock       INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
	CREATE INDEX IF NOT EXISTS idx_products_team ON products(team COLLATE NOCASE);

	CREATE TABLE IF NOT EXISTS orders (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		order_number TEXT NOT NULL UNIQUE,
		status       TEXT NOT NULL,
		total        INTEGER NOT NULL,
		created_at   INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS order_items (
		order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		product_id TEXT NOT NULL,
		name       TEXT NOT NULL,
		quantity   INTEGER NOT NULL,
		unit_price INTEGER NOT NULL,
		PRIMARY KEY (order_id, position)
	);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertProduct creates or replaces a catalog product.
func (s *SQLiteStore) UpsertProduct(ctx context.Context, p model.Product) error {
	query := `
	INSERT INTO products (id, slug, name, description, category, team, kit_type, size, color, price, stock)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		slug = excluded.slug,
		name = excluded.name,
		description = excluded.description,
		category = excluded.category,
		team = excluded.team,
		kit_type = excluded.kit_type,
		size = excluded.size,
		color = excluded.color,
		price = excluded.price,
		stock = excluded.stock`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Slug, p.Name, p.Description, p.Category, p.Team,
		p.KitType, p.Size, p.Color, p.Price, p.Stock,
	)
	if err != nil {
		logx.Error().Err(err).Str("product_id", p.ID).Msg("failed to upsert product")
		return errx.WrapStore(fmt.Errorf("upsert product %s: %w", p.ID, err))
	}
	return nil
}

const productColumns = `id, slug, name, description, category, team, kit_type, size, color, price, stock`

// FindProducts returns products matching the filter, cheapest first.
func (s *SQLiteStore) FindProducts(ctx context.Context, f model.ProductFilter) ([]model.Product, error) {
	var (
		where []string
		args  []any
	)
	if len(f.IDs) > 0 {
		where = append(where, "id IN (?"+strings.Repeat(", ?", len(f.IDs)-1)+")")
		for _, id := range f.IDs {
			args = append(args, id)
		}
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Team != "" {
		// "Vipers" matches "Vipers SC", "kcca" matches "KCCA FC".
		where = append(where, `team LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(f.Team)+"%")
	}
	if f.KitType != "" {
		where = append(where, "kit_type = ?")
		args = append(args, f.KitType)
	}
	if f.Size != "" {
		where = append(where, "size = ?")
		args = append(args, f.Size)
	}
	if f.MinPrice > 0 {
		where = append(where, "price >= ?")
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		where = append(where, "price <= ?")
		args = append(args, f.MaxPrice)
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY price ASC, name ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	return s.queryProducts(ctx, query, args...)
}

// AllProducts returns the whole catalog ordered by name.
func (s *SQLiteStore) AllProducts(ctx context.Context) ([]model.Product, error) {
	return s.queryProducts(ctx, "SELECT "+productColumns+" FROM products ORDER BY name ASC")
}

// CountProducts returns the number of catalog products.
func (s *SQLiteStore) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n); err != nil {
		return 0, errx.WrapStore(fmt.Errorf("count products: %w", err))
	}
	return n, nil
}

func (s *SQLiteStore) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logx.Error().Err(err).Msg("failed to query products")
		return nil, errx.WrapStore(fmt.Errorf("query products: %w", err))
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.Slug, &p.Name, &p.Description, &p.Category, &p.Team,
			&p.KitType, &p.Size, &p.Color, &p.Price, &p.Stock,
		); err != nil {
			return nil, errx.WrapStore(fmt.Errorf("scan product row: %w", err))
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapStore(fmt.Errorf("iterate product rows: %w", err))
	}
	return products, nil
}

// UpsertOrder creates or replaces an order and its items in one transaction.
func (s *SQLiteStore) UpsertOrder(ctx context.Context, o model.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errx.WrapStore(fmt.Errorf("begin order tx: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO orders (id, user_id, order_number, status, total, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		user_id = excluded.user_id,
		order_number = excluded.order_number,
		status = excluded.status,
		total = excluded.total,
		created_at = excluded.created_at`,
		o.ID, o.UserID, o.OrderNumber, o.Status, o.Total, o.CreatedAt.Unix(),
	)
	if err != nil {
		return errx.WrapStore(fmt.Errorf("upsert order %s: %w", o.ID, err))
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = ?", o.ID); err != nil {
		return errx.WrapStore(fmt.Errorf("reset order items %s: %w", o.ID, err))
	}
	for i, item := range o.Items {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO order_items (order_id, position, product_id, name, quantity, unit_price)
		VALUES (?, ?, ?, ?, ?, ?)`,
			o.ID, i, item.ProductID, item.Name, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return errx.WrapStore(fmt.Errorf("insert order item %s/%d: %w", o.ID, i, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return errx.WrapStore(fmt.Errorf("commit order %s: %w", o.ID, err))
	}
	return nil
}

// ListOrders returns a user's orders, newest first.
func (s *SQLiteStore) ListOrders(ctx context.Context, userID, status string) ([]model.Order, error) {
	query := `
		SELECT id, user_id, order_number, status, total, created_at
		FROM orders WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("failed to query orders")
		return nil, errx.WrapStore(fmt.Errorf("query orders: %w", err))
	}

	var orders []model.Order
	for rows.Next() {
		var (
			o         model.Order
			createdAt int64
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.Total, &createdAt); err != nil {
			rows.Close()
			return nil, errx.WrapStore(fmt.Errorf("scan order row: %w", err))
		}
		o.CreatedAt = time.Unix(createdAt, 0).UTC()
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errx.WrapStore(fmt.Errorf("iterate order rows: %w", err))
	}
	rows.Close()

	for i := range orders {
		items, err := s.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (s *SQLiteStore) orderItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, name, quantity, unit_price
		FROM order_items WHERE order_id = ? ORDER BY position`, orderID)
	if err != nil {
		return nil, errx.WrapStore(fmt.Errorf("query order items: %w", err))
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, errx.WrapStore(fmt.Errorf("scan order item: %w", err))
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapStore(fmt.Errorf("iterate order items: %w", err))
	}
	return items, nil
}

var _ Repository = (*SQLiteStore)(nil)

// likeEscaper escapes LIKE wildcards in user input; pairs with ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
