package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"trendora/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema
	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			price DECIMAL(10,2) NOT NULL CHECK (price >= 0),
			quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
			out_of_stock BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS carts (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			cart_id UUID NOT NULL REFERENCES carts(id),
			product_id UUID NOT NULL REFERENCES products(id),
			quantity INT NOT NULL CHECK (quantity > 0),
			size TEXT
		);

		CREATE TABLE IF NOT EXISTS user_addresses (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			name TEXT NOT NULL,
			line1 TEXT NOT NULL,
			line2 TEXT,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			postal_code TEXT NOT NULL,
			phone TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS order_statuses (
			id UUID PRIMARY KEY,
			status TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS payment_statuses (
			id UUID PRIMARY KEY,
			status TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS payment_types (
			id UUID PRIMARY KEY,
			type TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS return_statuses (
			id UUID PRIMARY KEY,
			status TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			address JSONB NOT NULL,
			status_id UUID NOT NULL REFERENCES order_statuses(id),
			total DECIMAL(10,2) NOT NULL CHECK (total >= 0),
			delivery_otp TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
			product_id UUID NOT NULL REFERENCES products(id),
			quantity INT NOT NULL CHECK (quantity > 0),
			size TEXT,
			user_id UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			order_id UUID NOT NULL REFERENCES orders(id),
			payment_type_id UUID NOT NULL REFERENCES payment_types(id),
			payment_status_id UUID NOT NULL REFERENCES payment_statuses(id),
			invoice_no TEXT NOT NULL,
			delivery_fee DECIMAL(10,2) NOT NULL DEFAULT 0,
			amount DECIMAL(10,2) NOT NULL CHECK (amount >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS card_details (
			id UUID PRIMARY KEY,
			payment_id UUID NOT NULL REFERENCES payments(id),
			name TEXT NOT NULL,
			card_no TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS upi_details (
			id UUID PRIMARY KEY,
			payment_id UUID NOT NULL REFERENCES payments(id),
			upi_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS returns (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
			product_id UUID NOT NULL REFERENCES products(id),
			user_id UUID NOT NULL,
			return_status_id UUID NOT NULL REFERENCES return_statuses(id),
			quantity INT NOT NULL CHECK (quantity > 0),
			amount DECIMAL(10,2) NOT NULL CHECK (amount >= 0),
			reason TEXT,
			image_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// Vocab holds the ids of the seeded status vocabularies.
type Vocab struct {
	OrderPlaced    uuid.UUID
	OrderShipped   uuid.UUID
	OrderOutForDel uuid.UUID
	OrderDelivered uuid.UUID
	OrderCancelled uuid.UUID

	PaymentPending uuid.UUID
	PaymentSuccess uuid.UUID

	TypeCod  uuid.UUID
	TypeCard uuid.UUID
	TypeUpi  uuid.UUID

	ReturnRequested uuid.UUID
}

// SeedVocabularies inserts the status/type vocabularies every flow needs.
func SeedVocabularies(t *testing.T, pool *pgxpool.Pool) Vocab {
	t.Helper()

	ctx := context.Background()
	v := Vocab{
		OrderPlaced:     uuid.New(),
		OrderShipped:    uuid.New(),
		OrderOutForDel:  uuid.New(),
		OrderDelivered:  uuid.New(),
		OrderCancelled:  uuid.New(),
		PaymentPending:  uuid.New(),
		PaymentSuccess:  uuid.New(),
		TypeCod:         uuid.New(),
		TypeCard:        uuid.New(),
		TypeUpi:         uuid.New(),
		ReturnRequested: uuid.New(),
	}

	orderStatuses := map[uuid.UUID]string{
		v.OrderPlaced:    "placed",
		v.OrderShipped:   "shipped",
		v.OrderOutForDel: "out for delivery",
		v.OrderDelivered: "delivered",
		v.OrderCancelled: "cancelled",
	}
	for id, label := range orderStatuses {
		if _, err := pool.Exec(ctx, `INSERT INTO order_statuses (id, status) VALUES ($1, $2)`, id, label); err != nil {
			t.Fatalf("failed to seed order status %s: %v", label, err)
		}
	}

	paymentStatuses := map[uuid.UUID]string{
		v.PaymentPending: "pending",
		v.PaymentSuccess: "success",
	}
	for id, label := range paymentStatuses {
		if _, err := pool.Exec(ctx, `INSERT INTO payment_statuses (id, status) VALUES ($1, $2)`, id, label); err != nil {
			t.Fatalf("failed to seed payment status %s: %v", label, err)
		}
	}

	paymentTypes := map[uuid.UUID]string{
		v.TypeCod:  "cod",
		v.TypeCard: "card",
		v.TypeUpi:  "upi",
	}
	for id, label := range paymentTypes {
		if _, err := pool.Exec(ctx, `INSERT INTO payment_types (id, type) VALUES ($1, $2)`, id, label); err != nil {
			t.Fatalf("failed to seed payment type %s: %v", label, err)
		}
	}

	if _, err := pool.Exec(ctx, `INSERT INTO return_statuses (id, status) VALUES ($1, $2)`, v.ReturnRequested, "requested"); err != nil {
		t.Fatalf("failed to seed return status: %v", err)
	}

	return v
}

// SeedProduct inserts one product and returns its id.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, name string, price float64, quantity int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO products (id, name, price, quantity) VALUES ($1, $2, $3, $4)`,
		id, name, price, quantity)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return id
}

// SeedAddress inserts an address owned by the given user and returns its id.
func SeedAddress(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO user_addresses (id, user_id, name, line1, city, state, postal_code, phone)
		 VALUES ($1, $2, 'Test User', '42 Test Street', 'Testville', 'TS', '560001', '9999999999')`,
		id, userID)
	if err != nil {
		t.Fatalf("failed to seed address: %v", err)
	}
	return id
}

// SeedCart inserts a cart for the user with the given product lines.
func SeedCart(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, lines []model.CartItem) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	cartID := uuid.New()
	if _, err := pool.Exec(ctx, `INSERT INTO carts (id, user_id) VALUES ($1, $2)`, cartID, userID); err != nil {
		t.Fatalf("failed to seed cart: %v", err)
	}

	for _, line := range lines {
		_, err := pool.Exec(ctx,
			`INSERT INTO cart_items (id, cart_id, product_id, quantity, size) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), cartID, line.ProductID, line.Quantity, line.Size)
		if err != nil {
			t.Fatalf("failed to seed cart item: %v", err)
		}
	}

	return cartID
}

// CountRows returns the number of rows in the table matching the order id.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string, orderID uuid.UUID) int {
	t.Helper()

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE order_id = $1`, table)
	if err := pool.QueryRow(context.Background(), query, orderID).Scan(&count); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	return count
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"returns", "card_details", "upi_details", "payments", "order_items",
		"orders", "cart_items", "carts", "user_addresses", "products",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
