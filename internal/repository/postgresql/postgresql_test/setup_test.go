package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. The
// calling test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn)
	require.NoError(t, err)

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "000001_init_schema.up.sql"))
	require.NoError(t, err)
	_, err = db.Exec(context.Background(), string(schema))
	require.NoError(t, err)

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(context.Background()))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row written by the tests.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"worksheet_entries",
		"attendances",
		"employee_shift_overrides",
		"shift_settings",
		"leave_requests",
		"leave_types",
		"employees",
		"positions",
		"users",
		"companies",
	}

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}

// SeedEmployee inserts a company (when new) and one active employee, and
// returns the employee id.
func (s *TestDatabaseSetup) SeedEmployee(t *testing.T, companyID, code, name string) string {
	t.Helper()
	ctx := context.Background()

	_, err := s.DB.Exec(ctx, `INSERT INTO companies (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, companyID, "Acme")
	require.NoError(t, err)

	id := uuid.NewString()
	_, err = s.DB.Exec(ctx, `
		INSERT INTO employees (id, company_id, employee_code, full_name, hire_date)
		VALUES ($1, $2, $3, $4, '2024-01-01')
	`, id, companyID, code, name)
	require.NoError(t, err)
	return id
}
