package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aqarlink/aqarlink-backend/pkg/migrate"
)

func TestAppointmentsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_appointments.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS appointments",
		"CHECK (start_time < end_time)",
		"CREATE TABLE IF NOT EXISTS agent_appointment_requests",
		"UNIQUE (appointment_id, agent_user_id)",
		"DROP TABLE IF EXISTS agent_appointment_requests",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestWalletMigrationContainsLedgerGuards(t *testing.T) {
	content := readMigration(t, "*_create_wallet_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS wallet_transactions",
		"ux_agent_earnings_request_id",
		"balance_before numeric(12,2) NOT NULL",
		"balance_after numeric(12,2) NOT NULL",
		"CHECK (amount > 0)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
