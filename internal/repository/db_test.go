package repository

import (
	"testing"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{in: "mysql", want: MySQL},
		{in: "POSTGRES", want: Postgres},
		{in: "sqlite", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseDialect(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDialect(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseDialect(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestRebind(t *testing.T) {
	q := `UPDATE users SET password_hash = ? WHERE id = ?`

	if got := MySQL.rebind(q); got != q {
		t.Errorf("MySQL.rebind() = %q, want query unchanged", got)
	}
	if got, want := Postgres.rebind(q), `UPDATE users SET password_hash = $1 WHERE id = $2`; got != want {
		t.Errorf("Postgres.rebind() = %q, want %q", got, want)
	}
}

func TestDriverName(t *testing.T) {
	if MySQL.driverName() != "mysql" {
		t.Errorf("MySQL.driverName() = %q", MySQL.driverName())
	}
	if Postgres.driverName() != "pgx" {
		t.Errorf("Postgres.driverName() = %q", Postgres.driverName())
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	for _, dir := range []string{"migrations/mysql", "migrations/postgres"} {
		entries, err := migrations.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir(%q) error: %v", dir, err)
		}
		if len(entries) == 0 {
			t.Errorf("no migrations embedded under %s", dir)
		}
	}
}
