package vault

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileSystemVault(t *testing.T) {
	t.Run("creates directory structure", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "vault")

		v, err := NewFileSystemVault("test", root)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(root, "backups")); err != nil {
			t.Errorf("backups directory not created: %v", err)
		}
		if v.name != "test" {
			t.Errorf("name = %q, want %q", v.name, "test")
		}
	})

	t.Run("works with existing directory", func(t *testing.T) {
		if _, err := NewFileSystemVault("test", t.TempDir()); err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
	})
}

func TestFileSystemVault_PutBackup(t *testing.T) {
	tests := []struct {
		name    string
		backup  string
		data    string
		size    int64
		wantErr bool
	}{
		{name: "store backup successfully", backup: "reading-seals-backup.json", data: `{"seals":[]}`, size: 12},
		{name: "size mismatch", backup: "short.json", data: "hello", size: 100, wantErr: true},
		{name: "empty backup", backup: "empty.json", data: "", size: 0},
		{name: "path traversal", backup: "../escape.json", data: "x", size: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			v, err := NewFileSystemVault("test", root)
			if err != nil {
				t.Fatalf("NewFileSystemVault() error = %v", err)
			}

			err = v.PutBackup(tt.backup, strings.NewReader(tt.data), tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PutBackup() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				entries, _ := os.ReadDir(filepath.Join(root, "backups"))
				if len(entries) != 0 {
					t.Errorf("backups directory has %d entries after failed put, want 0", len(entries))
				}
				return
			}

			got, err := os.ReadFile(filepath.Join(root, "backups", tt.backup))
			if err != nil {
				t.Fatalf("reading stored backup: %v", err)
			}
			if string(got) != tt.data {
				t.Errorf("stored backup = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestFileSystemVault_GetBackup(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	t.Run("retrieves stored backup", func(t *testing.T) {
		data := `{"activeId":"seal_disciple"}`
		if err := v.PutBackup("b.json", strings.NewReader(data), int64(len(data))); err != nil {
			t.Fatalf("PutBackup() error = %v", err)
		}

		var buf bytes.Buffer
		if err := v.GetBackup("b.json", &buf); err != nil {
			t.Fatalf("GetBackup() error = %v", err)
		}
		if buf.String() != data {
			t.Errorf("GetBackup() = %q, want %q", buf.String(), data)
		}
	})

	t.Run("missing backup", func(t *testing.T) {
		var buf bytes.Buffer
		err := v.GetBackup("missing.json", &buf)
		if err == nil {
			t.Fatal("GetBackup() expected error for missing backup")
		}
		if !strings.Contains(err.Error(), "backup not found") {
			t.Errorf("GetBackup() error = %v, want backup not found", err)
		}
	})

	t.Run("overwrite replaces content", func(t *testing.T) {
		v.PutBackup("o.json", strings.NewReader("first"), 5)
		v.PutBackup("o.json", strings.NewReader("second"), 6)

		var buf bytes.Buffer
		v.GetBackup("o.json", &buf)
		if buf.String() != "second" {
			t.Errorf("GetBackup() = %q, want %q", buf.String(), "second")
		}
	})
}

func TestFileSystemVault_ListBackups(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	for _, n := range []string{"b.json", "a.json"} {
		v.PutBackup(n, strings.NewReader("{}"), 2)
	}
	// Leftover temp file from an interrupted write.
	os.WriteFile(filepath.Join(root, "backups", ".tmp-123"), []byte("x"), 0644)

	names, err := v.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if strings.Join(names, ",") != "a.json,b.json" {
		t.Errorf("ListBackups() = %v, want [a.json b.json]", names)
	}
}

func TestFileSystemVault_ValidateSetup(t *testing.T) {
	t.Run("valid vault", func(t *testing.T) {
		v, _ := NewFileSystemVault("test", t.TempDir())
		if err := v.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})

	t.Run("backups directory removed", func(t *testing.T) {
		root := t.TempDir()
		v, _ := NewFileSystemVault("test", root)
		os.RemoveAll(filepath.Join(root, "backups"))

		if err := v.ValidateSetup(); err == nil {
			t.Error("ValidateSetup() expected error for missing backups directory")
		}
	})
}
