package vault

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemoryVault_PutAndGetBackup(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	tests := []struct {
		name    string
		backup  string
		content string
	}{
		{name: "store and retrieve backup", backup: "reading-seals-backup.json", content: `{"seals":[]}`},
		{name: "store empty backup", backup: "empty.json", content: ""},
		{name: "store large backup", backup: "large.json", content: strings.Repeat("x", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := vault.PutBackup(tt.backup, strings.NewReader(tt.content), int64(len(tt.content))); err != nil {
				t.Fatalf("PutBackup() error = %v", err)
			}

			var buf bytes.Buffer
			if err := vault.GetBackup(tt.backup, &buf); err != nil {
				t.Fatalf("GetBackup() error = %v", err)
			}
			if got := buf.String(); got != tt.content {
				t.Errorf("GetBackup() = %q, want %q", got, tt.content)
			}
		})
	}
}

func TestMemoryVault_PutBackup_Overwrites(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	vault.PutBackup("b.json", strings.NewReader("old"), 3)
	if err := vault.PutBackup("b.json", strings.NewReader("newer"), 5); err != nil {
		t.Fatalf("PutBackup() error = %v", err)
	}

	var buf bytes.Buffer
	vault.GetBackup("b.json", &buf)
	if buf.String() != "newer" {
		t.Errorf("GetBackup() = %q, want %q", buf.String(), "newer")
	}
}

func TestMemoryVault_PutBackup_SizeMismatch(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	err := vault.PutBackup("b.json", strings.NewReader("hello"), 100)
	if err == nil {
		t.Fatal("PutBackup() expected size mismatch error")
	}
	if names, _ := vault.ListBackups(); len(names) != 0 {
		t.Errorf("ListBackups() = %v, want none after failed put", names)
	}
}

func TestMemoryVault_PutBackup_InvalidName(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	for _, name := range []string{"", "..", "a/b", `a\b`} {
		if err := vault.PutBackup(name, strings.NewReader("x"), 1); err == nil {
			t.Errorf("PutBackup(%q) expected error", name)
		}
	}
}

func TestMemoryVault_GetBackup_NotFound(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	var buf bytes.Buffer
	err := vault.GetBackup("missing.json", &buf)
	if err == nil {
		t.Fatal("GetBackup() expected error for missing backup")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("GetBackup() error = %v, want not found", err)
	}
}

func TestMemoryVault_ListBackups(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	names, err := vault.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("ListBackups() = %v, want empty", names)
	}

	for _, n := range []string{"c.json", "a.json", "b.json"} {
		vault.PutBackup(n, strings.NewReader("{}"), 2)
	}

	names, _ = vault.ListBackups()
	want := []string{"a.json", "b.json", "c.json"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("ListBackups() = %v, want %v", names, want)
	}
}

func TestMemoryVault_ValidateSetup(t *testing.T) {
	if err := NewMemoryVault("test-vault").ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}
}
