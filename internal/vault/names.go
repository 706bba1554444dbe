package vault

import (
	"fmt"
	"strings"
)

// checkName rejects backup names that could escape the vault's namespace.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid backup name %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name %q: must not contain path separators", name)
	}
	return nil
}
