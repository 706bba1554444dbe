package seals

import "io"

// Vault is a destination for document backups.
// All operations use io.Reader/io.Writer so backends can stream.
type Vault interface {
	// PutBackup stores a backup under name, replacing any previous one.
	// size is the number of bytes that will be read from r.
	PutBackup(name string, r io.Reader, size int64) error

	// GetBackup retrieves the named backup and writes it to w.
	GetBackup(name string, w io.Writer) error

	// ListBackups returns the stored backup names in lexical order.
	ListBackups() ([]string, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
