package app

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"seals-go/internal/config"
	"seals-go/internal/database"
	"seals-go/internal/encryption"
	"seals-go/internal/seals"
	"seals-go/internal/vault"
)

// Options tunes how a SealsApp is built.
type Options struct {
	// Verbose mirrors the log to stderr.
	Verbose bool

	// Clock and IDs replace the real clock and UUID ids when set.
	Clock seals.Clock
	IDs   seals.IDGenerator
}

// SealsApp is the application layer between the CLI and the seal store.
// It constructs all dependencies from config, resolves seal references typed
// by the user, journals the operation and manages the DB lifecycle on Close.
type SealsApp struct {
	cfg       *config.Config
	db        *database.SQLiteDatabase
	gateway   *seals.Gateway
	store     *seals.Store
	backups   *seals.Backups
	encryptor seals.Encryptor
	clock     seals.Clock
	logger    seals.Logger
	op        *Operation
	logFile   *os.File
}

// NewSealsApp creates a fully wired SealsApp from the given config.
// operation identifies the CLI command being run (e.g. "ToggleTriumph", "Gild").
// The caller must call Close when done.
func NewSealsApp(cfg *config.Config, operation string, opts Options) (*SealsApp, error) {
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID, opts.Verbose)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	clock := opts.Clock
	if clock == nil {
		clock = seals.RealClock{}
	}
	ids := opts.IDs
	if ids == nil {
		ids = seals.UUIDGenerator{}
	}

	gw := seals.NewGateway(db, cfg.Database.StorageKey, logger)
	store := seals.NewStore(gw, clock, ids, logger, seals.StoreOptions{
		GildRequiresComplete: cfg.Gilding.RequireComplete,
	})

	return &SealsApp{
		cfg:       cfg,
		db:        db,
		gateway:   gw,
		store:     store,
		backups:   seals.NewBackups(gw, store, enc, logger),
		encryptor: enc,
		clock:     clock,
		logger:    logger,
		op:        NewOperation(operation, ""),
		logFile:   logFile,
	}, nil
}

// persistOperation saves the operation to the journal, giving it an
// auto-increment ID. Only commands that may change the seals call it.
func (a *SealsApp) persistOperation(params ...string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = strings.Join(params, " ")
	dbOp, err := a.db.CreateOperation(a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// mutate journals the operation, then runs fn against the store.
func (a *SealsApp) mutate(fn func() bool, params ...string) (bool, error) {
	if err := a.persistOperation(params...); err != nil {
		return false, err
	}
	changed := fn()
	a.op.settle(changed, nil)
	return changed, nil
}

// Fail marks the current operation as failed, journaling it first if the
// command failed before reaching the store.
func (a *SealsApp) Fail(params ...string) {
	if err := a.persistOperation(params...); err != nil {
		a.logger.Warn("journaling failed operation", "error", err)
	}
	a.op.Status = StatusError
}

// Document returns the current document.
func (a *SealsApp) Document() seals.Document {
	return a.store.Snapshot()
}

// ResolveSeal finds a seal by id or, case-insensitively, by title. An empty
// ref selects the active seal.
func (a *SealsApp) ResolveSeal(ref string) (seals.Seal, error) {
	doc := a.store.Snapshot()
	ref = strings.TrimSpace(ref)
	if ref == "" {
		s, ok := doc.Active()
		if !ok {
			return seals.Seal{}, fmt.Errorf("there are no seals")
		}
		return s, nil
	}
	if s, ok := doc.Find(ref); ok {
		return s, nil
	}
	for _, s := range doc.Seals {
		if strings.EqualFold(s.Title, ref) {
			return s, nil
		}
	}
	return seals.Seal{}, fmt.Errorf("no seal matches %q", ref)
}

// Search filters the seals by a free-text query.
func (a *SealsApp) Search(query string) []seals.Seal {
	return a.store.Search(query)
}

// CurrentYear is the year key new gilds are counted under.
func (a *SealsApp) CurrentYear() string {
	return seals.CurrentYear(a.clock)
}

// SetActive selects a seal.
func (a *SealsApp) SetActive(sealRef string) (bool, error) {
	s, err := a.ResolveSeal(sealRef)
	if err != nil {
		return false, err
	}
	return a.mutate(func() bool { return a.store.SetActive(s.ID) }, s.ID)
}

// CreateSeal adds a new seal and makes it active.
func (a *SealsApp) CreateSeal(title, theme, flavor, palette string) (bool, error) {
	return a.mutate(func() bool { return a.store.CreateSeal(title, theme, flavor, palette) }, title)
}

// DeleteSeal removes a seal.
func (a *SealsApp) DeleteSeal(sealRef string) (bool, error) {
	s, err := a.ResolveSeal(sealRef)
	if err != nil {
		return false, err
	}
	return a.mutate(func() bool { return a.store.DeleteSeal(s.ID) }, s.ID)
}

// AddTriumph appends a triumph to a seal.
func (a *SealsApp) AddTriumph(sealRef, text string, tier seals.Tier) (bool, error) {
	s, err := a.ResolveSeal(sealRef)
	if err != nil {
		return false, err
	}
	return a.mutate(func() bool { return a.store.AddTriumph(s.ID, text, tier) }, s.ID, string(tier))
}

// ToggleTriumph flips a triumph.
func (a *SealsApp) ToggleTriumph(sealRef, triumphID string) (bool, error) {
	s, err := a.ResolveSeal(sealRef)
	if err != nil {
		return false, err
	}
	return a.mutate(func() bool { return a.store.ToggleTriumph(s.ID, triumphID) }, s.ID, triumphID)
}

// RemoveTriumph deletes a triumph.
func (a *SealsApp) RemoveTriumph(sealRef, triumphID string) (bool, error) {
	s, err := a.ResolveSeal(sealRef)
	if err != nil {
		return false, err
	}
	return a.mutate(func() bool { return a.store.RemoveTriumph(s.ID, triumphID) }, s.ID, triumphID)
}

// ResetTriumphs marks every triumph of a seal not done.
func (a *SealsApp) ResetTriumphs(sealRef string) (bool, error) {
	s, err := a.ResolveSeal(sealRef)
	if err != nil {
		return false, err
	}
	return a.mutate(func() bool { return a.store.ResetTriumphs(s.ID) }, s.ID)
}

// AddBook prepends a book to a seal.
func (a *SealsApp) AddBook(sealRef string, p seals.BookPayload) (bool, error) {
	s, err := a.ResolveSeal(sealRef)
	if err != nil {
		return false, err
	}
	return a.mutate(func() bool { return a.store.AddBook(s.ID, p) }, s.ID)
}

// ToggleBookFinished flips a book's finished flag.
func (a *SealsApp) ToggleBookFinished(sealRef, bookID string) (bool, error) {
	s, err := a.ResolveSeal(sealRef)
	if err != nil {
		return false, err
	}
	return a.mutate(func() bool { return a.store.ToggleBookFinished(s.ID, bookID) }, s.ID, bookID)
}

// RemoveBook deletes a book.
func (a *SealsApp) RemoveBook(sealRef, bookID string) (bool, error) {
	s, err := a.ResolveSeal(sealRef)
	if err != nil {
		return false, err
	}
	return a.mutate(func() bool { return a.store.RemoveBook(s.ID, bookID) }, s.ID, bookID)
}

// Gild records a gilding for the current year. When gilding requires
// completion, an incomplete seal is reported as an error.
func (a *SealsApp) Gild(sealRef, note string) (bool, error) {
	s, err := a.ResolveSeal(sealRef)
	if err != nil {
		return false, err
	}
	if a.cfg.Gilding.RequireComplete && !seals.CanGild(s) {
		c := seals.Complete(s)
		return false, fmt.Errorf("%s is not fully complete (%d/%d triumphs done)", s.Title, c.Done, c.Total)
	}
	return a.mutate(func() bool { return a.store.Gild(s.ID, note) }, s.ID)
}

// ResetAll discards every seal and restores the default document.
func (a *SealsApp) ResetAll() (seals.Document, error) {
	var doc seals.Document
	_, err := a.mutate(func() bool {
		doc = a.store.ResetAll()
		return true
	})
	return doc, err
}

// InitKeys generates the key pair used for encrypted backups.
func (a *SealsApp) InitKeys(passphrase string) error {
	if err := a.encryptor.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up encryption keys: %w", err)
	}
	return nil
}

// EncryptionConfigured reports whether encrypted backups can be made.
func (a *SealsApp) EncryptionConfigured() bool {
	return a.encryptor.IsConfigured()
}

// Export renders the persisted document as a backup.
func (a *SealsApp) Export(format seals.Format, encrypt bool) ([]byte, error) {
	if encrypt && !a.encryptor.IsConfigured() {
		return nil, fmt.Errorf("encryption keys not found: run `seals keys init` first")
	}
	return a.backups.Export(format, encrypt)
}

// Import replaces the document with a backup. When passphrase is non-empty
// the backup is decrypted first.
func (a *SealsApp) Import(data []byte, format seals.Format, passphrase string) error {
	if err := a.persistOperation(string(format)); err != nil {
		return err
	}

	var dec seals.DecryptionContext
	if passphrase != "" {
		ctx, err := a.encryptor.Unlock(passphrase)
		if err != nil {
			a.op.settle(false, err)
			return fmt.Errorf("unlocking private key: %w", err)
		}
		dec = ctx
	}

	err := a.backups.Import(data, format, dec)
	a.op.settle(err == nil, err)
	return err
}

// PushBackup stores data in the named vault (empty name: first vault).
func (a *SealsApp) PushBackup(vaultName, name string, data []byte) error {
	vc, err := a.cfg.Vault(vaultName)
	if err != nil {
		return err
	}
	return a.push(vc, name, data)
}

func (a *SealsApp) push(vc config.VaultConfig, name string, data []byte) error {
	v, err := newValidatedVault(vc)
	if err != nil {
		return err
	}
	if err := v.PutBackup(name, bytes.NewReader(data), int64(len(data))); err != nil {
		return fmt.Errorf("pushing backup to vault %s: %w", vc.Name, err)
	}
	a.logger.Info("pushed backup", "vault", vc.Name, "name", name, "bytes", len(data))
	return nil
}

// FetchBackup reads a backup from the named vault.
func (a *SealsApp) FetchBackup(vaultName, name string) ([]byte, error) {
	v, err := a.openVault(vaultName)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := v.GetBackup(name, &buf); err != nil {
		return nil, fmt.Errorf("fetching backup from vault: %w", err)
	}
	return buf.Bytes(), nil
}

// ListBackups lists the backups stored in the named vault.
func (a *SealsApp) ListBackups(vaultName string) ([]string, error) {
	v, err := a.openVault(vaultName)
	if err != nil {
		return nil, err
	}
	return v.ListBackups()
}

func (a *SealsApp) openVault(name string) (seals.Vault, error) {
	vc, err := a.cfg.Vault(name)
	if err != nil {
		return nil, err
	}
	return newValidatedVault(vc)
}

func newValidatedVault(vc config.VaultConfig) (seals.Vault, error) {
	v, err := vault.NewVaultFromConfig(vc)
	if err != nil {
		return nil, fmt.Errorf("creating vault %s: %w", vc.Name, err)
	}
	if err := v.ValidateSetup(); err != nil {
		return nil, fmt.Errorf("vault %s: %w", vc.Name, err)
	}
	return v, nil
}

// History returns the most recent journaled operations, newest first.
func (a *SealsApp) History(limit int) ([]*database.Operation, error) {
	return a.db.ListOperations(limit)
}

// Close finalizes the operation and closes all resources. After a command
// that changed the seals, a fresh export is pushed to every vault marked
// auto_backup; a failed push marks the operation as failed and is returned.
func (a *SealsApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if a.op.Status == StatusSuccess {
			if err := a.autoBackup(); err != nil {
				a.op.settle(false, err)
				firstErr = fmt.Errorf("auto backup: %w", err)
			}
		}
		if err := a.db.FinishOperation(a.op.ID, a.op.Status); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

func (a *SealsApp) autoBackup() error {
	var targets []config.VaultConfig
	for _, vc := range a.cfg.Vaults {
		if vc.AutoBackup {
			targets = append(targets, vc)
		}
	}
	if len(targets) == 0 {
		return nil
	}

	data, err := a.backups.Export(seals.FormatJSON, false)
	if err != nil {
		return fmt.Errorf("exporting for auto backup: %w", err)
	}
	for _, vc := range targets {
		if err := a.push(vc, seals.BackupFileName, data); err != nil {
			a.logger.Warn("auto backup failed", "vault", vc.Name, "error", err)
			return err
		}
	}
	return nil
}
