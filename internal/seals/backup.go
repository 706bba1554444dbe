package seals

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// BackupFileName is the default name of an exported backup.
const BackupFileName = "reading-seals-backup.json"

// Format selects the serialisation of an exported backup.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("invalid format %q: must be json or yaml", s)
}

// Backups exports the persisted document and restores it from backups.
type Backups struct {
	gateway   *Gateway
	store     *Store
	encryptor Encryptor
	logger    Logger
}

// NewBackups creates a Backups. encryptor may be nil when encrypted
// backups are not configured.
func NewBackups(gateway *Gateway, store *Store, encryptor Encryptor, logger Logger) *Backups {
	return &Backups{gateway: gateway, store: store, encryptor: encryptor, logger: logger}
}

// Export renders exactly what is persisted: pretty-printed JSON (two-space
// indent) or YAML. Nothing persisted exports as an empty object.
func (b *Backups) Export(format Format, encrypt bool) ([]byte, error) {
	raw, err := b.gateway.Raw()
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	var out []byte
	switch format {
	case FormatYAML:
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decoding persisted document: %w", err)
		}
		out, err = yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
	default:
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("formatting persisted document: %w", err)
		}
		buf.WriteByte('\n')
		out = buf.Bytes()
	}

	if !encrypt {
		return out, nil
	}
	if b.encryptor == nil {
		return nil, fmt.Errorf("encryption is not configured")
	}
	var enc bytes.Buffer
	if err := b.encryptor.Encrypt(bytes.NewReader(out), &enc); err != nil {
		return nil, fmt.Errorf("encrypting backup: %w", err)
	}
	b.logger.Debug("encrypted backup", "plain_bytes", len(out), "encrypted_bytes", enc.Len())
	return enc.Bytes(), nil
}

// Import parses a backup and replaces the current document with it.
// JSON input may contain comments and trailing commas. When decrypt is
// non-nil the data is decrypted first. The current document is untouched if
// the backup cannot be used.
func (b *Backups) Import(data []byte, format Format, decrypt DecryptionContext) error {
	if decrypt != nil {
		var plain bytes.Buffer
		if err := decrypt.Decrypt(bytes.NewReader(data), &plain); err != nil {
			return fmt.Errorf("decrypting backup: %w", err)
		}
		data = plain.Bytes()
	}

	doc, err := parseBackup(data, format)
	if err != nil {
		return err
	}
	if err := b.store.Replace(*doc); err != nil {
		return fmt.Errorf("importing backup: %w", err)
	}
	return nil
}

func parseBackup(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parsing yaml backup: %w", err)
		}
		j, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("converting yaml backup: %w", err)
		}
		return DecodeDocument(j)
	default:
		return DecodeDocument(jsonc.ToJSON(data))
	}
}
