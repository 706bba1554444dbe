package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"seals-go/internal/render"
	"seals-go/internal/seals"
)

var armorHeader = []byte("-----BEGIN AGE ENCRYPTED FILE-----")

// backupName is the default object or file name for an export.
func backupName(format seals.Format, encrypt bool) string {
	name := seals.BackupFileName
	if format == seals.FormatYAML {
		name = strings.TrimSuffix(name, ".json") + ".yaml"
	}
	if encrypt {
		name += ".age"
	}
	return name
}

// formatFor picks the import format from a file name unless one was given.
func formatFor(name, flag string) (seals.Format, error) {
	if flag != "" {
		return seals.ParseFormat(flag)
	}
	switch strings.ToLower(filepath.Ext(strings.TrimSuffix(name, ".age"))) {
	case ".yaml", ".yml":
		return seals.FormatYAML, nil
	}
	return seals.FormatJSON, nil
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the seals as a backup",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		out, _ := cmd.Flags().GetString("out")
		toStdout, _ := cmd.Flags().GetBool("stdout")
		formatFlag, _ := cmd.Flags().GetString("format")
		encrypt, _ := cmd.Flags().GetBool("encrypt")
		vaultName, _ := cmd.Flags().GetString("vault")

		format, err := seals.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		a, err := newApp("Export")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		data, err := a.Export(format, encrypt)
		if err != nil {
			return err
		}

		switch {
		case toStdout:
			_, err := os.Stdout.Write(data)
			return err
		case cmd.Flags().Changed("vault"):
			name := filepath.Base(out)
			if out == "" {
				name = backupName(format, encrypt)
			}
			if err := a.PushBackup(vaultName, name, data); err != nil {
				return err
			}
			fmt.Printf("Pushed %s (%d bytes)\n", name, len(data))
		default:
			if out == "" {
				out = backupName(format, encrypt)
			}
			if err := os.WriteFile(out, data, 0600); err != nil {
				return fmt.Errorf("writing backup: %w", err)
			}
			fmt.Printf("Exported to %s\n", out)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [FILE]",
	Short: "Replace the seals with a backup",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		vaultName, _ := cmd.Flags().GetString("vault")
		name, _ := cmd.Flags().GetString("name")
		decrypt, _ := cmd.Flags().GetBool("decrypt")
		formatFlag, _ := cmd.Flags().GetString("format")

		fromVault := cmd.Flags().Changed("vault")
		if fromVault == (len(args) == 1) {
			return fmt.Errorf("give either a FILE or --vault")
		}

		a, err := newApp("Import")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		var data []byte
		if fromVault {
			if name == "" {
				name = seals.BackupFileName
			}
			data, err = a.FetchBackup(vaultName, name)
		} else {
			name = args[0]
			data, err = os.ReadFile(name)
		}
		if err != nil {
			a.Fail(name)
			return fmt.Errorf("reading backup: %w", err)
		}

		format, err := formatFor(name, formatFlag)
		if err != nil {
			return err
		}

		var passphrase string
		if decrypt || bytes.HasPrefix(data, armorHeader) {
			if passphrase, err = readPassphrase("Passphrase: "); err != nil {
				return err
			}
		}

		if err := a.Import(data, format, passphrase); err != nil {
			return err
		}
		doc := a.Document()
		fmt.Printf("Imported %d seal(s)\n", len(doc.Seals))
		return nil
	},
}

var resetAllCmd = &cobra.Command{
	Use:   "reset-all",
	Short: "Delete every seal and restore the defaults",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Print("This deletes all seals, triumphs, books and gilds. Type 'yes' to continue: ")
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.TrimSpace(line) != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		a, err := newApp("ResetAll")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		doc, err := a.ResetAll()
		if err != nil {
			return err
		}
		fmt.Printf("Reset to %d default seals\n", len(doc.Seals))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View the operation journal",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("GetHistory")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ops, err := a.History(limit)
		if err != nil {
			return err
		}
		fmt.Println(render.Operations(ops))
		return nil
	},
}

var backupsCmd = &cobra.Command{
	Use:   "backups [VAULT]",
	Short: "List backups stored in a vault",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("ListBackups")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		names, err := a.ListBackups(argOr(args, ""))
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No backups.")
			return nil
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output file (default "+seals.BackupFileName+")")
	exportCmd.Flags().Bool("stdout", false, "Write the backup to stdout")
	exportCmd.Flags().StringP("format", "f", string(seals.FormatJSON), "Format: json or yaml")
	exportCmd.Flags().Bool("encrypt", false, "Encrypt with the configured age key")
	exportCmd.Flags().String("vault", "", "Push to the named vault instead of a file (empty: first vault)")

	importCmd.Flags().String("vault", "", "Fetch the backup from the named vault (empty: first vault)")
	importCmd.Flags().String("name", "", "Backup name in the vault (default "+seals.BackupFileName+")")
	importCmd.Flags().Bool("decrypt", false, "Decrypt with the configured age key")
	importCmd.Flags().StringP("format", "f", "", "Format: json or yaml (default: from the file name)")

	resetAllCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetAllCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(backupsCmd)
}
