package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apppkg "github.com/kk-code-lab/vdir/internal/app"
	"github.com/kk-code-lab/vdir/internal/config"
	"github.com/kk-code-lab/vdir/internal/logging"
	"github.com/kk-code-lab/vdir/internal/vfs"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "vdir",
	Short: "Virtual directory browser",
	Long:  "vdir is a terminal browser for a virtual folder tree with cut, paste and multi-select.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Logs go to a file so the operator channel never writes over the
	// terminal screen.
	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = filepath.Join(os.TempDir(), fmt.Sprintf("vdir_%d.log", os.Getpid()))
	}
	if err := logging.Init(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: logPath,
	}); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer func() {
		_ = logging.Sync()
	}()

	// Set UTF-8 as fallback encoding for maximum compatibility.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	snap, err := seedTree(cfg.UI.RootLabel)
	if err != nil {
		return fmt.Errorf("seeding tree: %w", err)
	}

	app, err := apppkg.NewApplication(cfg, snap, logging.L())
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		_ = app.Close()
	}()

	logging.L().Info("started", zap.String("log_path", logPath))
	app.Run()
	return nil
}

// seedTree builds the starting folder structure.
func seedTree(rootLabel string) (vfs.Snapshot, error) {
	if rootLabel == "" {
		rootLabel = "Home"
	}
	snap := vfs.NewSnapshot(rootLabel)
	root := snap.RootID()

	folders := make(map[string]vfs.ID)
	for _, name := range []string{"Documents", "Pictures", "Music"} {
		var id vfs.ID
		var err error
		snap, id, err = snap.CreateFolder(root, name)
		if err != nil {
			return snap, err
		}
		folders[name] = id
	}

	files := []struct {
		parent string
		name   string
		size   int64
	}{
		{"Documents", "notes.txt", 1204},
		{"Documents", "report.pdf", 48230},
		{"Pictures", "holiday.jpg", 2830411},
		{"Pictures", "cat.png", 92013},
		{"Music", "track01.mp3", 5124990},
	}
	for _, f := range files {
		var err error
		snap, _, err = snap.CreateFile(folders[f.parent], f.name, f.size)
		if err != nil {
			return snap, err
		}
	}

	snap, _, err := snap.CreateFile(root, "readme.md", 512)
	return snap, err
}
