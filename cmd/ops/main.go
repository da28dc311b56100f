package main

import (
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"todokeep/internal/config"
	"todokeep/internal/ops"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cmds := map[string]func([]string) error{
		"backup":  cmdBackup,
		"restore": cmdRestore,
		"drill":   cmdDrill,
	}
	run, ok := cmds[os.Args[1]]
	if !ok {
		printUsage()
		os.Exit(2)
	}
	if err := run(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

// storageFlags registers -config and -data-dir on fs. The returned func
// resolves them after fs.Parse.
func storageFlags(fs *flag.FlagSet) func() (config.StorageConfig, error) {
	cfgPath := fs.String("config", "todokeep.yml", "path to YAML config")
	dataDir := fs.String("data-dir", "", "data directory (overrides config)")
	return func() (config.StorageConfig, error) {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			return config.StorageConfig{}, err
		}
		if *dataDir != "" {
			cfg.Storage.DataDir = *dataDir
		}
		return cfg.Storage, nil
	}
}

func stamp() string {
	return time.Now().UTC().Format("20060102T150405Z")
}

func cmdBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	storage := storageFlags(fs)
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st, err := storage()
	if err != nil {
		return err
	}

	if *out == "" {
		*out = filepath.Join("backups", "todokeep-"+stamp()+".tar.gz")
	}
	if err := ops.BackupDataDir(st.DataDir, *out); err != nil {
		return err
	}
	fmt.Println(*out)
	return nil
}

func cmdRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "input backup archive (.tar.gz)")
	target := fs.String("target-dir", "data-restored", "restore target directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}
	return ops.RestoreDataDir(*archive, *target)
}

// cmdDrill backs up, restores into a scratch dir, and checks that the copy
// is byte-identical and still loads as a task list.
func cmdDrill(args []string) error {
	fs := flag.NewFlagSet("drill", flag.ContinueOnError)
	storage := storageFlags(fs)
	workDir := fs.String("work-dir", os.TempDir(), "scratch directory for drill artifacts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st, err := storage()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*workDir, 0o755); err != nil {
		return err
	}
	ts := stamp()
	archive := filepath.Join(*workDir, "todokeep-drill-"+ts+".tar.gz")
	restoreDir := filepath.Join(*workDir, "todokeep-drill-restore-"+ts)

	before, err := ops.CountTasks(st.Driver, st.DataDir, st.Key)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := ops.BackupDataDir(st.DataDir, archive); err != nil {
		return err
	}
	if err := ops.RestoreDataDir(archive, restoreDir); err != nil {
		return err
	}

	srcDigest, err := storeDigest(st.DataDir)
	if err != nil {
		return err
	}
	restoreDigest, err := storeDigest(restoreDir)
	if err != nil {
		return err
	}
	if srcDigest != restoreDigest {
		return fmt.Errorf("digest mismatch after restore: src=%s restored=%s", srcDigest, restoreDigest)
	}
	after, err := ops.CountTasks(st.Driver, restoreDir, st.Key)
	if err != nil {
		return fmt.Errorf("restored: %w", err)
	}
	if before != after {
		return fmt.Errorf("task count mismatch: src=%d restored=%d", before, after)
	}

	fmt.Println("backup:", archive)
	fmt.Println("restored:", restoreDir)
	fmt.Println("digest:", srcDigest)
	fmt.Println("tasks:", after)
	return nil
}

// storeDigest hashes every file under root except lock and temp files.
func storeDigest(root string) (string, error) {
	root = filepath.Clean(root)
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		switch filepath.Ext(rel) {
		case ".lock", ".tmp":
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(files)

	h := sha256.New()
	for _, rel := range files {
		_, _ = io.WriteString(h, rel+"\n")
		b, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			return "", err
		}
		_, _ = h.Write(b)
		_, _ = io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func printUsage() {
	fmt.Println("usage:")
	fmt.Println("  todokeep-ops backup  [-config todokeep.yml] [-data-dir data] [-out backups/todokeep.tar.gz]")
	fmt.Println("  todokeep-ops restore -archive backups/todokeep.tar.gz [-target-dir data-restored]")
	fmt.Println("  todokeep-ops drill   [-config todokeep.yml] [-data-dir data] [-work-dir /tmp]")
}
