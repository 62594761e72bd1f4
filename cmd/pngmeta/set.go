package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	pngmeta_config "github.com/Jdcabreradev/pngmeta/config"
	"github.com/Jdcabreradev/pngmeta/imagefile"
	pnglog "github.com/Jdcabreradev/pngmeta/logger"
	"github.com/Jdcabreradev/pngmeta/png"
)

func runSet(args []string, stdout, stderr io.Writer) error {
	var (
		configPath string
		keyword    string
		value      string
		output     string
		suffix     string
		logMode    string
		logDir     string
		maxSize    int64
		verify     bool
	)

	flagSet := pflag.NewFlagSet("pngmeta set", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&configPath, "config", "", "YAML config file (flags override it)")
	flagSet.StringVarP(&keyword, "keyword", "k", "", "tEXt keyword to insert")
	flagSet.StringVarP(&value, "value", "v", "", "text stored under the keyword")
	flagSet.StringVarP(&output, "output", "o", "", "output path (default: INPUT with --suffix)")
	flagSet.StringVar(&suffix, "suffix", "", "suffix added to the input name when --output is not set")
	flagSet.StringVar(&logMode, "log-mode", "", "dev, release, verbose or hidden")
	flagSet.StringVar(&logDir, "log-dir", "", "directory for log files")
	flagSet.Int64Var(&maxSize, "max-size", 0, "largest accepted input in bytes")
	flagSet.BoolVar(&verify, "verify", true, "re-walk the output and check every chunk checksum")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("set: expected exactly one INPUT, got %d", flagSet.NArg())
	}
	input := flagSet.Arg(0)

	cfg, err := pngmeta_config.LoadFile(configPath)
	if err != nil {
		return err
	}
	if flagSet.Changed("keyword") {
		cfg.Keyword = keyword
	}
	if flagSet.Changed("value") {
		cfg.Value = value
	}
	if flagSet.Changed("output") {
		cfg.Output = output
	}
	if flagSet.Changed("suffix") {
		cfg.OutputSuffix = suffix
	}
	if flagSet.Changed("log-mode") {
		cfg.LogModeName = logMode
	}
	if flagSet.Changed("log-dir") {
		cfg.LogDir = logDir
	}
	if flagSet.Changed("max-size") {
		cfg.MaxInputSize = maxSize
	}
	if flagSet.Changed("verify") {
		cfg.Verify = verify
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := pnglog.NewLogger(pnglog.Options{
		Dir:     cfg.LogDir,
		Mode:    cfg.LogMode,
		Console: stderr,
		Tag:     uuid.NewString()[:8],
	})
	if err != nil {
		return err
	}

	outPath, err := setText(cfg, input, logger)
	if err != nil {
		logger.Logf("Rewrite", pnglog.ERROR, "%s: %v", input, err)
		return joinClose(logger, err)
	}

	fmt.Fprintln(stdout, outPath)
	return joinClose(logger, nil)
}

// joinClose closes the log and folds a flush or close failure into err.
func joinClose(log io.Closer, err error) error {
	if closeErr := log.Close(); closeErr != nil {
		return errors.Join(err, fmt.Errorf("closing log: %w", closeErr))
	}
	return err
}

// setText loads input, inserts the configured text chunk and saves the
// result. It returns the path written.
func setText(cfg *pngmeta_config.RewriteConfig, input string, logger *pnglog.Logger) (string, error) {
	rewriter, err := png.NewRewriter(cfg.Keyword)
	if err != nil {
		return "", err
	}

	img, err := imagefile.Load(input, cfg.MaxInputSize)
	if err != nil {
		return "", err
	}
	defer img.Close()
	logger.Logf("Loader", pnglog.DEBUG, "read %s (%d bytes, blake3 %s)", input, len(img.Data), imagefile.Digest(img.Data))

	out, err := rewriter.Rewrite(img.Data, cfg.Value)
	if err != nil {
		return "", fmt.Errorf("rewriting %s: %w", input, err)
	}

	if cfg.Verify {
		if err := verifyOutput(out, rewriter.Keyword(), cfg.Value); err != nil {
			return "", err
		}
		logger.Log("Rewrite", pnglog.DEBUG, "output verified")
	}

	outPath := cfg.Output
	if outPath == "" {
		outPath = imagefile.DerivedPath(input, cfg.OutputSuffix)
	}
	if err := imagefile.WriteAtomic(outPath, out, 0644); err != nil {
		return "", err
	}

	logger.Logf("Rewrite", pnglog.INFO, "wrote %s (%d bytes, %s=%q, blake3 %s)",
		outPath, len(out), rewriter.Keyword(), cfg.Value, imagefile.Digest(out))
	return outPath, nil
}

// verifyOutput walks the rewritten container with checksum verification and
// confirms the inserted chunk sits right before IEND.
func verifyOutput(out []byte, keyword, value string) error {
	chunks, err := png.DecodeChunks(out, true)
	if err != nil {
		return fmt.Errorf("verifying output: %w", err)
	}
	if len(chunks) < 2 || chunks[len(chunks)-2].Type != png.ChunkTEXT {
		return fmt.Errorf("verifying output: tEXt chunk is not before IEND")
	}

	entry, err := png.DecodeText(chunks[len(chunks)-2].Data)
	if err != nil {
		return fmt.Errorf("verifying output: %w", err)
	}
	if entry.Keyword != keyword || entry.Value != value {
		return fmt.Errorf("verifying output: inserted %q=%q, want %q=%q", entry.Keyword, entry.Value, keyword, value)
	}
	return nil
}
