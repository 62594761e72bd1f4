package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/Jdcabreradev/pngmeta/imagefile"
	"github.com/Jdcabreradev/pngmeta/png"
)

type chunkReport struct {
	Type      string `yaml:"type"`
	Critical  bool   `yaml:"critical"`
	TypeValid bool   `yaml:"type_valid"`
	Offset    int    `yaml:"offset"`
	Length    uint32 `yaml:"length"`
	CRC       string `yaml:"crc"`
	CRCOffset int    `yaml:"crc_offset"`
	Valid     bool   `yaml:"valid"`
}

type inspectReport struct {
	File   string          `yaml:"file"`
	Size   int             `yaml:"size"`
	BLAKE3 string          `yaml:"blake3"`
	Chunks []chunkReport   `yaml:"chunks"`
	Text   []png.TextEntry `yaml:"text,omitempty"`
}

func runInspect(args []string, stdout, stderr io.Writer) error {
	var verify bool
	var maxSize int64

	flagSet := pflag.NewFlagSet("pngmeta inspect", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVar(&verify, "verify", false, "fail on the first chunk with a bad checksum")
	flagSet.Int64Var(&maxSize, "max-size", 0, "largest accepted input in bytes (0 for no limit)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("inspect: expected exactly one INPUT, got %d", flagSet.NArg())
	}

	img, err := imagefile.Load(flagSet.Arg(0), maxSize)
	if err != nil {
		return err
	}
	defer img.Close()

	report, err := buildReport(img, verify)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(stdout)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return encoder.Close()
}

func buildReport(img *imagefile.Image, verify bool) (*inspectReport, error) {
	chunks, err := png.DecodeChunks(img.Data, verify)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", img.Path, err)
	}

	report := &inspectReport{
		File:   img.Path,
		Size:   len(img.Data),
		BLAKE3: imagefile.Digest(img.Data),
		Text:   png.TextEntries(chunks),
	}
	for i := range chunks {
		c := &chunks[i]
		report.Chunks = append(report.Chunks, chunkReport{
			Type:      c.Type.String(),
			Critical:  c.Type.IsCritical(),
			TypeValid: c.Type.IsValid(),
			Offset:    c.Offset,
			Length:    c.Length,
			CRC:       fmt.Sprintf("%08X", c.CRC),
			CRCOffset: c.CRCOffset(),
			Valid:     c.Valid(),
		})
	}
	return report, nil
}
