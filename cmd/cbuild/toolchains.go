// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nchess/cbuild/internal/config"
	"github.com/nchess/cbuild/internal/detect"
	"github.com/nchess/cbuild/pkg/toolchain"
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
)

// toolchainInfo is the serialized form of one registry profile.
type toolchainInfo struct {
	ID           string   `yaml:"id"`
	Compiler     string   `yaml:"compiler"`
	Archiver     string   `yaml:"archiver"`
	Family       string   `yaml:"family"`
	BaseFlags    []string `yaml:"base_flags"`
	DebugFlags   []string `yaml:"debug_flags"`
	ReleaseFlags []string `yaml:"release_flags"`
	ArchiveFlags []string `yaml:"archive_flags,omitempty"`
	Available    bool     `yaml:"available"`
}

func newToolchainsCommand(app *App, flags *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "toolchains",
		Short: "List supported toolchains and whether they are on PATH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputTable && output != outputYAML {
				return fmt.Errorf("unknown output format %q (want %s or %s)", output, outputTable, outputYAML)
			}

			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return app.fail(err, flags.verbose, config.ColorSchemeAuto)
			}
			logger := newLogger(app.stderr, flags.verbose)
			det, err := app.detector(cfg, app.runner(logger), logger)
			if err != nil {
				return app.fail(err, flags.verbose, cfg.UI.ColorScheme)
			}

			infos := toolchainInfos(toolchain.DefaultRegistry(), det)
			if output == outputYAML {
				return writeToolchainsYAML(app.stdout, infos)
			}
			writeToolchainsTable(app.stdout, infos)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table|yaml)")
	return cmd
}

func toolchainInfos(reg *toolchain.Registry, det *detect.Detector) []toolchainInfo {
	available := det.Available()
	infos := make([]toolchainInfo, 0, reg.Len())
	for _, p := range reg.Profiles() {
		family := "posix"
		if p.Family().Kind() == toolchain.FamilyMSVC {
			family = "msvc"
		}
		infos = append(infos, toolchainInfo{
			ID:           p.ID().String(),
			Compiler:     p.Compiler(),
			Archiver:     p.Archiver(),
			Family:       family,
			BaseFlags:    p.BaseFlags(),
			DebugFlags:   p.DebugFlags(),
			ReleaseFlags: p.ReleaseFlags(),
			ArchiveFlags: p.ArchiveFlags(),
			Available:    available[p.ID()],
		})
	}
	return infos
}

func writeToolchainsYAML(w io.Writer, infos []toolchainInfo) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]toolchainInfo{"toolchains": infos}); err != nil {
		return fmt.Errorf("encode toolchains: %w", err)
	}
	return enc.Close()
}

func writeToolchainsTable(w io.Writer, infos []toolchainInfo) {
	headers := []string{"ID", "COMPILER", "ARCHIVER", "RELEASE FLAGS", "STATUS"}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		status := "missing"
		if info.Available {
			status = "available"
		}
		rows = append(rows, []string{
			info.ID,
			info.Compiler,
			info.Archiver,
			strings.Join(slices.Concat(info.BaseFlags, info.ReleaseFlags), " "),
			status,
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var sb strings.Builder
	for i, h := range headers {
		sb.WriteString(tableHeaderStyle.Width(widths[i] + 2).Render(h))
	}
	sb.WriteString("\n")
	for _, row := range rows {
		for i, cell := range row {
			style := tableCellStyle
			switch {
			case i == 0:
				style = style.Inherit(CmdStyle)
			case i == len(row)-1 && cell == "available":
				style = style.Inherit(SuccessStyle)
			case i == len(row)-1:
				style = style.Inherit(SubtitleStyle)
			}
			sb.WriteString(style.Width(widths[i] + 2).Render(cell))
		}
		sb.WriteString("\n")
	}
	fmt.Fprint(w, sb.String())
}
