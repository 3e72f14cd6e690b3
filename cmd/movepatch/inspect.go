package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	movepatcher "github.com/wippyai/move-patcher"
	"github.com/wippyai/move-patcher/bcs"
	"github.com/wippyai/move-patcher/engine"
)

var interactive bool

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mv>",
	Short: "Show the identifier table and constant pool of a module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if interactive {
			return runInteractive(cmd.Context(), args[0])
		}
		report, err := inspectFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		styled := term.IsTerminal(int(os.Stdout.Fd()))
		printReport(cmd.OutOrStdout(), report, styled)
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the tables in a terminal UI")
	rootCmd.AddCommand(inspectCmd)
}

// entry is one row of an inspection report.
type entry struct {
	typ   string
	value string
	index int
}

type report struct {
	file        string
	identifiers []entry
	constants   []entry
}

func inspectFile(ctx context.Context, path string) (*report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module: %w", err)
	}

	eng, err := engine.Load(ctx, engine.Options{WasmPath: engineWasm})
	if err != nil {
		return nil, err
	}
	defer eng.Close(ctx)

	return inspect(ctx, eng, path, movepatcher.ModuleBinary(data))
}

func inspect(ctx context.Context, eng movepatcher.Engine, path string, bin movepatcher.ModuleBinary) (*report, error) {
	ids, err := eng.ReadIdentifiers(ctx, bin)
	if err != nil {
		return nil, err
	}
	consts, err := eng.ReadConstants(ctx, bin)
	if err != nil {
		return nil, err
	}

	r := &report{file: path}
	for i, id := range ids {
		r.identifiers = append(r.identifiers, entry{index: i, value: id})
	}
	for i, c := range consts {
		r.constants = append(r.constants, entry{index: i, typ: c.Type, value: describeConstant(c)})
	}
	return r, nil
}

// describeConstant decodes constant data for display. Byte vectors are shown
// as text when they decode as UTF-8 and as hex otherwise. Types outside the
// descriptor grammar are shown as raw hex.
func describeConstant(c movepatcher.Constant) string {
	t, err := bcs.ParseType(c.Type)
	if err != nil {
		return "0x" + hex.EncodeToString(c.Data)
	}
	for _, text := range []bool{true, false} {
		codec, err := bcs.ResolveType(t, sampleFor(t, text))
		if err != nil {
			continue
		}
		if v, err := codec.Decode(c.Data); err == nil {
			return formatValue(v)
		}
	}
	return "0x" + hex.EncodeToString(c.Data)
}

// sampleFor builds a sample value that steers Vector(U8) resolution towards
// the text or byte codec at every nesting level.
func sampleFor(t bcs.Type, text bool) any {
	switch {
	case t.IsByteVector() && text:
		return ""
	case t.IsByteVector():
		return []byte{}
	case t.Kind == bcs.KindVector && t.Elem != nil:
		return []any{sampleFor(*t.Elem, text)}
	default:
		return nil
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		if strings.HasPrefix(x, "0x") && len(x) == 66 {
			return x
		}
		return strconv.Quote(x)
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case *big.Int:
		return x.String()
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(x)
	}
}

func printReport(w io.Writer, r *report, styled bool) {
	render := func(s lipgloss.Style, text string) string {
		if styled {
			return s.Render(text)
		}
		return text
	}

	fmt.Fprintf(w, "%s %s\n\n", render(headingStyle, "Identifiers"), r.file)
	for _, e := range r.identifiers {
		fmt.Fprintf(w, "  %s %s\n", render(indexStyle, fmt.Sprintf("%4d", e.index)), e.value)
	}

	fmt.Fprintf(w, "\n%s\n\n", render(headingStyle, "Constants"))
	for _, e := range r.constants {
		fmt.Fprintf(w, "  %s %s %s\n",
			render(indexStyle, fmt.Sprintf("%4d", e.index)),
			render(typeStyle, fmt.Sprintf("%-20s", e.typ)),
			render(valueStyle, e.value))
	}
}
