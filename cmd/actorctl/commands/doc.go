package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
)

var docOut string

var docCmd = &cobra.Command{
	Use:   "doc <markdown-file>",
	Short: "Render a repository markdown document (e.g. DESIGN.md) to HTML",
	Args:  cobra.ExactArgs(1),
	RunE:  runDoc,
}

func init() {
	docCmd.Flags().StringVar(&docOut, "out", "", "write HTML to this file instead of stdout")
}

func runDoc(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return fmt.Errorf("render %s: %w", args[0], err)
	}

	if docOut == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(docOut, buf.Bytes(), 0o644)
}
