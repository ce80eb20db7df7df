package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/geoblob/format"
	"github.com/spf13/cobra"
)

// readInput reads path, or stdin when path is empty or "-". Text formats are trimmed.
func readInput(cmd *cobra.Command, path string, f format.ExchangeFormat) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if f.IsText() {
		data = bytes.TrimSpace(data)
	}

	return data, nil
}

// writeOutput writes data to path, or stdout when path is empty or "-". Text written to
// stdout gets a trailing newline.
func writeOutput(cmd *cobra.Command, path string, data []byte, text bool) error {
	if path != "" && path != "-" {
		if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	w := cmd.OutOrStdout()
	if _, err := w.Write(data); err != nil {
		return err
	}
	if text {
		_, err := io.WriteString(w, "\n")
		return err
	}

	return nil
}
