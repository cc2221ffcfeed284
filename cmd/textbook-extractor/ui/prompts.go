package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// PromptRequired asks until a non-empty answer is given.
func PromptRequired(message string) (string, error) {
	return promptRequired(bufio.NewReader(os.Stdin), os.Stdout, message)
}

func promptRequired(in *bufio.Reader, out io.Writer, message string) (string, error) {
	for {
		fmt.Fprintf(out, "%s: ", message)
		input, err := in.ReadString('\n')
		if trimmed := cleanPath(input); trimmed != "" {
			return trimmed, nil
		}
		if err != nil {
			return "", err
		}
		fmt.Fprintln(out, "⚠ A value is required")
	}
}

// cleanPath trims whitespace and the quotes a drag-and-drop terminal adds.
func cleanPath(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}
