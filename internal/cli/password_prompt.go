package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errPromptUnavailable = errors.New("password prompt unavailable")

// promptNewPassword asks twice for a password with terminal echo disabled.
// An empty answer means the caller should generate one.
func promptNewPassword(stdin *os.File, out io.Writer) (string, error) {
	fmt.Fprint(out, "New password (empty to generate one): ")
	first, err := readHiddenLine(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errPromptUnavailable, err)
	}
	if strings.TrimSpace(first) == "" {
		return "", nil
	}

	fmt.Fprint(out, "Repeat password: ")
	second, err := readHiddenLine(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errPromptUnavailable, err)
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return strings.TrimSpace(first), nil
}

func readLine(reader io.Reader) (string, error) {
	line, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
