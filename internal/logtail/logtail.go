package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	return ReadMatching(path, maxLines, "")
}

// ReadMatching is Read restricted to lines containing needle. An empty
// needle matches every line.
func ReadMatching(path string, maxLines int, needle string) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	lines, err := tail(file, maxLines, needle)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return lines, nil
}

// tail keeps a window of the last max matching lines.
func tail(r io.Reader, max int, needle string) ([]string, error) {
	window := make([]string, 0, max)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if needle != "" && !strings.Contains(line, needle) {
			continue
		}
		if len(window) == max {
			copy(window, window[1:])
			window = window[:max-1]
		}
		window = append(window, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return window, nil
}
