package collect

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformedInput marks an ID list that is unreadable or not all integers.
var ErrMalformedInput = errors.New("malformed id list")

// MalformedIDFileError rejects a whole ID list. Line is 1-based; 0 means
// the source could not be read at all.
type MalformedIDFileError struct {
	Line int
	Text string
	Err  error
}

func (e *MalformedIDFileError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("read id list: %v", e.Err)
	}
	return fmt.Sprintf("id list line %d: %q is not a post id", e.Line, e.Text)
}

func (e *MalformedIDFileError) Unwrap() error        { return e.Err }
func (e *MalformedIDFileError) Is(target error) bool { return target == ErrMalformedInput }

// ReadIDLines returns the trimmed, non-blank lines of r. A leading BOM is dropped.
func ReadIDLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(stripBOM(r))
	var out []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// ParseIDs parses one base-10 post ID per line. Any bad line rejects the
// whole list so a corrupt file is never half processed.
func ParseIDs(lines []string) ([]int64, error) {
	ids := make([]int64, 0, len(lines))
	for i, line := range lines {
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return nil, &MalformedIDFileError{Line: i + 1, Text: line, Err: err}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// LoadIDFile reads and parses the ID list at path.
func LoadIDFile(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &MalformedIDFileError{Err: err}
	}
	defer f.Close()
	lines, err := ReadIDLines(f)
	if err != nil {
		return nil, &MalformedIDFileError{Err: err}
	}
	return ParseIDs(lines)
}

// DedupeIDs keeps the first occurrence of every ID, in order.
func DedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		_ = br.UnreadRune()
	}
	return br
}
