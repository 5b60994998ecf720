// Package mtx reads graphs from the Matrix Market coordinate format.
package mtx

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-labelrank/pkg/graph"
)

// Common sentinel errors
var (
	ErrBadHeader   = errors.New("malformed MatrixMarket header")
	ErrUnsupported = errors.New("unsupported MatrixMarket variant")
)

// ParseError reports a parse failure with its line number.
type ParseError struct {
	Line  int
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("mtx line %d: %v", e.Line, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// header is the parsed banner line.
type header struct {
	field    string // real, double, integer, pattern
	symmetry string // general, symmetric
}

// ReadFile reads a Matrix Market file into a directed graph.
func ReadFile(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses Matrix Market coordinate data into a directed graph.
// Entries become edges (row-1, col-1, weight); pattern matrices get
// weight 1, symmetric matrices also get the mirrored edge. The vertex
// span is taken from the size line, so isolated trailing vertices are
// preserved.
func Read(r io.Reader) (*graph.Graph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	line := 0

	hdr, err := readHeader(scanner, &line)
	if err != nil {
		return nil, err
	}

	rows, cols, entries, err := readSizes(scanner, &line)
	if err != nil {
		return nil, err
	}

	span := rows
	if cols > span {
		span = cols
	}
	g := graph.New(graph.Key(span))

	read := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}
		u, v, w, err := parseEntry(text, hdr.field)
		if err != nil {
			return nil, &ParseError{Line: line, Cause: err}
		}
		if u < 1 || u > rows || v < 1 || v > cols {
			return nil, &ParseError{Line: line, Cause: fmt.Errorf("entry (%d, %d) outside %dx%d matrix", u, v, rows, cols)}
		}
		g.AddEdge(graph.Key(u-1), graph.Key(v-1), w)
		if hdr.symmetry == "symmetric" && u != v {
			g.AddEdge(graph.Key(v-1), graph.Key(u-1), w)
		}
		read++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if read != entries {
		return nil, fmt.Errorf("mtx: expected %d entries, found %d", entries, read)
	}
	return g, nil
}

// readHeader parses the %%MatrixMarket banner.
func readHeader(scanner *bufio.Scanner, line *int) (header, error) {
	if !scanner.Scan() {
		return header{}, ErrBadHeader
	}
	*line++
	fields := strings.Fields(strings.ToLower(scanner.Text()))
	if len(fields) != 5 || fields[0] != "%%matrixmarket" {
		return header{}, ErrBadHeader
	}
	if fields[1] != "matrix" || fields[2] != "coordinate" {
		return header{}, fmt.Errorf("%w: %s %s", ErrUnsupported, fields[1], fields[2])
	}
	switch fields[3] {
	case "real", "double", "integer", "pattern":
	default:
		return header{}, fmt.Errorf("%w: field %s", ErrUnsupported, fields[3])
	}
	switch fields[4] {
	case "general", "symmetric":
	default:
		return header{}, fmt.Errorf("%w: symmetry %s", ErrUnsupported, fields[4])
	}
	return header{field: fields[3], symmetry: fields[4]}, nil
}

// readSizes parses the "rows cols entries" line, skipping comments.
func readSizes(scanner *bufio.Scanner, line *int) (rows, cols, entries int, err error) {
	for scanner.Scan() {
		*line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return 0, 0, 0, &ParseError{Line: *line, Cause: errors.New("size line must have three fields")}
		}
		nums := make([]int, 3)
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil || n < 0 {
				return 0, 0, 0, &ParseError{Line: *line, Cause: fmt.Errorf("bad size value %q", f)}
			}
			nums[i] = n
		}
		return nums[0], nums[1], nums[2], nil
	}
	return 0, 0, 0, io.ErrUnexpectedEOF
}

// parseEntry parses one coordinate line into a 0-based edge.
func parseEntry(text, field string) (u, v int, w graph.Weight, err error) {
	fields := strings.Fields(text)
	wantWeight := field != "pattern"
	if wantWeight && len(fields) != 3 || !wantWeight && len(fields) != 2 {
		return 0, 0, 0, fmt.Errorf("entry has %d fields", len(fields))
	}
	if u, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("bad row index %q", fields[0])
	}
	if v, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("bad column index %q", fields[1])
	}
	w = 1
	if wantWeight {
		if w, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return 0, 0, 0, fmt.Errorf("bad weight %q", fields[2])
		}
	}
	return u, v, w, nil
}
