package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wippyai/bobject/schema"
)

// loadSchema reads a schema file. ROS1 .msg definitions need the root
// type name; YAML and JSON files define their own names.
func loadSchema(path, typeName string) (schema.Map, error) {
	if strings.EqualFold(filepath.Ext(path), ".msg") {
		if typeName == "" {
			return nil, fmt.Errorf("--type is required for ROS1 definitions")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read schema: %w", err)
		}
		return schema.ParseROS(typeName, string(data))
	}
	return schema.Load(path)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// readValues reads JSON values from r: either one JSON array, or any
// number of whitespace separated values (JSON lines).
func readValues(r io.Reader) ([]any, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()

	if first == '[' {
		var values []any
		if err := dec.Decode(&values); err != nil {
			return nil, fmt.Errorf("parse input: %w", err)
		}
		return values, nil
	}

	var values []any
	for {
		var v any
		err := dec.Decode(&v)
		if err == io.EOF {
			return values, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse input value %d: %w", len(values)+1, err)
		}
		values = append(values, v)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if b != ' ' && b != '\t' && b != '\n' && b != '\r' {
			return b, br.UnreadByte()
		}
	}
}

// readFrames splits r into uint32 little-endian length prefixed frames.
func readFrames(r io.Reader) ([][]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var frames [][]byte
	for len(data) > 0 {
		if len(data) < 4 {
			return nil, fmt.Errorf("frame %d: truncated length prefix", len(frames)+1)
		}
		n := int(binary.LittleEndian.Uint32(data))
		data = data[4:]
		if n > len(data) {
			return nil, fmt.Errorf("frame %d: %d bytes announced, %d left", len(frames)+1, n, len(data))
		}
		frames = append(frames, bytes.Clone(data[:n]))
		data = data[n:]
	}
	return frames, nil
}
