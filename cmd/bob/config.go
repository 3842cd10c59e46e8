package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/bobject/codec"
)

// loadConfig reads codec options from a YAML file. Missing fields keep
// their defaults; unknown fields are an error.
func loadConfig(path string) (codec.Options, error) {
	opts := codec.DefaultOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read config: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (codec.Options, error) {
	opts := codec.DefaultOptions()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return opts, fmt.Errorf("parse config: %w", err)
	}
	return opts, nil
}
