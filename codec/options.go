package codec

import "github.com/wippyai/bobject/codec/internal/abi"

// Options bounds what a program accepts when encoding and decoding.
type Options struct {
	// MaxStringSize is the largest string or JSON text in bytes.
	MaxStringSize int `yaml:"max_string_size"`
	// MaxArrayLength is the largest element count of one array.
	MaxArrayLength int `yaml:"max_array_length"`
	// InitialBufferSize is the starting capacity of pooled writers.
	InitialBufferSize int `yaml:"initial_buffer_size"`
}

// DefaultOptions returns default codec configuration.
func DefaultOptions() Options {
	return Options{
		MaxStringSize:     abi.MaxStringSize,
		MaxArrayLength:    abi.MaxArrayLength,
		InitialBufferSize: 4096,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxStringSize <= 0 {
		o.MaxStringSize = d.MaxStringSize
	}
	if o.MaxArrayLength <= 0 {
		o.MaxArrayLength = d.MaxArrayLength
	}
	if o.InitialBufferSize <= 0 {
		o.InitialBufferSize = d.InitialBufferSize
	}
	return o
}
