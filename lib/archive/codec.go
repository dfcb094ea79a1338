// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies the compression applied to an archived session
// log. Both codecs write their standard frame format, so archives are
// readable with the matching command line tools.
type Codec uint8

const (
	// CodecZstd compresses with zstd at the default level. The better
	// ratio for JSONL text makes it the default.
	CodecZstd Codec = iota

	// CodecLZ4 compresses with LZ4 frames. Faster, lighter ratio.
	CodecLZ4
)

// String returns the codec's configuration name.
func (c Codec) String() string {
	switch c {
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCodec parses a codec from its configuration name.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "zstd":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	default:
		return 0, fmt.Errorf("unknown archive codec: %q", name)
	}
}

// Extension returns the file extension the codec appends to an
// archived log.
func (c Codec) Extension() string {
	switch c {
	case CodecLZ4:
		return ".lz4"
	default:
		return ".zst"
	}
}

// NewWriter wraps destination in a compressing writer. The writer
// must be closed to flush the final frame.
func (c Codec) NewWriter(destination io.Writer) (io.WriteCloser, error) {
	switch c {
	case CodecZstd:
		writer, err := zstd.NewWriter(destination, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		return writer, nil
	case CodecLZ4:
		return lz4.NewWriter(destination), nil
	default:
		return nil, fmt.Errorf("unsupported archive codec: %d", c)
	}
}

// NewReader wraps source in a decompressing reader.
func (c Codec) NewReader(source io.Reader) (io.ReadCloser, error) {
	switch c {
	case CodecZstd:
		reader, err := zstd.NewReader(source)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return reader.IOReadCloser(), nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(source)), nil
	default:
		return nil, fmt.Errorf("unsupported archive codec: %d", c)
	}
}
