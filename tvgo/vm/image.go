package vm

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ethereum-optimism/optimism/op-service/ioutil"
	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
)

type ImageFormat string

const (
	ImageFormatAuto ImageFormat = "auto"
	ImageFormatRaw  ImageFormat = "raw"
	ImageFormatHex  ImageFormat = "hex"
)

func ParseImageFormat(s string) (ImageFormat, error) {
	switch f := ImageFormat(s); f {
	case ImageFormatAuto, ImageFormatRaw, ImageFormatHex:
		return f, nil
	case "":
		return ImageFormatAuto, nil
	default:
		return "", fmt.Errorf("unknown image format %q", s)
	}
}

// ParseHexListing reads whitespace separated hex byte values. Everything
// after a '#' up to the end of the line is a comment:
//
//	50 48  # MVI b <- 0x48
//	C2     # ADD a <- b
func ParseHexListing(r io.Reader) ([]byte, error) {
	var out []byte
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, tok := range strings.Fields(line) {
			if len(tok) > 2 {
				return nil, fmt.Errorf("line %d: %q is not a single byte", lineNum, tok)
			}
			v, err := strconv.ParseUint(tok, 16, 8)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid hex byte %q: %w", lineNum, tok, err)
			}
			out = append(out, byte(v))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hex listing: %w", err)
	}
	return out, nil
}

// LoadImage reads a memory image from path. Files ending in .gz are
// decompressed first. Auto format treats .hex and .txt files as listings.
func LoadImage(path string, format ImageFormat) ([]byte, error) {
	f, err := ioutil.OpenDecompressed(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %q: %w", path, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %q: %w", path, err)
	}
	name := strings.TrimSuffix(path, ".gz")
	if format == ImageFormatAuto {
		format = ImageFormatRaw
		if strings.HasSuffix(name, ".hex") || strings.HasSuffix(name, ".txt") {
			format = ImageFormatHex
		}
	}
	switch format {
	case ImageFormatRaw:
		return data, nil
	case ImageFormatHex:
		image, err := ParseHexListing(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("invalid hex listing %q: %w", path, err)
		}
		return image, nil
	default:
		return nil, fmt.Errorf("unknown image format %q", format)
	}
}

func LoadVMStateFromImage(path string, format ImageFormat) (*VMState, error) {
	image, err := LoadImage(path, format)
	if err != nil {
		return nil, err
	}
	state, err := NewVMState(image)
	if err != nil {
		return nil, fmt.Errorf("invalid image %q: %w", path, err)
	}
	return state, nil
}

func LoadVMStateFromFile(path string) (*VMState, error) {
	state, err := jsonutil.LoadJSON[VMState](path)
	if err != nil {
		return nil, err
	}
	if state.Memory == nil || state.Memory.Size() == 0 {
		return nil, fmt.Errorf("state %q: %w", path, ErrEmptyImage)
	}
	return state, nil
}
