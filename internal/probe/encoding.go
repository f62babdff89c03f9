package probe

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// DetectEncoding returns the first candidate that decodes the head of the
// file without error. sampleBytes bounds how much is read; zero or less reads
// the whole file.
//
// utf-8 is validated strictly. Other names resolve through the IANA registry,
// then WHATWG labels, and a decode that produces replacement characters counts
// as a failure.
func DetectEncoding(path string, candidates []string, sampleBytes int64) (string, error) {
	sample, err := readSample(path, sampleBytes)
	if err != nil {
		return "", err
	}

	for _, name := range candidates {
		if decodes(name, sample) {
			return name, nil
		}
	}
	return "", &Error{Path: path, Stage: "encoding", Err: &EncodingError{Path: path, Tried: candidates}}
}

func readSample(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Path: path, Stage: "open", Err: ErrNotFound}
		}
		return nil, &Error{Path: path, Stage: "open", Err: err}
	}
	defer f.Close()

	if limit <= 0 {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, &Error{Path: path, Stage: "read", Err: err}
		}
		return data, nil
	}

	buf := make([]byte, limit)
	n, err := io.ReadFull(f, buf)
	switch {
	case err == nil:
		// The sample may end inside a multi-byte sequence.
		return trimPartialRune(buf), nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return buf[:n], nil
	default:
		return nil, &Error{Path: path, Stage: "read", Err: err}
	}
}

func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(b); i++ {
		start := len(b) - i
		if !utf8.RuneStart(b[start]) {
			continue
		}
		if !utf8.FullRune(b[start:]) {
			return b[:start]
		}
		return b
	}
	return b
}

func decodes(name string, data []byte) bool {
	if isUTF8(name) {
		_, _, err := transform.Bytes(encoding.UTF8Validator, data)
		return err == nil
	}
	enc := lookupEncoding(name)
	if enc == nil {
		return false
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return false
	}
	return !containsReplacement(decoded, data)
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8", "utf_8":
		return true
	}
	return false
}

func lookupEncoding(name string) encoding.Encoding {
	name = strings.ToLower(strings.TrimSpace(name))
	variants := []string{name, strings.ReplaceAll(name, "_", "-"), strings.ReplaceAll(name, "-", "")}
	for _, v := range variants {
		if enc, err := ianaindex.IANA.Encoding(v); err == nil && enc != nil {
			return enc
		}
	}
	for _, v := range variants {
		if enc, err := htmlindex.Get(v); err == nil {
			return enc
		}
	}
	return nil
}

// containsReplacement reports whether decoding introduced U+FFFD that the
// source bytes did not already spell out as UTF-8.
func containsReplacement(decoded, source []byte) bool {
	const replacement = "�"
	return strings.Count(string(decoded), replacement) > strings.Count(string(source), replacement)
}

// SupportedEncoding reports whether name resolves to a decoder.
func SupportedEncoding(name string) bool {
	return isUTF8(name) || lookupEncoding(name) != nil
}

// ValidateEncodings returns an error naming every unsupported candidate.
func ValidateEncodings(names []string) error {
	var unknown []string
	for _, name := range names {
		if !SupportedEncoding(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unsupported encodings: %s", strings.Join(unknown, ", "))
	}
	return nil
}
