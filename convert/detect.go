package convert

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// filetype needs at most that much to recognize the header.
const headSize = 262

func readHead(path string, size int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, size)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}

// isArchiveFile reports whether path is a zip bundle, both extension and
// content have to agree.
func isArchiveFile(path string) (bool, error) {
	head, err := readHead(path, headSize)
	if err != nil {
		return false, err
	}
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	return filetype.Is(head, "zip"), nil
}

// isBatchFile reports whether path looks like JSON batch: .json extension and
// an object as the first non blank thing in the file.
func isBatchFile(path string) (bool, error) {
	head, err := readHead(path, headSize)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(filepath.Ext(path), ".json") && isBatchData(head), nil
}

func isBatchData(data []byte) bool {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = bytes.TrimLeft(data, " \t\r\n")
	return len(data) > 0 && data[0] == '{'
}
