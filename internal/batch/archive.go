package batch

import (
	"bytes"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// archiveWriter builds the batch zip in memory. It is not safe for concurrent use.
type archiveWriter struct {
	buf      bytes.Buffer
	zw       *zip.Writer
	modified time.Time
	used     map[string]bool
}

func newArchiveWriter(modified time.Time) *archiveWriter {
	a := &archiveWriter{modified: modified, used: make(map[string]bool)}
	a.zw = zip.NewWriter(&a.buf)
	return a
}

// add writes one entry and returns the name it was stored under.
func (a *archiveWriter) add(name string, data []byte) (string, error) {
	name = a.uniqueName(name)
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: a.modified,
	}
	w, err := a.zw.CreateHeader(header)
	if err != nil {
		return "", &ArchiveError{Message: "failed to create entry " + name, Cause: err}
	}
	if _, err := w.Write(data); err != nil {
		return "", &ArchiveError{Message: "failed to write entry " + name, Cause: err}
	}
	return name, nil
}

// uniqueName appends _2, _3, ... before the extension until the name is unused.
func (a *archiveWriter) uniqueName(name string) string {
	if !a.used[name] {
		a.used[name] = true
		return name
	}
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		candidate := base + "_" + strconv.Itoa(n) + ext
		if !a.used[candidate] {
			a.used[candidate] = true
			return candidate
		}
	}
}

func (a *archiveWriter) close() ([]byte, error) {
	if err := a.zw.Close(); err != nil {
		return nil, &ArchiveError{Message: "failed to finalise archive", Cause: err}
	}
	return a.buf.Bytes(), nil
}
