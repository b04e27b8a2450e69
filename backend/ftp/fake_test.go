package ftp

import (
	"bytes"
	"io"
	"net/textproto"
	"sort"
	"strings"
	"sync"

	_ftp "github.com/jlaffaye/ftp"

	"github.com/c2fo/remotestore/utils"
)

// memClient answers FTP commands from memory the way a typical unix server does.
type memClient struct {
	mu    sync.Mutex
	dirs  map[string]bool
	files map[string][]byte
	quits int
}

func newMemClient() *memClient {
	return &memClient{
		dirs:  map[string]bool{"/": true},
		files: map[string][]byte{},
	}
}

func unavailable(p string) error {
	return &textproto.Error{Code: statusFileUnavailable, Msg: p + ": No such file or directory"}
}

func (m *memClient) Login(string, string) error { return nil }

func (m *memClient) Quit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quits++
	return nil
}

func (m *memClient) CurrentDir() (string, error) { return "/", nil }

func (m *memClient) List(p string) ([]*_ftp.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = utils.CleanPath(p)
	if _, ok := m.files[p]; ok {
		return []*_ftp.Entry{{Name: utils.BaseName(p), Type: _ftp.EntryTypeFile}}, nil
	}
	if !m.dirs[p] {
		return nil, unavailable(p)
	}

	var entries []*_ftp.Entry
	for d := range m.dirs {
		if d != "/" && utils.ParentPath(d) == p {
			entries = append(entries, &_ftp.Entry{Name: utils.BaseName(d), Type: _ftp.EntryTypeFolder})
		}
	}
	for f := range m.files {
		if utils.ParentPath(f) == p {
			entries = append(entries, &_ftp.Entry{Name: utils.BaseName(f), Type: _ftp.EntryTypeFile})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (m *memClient) MakeDir(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = utils.CleanPath(p)
	_, isFile := m.files[p]
	if m.dirs[p] || isFile || !m.dirs[utils.ParentPath(p)] {
		return unavailable(p)
	}
	m.dirs[p] = true
	return nil
}

func (m *memClient) Stor(p string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	p = utils.CleanPath(p)
	if !m.dirs[utils.ParentPath(p)] || m.dirs[p] {
		return &textproto.Error{Code: 553, Msg: "Could not create file."}
	}
	m.files[p] = data
	return nil
}

func (m *memClient) Retr(p string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.files[utils.CleanPath(p)]
	if !ok {
		return nil, unavailable(p)
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(data))), nil
}

func (m *memClient) Rename(from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from, to = utils.CleanPath(from), utils.CleanPath(to)
	if !m.dirs[utils.ParentPath(to)] {
		return unavailable(to)
	}
	if data, ok := m.files[from]; ok {
		delete(m.files, from)
		m.files[to] = data
		return nil
	}
	if !m.dirs[from] {
		return unavailable(from)
	}
	for d := range m.dirs {
		if d == from || strings.HasPrefix(d, from+"/") {
			delete(m.dirs, d)
			m.dirs[to+strings.TrimPrefix(d, from)] = true
		}
	}
	for f, data := range m.files {
		if strings.HasPrefix(f, from+"/") {
			delete(m.files, f)
			m.files[to+strings.TrimPrefix(f, from)] = data
		}
	}
	return nil
}

func (m *memClient) Delete(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = utils.CleanPath(p)
	if _, ok := m.files[p]; !ok {
		return unavailable(p)
	}
	delete(m.files, p)
	return nil
}

func (m *memClient) RemoveDirRecur(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = utils.CleanPath(p)
	if !m.dirs[p] {
		return unavailable(p)
	}
	for d := range m.dirs {
		if d == p || strings.HasPrefix(d, p+"/") {
			delete(m.dirs, d)
		}
	}
	for f := range m.files {
		if strings.HasPrefix(f, p+"/") {
			delete(m.files, f)
		}
	}
	return nil
}
