// This file is part of reachmap (https://github.com/spezifisch/reachmap).
// Copyright (C) 2021-2022 spezifisch <spezifisch-7e6@below.fr> (https://github.com/spezifisch).
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, version 3 of the License.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
// FOR A PARTICULAR PURPOSE. See the GNU Affero General Public License for more
// details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

package network

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
)

const snappySuffix = ".sz"

type snappyFile struct {
	io.Reader
	f *os.File
}

func (s *snappyFile) Close() error {
	return s.f.Close()
}

// openFile opens a network file, unwrapping snappy framing for *.sz files.
func openFile(file string) (io.ReadCloser, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(file, snappySuffix) {
		return &snappyFile{Reader: snappy.NewReader(bufio.NewReaderSize(f, 65536)), f: f}, nil
	}
	return f, nil
}

// format returns the extension that decides how a file is parsed
func format(file string) string {
	return filepath.Ext(strings.TrimSuffix(file, snappySuffix))
}

// ReadFile loads a network from a .bin (protobuf) or .json (stop stream) file,
// each optionally snappy compressed with an additional .sz suffix.
func ReadFile(file string) (*RawNetwork, error) {
	switch format(file) {
	case ".json":
		return ReadJSON([]string{file})
	case ".bin", ".pb":
		if err := checkFiles([]string{file}); err != nil {
			return nil, err
		}
		rc, err := openFile(file)
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrDecode, file, err)
		}
		return Decode(data)
	default:
		return nil, fmt.Errorf("%w: unknown network format '%s'", ErrDecode, file)
	}
}
