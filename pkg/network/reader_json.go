// This file is part of reachmap (https://github.com/spezifisch/reachmap).
// Based on silphtelescope (https://github.com/spezifisch/silphtelescope).
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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// StopReader streams stops from JSON files holding one stop object after another.
// Stop indices continue across files, so travel options may point into earlier files.
type StopReader struct {
	RunError error
	files    []string
	output   chan *RawStop
	cancel   chan bool
}

// NewStopReader returns a ready-to-use StopReader object
func NewStopReader(files []string, output chan *RawStop, cancel chan bool) (r *StopReader, err error) {
	err = checkFiles(files)
	if err != nil {
		return
	}

	return &StopReader{
		files:  files,
		output: output,
		cancel: cancel,
	}, nil
}

func checkFiles(files []string) (err error) {
	if len(files) == 0 {
		return errors.New("no network files given")
	}
	for _, file := range files {
		var fi os.FileInfo
		fi, err = os.Stat(file)
		if err != nil {
			return
		}

		if !fi.Mode().IsRegular() {
			text := fmt.Sprintf("'%s' is not a file", file)
			return errors.New(text)
		}
	}
	return
}

func (r *StopReader) signalDone() {
	log.Debug("stop reader done signal")
	r.output <- nil
}

// Run parses all files. A nil stop on the output channel marks the end.
func (r *StopReader) Run() (err error) {
	r.RunError = nil
	defer r.signalDone()
	run := true
	log.WithField("files", r.files).Debug("starting stop reader")
	for _, file := range r.files {
		run, err = r.readFile(file)
		if err != nil {
			r.RunError = err
			return
		}
		if !run {
			break
		}
	}
	log.Debug("stop reader returns ok")
	return
}

func (r *StopReader) readFile(file string) (run bool, err error) {
	f, err := openFile(file)
	if err != nil {
		return false, err
	}
	defer f.Close()

	return r.decode(bufio.NewReaderSize(f, 65536))
}

func (r *StopReader) decode(rd io.Reader) (run bool, err error) {
	d := json.NewDecoder(rd)
	for d.More() {
		// check for cancel signal
		select {
		case <-r.cancel:
			return false, nil
		default:
		}

		var stop RawStop
		err = d.Decode(&stop)
		if err != nil {
			log.WithError(err).Error("stop decode failed")
			return false, fmt.Errorf("%w: %v", ErrDecode, err)
		}

		r.output <- &stop
	}
	return true, nil
}

// ReadJSON collects all stops of the given files
func ReadJSON(files []string) (*RawNetwork, error) {
	output := make(chan *RawStop, 64)
	cancel := make(chan bool)
	r, err := NewStopReader(files, output, cancel)
	if err != nil {
		return nil, err
	}

	go r.Run()

	raw := &RawNetwork{}
	for stop := range output {
		if stop == nil {
			break
		}
		raw.Stops = append(raw.Stops, stop)
	}
	if r.RunError != nil {
		return nil, r.RunError
	}
	return raw, nil
}
