/*
Package fastglyph is a library for maintaining the fonts and bitmaps used by
FastArduino display devices and generating the C++ code that embeds them.
*/
package fastglyph

import (
	"encoding"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"sync"

	"github.com/bodgit/fastglyph/bitmap"
	"github.com/bodgit/fastglyph/font"
	"github.com/bodgit/fastglyph/internal/format"
)

var (
	// ErrMissingDestination is returned when there is no file or directory
	// to write to
	ErrMissingDestination = errors.New("missing destination")

	// ErrCorruptFormat is returned when a saved font or bitmap cannot be
	// read back
	ErrCorruptFormat = format.ErrCorrupt
)

// Session loads, saves and exports fonts and bitmaps. It remembers where
// each state was last saved or loaded from so it can be reverted, until the
// state is reverted or passed to ForgetFont or ForgetBitmap.
type Session struct {
	logger *log.Logger

	mu      sync.Mutex
	fonts   map[*font.State]string
	bitmaps map[*bitmap.State]string
}

// New returns a Session logging to logger
func New(logger *log.Logger) *Session {
	return &Session{
		logger:  logger,
		fonts:   make(map[*font.State]string),
		bitmaps: make(map[*bitmap.State]string),
	}
}

func save(file string, m encoding.BinaryMarshaler) error {
	if file == "" {
		return ErrMissingDestination
	}

	b, err := m.MarshalBinary()
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if _, err = f.Write(b); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func load(file string, u encoding.BinaryUnmarshaler) error {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return err
	}
	if err := u.UnmarshalBinary(b); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return nil
}

// SaveFont writes state to file, replacing any existing content
func (s *Session) SaveFont(state *font.State, file string) error {
	if err := save(file, state); err != nil {
		return err
	}
	s.mu.Lock()
	s.fonts[state] = file
	s.mu.Unlock()
	s.logger.Printf("Saved font \"%s\" to \"%s\"\n", state.Name, file)
	return nil
}

// LoadFont reads a font previously written by SaveFont
func (s *Session) LoadFont(file string) (*font.State, error) {
	state := new(font.State)
	if err := load(file, state); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.fonts[state] = file
	s.mu.Unlock()
	return state, nil
}

// RevertFont discards any changes to state by reading it back from the file
// it was last saved to or loaded from
func (s *Session) RevertFont(state *font.State) (*font.State, error) {
	s.mu.Lock()
	file, ok := s.fonts[state]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: font \"%s\" has never been saved", ErrMissingDestination, state.Name)
	}
	s.logger.Printf("Reverting font \"%s\" from \"%s\"\n", state.Name, file)
	reverted, err := s.LoadFont(file)
	if err != nil {
		return nil, err
	}
	s.forget(state)
	return reverted, nil
}

// SaveBitmap writes state to file, replacing any existing content
func (s *Session) SaveBitmap(state *bitmap.State, file string) error {
	if err := save(file, state); err != nil {
		return err
	}
	s.mu.Lock()
	s.bitmaps[state] = file
	s.mu.Unlock()
	s.logger.Printf("Saved bitmap \"%s\" to \"%s\"\n", state.Name, file)
	return nil
}

// LoadBitmap reads a bitmap previously written by SaveBitmap
func (s *Session) LoadBitmap(file string) (*bitmap.State, error) {
	state := new(bitmap.State)
	if err := load(file, state); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.bitmaps[state] = file
	s.mu.Unlock()
	return state, nil
}

// RevertBitmap discards any changes to state by reading it back from the
// file it was last saved to or loaded from
func (s *Session) RevertBitmap(state *bitmap.State) (*bitmap.State, error) {
	s.mu.Lock()
	file, ok := s.bitmaps[state]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: bitmap \"%s\" has never been saved", ErrMissingDestination, state.Name)
	}
	s.logger.Printf("Reverting bitmap \"%s\" from \"%s\"\n", state.Name, file)
	reverted, err := s.LoadBitmap(file)
	if err != nil {
		return nil, err
	}
	s.forget(state)
	return reverted, nil
}

// ForgetFont drops the record of where state was saved, it can no longer be
// reverted
func (s *Session) ForgetFont(state *font.State) {
	s.forget(state)
}

// ForgetBitmap drops the record of where state was saved, it can no longer
// be reverted
func (s *Session) ForgetBitmap(state *bitmap.State) {
	s.forget(state)
}

// forget drops any record of where a state came from
func (s *Session) forget(state interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch v := state.(type) {
	case *font.State:
		delete(s.fonts, v)
	case *bitmap.State:
		delete(s.bitmaps, v)
	}
}
