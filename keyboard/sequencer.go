package keyboard

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"markestedt/autom/platform"
)

// Sequencer presses and releases key sequences with fixed timing.
//
// Keys are pressed in list order and released in reverse order. The sequencer
// keeps no record of held keys: a Down without a matching Up leaves the keys
// held.
type Sequencer struct {
	kb    platform.Keyboard
	table *Table

	// Sleep is used for every delay; time.Sleep unless replaced.
	Sleep func(time.Duration)
}

// NewSequencer creates a sequencer over kb. A nil table selects DefaultTable.
func NewSequencer(kb platform.Keyboard, table *Table) *Sequencer {
	if table == nil {
		table = DefaultTable()
	}
	return &Sequencer{
		kb:    kb,
		table: table,
		Sleep: time.Sleep,
	}
}

// Table returns the alias table used for resolution
func (s *Sequencer) Table() *Table {
	return s.table
}

// Press presses keys in order, holds them for hold, then releases them in
// reverse order. delay separates consecutive presses and consecutive
// releases. All names are resolved before anything is injected.
func (s *Sequencer) Press(keys []string, delay, hold time.Duration) error {
	resolved, err := s.table.ResolveAll(keys)
	if err != nil {
		return err
	}
	if len(resolved) == 0 {
		return nil
	}

	if n, err := s.pressAll(resolved, delay); err != nil {
		// let go of whatever made it down
		if rerr := s.releaseAll(resolved[:n], delay); rerr != nil {
			slog.Warn("Failed to release keys after press error", "error", rerr)
		}
		return err
	}

	s.Sleep(hold)
	return s.releaseAll(resolved, delay)
}

// Down presses keys in order and leaves them held
func (s *Sequencer) Down(keys []string, delay time.Duration) error {
	resolved, err := s.table.ResolveAll(keys)
	if err != nil {
		return err
	}
	_, err = s.pressAll(resolved, delay)
	return err
}

// Up releases keys in reverse of the given order
func (s *Sequencer) Up(keys []string, delay time.Duration) error {
	resolved, err := s.table.ResolveAll(keys)
	if err != nil {
		return err
	}
	return s.releaseAll(resolved, delay)
}

// Type presses and releases each character of text in turn, holding each for
// hold and waiting delay before the next one. Holds never overlap.
func (s *Sequencer) Type(text string, delay, hold time.Duration) error {
	names := make([]string, 0, len(text))
	for _, r := range text {
		names = append(names, string(r))
	}
	resolved, err := s.table.ResolveAll(names)
	if err != nil {
		return err
	}

	for i, key := range resolved {
		if i != 0 {
			s.Sleep(delay)
		}
		if err := s.kb.PressKey(key); err != nil {
			return fmt.Errorf("failed to type character %d: %w", i, err)
		}
		s.Sleep(hold)
		if err := s.kb.ReleaseKey(key); err != nil {
			return fmt.Errorf("failed to type character %d: %w", i, err)
		}
	}
	return nil
}

// pressAll returns how many keys went down
func (s *Sequencer) pressAll(keys []platform.Key, delay time.Duration) (int, error) {
	for i, key := range keys {
		if i != 0 {
			s.Sleep(delay)
		}
		if err := s.kb.PressKey(key); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}

// releaseAll attempts every release even when one fails, so a single bad key
// cannot leave the others held
func (s *Sequencer) releaseAll(keys []platform.Key, delay time.Duration) error {
	var errs []error
	for i := len(keys) - 1; i >= 0; i-- {
		if i != len(keys)-1 {
			s.Sleep(delay)
		}
		if err := s.kb.ReleaseKey(keys[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
