// Package dialog shows blocking modal dialogs. Every function returns
// ok=false with a nil error when the user cancels or closes the dialog.
package dialog

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ncruces/zenity"
)

// Prompt shows message with one button per entry of buttons and returns the
// chosen button's text.
func Prompt(message, title string, buttons []string) (string, bool, error) {
	if len(buttons) == 0 {
		buttons = []string{"OK"}
	}
	choice, err := zenity.List(message, buttons, zenity.Title(title))
	return choice, ok(err), cancelled(err)
}

// Text shows a block of text
func Text(message, title, text string) error {
	body := message
	if text != "" {
		body += "\n\n" + text
	}
	return cancelled(zenity.Info(body, zenity.Title(title)))
}

// Entry asks for a line of text, hidden when password is set
func Entry(message, title, initial string, password bool) (string, bool, error) {
	opts := []zenity.Option{zenity.Title(title), zenity.EntryText(initial)}
	if password {
		opts = append(opts, zenity.HideText())
	}
	value, err := zenity.Entry(message, opts...)
	return value, ok(err), cancelled(err)
}

// SelectFile asks for files, initially showing those matching pattern
// (e.g. "./*.txt"). Save dialogs return a single path that need not exist;
// open dialogs only return existing regular files.
func SelectFile(title, pattern string, save, multiple bool) ([]string, bool, error) {
	opts := []zenity.Option{zenity.Title(title)}
	dir, glob := splitPattern(pattern)
	if dir != "" {
		opts = append(opts, zenity.Filename(dir+string(filepath.Separator)))
	}
	if glob != "" {
		opts = append(opts, zenity.FileFilter{Name: glob, Patterns: []string{glob}})
	}

	var paths []string
	var err error
	switch {
	case save:
		var path string
		path, err = zenity.SelectFileSave(append(opts, zenity.ConfirmOverwrite())...)
		paths = []string{path}
		return paths, ok(err), cancelled(err)
	case multiple:
		paths, err = zenity.SelectFileMultiple(opts...)
	default:
		var path string
		path, err = zenity.SelectFile(opts...)
		paths = []string{path}
	}
	if err != nil {
		return nil, false, cancelled(err)
	}

	files := existingFiles(paths)
	return files, len(files) > 0, nil
}

// SelectFolder asks for a directory
func SelectFolder(title, initial string) (string, bool, error) {
	opts := []zenity.Option{zenity.Title(title), zenity.Directory()}
	if initial != "" {
		opts = append(opts, zenity.Filename(initial))
	}
	path, err := zenity.SelectFile(opts...)
	return path, ok(err), cancelled(err)
}

func ok(err error) bool {
	return err == nil
}

// cancelled drops zenity's cancel error
func cancelled(err error) error {
	if errors.Is(err, zenity.ErrCanceled) {
		return nil
	}
	return err
}

// splitPattern splits "./docs/*.txt" into "./docs" and "*.txt". A pattern
// without glob characters is treated as a directory.
func splitPattern(pattern string) (dir, glob string) {
	if pattern == "" {
		return "", ""
	}
	base := filepath.Base(pattern)
	if !hasMeta(base) {
		return pattern, ""
	}
	return filepath.Dir(pattern), base
}

func hasMeta(s string) bool {
	for _, c := range s {
		switch c {
		case '*', '?', '[':
			return true
		}
	}
	return false
}

func existingFiles(paths []string) []string {
	var files []string
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			files = append(files, p)
		}
	}
	return files
}
