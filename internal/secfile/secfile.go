// Package secfile reads ruleset section files. A section file is a TOML
// document whose top-level tables are the sections; values inside a section
// are addressed by dotted key paths such as "unit_warriors.move_rate", and
// elements of arrays are addressed by numeric path segments such as
// "effect_01.reqs.0.type".
//
// Every successful lookup of a value records that value's path as consulted.
// Once a loader is done with a file, Unused reports every leaf value that no
// loader ever looked at, which almost always means a misspelled key in the
// ruleset.
package secfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/civrules/internal/rserr"
)

// Error is returned by lookups that fail. It names the file and the full key
// path so that the offending entry can be found directly.
type Error struct {
	File string
	Path string
	Msg  string

	// Err is the class of the failure; one of rserr.ErrNotFound or
	// rserr.ErrMalformed.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%q: %s: %s", e.File, e.Path, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// File is a single parsed section file.
//
// File should not be created directly; use Load or Parse.
type File struct {
	name     string
	root     map[string]interface{}
	sections []string
	used     map[string]bool
}

// Load reads and parses the section file at the given path. The file name
// reported in errors is the base name of the path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	return Parse(filepath.Base(path), data)
}

// Parse parses section file data. name is used to identify the file in
// errors.
func Parse(name string, data []byte) (*File, error) {
	f := &File{
		name: name,
		root: map[string]interface{}{},
		used: map[string]bool{},
	}

	md, err := toml.Decode(string(data), &f.root)
	if err != nil {
		return nil, rserr.New(fmt.Sprintf("%q: parse error", name), err, rserr.ErrMalformed)
	}

	// MetaData keeps the order keys appear in, the decoded map does not.
	for _, k := range md.Keys() {
		if len(k) != 1 {
			continue
		}
		if md.Type(k...) == "Hash" {
			f.sections = append(f.sections, k[0])
		}
	}

	return f, nil
}

// Name returns the name of the file as given to Parse.
func (f *File) Name() string {
	return f.name
}

// Sections returns the names of all sections in the order they appear in the
// file.
func (f *File) Sections() []string {
	secs := make([]string, len(f.sections))
	copy(secs, f.sections)
	return secs
}

// SectionsByPrefix returns the names of all sections that start with prefix,
// in the order they appear in the file. This is how the number of records of
// a kind is discovered.
func (f *File) SectionsByPrefix(prefix string) []string {
	var secs []string
	for _, s := range f.sections {
		if strings.HasPrefix(s, prefix) {
			secs = append(secs, s)
		}
	}
	return secs
}

// HasSection returns whether the file has a section with the given name.
func (f *File) HasSection(name string) bool {
	for _, s := range f.sections {
		if s == name {
			return true
		}
	}
	return false
}

// Has returns whether any value exists at the path. It does not mark the
// value as consulted.
func (f *File) Has(path string, a ...any) bool {
	_, ok := f.get(fmt.Sprintf(path, a...))
	return ok
}

// Len returns the number of elements of the array at the path. If there is no
// value at the path, or the value is not an array, 0 is returned. Len does not
// mark anything as consulted; looking up the elements does.
func (f *File) Len(path string, a ...any) int {
	v, ok := f.get(fmt.Sprintf(path, a...))
	if !ok {
		return 0
	}
	switch typed := v.(type) {
	case []interface{}:
		return len(typed)
	case []map[string]interface{}:
		return len(typed)
	default:
		return 0
	}
}

// LookupList returns the number of elements of the array at the path. An
// empty array is marked as consulted, since it has no elements to look up.
// If no value exists at the path, 0 and no error is returned. It is an error
// if the value exists but is not an array.
func (f *File) LookupList(path string, a ...any) (int, error) {
	full := fmt.Sprintf(path, a...)
	v, ok := f.get(full)
	if !ok {
		return 0, nil
	}

	var n int
	switch typed := v.(type) {
	case []interface{}:
		n = len(typed)
	case []map[string]interface{}:
		n = len(typed)
	default:
		return 0, f.wrongType(full, "a list", v)
	}
	if n == 0 {
		f.used[full] = true
	}
	return n, nil
}

// LookupStr returns the string at the path. It is an error if the value does
// not exist or is not a string.
func (f *File) LookupStr(path string, a ...any) (string, error) {
	full := fmt.Sprintf(path, a...)
	v, ok := f.get(full)
	if !ok {
		return "", f.notFound(full)
	}
	s, ok := v.(string)
	if !ok {
		return "", f.wrongType(full, "a string", v)
	}
	f.used[full] = true
	return s, nil
}

// LookupStrDefault returns the string at the path, or def if no value exists
// there. It is an error if the value exists but is not a string.
func (f *File) LookupStrDefault(def string, path string, a ...any) (string, error) {
	full := fmt.Sprintf(path, a...)
	if _, ok := f.get(full); !ok {
		return def, nil
	}
	return f.LookupStr("%s", full)
}

// LookupInt returns the integer at the path. It is an error if the value does
// not exist or is not an integer.
func (f *File) LookupInt(path string, a ...any) (int, error) {
	full := fmt.Sprintf(path, a...)
	v, ok := f.get(full)
	if !ok {
		return 0, f.notFound(full)
	}
	i, ok := v.(int64)
	if !ok {
		return 0, f.wrongType(full, "an integer", v)
	}
	f.used[full] = true
	return int(i), nil
}

// LookupIntDefault returns the integer at the path, or def if no value exists
// there. It is an error if the value exists but is not an integer.
func (f *File) LookupIntDefault(def int, path string, a ...any) (int, error) {
	full := fmt.Sprintf(path, a...)
	if _, ok := f.get(full); !ok {
		return def, nil
	}
	return f.LookupInt("%s", full)
}

// LookupIntRange is LookupIntDefault with the additional check that the value
// lies within [min, max].
func (f *File) LookupIntRange(def, min, max int, path string, a ...any) (int, error) {
	full := fmt.Sprintf(path, a...)
	i, err := f.LookupIntDefault(def, "%s", full)
	if err != nil {
		return 0, err
	}
	if i < min || i > max {
		return 0, &Error{
			File: f.name,
			Path: full,
			Msg:  fmt.Sprintf("value %d is out of range; must be between %d and %d", i, min, max),
			Err:  rserr.ErrMalformed,
		}
	}
	return i, nil
}

// LookupBoolDefault returns the boolean at the path, or def if no value exists
// there. It is an error if the value exists but is not a boolean.
func (f *File) LookupBoolDefault(def bool, path string, a ...any) (bool, error) {
	full := fmt.Sprintf(path, a...)
	v, ok := f.get(full)
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, f.wrongType(full, "a boolean", v)
	}
	f.used[full] = true
	return b, nil
}

// LookupStrVec returns the list of strings at the path. A single string is
// accepted as a list of one. If no value exists at the path, a nil slice and
// no error is returned; callers that need to know whether the key was given
// can check with Has.
func (f *File) LookupStrVec(path string, a ...any) ([]string, error) {
	full := fmt.Sprintf(path, a...)
	v, ok := f.get(full)
	if !ok {
		return nil, nil
	}

	switch typed := v.(type) {
	case string:
		f.used[full] = true
		return []string{typed}, nil
	case []interface{}:
		strs := make([]string, len(typed))
		for i := range typed {
			s, ok := typed[i].(string)
			if !ok {
				return nil, f.wrongType(fmt.Sprintf("%s.%d", full, i), "a string", typed[i])
			}
			strs[i] = s
		}
		f.used[full] = true
		return strs, nil
	default:
		return nil, f.wrongType(full, "a list of strings", v)
	}
}

// Unused returns the full path of every leaf value in the file that was never
// consulted by a successful lookup, sorted.
func (f *File) Unused() []string {
	var unused []string
	walkLeaves("", f.root, func(path string) {
		if !f.used[path] {
			unused = append(unused, path)
		}
	})
	sort.Strings(unused)
	return unused
}

func walkLeaves(prefix string, v interface{}, fn func(path string)) {
	join := func(seg string) string {
		if prefix == "" {
			return seg
		}
		return prefix + "." + seg
	}

	switch typed := v.(type) {
	case map[string]interface{}:
		for k := range typed {
			walkLeaves(join(k), typed[k], fn)
		}
	case []map[string]interface{}:
		for i := range typed {
			walkLeaves(join(strconv.Itoa(i)), typed[i], fn)
		}
	case []interface{}:
		if !containsTables(typed) {
			fn(prefix)
			return
		}
		for i := range typed {
			walkLeaves(join(strconv.Itoa(i)), typed[i], fn)
		}
	default:
		fn(prefix)
	}
}

func containsTables(arr []interface{}) bool {
	for i := range arr {
		if _, ok := arr[i].(map[string]interface{}); ok {
			return true
		}
	}
	return false
}

func (f *File) get(path string) (interface{}, bool) {
	var cur interface{} = f.root
	for _, seg := range strings.Split(path, ".") {
		switch typed := cur.(type) {
		case map[string]interface{}:
			next, ok := typed[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []map[string]interface{}:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			cur = typed[idx]
		case []interface{}:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			cur = typed[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

func (f *File) notFound(path string) error {
	return &Error{
		File: f.name,
		Path: path,
		Msg:  "required key is missing",
		Err:  rserr.ErrNotFound,
	}
}

func (f *File) wrongType(path string, want string, got interface{}) error {
	return &Error{
		File: f.name,
		Path: path,
		Msg:  fmt.Sprintf("must be %s, not %s", want, describeValue(got)),
		Err:  rserr.ErrMalformed,
	}
}

func describeValue(v interface{}) string {
	switch v.(type) {
	case string:
		return "a string"
	case int64:
		return "an integer"
	case float64:
		return "a float"
	case bool:
		return "a boolean"
	case []interface{}, []map[string]interface{}:
		return "a list"
	case map[string]interface{}:
		return "a table"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// IsNotFound returns whether err is a lookup failure due to a missing key.
func IsNotFound(err error) bool {
	return errors.Is(err, rserr.ErrNotFound)
}
