package catalog

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/dekarrin/civrules/internal/rserr"
	"golang.org/x/text/cases"
)

// ID identifies a record within its table. IDs are assigned in registration
// order starting at 0.
type ID int

// NoID is the ID used where a reference to a record is optional and none was
// given.
const NoID ID = -1

// Valid returns whether id refers to a record at all. It does not check that
// the record exists.
func (id ID) Valid() bool {
	return id >= 0
}

// foldName gives the form of a rule name that lookups compare. Rule names
// are matched without regard to case.
func foldName(name string) string {
	return cases.Fold().String(name)
}

// Table is a fixed-capacity table of named records. Names are unique within a
// table, compared case-insensitively.
type Table[T any] struct {
	what  string
	max   int
	names []string
	items []T
	index map[string]ID
}

func newTable[T any](what string, max int) *Table[T] {
	return &Table[T]{
		what:  what,
		max:   max,
		index: map[string]ID{},
	}
}

// Add registers item under name and returns its new ID. It fails with
// rserr.ErrDuplicate if the name is already used and with rserr.ErrExhausted
// if the table is full.
func (t *Table[T]) Add(name string, item T) (ID, error) {
	key := foldName(name)
	if _, ok := t.index[key]; ok {
		return NoID, rserr.New(fmt.Sprintf("%s %q is defined more than once", t.what, name), rserr.ErrDuplicate)
	}
	if len(t.items) >= t.max {
		return NoID, rserr.Exhausted(t.what+"s", t.max)
	}

	id := ID(len(t.items))
	t.items = append(t.items, item)
	t.names = append(t.names, name)
	t.index[key] = id
	return id, nil
}

// Get returns the record with the given ID. If there is none, the zero value
// of T is returned.
func (t *Table[T]) Get(id ID) T {
	var zero T
	if id < 0 || int(id) >= len(t.items) {
		return zero
	}
	return t.items[id]
}

// ByName returns the ID of the record with the given name.
func (t *Table[T]) ByName(name string) (ID, bool) {
	id, ok := t.index[foldName(name)]
	return id, ok
}

// Name returns the rule name of the record with the given ID, or "" if there
// is none.
func (t *Table[T]) Name(id ID) string {
	if id < 0 || int(id) >= len(t.names) {
		return ""
	}
	return t.names[id]
}

// Len returns the number of records in the table.
func (t *Table[T]) Len() int {
	return len(t.items)
}

// Max returns the capacity of the table.
func (t *Table[T]) Max() int {
	return t.max
}

// All returns the records of the table in ID order. The returned slice must
// not be modified.
func (t *Table[T]) All() []T {
	return t.items
}

// Names returns the rule names of all records in ID order.
func (t *Table[T]) Names() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// FlagSet is a set of flags from one FlagTable.
type FlagSet uint64

// MaxFlags is the most flags, built-in and user-defined together, that a
// FlagTable can hold.
const MaxFlags = 64

// Has returns whether flag f is in the set.
func (s FlagSet) Has(f int) bool {
	if f < 0 || f >= MaxFlags {
		return false
	}
	return s&(1<<uint(f)) != 0
}

// Set adds flag f to the set.
func (s *FlagSet) Set(f int) {
	if f < 0 || f >= MaxFlags {
		return
	}
	*s |= 1 << uint(f)
}

// Clear removes flag f from the set.
func (s *FlagSet) Clear(f int) {
	if f < 0 || f >= MaxFlags {
		return
	}
	*s &^= 1 << uint(f)
}

// Len returns the number of flags in the set.
func (s FlagSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// List returns the flags in the set in ascending order.
func (s FlagSet) List() []int {
	var fs []int
	for f := 0; f < MaxFlags; f++ {
		if s.Has(f) {
			fs = append(fs, f)
		}
	}
	return fs
}

// UserFlag is a flag whose name is given by the ruleset.
type UserFlag struct {
	Name     string
	Helptext string
}

// FlagTable holds the flag names of one kind of record. The built-in flags
// come first and are fixed; they are followed by a fixed number of user flag
// slots that rulesets fill in. An empty slot has an empty name.
type FlagTable struct {
	what    string
	builtin []string
	user    []UserFlag
}

func newFlagTable(what string, builtin []string, userSlots int) *FlagTable {
	return &FlagTable{
		what:    what,
		builtin: builtin,
		user:    make([]UserFlag, userSlots),
	}
}

// FirstUser returns the ID of the first user flag slot.
func (ft *FlagTable) FirstUser() int {
	return len(ft.builtin)
}

// Size returns the number of flag IDs, built-in and user slots together.
func (ft *FlagTable) Size() int {
	return len(ft.builtin) + len(ft.user)
}

// ByName returns the ID of the built-in or defined user flag with the given
// name.
func (ft *FlagTable) ByName(name string) (int, bool) {
	key := foldName(name)
	for i := range ft.builtin {
		if foldName(ft.builtin[i]) == key {
			return i, true
		}
	}
	for i := range ft.user {
		if ft.user[i].Name != "" && foldName(ft.user[i].Name) == key {
			return len(ft.builtin) + i, true
		}
	}
	return 0, false
}

// Name returns the name of the flag with the given ID, or "" if it is out of
// range or an empty user slot.
func (ft *FlagTable) Name(id int) string {
	if id < 0 {
		return ""
	}
	if id < len(ft.builtin) {
		return ft.builtin[id]
	}
	id -= len(ft.builtin)
	if id >= len(ft.user) {
		return ""
	}
	return ft.user[id].Name
}

// Helptext returns the help text of a user flag.
func (ft *FlagTable) Helptext(id int) string {
	id -= len(ft.builtin)
	if id < 0 || id >= len(ft.user) {
		return ""
	}
	return ft.user[id].Helptext
}

// IsUser returns whether id is a user flag slot.
func (ft *FlagTable) IsUser(id int) bool {
	return id >= len(ft.builtin) && id < ft.Size()
}

// SetUser gives user slot n (0 being the first user slot) a name. It fails if
// the name is already used by another flag.
func (ft *FlagTable) SetUser(n int, name, helptext string) error {
	if n < 0 || n >= len(ft.user) {
		return rserr.Exhausted(ft.what+" user flags", len(ft.user))
	}
	if id, ok := ft.ByName(name); ok && id != len(ft.builtin)+n {
		return rserr.New(fmt.Sprintf("%s %q is defined more than once", ft.what, name), rserr.ErrDuplicate)
	}
	ft.user[n] = UserFlag{Name: name, Helptext: helptext}
	return nil
}

// Define puts a new user flag in the first free user slot and returns its
// ID.
func (ft *FlagTable) Define(name, helptext string) (int, error) {
	if _, ok := ft.ByName(name); ok {
		return 0, rserr.New(fmt.Sprintf("%s %q is already defined", ft.what, name), rserr.ErrDuplicate)
	}
	for i := range ft.user {
		if ft.user[i].Name == "" {
			ft.user[i] = UserFlag{Name: name, Helptext: helptext}
			return len(ft.builtin) + i, nil
		}
	}
	return 0, rserr.Exhausted(ft.what+" user flags", len(ft.user))
}

// UserDefined returns the IDs of every user slot that has a name.
func (ft *FlagTable) UserDefined() []int {
	var ids []int
	for i := range ft.user {
		if ft.user[i].Name != "" {
			ids = append(ids, len(ft.builtin)+i)
		}
	}
	return ids
}

// Names returns the names of all built-in and defined user flags, sorted.
func (ft *FlagTable) Names() []string {
	names := make([]string, 0, ft.Size())
	names = append(names, ft.builtin...)
	for i := range ft.user {
		if ft.user[i].Name != "" {
			names = append(names, ft.user[i].Name)
		}
	}
	sort.Strings(names)
	return names
}
