package ruleset

import (
	"fmt"
	"strings"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/req"
	"github.com/dekarrin/civrules/internal/rscompat"
	"github.com/dekarrin/civrules/internal/rserr"
	"github.com/dekarrin/civrules/internal/secfile"
)

// noneName is the name that refers to no record at all.
const noneName = "None"

func badValue(f *secfile.File, path string, cause error, format string, a ...any) error {
	return &secfile.Error{
		File: f.Name(),
		Path: path,
		Msg:  fmt.Sprintf(format, a...),
		Err:  cause,
	}
}

// lookupRef returns the ID of the record named at path. A missing value or
// "None" gives NoID.
func lookupRef[T any](f *secfile.File, t *catalog.Table[T], what string, path string, a ...any) (catalog.ID, error) {
	full := fmt.Sprintf(path, a...)
	name, err := f.LookupStrDefault(noneName, "%s", full)
	if err != nil {
		return catalog.NoID, err
	}
	if name == noneName || name == "" {
		return catalog.NoID, nil
	}

	id, ok := t.ByName(name)
	if !ok {
		return catalog.NoID, badValue(f, full, rserr.ErrNotFound, "no %s named %q", what, name)
	}
	return id, nil
}

// lookupRequiredRef is lookupRef for references that must be given.
func lookupRequiredRef[T any](f *secfile.File, t *catalog.Table[T], what string, path string, a ...any) (catalog.ID, error) {
	full := fmt.Sprintf(path, a...)
	id, err := lookupRef(f, t, what, "%s", full)
	if err != nil {
		return id, err
	}
	if id == catalog.NoID {
		return id, badValue(f, full, rserr.ErrNotFound, "a %s is required", what)
	}
	return id, nil
}

// lookupRefs returns the IDs of the records named in the list at path.
func lookupRefs[T any](f *secfile.File, t *catalog.Table[T], what string, path string, a ...any) ([]catalog.ID, error) {
	full := fmt.Sprintf(path, a...)
	names, err := f.LookupStrVec("%s", full)
	if err != nil {
		return nil, err
	}

	var ids []catalog.ID
	for i, name := range names {
		id, ok := t.ByName(name)
		if !ok {
			return nil, badValue(f, fmt.Sprintf("%s.%d", full, i), rserr.ErrNotFound, "no %s named %q", what, name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func enumIndex(names []string, name string) int {
	for i := range names {
		if strings.EqualFold(names[i], name) {
			return i
		}
	}
	return -1
}

// lookupEnum returns the index in names of the name at path. If def is not
// empty, it is used when no value is given; otherwise the value is required.
func lookupEnum(f *secfile.File, names []string, def string, path string, a ...any) (int, error) {
	full := fmt.Sprintf(path, a...)

	var name string
	var err error
	if def != "" {
		name, err = f.LookupStrDefault(def, "%s", full)
	} else {
		name, err = f.LookupStr("%s", full)
	}
	if err != nil {
		return 0, err
	}

	idx := enumIndex(names, name)
	if idx < 0 {
		return 0, badValue(f, full, rserr.ErrMalformed, "%q is not one of %s", name, strings.Join(names, ", "))
	}
	return idx, nil
}

// lookupEnums returns the indexes in names of every name in the list at path.
func lookupEnums(f *secfile.File, names []string, path string, a ...any) ([]int, error) {
	full := fmt.Sprintf(path, a...)
	vals, err := f.LookupStrVec("%s", full)
	if err != nil {
		return nil, err
	}

	var idxs []int
	for i, v := range vals {
		idx := enumIndex(names, v)
		if idx < 0 {
			return nil, badValue(f, fmt.Sprintf("%s.%d", full, i), rserr.ErrMalformed, "%q is not one of %s", v, strings.Join(names, ", "))
		}
		idxs = append(idxs, idx)
	}
	return idxs, nil
}

// lookupFlags returns the flag set named by the list at path. If rename is
// not nil, every name is passed through it first.
func lookupFlags(f *secfile.File, ft *catalog.FlagTable, rename func(string) string, path string, a ...any) (catalog.FlagSet, error) {
	full := fmt.Sprintf(path, a...)
	names, err := f.LookupStrVec("%s", full)
	if err != nil {
		return 0, err
	}

	var fs catalog.FlagSet
	for i, name := range names {
		if rename != nil {
			name = rename(name)
		}
		id, ok := ft.ByName(name)
		if !ok {
			return 0, badValue(f, fmt.Sprintf("%s.%d", full, i), rserr.ErrNotFound, "unknown flag %q", name)
		}
		fs.Set(id)
	}
	return fs, nil
}

// lookupVector reads the requirement vector at path. Each element is a table
// with a type and a name, and optionally a range and the present, survives
// and quiet booleans. Identifiers renamed since older formats are translated
// before they are resolved.
func lookupVector(f *secfile.File, c *catalog.Catalog, info *rscompat.Info, path string, a ...any) (req.Vector, error) {
	full := fmt.Sprintf(path, a...)
	n, err := f.LookupList("%s", full)
	if err != nil {
		return nil, err
	}

	vec := make(req.Vector, 0, n)
	for i := 0; i < n; i++ {
		elem := fmt.Sprintf("%s.%d", full, i)

		typ, err := f.LookupStr("%s.type", elem)
		if err != nil {
			return nil, err
		}
		name, err := f.LookupStrDefault("", "%s.name", elem)
		if err != nil {
			return nil, err
		}
		rng, err := f.LookupStrDefault("", "%s.range", elem)
		if err != nil {
			return nil, err
		}
		present, err := f.LookupBoolDefault(true, "%s.present", elem)
		if err != nil {
			return nil, err
		}
		survives, err := f.LookupBoolDefault(false, "%s.survives", elem)
		if err != nil {
			return nil, err
		}
		quiet, err := f.LookupBoolDefault(false, "%s.quiet", elem)
		if err != nil {
			return nil, err
		}

		typ = info.KindName(typ)
		if kind, ok := req.KindByName(typ); ok {
			name = info.ReqValueName(kind.String(), name)
		}

		r, err := req.FromNames(c, typ, rng, present, survives, quiet, name)
		if err != nil {
			return nil, &secfile.Error{File: f.Name(), Path: elem, Msg: err.Error(), Err: err}
		}
		vec = append(vec, r)
	}
	return vec, nil
}
