package report

import (
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// MarshalBinary converts r into a slice of bytes that can be decoded with
// UnmarshalBinary.
func (r Report) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(r.ID.String())...)
	data = append(data, rezi.EncString(r.Dir)...)
	data = append(data, rezi.EncString(r.Ruleset)...)
	data = append(data, rezi.EncInt(int(r.Created.UnixNano()))...)
	data = append(data, rezi.EncInt(r.Version)...)
	data = append(data, rezi.EncBool(r.CompatMode)...)
	data = append(data, rezi.EncString(r.Fingerprint)...)

	names := r.CountNames()
	data = append(data, rezi.EncInt(len(names))...)
	for _, k := range names {
		data = append(data, rezi.EncString(k)...)
		data = append(data, rezi.EncInt(r.Counts[k])...)
	}

	data = append(data, rezi.EncInt(len(r.Warnings))...)
	for _, w := range r.Warnings {
		data = append(data, rezi.EncString(string(w.Category))...)
		data = append(data, rezi.EncString(w.Message)...)
	}

	return data, nil
}

type decoder struct {
	data []byte
	err  error
}

func (d *decoder) str(what string) string {
	if d.err != nil {
		return ""
	}
	s, n, err := rezi.DecString(d.data)
	if err != nil {
		d.err = fmt.Errorf("%s: %w", what, err)
		return ""
	}
	d.data = d.data[n:]
	return s
}

func (d *decoder) num(what string) int {
	if d.err != nil {
		return 0
	}
	i, n, err := rezi.DecInt(d.data)
	if err != nil {
		d.err = fmt.Errorf("%s: %w", what, err)
		return 0
	}
	d.data = d.data[n:]
	return i
}

func (d *decoder) flag(what string) bool {
	if d.err != nil {
		return false
	}
	b, n, err := rezi.DecBool(d.data)
	if err != nil {
		d.err = fmt.Errorf("%s: %w", what, err)
		return false
	}
	d.data = d.data[n:]
	return b
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into r.
func (r *Report) UnmarshalBinary(data []byte) error {
	d := &decoder{data: data}

	idStr := d.str("id")
	dir := d.str("dir")
	ruleset := d.str("ruleset")
	created := d.num("created")
	version := d.num("version")
	compat := d.flag("compat mode")
	fp := d.str("fingerprint")

	counts := map[string]int{}
	countLen := d.num("count length")
	for i := 0; i < countLen && d.err == nil; i++ {
		k := d.str(fmt.Sprintf("count %d name", i))
		counts[k] = d.num(fmt.Sprintf("count %d value", i))
	}

	var warnings []Warning
	warnLen := d.num("warning count")
	for i := 0; i < warnLen && d.err == nil; i++ {
		cat := d.str(fmt.Sprintf("warning %d category", i))
		msg := d.str(fmt.Sprintf("warning %d message", i))
		warnings = append(warnings, Warning{Category: Category(cat), Message: msg})
	}

	if d.err != nil {
		return d.err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}

	r.ID = id
	r.Dir = dir
	r.Ruleset = ruleset
	r.Created = time.Unix(0, int64(created))
	r.Version = version
	r.CompatMode = compat
	r.Fingerprint = fp
	r.Counts = counts
	r.Warnings = warnings
	return nil
}
