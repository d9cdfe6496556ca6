// Package fileversion parses versioned source file names such as
// "3.24.4 PTU 98767232.json" and picks the newest one.
package fileversion

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/citizenwiki/locmerge/pkg/errors"
)

const ext = ".json"

// Version is a parsed source file name
type Version struct {
	Major   int
	Minor   int
	Patch   int
	Profile string
	Build   int64
	// Name is the base name without extension, e.g. "3.24.4 PTU 98767232"
	Name string
}

// String returns the name the version was parsed from
func (v Version) String() string {
	return v.Name
}

// IsFormatted reports whether name follows the "<x.y.z> <profile> <build>.json" pattern
func IsFormatted(name string) bool {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.HasSuffix(base, ext) &&
		len(strings.Split(base, " ")) == 3 &&
		!strings.Contains(base, "-")
}

// Parse reads the version encoded in a source file name. Directory parts are ignored.
func Parse(name string) (Version, error) {
	if !IsFormatted(name) {
		return Version{}, errors.Newf(errors.ErrInvalidInput, "%q is not a versioned file name", name)
	}

	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	parts := strings.Split(base, " ")

	numbers := strings.Split(parts[0], ".")
	if len(numbers) != 3 {
		return Version{}, errors.Newf(errors.ErrInvalidInput, "%q: version must have three parts", name)
	}

	var v Version
	for i, target := range []*int{&v.Major, &v.Minor, &v.Patch} {
		n, err := strconv.Atoi(numbers[i])
		if err != nil {
			return Version{}, errors.Wrapf(err, errors.ErrInvalidInput, "%q: bad version number", name)
		}
		*target = n
	}

	digits := leadingDigits(parts[2])
	if digits == "" {
		return Version{}, errors.Newf(errors.ErrInvalidInput, "%q: missing build number", name)
	}
	build, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Version{}, errors.Wrapf(err, errors.ErrInvalidInput, "%q: bad build number", name)
	}

	v.Build = build
	v.Profile = parts[1]
	v.Name = strings.TrimSuffix(base, ext)
	return v, nil
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

// Compare orders versions by major, minor, patch, then build. Ties fall
// back to the name so the order is total. The profile does not take part.
func Compare(a, b Version) int {
	for _, d := range []int64{
		int64(a.Major - b.Major),
		int64(a.Minor - b.Minor),
		int64(a.Patch - b.Patch),
	} {
		if d != 0 {
			return sign(d)
		}
	}
	if a.Build != b.Build {
		if a.Build < b.Build {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Name, b.Name)
}

func sign(d int64) int {
	if d < 0 {
		return -1
	}
	return 1
}

// Latest returns the newest version among names. Names that are not
// versioned are ignored; ok is false when none is.
func Latest(names []string) (latest Version, ok bool) {
	for _, name := range names {
		v, err := Parse(name)
		if err != nil {
			continue
		}
		if !ok || Compare(v, latest) > 0 {
			latest, ok = v, true
		}
	}
	return latest, ok
}

// Describe renders a short human description
func Describe(v Version, ok bool) string {
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%d.%d.%d %s (build %d)", v.Major, v.Minor, v.Patch, v.Profile, v.Build)
}
