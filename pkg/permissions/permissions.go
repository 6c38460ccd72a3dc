// Package permissions converts between the nine character rwx notation used
// in configuration ("rw-r--r--") and fs.FileMode.
//
// The execute positions may carry the special flags: 's' is execute plus
// setuid (owner) or setgid (group), 't' in the last position is execute plus
// sticky. The uppercase forms 'S' and 'T' mean the special flag without the
// execute bit, which is how existing files with such modes are rendered.
package permissions

import (
	"io/fs"
	"strings"

	"github.com/arthur-debert/cleanfiles/pkg/errors"
)

// Length of a permission string
const Length = 9

type class struct {
	read, write, exec fs.FileMode
	special           fs.FileMode
	set, unset        byte // execute position letters for special with/without exec
}

var classes = [3]class{
	{read: 0400, write: 0200, exec: 0100, special: fs.ModeSetuid, set: 's', unset: 'S'},
	{read: 0040, write: 0020, exec: 0010, special: fs.ModeSetgid, set: 's', unset: 'S'},
	{read: 0004, write: 0002, exec: 0001, special: fs.ModeSticky, set: 't', unset: 'T'},
}

// Mask covers every bit Parse can produce
const Mask = fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky

// Parse converts a permission string to a file mode
func Parse(s string) (fs.FileMode, error) {
	if len(s) != Length {
		return 0, invalid(s, "must be exactly 9 characters")
	}

	var mode fs.FileMode
	for i, c := range classes {
		r, w, x := s[i*3], s[i*3+1], s[i*3+2]

		switch r {
		case 'r':
			mode |= c.read
		case '-':
		default:
			return 0, invalid(s, "position %d must be 'r' or '-'", i*3+1)
		}

		switch w {
		case 'w':
			mode |= c.write
		case '-':
		default:
			return 0, invalid(s, "position %d must be 'w' or '-'", i*3+2)
		}

		switch x {
		case 'x':
			mode |= c.exec
		case c.set:
			mode |= c.exec | c.special
		case c.unset:
			mode |= c.special
		case '-':
		default:
			return 0, invalid(s, "position %d must be one of 'x%c%c-'", i*3+3, c.set, c.unset)
		}
	}
	return mode, nil
}

// Format renders the permission and special bits of mode. Type bits (dir,
// symlink...) are ignored.
func Format(mode fs.FileMode) string {
	var b strings.Builder
	b.Grow(Length)
	for _, c := range classes {
		b.WriteByte(flag(mode&c.read != 0, 'r'))
		b.WriteByte(flag(mode&c.write != 0, 'w'))

		exec := mode&c.exec != 0
		special := mode&c.special != 0
		switch {
		case exec && special:
			b.WriteByte(c.set)
		case special:
			b.WriteByte(c.unset)
		default:
			b.WriteByte(flag(exec, 'x'))
		}
	}
	return b.String()
}

// Validate reports whether s is a well formed permission string
func Validate(s string) error {
	_, err := Parse(s)
	return err
}

func flag(set bool, c byte) byte {
	if set {
		return c
	}
	return '-'
}

func invalid(s, format string, args ...interface{}) *errors.CleanError {
	return errors.Newf(errors.ErrPermissionFormat, "invalid permission string %q: "+format, append([]interface{}{s}, args...)...).
		WithDetail("value", s)
}
