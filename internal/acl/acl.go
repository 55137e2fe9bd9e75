// Package acl describes what the current user may do with the viewed file.
package acl

import "io/fs"

// Permissions is the access-control state handed to viewers.
type Permissions struct {
	CanRead     bool
	CanEdit     bool
	CanDownload bool
}

// ReadOnly is the permission set used when nothing better is known.
var ReadOnly = Permissions{CanRead: true, CanDownload: true}

// FromMode derives permissions from unix permission bits. Only the owner bits
// are considered; glance runs as the file's viewer, not as a server.
func FromMode(mode fs.FileMode) Permissions {
	perm := mode.Perm()
	return Permissions{
		CanRead:     perm&0o400 != 0,
		CanEdit:     perm&0o200 != 0 && !mode.IsDir(),
		CanDownload: perm&0o400 != 0 && mode.IsRegular(),
	}
}

// Label renders a compact ls-style marker ("rw", "r-", "--").
func (p Permissions) Label() string {
	out := []byte("--")
	if p.CanRead {
		out[0] = 'r'
	}
	if p.CanEdit {
		out[1] = 'w'
	}
	return string(out)
}
