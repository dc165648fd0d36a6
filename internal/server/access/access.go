// Package access decides who may see and extend which files. Requester id 0
// stands for an anonymous caller.
package access

import "github.com/dmitrijs2005/filesmanager/internal/server/models"

// Anonymous is the requester id of unauthenticated callers.
const Anonymous int64 = 0

// CanRead reports whether requesterID may read f. Public files are readable
// by anyone, private ones only by their owner.
func CanRead(f *models.File, requesterID int64) bool {
	if f == nil {
		return false
	}
	if f.IsPublic {
		return true
	}
	return requesterID != Anonymous && f.UserID == requesterID
}

// CanModify reports whether requesterID owns f.
func CanModify(f *models.File, requesterID int64) bool {
	return f != nil && requesterID != Anonymous && f.UserID == requesterID
}

// CanCreateUnder reports whether requesterID may place a new file under
// parent. A nil parent means the root, which every user may write to.
func CanCreateUnder(parent *models.File, requesterID int64) bool {
	if requesterID == Anonymous {
		return false
	}
	if parent == nil {
		return true
	}
	return parent.IsFolder() && parent.UserID == requesterID
}
