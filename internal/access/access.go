// Package access decides who may see or change a file node.
package access

import "github.com/iliyamo/files-manager/internal/model"

// CanRead reports whether requesterID may see n.  An empty requesterID is an
// anonymous caller, who only ever sees public nodes.
func CanRead(n *model.FileNode, requesterID string) bool {
	if n == nil {
		return false
	}
	return n.IsPublic || isOwner(n, requesterID)
}

// CanWrite reports whether requesterID may change n's visibility.  Being
// public grants nothing here.
func CanWrite(n *model.FileNode, requesterID string) bool {
	return n != nil && isOwner(n, requesterID)
}

func isOwner(n *model.FileNode, requesterID string) bool {
	return requesterID != "" && n.OwnerID == requesterID
}
