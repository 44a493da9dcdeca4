package model

import "time"

// FileKind is the type of a node in the file tree.
type FileKind string

const (
	KindFolder FileKind = "folder"
	KindFile   FileKind = "file"
	KindImage  FileKind = "image"
)

// ParseKind maps the wire value to a FileKind.
func ParseKind(s string) (FileKind, bool) {
	switch k := FileKind(s); k {
	case KindFolder, KindFile, KindImage:
		return k, true
	}
	return "", false
}

// FileNode is a folder or a leaf (file/image) in a user's tree.
//
// ParentID is nil for top-level nodes; otherwise it references a folder that
// existed when the node was created.  BlobKey is set iff Kind is not a
// folder.  IsPublic is the only field that changes after creation.
type FileNode struct {
	ID        string
	OwnerID   string
	Name      string
	Kind      FileKind
	IsPublic  bool
	ParentID  *string
	BlobKey   string
	CreatedAt time.Time
}

// IsRoot reports whether the node sits at the top of its owner's tree.
func (n *FileNode) IsRoot() bool { return n.ParentID == nil }

// IsFolder reports whether the node is a folder.
func (n *FileNode) IsFolder() bool { return n.Kind == KindFolder }
