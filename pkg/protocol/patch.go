package protocol

// PatchOp is the type of patch operation.
type PatchOp string

const (
	PatchInsertNode  PatchOp = "insert"      // Append HTML to <body>
	PatchAppendNode  PatchOp = "append"      // Append HTML to Parent
	PatchRemoveNode  PatchOp = "remove"      // Detach node
	PatchAddClass    PatchOp = "addClass"    // Add CSS class
	PatchRemoveClass PatchOp = "removeClass" // Remove CSS class
	PatchSetStyle    PatchOp = "setStyle"    // Merge inline styles
	PatchSetAttr     PatchOp = "setAttr"     // Set attribute
	PatchRemoveAttr  PatchOp = "removeAttr"  // Remove attribute
)

// Patch is a single DOM mutation for the client to apply.
type Patch struct {
	Op     PatchOp           `json:"op"`
	ID     string            `json:"id"`
	Parent string            `json:"parent,omitempty"`
	HTML   string            `json:"html,omitempty"`
	Class  string            `json:"class,omitempty"`
	Styles map[string]string `json:"styles,omitempty"`
	Key    string            `json:"key,omitempty"`
	Value  string            `json:"value,omitempty"`
}

// NewInsertNode creates a patch appending html to the body.
func NewInsertNode(id, html string) Patch {
	return Patch{Op: PatchInsertNode, ID: id, HTML: html}
}

// NewAppendNode creates a patch appending html to parent.
func NewAppendNode(parent, id, html string) Patch {
	return Patch{Op: PatchAppendNode, Parent: parent, ID: id, HTML: html}
}

// NewRemoveNode creates a patch detaching a node.
func NewRemoveNode(id string) Patch {
	return Patch{Op: PatchRemoveNode, ID: id}
}

// NewAddClass creates a patch adding a class.
func NewAddClass(id, class string) Patch {
	return Patch{Op: PatchAddClass, ID: id, Class: class}
}

// NewRemoveClass creates a patch removing a class.
func NewRemoveClass(id, class string) Patch {
	return Patch{Op: PatchRemoveClass, ID: id, Class: class}
}

// NewSetStyle creates a patch merging inline styles.
func NewSetStyle(id string, styles map[string]string) Patch {
	return Patch{Op: PatchSetStyle, ID: id, Styles: styles}
}

// NewSetAttr creates a patch setting an attribute.
func NewSetAttr(id, key, value string) Patch {
	return Patch{Op: PatchSetAttr, ID: id, Key: key, Value: value}
}

// NewRemoveAttr creates a patch removing an attribute.
func NewRemoveAttr(id, key string) Patch {
	return Patch{Op: PatchRemoveAttr, ID: id, Key: key}
}
