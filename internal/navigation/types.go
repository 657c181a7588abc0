package navigation

// NavItem is one entry of the top navigation bar.
type NavItem struct {
	Text string `json:"text" yaml:"text"`
	Link string `json:"link" yaml:"link"`
}

// SidebarNode is a sidebar entry. Leaves carry a Link; groups carry Items.
type SidebarNode struct {
	Text      string        `json:"text" yaml:"text"`
	Link      string        `json:"link,omitempty" yaml:"link,omitempty"`
	Collapsed bool          `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	Items     []SidebarNode `json:"items,omitempty" yaml:"items,omitempty"`
}

// IsLeaf reports whether the node links to a page and has no children.
func (n SidebarNode) IsLeaf() bool { return len(n.Items) == 0 && n.Link != "" }

// LeafCount returns the number of page links in the subtree rooted at n.
func (n SidebarNode) LeafCount() int {
	count := 0
	if n.Link != "" {
		count++
	}
	for _, child := range n.Items {
		count += child.LeafCount()
	}
	return count
}

// Sidebar maps a URL prefix ("/guide/", or "/" for root pages) to its groups.
type Sidebar map[string][]SidebarNode
