package main

import (
	"path"
	"slices"
	"strings"
)

// Node represents an entry in the directory tree of dumped files.
type Node struct {
	Name     string
	IsDir    bool
	Size     int64 // Relevant for files
	Children []*Node
}

// buildTree constructs a hierarchical tree from collected entries, creating
// intermediate directory nodes as needed.
func buildTree(entries []FileEntry, rootName string) *Node {
	root := &Node{Name: rootName, IsDir: true}
	dirs := map[string]*Node{"": root}

	for _, entry := range entries {
		segments := splitSegments(entry.RelPath)
		if len(segments) == 0 {
			continue
		}

		parent := root
		for i := range segments[:len(segments)-1] {
			key := strings.Join(segments[:i+1], "/")
			dir, ok := dirs[key]
			if !ok {
				dir = &Node{Name: segments[i], IsDir: true}
				dirs[key] = dir
				parent.Children = append(parent.Children, dir)
			}
			parent = dir
		}

		parent.Children = append(parent.Children, &Node{
			Name: path.Base(entry.RelPath),
			Size: entry.Size,
		})
	}

	sortChildren(root)
	return root
}

// sortChildren recursively sorts the children of a node alphabetically.
func sortChildren(node *Node) {
	if !node.IsDir || len(node.Children) == 0 {
		return
	}

	slices.SortFunc(node.Children, func(a, b *Node) int {
		return strings.Compare(a.Name, b.Name)
	})

	for _, child := range node.Children {
		sortChildren(child)
	}
}

// printTree generates the string representation of the tree.
func printTree(root *Node) string {
	var builder strings.Builder
	builder.WriteString(root.Name)
	builder.WriteString("\n")
	printNode(&builder, root.Children, "")
	return builder.String()
}

// printNode is a helper function for recursively printing tree nodes.
func printNode(builder *strings.Builder, children []*Node, prefix string) {
	for i, node := range children {
		connector := "├── "
		newPrefix := prefix + "│   "
		if i == len(children)-1 {
			connector = "└── "
			newPrefix = prefix + "    "
		}

		builder.WriteString(prefix)
		builder.WriteString(connector)
		builder.WriteString(node.Name)
		builder.WriteString("\n")

		if node.IsDir && len(node.Children) > 0 {
			printNode(builder, node.Children, newPrefix)
		}
	}
}
