// Package genomics contains definitions related to genomic data.
package genomics

import "fmt"

// Position identifies a single base on a named sequence.
type Position struct {
	// Name is the sequence (chromosome or scaffold) identifier.
	Name string
	// Pos is the offset of the base on the sequence.
	Pos int64
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d", p.Name, p.Pos)
}
