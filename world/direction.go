// Package world is a minimal block world that generators live in. It knows
// which block sits where, which blocks hold fluid, and which blocks are
// containers.
package world

// Direction points from a block to one of its six neighbors.
type Direction int

// The six directions, in the order the host enumerates them.
const (
	Down Direction = iota
	Up
	North
	South
	West
	East
)

var directionNames = [...]string{"down", "up", "north", "south", "west", "east"}

// Horizontal returns the four lateral directions in enumeration order.
func Horizontal() []Direction {
	return []Direction{North, South, West, East}
}

// IsHorizontal returns true for the four lateral directions.
func (d Direction) IsHorizontal() bool {
	return d >= North && d <= East
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case Down:
		return Up
	case Up:
		return Down
	case North:
		return South
	case South:
		return North
	case West:
		return East
	case East:
		return West
	}

	panic("unknown direction")
}

func (d Direction) String() string {
	if d < Down || d > East {
		return "unknown"
	}

	return directionNames[d]
}

// Pos is a block position. Y grows upward and Z grows southward.
type Pos struct {
	X, Y, Z int
}

// Offset returns the neighboring position in a direction.
func (p Pos) Offset(d Direction) Pos {
	switch d {
	case Down:
		p.Y--
	case Up:
		p.Y++
	case North:
		p.Z--
	case South:
		p.Z++
	case West:
		p.X--
	case East:
		p.X++
	}

	return p
}
