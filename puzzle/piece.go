package puzzle

import (
	"fmt"
)

/*

Directions

*/

// A Direction is one of the four grid directions.  They are
// numbered in clockwise order starting from Up, so a 90° turn of
// a connector is the next Direction (mod 4).
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
	numDirections
)

var directionNames = [numDirections]string{"up", "right", "down", "left"}

// Opposite maps the direction I leave a cell by to the direction
// my neighbor is entered from.
func (d Direction) Opposite() Direction {
	return (d + 2) % numDirections
}

// Directions implement Stringer
func (d Direction) String() string {
	if d < 0 || d >= numDirections {
		return fmt.Sprintf("<direction %d>", int(d))
	}
	return directionNames[d]
}

// MarshalText gives the JSON form of a Direction.
func (d Direction) MarshalText() ([]byte, error) {
	if d < 0 || d >= numDirections {
		return nil, fmt.Errorf("Can't encode direction %d", int(d))
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (d *Direction) UnmarshalText(text []byte) error {
	for i, name := range directionNames {
		if name == string(text) {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("Unknown direction %q", string(text))
}

// A DirectionSet is a set of directions, stored as a bitmask
// indexed by Direction.
type DirectionSet uint8

// NewDirectionSet makes a set of the given directions.
func NewDirectionSet(ds ...Direction) DirectionSet {
	var s DirectionSet
	for _, d := range ds {
		s |= 1 << uint(d)
	}
	return s
}

// allDirections is the connector set of a Cross.
var allDirections = NewDirectionSet(Up, Right, Down, Left)

// Has reports whether d is in the set.
func (s DirectionSet) Has(d Direction) bool {
	return s&(1<<uint(d)) != 0
}

// Count is the cardinality of the set.
func (s DirectionSet) Count() int {
	n := 0
	for d := Up; d < numDirections; d++ {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Directions returns the members of the set in clockwise order
// starting from Up.
func (s DirectionSet) Directions() []Direction {
	var ds []Direction
	for d := Up; d < numDirections; d++ {
		if s.Has(d) {
			ds = append(ds, d)
		}
	}
	return ds
}

// DirectionSets implement Stringer
func (s DirectionSet) String() string {
	return fmt.Sprint(s.Directions())
}

/*

Piece kinds and the connector catalog

*/

// A Kind is one of the closed set of piece variants.  Empty
// through Cross are pipes, which the player (or the solver)
// rotates into place.  Servers and Terminals are computers: each
// has a single connector.
type Kind int

const (
	Empty Kind = iota
	Straight
	Elbow
	Tee
	Cross
	Server
	Terminal
	numKinds
)

var kindNames = [numKinds]string{
	"empty", "straight", "elbow", "tee", "cross", "server", "terminal",
}

// Kinds implement Stringer
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("<kind %d>", int(k))
	}
	return kindNames[k]
}

// MarshalText gives the JSON form of a Kind.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || k >= numKinds {
		return nil, kindError(k)
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return Error{
		Scope:     PieceScope,
		Structure: AttributeValueStructure,
		Attribute: KindAttribute,
		Condition: InvalidKindCondition,
		Values:    ErrorData{string(text)},
	}
}

// IsComputer is true for Servers and Terminals.
func (k Kind) IsComputer() bool {
	return k == Server || k == Terminal
}

// IsPipe is true for the rotatable pipe kinds, including Empty.
func (k Kind) IsPipe() bool {
	return k >= Empty && k <= Cross
}

// rotationStates is the number of rotation states every kind
// cycles through.  Some pipes repeat themselves within the cycle
// (a Straight has only two distinct states, a Cross only one),
// but they all take four 90° turns to come back around.
const rotationStates = 4

// pipeCatalog gives the connector set of each pipe kind in each
// of its rotation states.  Each successive state is the
// previous one turned 90° clockwise.
var pipeCatalog = [...][rotationStates]DirectionSet{
	Empty: {},
	Straight: {
		NewDirectionSet(Left, Right),
		NewDirectionSet(Up, Down),
		NewDirectionSet(Left, Right),
		NewDirectionSet(Up, Down),
	},
	Elbow: {
		NewDirectionSet(Up, Left),
		NewDirectionSet(Up, Right),
		NewDirectionSet(Right, Down),
		NewDirectionSet(Down, Left),
	},
	Tee: {
		NewDirectionSet(Up, Left, Right),
		NewDirectionSet(Up, Right, Down),
		NewDirectionSet(Left, Right, Down),
		NewDirectionSet(Up, Left, Down),
	},
	Cross: {allDirections, allDirections, allDirections, allDirections},
}

// normalize reduces a rotation count to a catalog index.
func normalize(rotation int) int {
	rotation %= rotationStates
	if rotation < 0 {
		rotation += rotationStates
	}
	return rotation
}

// Connectors gives the connector set of a piece of the given
// kind in the given rotation state.  Computers have a single
// connector.  Any rotation count is accepted; it wraps.
func Connectors(kind Kind, rotation int) (DirectionSet, error) {
	switch {
	case kind.IsPipe():
		return pipeCatalog[kind][normalize(rotation)], nil
	case kind.IsComputer():
		return NewDirectionSet(ConnectorDirection(rotation)), nil
	}
	return 0, kindError(kind)
}

// ConnectorDirection gives the direction of a computer's single
// connector, which cycles clockwise Up, Right, Down, Left as the
// computer is rotated.
func ConnectorDirection(rotation int) Direction {
	return Direction(normalize(rotation))
}

/*

Pieces

*/

// A Piece is a kind plus its current rotation state.  Pieces are
// values, so no piece is ever shared between two cells.
type Piece struct {
	Kind     Kind `json:"kind"`
	Rotation int  `json:"rotation"`
}

// NewPiece makes a piece, checking that its kind is in the
// catalog.  The rotation is normalized.
func NewPiece(kind Kind, rotation int) (Piece, error) {
	if !kind.IsPipe() && !kind.IsComputer() {
		return Piece{}, kindError(kind)
	}
	return Piece{Kind: kind, Rotation: normalize(rotation)}, nil
}

// Connectors gives the piece's current connector set.  Pieces
// that weren't made by NewPiece may have a bad kind, in which
// case this panics: grids never hold such pieces.
func (p Piece) Connectors() DirectionSet {
	s, err := Connectors(p.Kind, p.Rotation)
	if err != nil {
		panic(err)
	}
	return s
}

// Rotated returns the piece turned 90° clockwise.
func (p Piece) Rotated() Piece {
	return Piece{Kind: p.Kind, Rotation: normalize(p.Rotation + 1)}
}

// Pieces implement Stringer
func (p Piece) String() string {
	if p.Kind.IsComputer() {
		return fmt.Sprintf("%v(%v)", p.Kind, ConnectorDirection(p.Rotation))
	}
	if !p.Kind.IsPipe() {
		return p.Kind.String()
	}
	return fmt.Sprintf("%v%v", p.Kind, p.Connectors())
}
