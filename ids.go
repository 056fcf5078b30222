package pinboard

import (
	"fmt"
	"strconv"
	"strings"

	"go.jetify.com/typeid/v2"
)

// ID prefixes per entity kind.
const (
	PrefixNote      = "note"
	PrefixConnector = "conn"
	PrefixStroke    = "stroke"
)

func prefixFor(kind EntityKind) string {
	switch kind {
	case KindConnector:
		return PrefixConnector
	case KindStroke:
		return PrefixStroke
	default:
		return PrefixNote
	}
}

// IDSource issues entity ids.
type IDSource interface {
	// NewID returns an id not issued before in this session.
	NewID(kind EntityKind) EntityID
	// Observe records an id that entered the board from elsewhere (a loaded
	// board) so it is never issued again.
	Observe(id EntityID)
}

// TypeIDs issues random, sortable typeids such as "note_01h455vb4pex5vsknk084sn02q".
type TypeIDs struct{}

// NewID implements IDSource.
func (TypeIDs) NewID(kind EntityKind) EntityID {
	return EntityID(typeid.MustGenerate(prefixFor(kind)).String())
}

// Observe implements IDSource. Random ids need no bookkeeping.
func (TypeIDs) Observe(EntityID) {}

// SequentialIDs issues "note-1", "note-2", "conn-1", ... with one counter per
// kind. Deterministic, so scripts and tests can refer to ids.
type SequentialIDs struct {
	next [3]uint64
}

// NewID implements IDSource.
func (s *SequentialIDs) NewID(kind EntityKind) EntityID {
	s.next[kind]++
	return EntityID(fmt.Sprintf("%s-%d", prefixFor(kind), s.next[kind]))
}

// Observe implements IDSource. Ids in the "prefix-N" form advance the
// matching counter past N; anything else is ignored.
func (s *SequentialIDs) Observe(id EntityID) {
	prefix, num, ok := strings.Cut(string(id), "-")
	if !ok {
		return
	}
	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return
	}
	for kind := KindNote; kind <= KindStroke; kind++ {
		if prefixFor(kind) == prefix && n > s.next[kind] {
			s.next[kind] = n
		}
	}
}
