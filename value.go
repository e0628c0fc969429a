package graft

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// Kind identifies which variant a Value holds
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindStr
	KindList
	KindSet
)

// String returns the variant name for diagnostics
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindStr:
		return "str"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	}
	return "unknown"
}

// Value is a member of the language's closed value union. Values are
// immutable once constructed; Append and Insert return new Values and
// leave the receiver's collection untouched (copy-on-write), so any
// other holder of the old Value keeps observing the original contents.
//
// Equality and hashing agree for every variant, recursively through
// List and Set. Floats compare and hash by bit pattern, not numeric
// equality: 0.0 and -0.0 differ, a NaN equals itself.
type Value struct {
	kind Kind
	num  uint64 // int32 payload, float bits, or bool as 0/1
	str  string
	list *List
	set  *set.HashSet[Value, uint64]
}

// IntVal creates an Int value
func IntVal(i int32) Value {
	return Value{kind: KindInt, num: uint64(uint32(i))}
}

// FloatVal creates a Float value
func FloatVal(f float64) Value {
	return Value{kind: KindFloat, num: math.Float64bits(f)}
}

// BoolVal creates a Bool value
func BoolVal(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// StrVal creates a Str value
func StrVal(s string) Value {
	return Value{kind: KindStr, str: s}
}

// ListVal creates a List value from items, in order
func ListVal(items ...Value) Value {
	return Value{kind: KindList, list: NewList(items)}
}

// SetVal creates a Set value from items; duplicates collapse and
// insertion order is irrelevant
func SetVal(items ...Value) Value {
	s := set.NewHashSet[Value, uint64](len(items))
	for _, item := range items {
		s.Insert(item)
	}
	return Value{kind: KindSet, set: s}
}

// Kind returns the variant tag
func (v Value) Kind() Kind { return v.kind }

// Int returns the Int payload (zero for other variants)
func (v Value) Int() int32 { return int32(uint32(v.num)) }

// Float returns the Float payload (zero for other variants)
func (v Value) Float() float64 { return math.Float64frombits(v.num) }

// Bool returns the Bool payload (false for other variants)
func (v Value) Bool() bool { return v.num != 0 }

// Str returns the Str payload (empty for other variants)
func (v Value) Str() string { return v.str }

// Items returns the elements of a List (in order) or a Set (unordered).
// The returned slice is a copy; mutating it does not affect the Value.
func (v Value) Items() []Value {
	switch v.kind {
	case KindList:
		return v.list.Items()
	case KindSet:
		return v.set.Slice()
	}
	return nil
}

// Len returns the element count of a List or Set, zero otherwise
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return v.list.Len()
	case KindSet:
		return v.set.Size()
	}
	return 0
}

// Contains reports whether a Set value holds elem
func (v Value) Contains(elem Value) bool {
	if v.kind != KindSet {
		return false
	}
	return v.set.Contains(elem)
}

// Append returns a new List value with elem appended. The receiver
// must be a List; the original backing list is never modified.
func (v Value) Append(elem Value) Value {
	return Value{kind: KindList, list: v.list.Append(elem)}
}

// Insert returns a new Set value including elem. The receiver must be
// a Set; the original set is never modified.
func (v Value) Insert(elem Value) Value {
	s := v.set.Copy()
	s.Insert(elem)
	return Value{kind: KindSet, set: s}
}

// Equal reports structural equality. Lists compare elementwise in
// order; Sets compare order-independently by membership.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInt, KindFloat, KindBool:
		return v.num == other.num
	case KindStr:
		return v.str == other.str
	case KindList:
		if v.list.Len() != other.list.Len() {
			return false
		}
		for i, elem := range v.list.items {
			if !elem.Equal(other.list.items[i]) {
				return false
			}
		}
		return true
	case KindSet:
		if v.set.Size() != other.set.Size() {
			return false
		}
		for _, elem := range v.set.Slice() {
			if !other.set.Contains(elem) {
				return false
			}
		}
		return true
	}
	return false
}

// FNV-1a, 64 bit
const (
	fnvOffset uint64 = 14695981039346656037
	fnvPrime  uint64 = 1099511628211
)

func fnvMix(h, x uint64) uint64 {
	return (h ^ x) * fnvPrime
}

// Hash returns a structural hash consistent with Equal: equal Values
// hash identically. List hashing folds element hashes in order; Set
// hashing XORs each element's independent hash so that construction
// order cannot affect the result. Hash also keys Set membership, so
// it doubles as the Value's identity within a Set.
func (v Value) Hash() uint64 {
	h := fnvMix(fnvOffset, uint64(v.kind))
	switch v.kind {
	case KindInt, KindFloat, KindBool:
		h = fnvMix(h, v.num)
	case KindStr:
		for i := 0; i < len(v.str); i++ {
			h = fnvMix(h, uint64(v.str[i]))
		}
	case KindList:
		for _, elem := range v.list.items {
			h = fnvMix(h, elem.Hash())
		}
	case KindSet:
		var acc uint64
		for _, elem := range v.set.Slice() {
			acc ^= elem.Hash()
		}
		h = fnvMix(h, acc)
	}
	return h
}

// String renders the value in literal syntax. Set elements print in
// sorted render order so output is deterministic.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(int64(v.Int()), 10)
	case KindFloat:
		s := strconv.FormatFloat(v.Float(), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindStr:
		return strconv.Quote(v.str)
	case KindList:
		parts := make([]string, v.list.Len())
		for i, elem := range v.list.items {
			parts[i] = elem.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindSet:
		parts := make([]string, 0, v.set.Size())
		for _, elem := range v.set.Slice() {
			parts = append(parts, elem.String())
		}
		sort.Strings(parts)
		return "set[" + strings.Join(parts, ", ") + "]"
	}
	return "<invalid>"
}

// List is an immutable ordered sequence of Values. All operations
// return new List instances and leave the receiver untouched.
type List struct {
	items []Value
}

// NewList creates a List holding a copy of items
func NewList(items []Value) *List {
	copied := make([]Value, len(items))
	copy(copied, items)
	return &List{items: copied}
}

// Len returns the number of items in the list
func (l *List) Len() int {
	return len(l.items)
}

// Items returns a copy of the list's items
func (l *List) Items() []Value {
	copied := make([]Value, len(l.items))
	copy(copied, l.items)
	return copied
}

// Get returns the item at index (0-based) and whether it exists
func (l *List) Get(index int) (Value, bool) {
	if index < 0 || index >= len(l.items) {
		return Value{}, false
	}
	return l.items[index], true
}

// Append returns a new List with item appended (copy-on-write)
func (l *List) Append(item Value) *List {
	newItems := make([]Value, len(l.items)+1)
	copy(newItems, l.items)
	newItems[len(l.items)] = item
	return &List{items: newItems}
}
