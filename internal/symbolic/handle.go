// Package symbolic implements C1: the symbolic-value registry.
//
// A Handle denotes the eventual result of a command invocation, or of setup,
// before that invocation has actually run. Handles carry a sequence number
// used both to order invocations (a handle may only be referenced by an
// invocation with a strictly greater sequence number) and to print them
// (#<0>, #<1>, ...). Equality is by identity: two handles with the same
// sequence number minted by the same registry are the same value, but a
// Handle should never be constructed any other way than through Registry.
package symbolic

import "fmt"

// SetupSeq is the reserved sequence number naming the result of Spec.Setup.
const SetupSeq = 0

// Handle is an opaque identifier for a not-yet-executed result.
type Handle struct {
	seq int
}

// Seq returns the handle's generation-order sequence number.
func (h Handle) Seq() int { return h.seq }

// IsSetup reports whether h names the reserved setup result.
func (h Handle) IsSetup() bool { return h.seq == SetupSeq }

// String renders a handle the way the reporting surface expects: #<N>.
func (h Handle) String() string { return fmt.Sprintf("#<%d>", h.seq) }

// Before reports whether h was minted strictly earlier than other, i.e.
// whether other may legally reference h in its argument tree.
func (h Handle) Before(other Handle) bool { return h.seq < other.seq }

// Setup is the reserved handle naming the result of Spec.Setup.
var Setup = Handle{seq: SetupSeq}
