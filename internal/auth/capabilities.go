package auth

// Capability names one authorization requirement a command may declare.
type Capability string

const (
	CapOwner      Capability = "owner"
	CapSudo       Capability = "sudo"
	CapGroupAdmin Capability = "group-admin"
	CapPremium    Capability = "premium"
)

// Capabilities is the set of authorization booleans derived for a single
// dispatch attempt. It is computed fresh on every call and discarded after
// use; group admin rights can change between two messages, so caching a set
// would retain privileges after a demotion.
type Capabilities struct {
	Owner         bool
	Sudoer        bool
	GroupAdmin    bool
	BotGroupAdmin bool
	Premium       bool
}

// Has reports whether this set satisfies a single capability.
func (c Capabilities) Has(cap Capability) bool {
	switch cap {
	case CapOwner:
		return c.Owner
	case CapSudo:
		return c.Sudoer
	case CapGroupAdmin:
		return c.GroupAdmin
	case CapPremium:
		return c.Premium
	default:
		return false
	}
}

// SatisfiesAny reports whether any capability in the list is held. An empty
// list means the command is open.
func (c Capabilities) SatisfiesAny(caps []Capability) bool {
	if len(caps) == 0 {
		return true
	}
	for _, cap := range caps {
		if c.Has(cap) {
			return true
		}
	}
	return false
}
