package butterfly

import (
	"fmt"

	"github.com/sarchlab/butterfly/config"
)

// BindingStrategy decides which linear switch each upstream port of a
// crossbar node connects to.
type BindingStrategy int

// Supported binding strategies.
const (
	// FixedGroupBinding binds port j of every crossbar node to linear switch
	// j, so all the nodes share the same group of switches.
	FixedGroupBinding BindingStrategy = iota

	// StaggeredBinding binds port j of node k to linear switch 8k+j, so the
	// nodes spread over the whole chain.
	StaggeredBinding
)

// Upstream returns the index of the linear switch that port of node binds
// to. The index wraps around when there are fewer linear switches than
// ports.
func (s BindingStrategy) Upstream(node, port, numSwitches int) int {
	switch s {
	case FixedGroupBinding:
		return port % numSwitches
	case StaggeredBinding:
		return (node*config.CrossbarRadix + port) % numSwitches
	default:
		panic(fmt.Sprintf("unknown binding strategy %d", int(s)))
	}
}

func (s BindingStrategy) String() string {
	switch s {
	case FixedGroupBinding:
		return "fixed"
	case StaggeredBinding:
		return "staggered"
	default:
		return fmt.Sprintf("BindingStrategy(%d)", int(s))
	}
}

// ParseBindingStrategy converts a name printed by String back to a strategy.
func ParseBindingStrategy(name string) (BindingStrategy, error) {
	switch name {
	case "fixed", "":
		return FixedGroupBinding, nil
	case "staggered":
		return StaggeredBinding, nil
	default:
		return 0, fmt.Errorf("unknown binding strategy %q", name)
	}
}
