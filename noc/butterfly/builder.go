package butterfly

import (
	"fmt"

	"github.com/sarchlab/butterfly/config"
	"github.com/sarchlab/butterfly/mem/memcontroller"
	"github.com/sarchlab/butterfly/noc/addressing"
	"github.com/sarchlab/butterfly/noc/routing"
	"github.com/sarchlab/butterfly/noc/switching/switches"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

// Builder can build butterfly interconnects.
type Builder struct {
	config          config.Config
	timeTeller      sim.TimeTeller
	bindingStrategy BindingStrategy
}

// MakeBuilder creates a builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		config:          config.Default(),
		bindingStrategy: FixedGroupBinding,
	}
}

// WithConfig sets the parameters of the interconnect.
func (b Builder) WithConfig(c config.Config) Builder {
	b.config = c
	return b
}

// WithTimeTeller sets the clock that all the nodes read.
func (b Builder) WithTimeTeller(t sim.TimeTeller) Builder {
	b.timeTeller = t
	return b
}

// WithBindingStrategy sets how crossbar nodes bind to linear switches.
func (b Builder) WithBindingStrategy(s BindingStrategy) Builder {
	b.bindingStrategy = s
	return b
}

// Build validates the configuration and creates the interconnect. Nothing is
// created if the configuration is illegal.
func (b Builder) Build(name string) (*Comp, error) {
	b.timeTellerMustBeGiven()

	err := b.config.Validate()
	if err != nil {
		return nil, err
	}

	layout, err := addressing.PartitionConfig(b.config)
	if err != nil {
		return nil, err
	}

	c := newComp(name, b.timeTeller, int(b.config.NumPorts()))
	c.config = b.config
	c.layout = layout
	c.strategy = b.bindingStrategy

	b.buildLinearFabric(c)
	b.buildCrossbarFabric(c)

	err = checkSockets(c.numPorts, c.innerInitiator, c.innerTarget)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (b Builder) switchBuilder() switches.Builder {
	return switches.MakeBuilder().
		WithTimeTeller(b.timeTeller).
		WithFreq(b.config.Freq()).
		WithBusWidth(b.config.BuswidthInByte).
		WithRequestQueueSize(int(b.config.RequestQueueSize)).
		WithResponseQueueSize(int(b.config.ResponseQueueSize))
}

func (b Builder) buildLinearFabric(c *Comp) {
	numSwitches := int(b.config.NumberOfSwitches)
	numChannels := int(b.config.NumberOfVerticalConnections)
	numLinks := int(b.config.NumberOfBilateralConnections)

	mcBuilder := memcontroller.MakeBuilder().
		WithTimeTeller(b.timeTeller).
		WithFabricFreq(b.config.Freq()).
		WithFreq(b.config.MCFreq()).
		WithRequestQueueSize(int(b.config.RequestQueueSizeMC)).
		WithResponseQueueSize(int(b.config.ResponseQueueSizeMC))

	for i := 0; i < numSwitches; i++ {
		channels := c.layout.ChannelRanges(i)

		sw := b.switchBuilder().
			WithRoutingTable(routing.NewLinearTable(channels, numLinks)).
			Build(fmt.Sprintf("%s.Linear[%d]", c.Name(), i))
		c.linearSwitches = append(c.linearSwitches, sw)

		for j := 0; j < numChannels; j++ {
			mc := mcBuilder.
				WithAddressRange(channels[j]).
				Build(fmt.Sprintf("%s.MC[%d]", c.Name(), i*numChannels+j))
			c.memControllers = append(c.memControllers, mc)
		}
	}

	c.leftEnd = switches.NewEndCap(c.Name() + ".LeftEnd")
	c.rightEnd = switches.NewEndCap(c.Name() + ".RightEnd")

	b.bindLeftward(c, numLinks)
	b.bindRightward(c, numLinks)
	b.bindMemoryControllers(c, numChannels)
}

// bindLeftward gives every linear switch its initiator links 0 to B-1.
func (b Builder) bindLeftward(c *Comp, numLinks int) {
	last := len(c.linearSwitches) - 1

	transport.BindN(c.rightEnd.InitiatorSocket(),
		c.linearSwitches[last].TargetSocket(), numLinks)

	for i := last; i >= 0; i-- {
		left := c.leftEnd.TargetSocket()
		if i > 0 {
			left = c.linearSwitches[i-1].TargetSocket()
		}

		transport.BindN(c.linearSwitches[i].InitiatorSocket(), left, numLinks)
	}
}

// bindRightward gives every linear switch its initiator links B to 2B-1.
func (b Builder) bindRightward(c *Comp, numLinks int) {
	last := len(c.linearSwitches) - 1

	transport.BindN(c.leftEnd.InitiatorSocket(),
		c.linearSwitches[0].TargetSocket(), numLinks)

	for i := 0; i <= last; i++ {
		right := c.rightEnd.TargetSocket()
		if i < last {
			right = c.linearSwitches[i+1].TargetSocket()
		}

		transport.BindN(c.linearSwitches[i].InitiatorSocket(), right, numLinks)
	}
}

// bindMemoryControllers gives switch i its initiator links 2B to 2B+V-1 and
// links controller m to backend port m.
func (b Builder) bindMemoryControllers(c *Comp, numChannels int) {
	for m, mc := range c.memControllers {
		sw := c.linearSwitches[m/numChannels]
		transport.Bind(sw.InitiatorSocket(), mc.TargetSocket())
		transport.Bind(mc.InitiatorSocket(), c.innerTarget)
	}
}

func (b Builder) buildCrossbarFabric(c *Comp) {
	numNodes := int(b.config.NumCrossbarNodes())
	numSwitches := len(c.linearSwitches)

	for k := 0; k < numNodes; k++ {
		upstream := make([]int, config.CrossbarRadix)
		for j := range upstream {
			upstream[j] = b.bindingStrategy.Upstream(k, j, numSwitches)
		}

		node := b.switchBuilder().
			WithRoutingTable(
				routing.NewCrossbarTable(c.layout.CrossbarTable(), upstream)).
			Build(fmt.Sprintf("%s.Crossbar[%d]", c.Name(), k))
		c.crossbarSwitches = append(c.crossbarSwitches, node)

		for _, s := range upstream {
			transport.Bind(node.InitiatorSocket(),
				c.linearSwitches[s].TargetSocket())
		}

		transport.BindN(c.innerInitiator, node.TargetSocket(),
			config.CrossbarRadix)
	}
}

func (b Builder) timeTellerMustBeGiven() {
	if b.timeTeller == nil {
		panic("butterfly requires a time teller")
	}
}
