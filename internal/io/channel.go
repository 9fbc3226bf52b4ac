package io

import (
	"fmt"
	"strings"
)

// Channel addresses one quaternion component.
type Channel int

const (
	ChannelW Channel = iota
	ChannelX
	ChannelY
	ChannelZ
)

// channelPriority is the scan order used when routing samples to neurons.
var channelPriority = [...]Channel{ChannelW, ChannelX, ChannelY, ChannelZ}

func (c Channel) Valid() bool {
	return c >= ChannelW && c <= ChannelZ
}

func (c Channel) String() string {
	switch c {
	case ChannelW:
		return "w"
	case ChannelX:
		return "x"
	case ChannelY:
		return "y"
	case ChannelZ:
		return "z"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// RoutePolicy decides which bound neurons receive a sample each step.
type RoutePolicy int

const (
	// RouteFirstBound forwards only the first bound channel in w, x, y, z
	// order. At most one neuron is set per step.
	RouteFirstBound RoutePolicy = iota
	// RouteAllBound forwards every bound channel in w, x, y, z order.
	RouteAllBound
)

const (
	RouteFirstBoundName = "first_bound"
	RouteAllBoundName   = "all_bound"
)

func ParseRoutePolicy(name string) (RoutePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", RouteFirstBoundName:
		return RouteFirstBound, nil
	case RouteAllBoundName:
		return RouteAllBound, nil
	default:
		return RouteFirstBound, fmt.Errorf("unsupported route policy: %s", name)
	}
}

func (p RoutePolicy) String() string {
	switch p {
	case RouteFirstBound:
		return RouteFirstBoundName
	case RouteAllBound:
		return RouteAllBoundName
	default:
		return fmt.Sprintf("route_policy(%d)", int(p))
	}
}
