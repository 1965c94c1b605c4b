package goqnet

import (
	"fmt"
	"io"
	"strings"
)

// NetworkStream is a stage of a network pipeline.  Ownership of each Network travels through Outlet.
type NetworkStream struct {
	Outlet chan Network
}

func NewNetworkStream() *NetworkStream {
	stream := &NetworkStream{
		Outlet: make(chan Network),
	}
	return stream
}

// StreamNetworks emits each of the given networks then closes.
func StreamNetworks(nets []Network) *NetworkStream {
	next := &NetworkStream{
		Outlet: make(chan Network, 1),
	}

	go func() {
		for _, net := range nets {
			next.Outlet <- net.Clone()
		}
		next.Close()
	}()

	return next
}

func (stream *NetworkStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *NetworkStream) PushNetwork(net Network) {
	stream.Outlet <- net.Clone()
}

func (stream *NetworkStream) PullNetwork() Network {
	net := <-stream.Outlet
	return net
}

// PullAll drains the stream and returns the number of networks pulled.
func (stream *NetworkStream) PullAll() int {
	count := int(0)
	for range stream.Outlet {
		count++
	}
	return count
}

// Collect drains the stream into a slice.
func (stream *NetworkStream) Collect() []Network {
	var nets []Network
	for net := range stream.Outlet {
		nets = append(nets, net)
	}
	return nets
}

// Print writes a CSV row for each network passing through and closes out when the stream ends.
func (stream *NetworkStream) Print(
	out io.WriteCloser,
	opts PrintOpts) *NetworkStream {

	next := &NetworkStream{
		Outlet: make(chan Network, 1),
	}

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for net := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
			}
			buf.WriteByte(',')

			count++
			fmt.Fprintf(&buf, "%06d,%d,%q", count, net.Depth(), net.String())
			if opts.Edges {
				buf.WriteString(",\"")
				for i, e := range net.Edges() {
					if i > 0 {
						buf.WriteByte(' ')
					}
					fmt.Fprintf(&buf, "%d%d", e[0], e[1])
				}
				buf.WriteByte('"')
			}
			buf.WriteByte('\n')
			out.Write([]byte(buf.String()))
			buf.Reset()
			next.Outlet <- net
		}
		out.Close()
		next.Close()
	}()

	return next
}

// AddTo passes on only the networks that target reports as newly added.
func (stream *NetworkStream) AddTo(target NetworkAdder, autoClose bool) *NetworkStream {
	next := &NetworkStream{
		Outlet: make(chan Network, 1),
	}

	go func() {
		for net := range stream.Outlet {
			if target.TryAddNetwork(net) {
				next.Outlet <- net
			}
		}
		if autoClose {
			target.Close()
		}
		next.Close()
	}()

	return next
}

// Select passes on only the networks for which keep returns true.
func (stream *NetworkStream) Select(keep func(net Network) bool) *NetworkStream {
	next := &NetworkStream{
		Outlet: make(chan Network, 1),
	}

	go func() {
		for net := range stream.Outlet {
			if keep(net) {
				next.Outlet <- net
			}
		}
		next.Close()
	}()

	return next
}

// Orbits replaces each network with every member of orbit(net).
func (stream *NetworkStream) Orbits(orbit func(net Network) []Network) *NetworkStream {
	next := &NetworkStream{
		Outlet: make(chan Network, 1),
	}

	go func() {
		for src := range stream.Outlet {
			for _, net := range orbit(src) {
				next.Outlet <- net
			}
		}
		next.Close()
	}()

	return next
}
