// Package gossip implements the multi-node broadcast node. Values handed to
// any node are flooded to its neighbours, as assigned by the topology
// message, until every node in a connected cluster holds every value.
//
// Each gossip message carries the sender's full value snapshot and an
// "informed" set: the nodes already known to receive this wave. A node that
// receives gossip merges the values, adds its own neighbours to the informed
// set and forwards only to neighbours that were not already informed. A wave
// therefore stops once the informed set covers the reachable graph, instead
// of circulating forever around cycles.
//
// Typical usage:
//
//	rt := node.New(gossip.New(), node.NewEncoder(os.Stdout))
//	rt.Run(os.Stdin)
//
// Redelivery and reordering are harmless: merging is a set union and
// forwarding is bounded by the informed set, not by sequence numbers.
package gossip
