// Package spatialmedia describes spatial (ambisonic) audio metadata carried in
// ISO BMFF files by the SA3D box.
package spatialmedia

import (
	"fmt"
	"strings"
)

// AudioMetadata is the decoded content of one SA3D box.
type AudioMetadata struct {
	Version         uint8           // SA3D box version.
	Type            AmbisonicType   // Ambisonic signal type.
	Order           uint32          // Spherical harmonics order.
	ChannelOrdering ChannelOrdering // Channel numbering convention.
	Normalization   Normalization   // Channel normalization convention.
	ChannelMap      []uint32        // Output channel for every input channel.
}

// Channels returns the number of channels described by the channel map.
func (m AudioMetadata) Channels() int {
	return len(m.ChannelMap)
}

// String returns a single line summary such as
// "SN3D, ACN, periphonic, Order 1, 4 Channel(s), Channel Map: 0, 1, 2, 3".
func (m AudioMetadata) String() string {
	return fmt.Sprintf("%s, %s, %s, Order %d, %d Channel(s), Channel Map: %s",
		m.Normalization, m.ChannelOrdering, m.Type, m.Order, m.Channels(), ChannelMapString(m.ChannelMap))
}

// ChannelMapString joins a channel map with ", ".
func ChannelMapString(channelMap []uint32) string {
	parts := make([]string, len(channelMap))
	for i, v := range channelMap {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
