package spatialmedia

import "math"

// AmbisonicType is the SA3D ambisonic_type field.
type AmbisonicType uint8

// ChannelOrdering is the SA3D ambisonic_channel_ordering field.
type ChannelOrdering uint8

// Normalization is the SA3D ambisonic_normalization field.
type Normalization uint8

// Only the values below are defined; unknown values have no name.
const (
	Periphonic AmbisonicType   = 0
	ACN        ChannelOrdering = 0
	SN3D       Normalization   = 0
)

// String returns the name of the type or an empty string if it is unknown.
func (t AmbisonicType) String() string {
	if t == Periphonic {
		return "periphonic"
	}
	return ""
}

// String returns the name of the ordering or an empty string if it is unknown.
func (o ChannelOrdering) String() string {
	if o == ACN {
		return "ACN"
	}
	return ""
}

// String returns the name of the normalization or an empty string if it is unknown.
func (n Normalization) String() string {
	if n == SN3D {
		return "SN3D"
	}
	return ""
}

// AmbisonicOrder returns floor(sqrt(channels)) - 1, or 0 for no channels.
func AmbisonicOrder(channels uint32) uint32 {
	root := uint32(math.Sqrt(float64(channels)))
	if root == 0 {
		return 0
	}
	return root - 1
}

// IsAmbisonicChannelCount reports whether channels equals (order+1)^2 for some order >= 1.
func IsAmbisonicChannelCount(channels uint32) bool {
	if channels < 4 { //nolint:mnd
		return false
	}
	root := uint32(math.Sqrt(float64(channels)))
	return root*root == channels
}
