package canard

// canDLCToLength maps a 4-bit CAN/CAN-FD DLC field to the number of data
// bytes it represents.
var canDLCToLength = [16]uint8{0, 1, 2, 3, 4, 5, 6, 7, 8, 12, 16, 20, 24, 32, 48, 64}

// canLengthToDLC maps a payload length in [0, 64] to the smallest DLC whose
// length is >= that length.
var canLengthToDLC = [65]uint8{
	0, 1, 2, 3, 4, 5, 6, 7, 8, // 0-8
	9, 9, 9, 9, // 9-12
	10, 10, 10, 10, // 13-16
	11, 11, 11, 11, // 17-20
	12, 12, 12, 12, // 21-24
	13, 13, 13, 13, 13, 13, 13, 13, // 25-32
	14, 14, 14, 14, 14, 14, 14, 14, 14, 14, 14, 14, 14, 14, 14, 14, // 33-48
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, // 49-64
}

// roundFrameLengthUp returns the smallest valid CAN/CAN-FD frame payload
// length that is >= x. x must not exceed 64.
func roundFrameLengthUp(x int) int {
	if x >= len(canLengthToDLC) {
		x = len(canLengthToDLC) - 1
	}
	return int(canDLCToLength[canLengthToDLC[x]])
}

// IsValidFrameLength reports whether n is one of the sixteen lengths a CAN
// or CAN-FD frame may carry (0..8, 12, 16, 20, 24, 32, 48, 64).
func IsValidFrameLength(n int) bool {
	return n >= 0 && n < len(canLengthToDLC) && roundFrameLengthUp(n) == n
}

// presentationLayerMTU rounds mtuBytes up to the next valid CAN frame
// length and subtracts the tail byte. Values below MTUCANClassic are
// coerced up to it; values above 64 are capped at 64.
func presentationLayerMTU(mtuBytes int) int {
	maxIdx := len(canLengthToDLC) - 1
	var mtu int
	switch {
	case mtuBytes < MTUCANClassic:
		mtu = MTUCANClassic
	case mtuBytes <= maxIdx:
		mtu = int(canDLCToLength[canLengthToDLC[mtuBytes]])
	default:
		mtu = int(canDLCToLength[canLengthToDLC[maxIdx]])
	}
	return mtu - 1
}
