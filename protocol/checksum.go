package protocol

// ChecksumMask is the 16-bit mask used in checksum calculations.
const ChecksumMask = 0xFFFF

// calculatePacketChecksum computes the 16-bit two's-complement checksum of a
// frame prefix: (-sum(bytes)) mod 65536.
//
// Per AN213924 the checksum covers every byte from the start-of-packet marker
// through the last payload byte inclusive. It is a simple additive complement,
// not a CRC: it deterministically catches accidental corruption of a single
// region but offers no protection against arbitrary multi-byte errors. The
// device expects exactly this algorithm, so it must not be replaced with a
// stronger one.
func calculatePacketChecksum(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	return (ChecksumMask ^ sum) + 1
}
