package frame

// Checksum computes the CRC-8 used by the node firmware: polynomial
// 0x31, initial value 0x00, MSB first, no reflection or final XOR.
func Checksum(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
