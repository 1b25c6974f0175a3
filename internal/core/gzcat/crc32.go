package gzcat

// crcPoly is the reflected IEEE CRC-32 polynomial
const crcPoly = 0xedb88320

// gf2MatrixTimes multiplies the GF(2) matrix mat by the bit vector vec
func gf2MatrixTimes(mat *[32]uint32, vec uint32) uint32 {
	var sum uint32
	for i := 0; vec != 0; vec >>= 1 {
		if vec&1 != 0 {
			sum ^= mat[i]
		}
		i++
	}
	return sum
}

// gf2MatrixSquare sets square to mat*mat
func gf2MatrixSquare(square, mat *[32]uint32) {
	for n := 0; n < 32; n++ {
		square[n] = gf2MatrixTimes(mat, mat[n])
	}
}

// CombineCRC32 returns the IEEE CRC-32 of the concatenation of two streams
// given crc1 over the first stream, crc2 over the second, and len2 the byte
// length of the second. This lets each stream be checksummed independently
// and the results merged without touching the bytes again.
//
// The zero-byte extension of crc1 is a linear operator over GF(2); we build
// its matrix for one zero byte, square it repeatedly, and apply the powers
// selected by the bits of len2.
func CombineCRC32(crc1, crc2 uint32, len2 int64) uint32 {
	if len2 <= 0 {
		return crc1
	}

	var even, odd [32]uint32

	// operator for one zero bit
	odd[0] = crcPoly
	row := uint32(1)
	for n := 1; n < 32; n++ {
		odd[n] = row
		row <<= 1
	}

	// square twice: one zero byte
	gf2MatrixSquare(&even, &odd)
	gf2MatrixSquare(&odd, &even)

	// apply len2 zero bytes to crc1, one squaring per bit
	for {
		gf2MatrixSquare(&even, &odd)
		if len2&1 != 0 {
			crc1 = gf2MatrixTimes(&even, crc1)
		}
		len2 >>= 1
		if len2 == 0 {
			break
		}

		gf2MatrixSquare(&odd, &even)
		if len2&1 != 0 {
			crc1 = gf2MatrixTimes(&odd, crc1)
		}
		len2 >>= 1
		if len2 == 0 {
			break
		}
	}

	return crc1 ^ crc2
}
