package rhash

// adler32Mod is the largest prime smaller than 2^16, per the Adler-32
// definition.
const adler32Mod = 65521

// Adler32Bytes computes the Adler-32 checksum of data. It is not used by
// the chunk hasher or the delta synthesizer (both use Jenkins32) and is
// kept only as a documented building block for a future rolling-hash
// synthesizer; see SPEC_FULL.md §5.
//
// Reference fingerprint: Adler32Bytes([]byte("Wikipedia")) == 0x11E60398
func Adler32Bytes(data []byte) uint32 {
	var a, b uint32 = 1, 0
	for _, c := range data {
		a = (a + uint32(c)) % adler32Mod
		b = (b + a) % adler32Mod
	}
	return (b << 16) + a
}
