package random

import "unicode/utf16"

const djb2Offset uint32 = 5381

// HashSeed converts a string seed into a 32-bit key using DJB2a
// (h = h*33 ^ c). Characters are taken as UTF-16 code units so seeds hash
// identically to the browser version of the game.
func HashSeed(s string) uint32 {
	h := djb2Offset
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h * 33) ^ uint32(c)
	}
	return h
}
