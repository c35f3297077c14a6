package hexconv

// Halfbyte maps a hex digit into its value. Non-hex characters are mapped to 0xFF.
var Halfbyte = func() (table [256]byte) {
	for i := range table {
		table[i] = 0xFF
	}

	for c := byte('0'); c <= '9'; c++ {
		table[c] = c - '0'
	}

	for c := byte('a'); c <= 'f'; c++ {
		table[c] = c - 'a' + 10
		table[c-'a'+'A'] = c - 'a' + 10
	}

	return table
}()

// Parse decodes a hexadecimal unsigned integer of at most maxDigits digits. False is
// returned if the input is empty, too long or contains a non-hex character.
func Parse(raw []byte, maxDigits int) (value uint64, ok bool) {
	if len(raw) == 0 || len(raw) > maxDigits || maxDigits > 16 {
		return 0, false
	}

	for _, char := range raw {
		half := Halfbyte[char]
		if half == 0xFF {
			return 0, false
		}

		value = value<<4 | uint64(half)
	}

	return value, true
}
