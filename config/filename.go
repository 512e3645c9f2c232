package config

import "unicode/utf8"

// Most file systems limit name to 255 bytes, leave room for extensions.
const maxFileNameBytes = 200

const badFileName = "_bad_file_name_"

func finishFileName(name string) string {
	if len(name) > maxFileNameBytes {
		cut := maxFileNameBytes
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	if len(name) == 0 {
		return badFileName
	}
	return name
}
