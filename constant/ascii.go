package constant

import _ "embed"

// AsciiArtLogo is the banner shown on the root help screen.
//
//go:embed ascii.txt
var AsciiArtLogo string
